package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// ExtractionError reports a query expression that failed to evaluate. A
// query that evaluates to the empty string is not an extraction failure;
// one that produces no value, a null, or an evaluation error is.
type ExtractionError struct {
	Expr string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %q: %v", e.Expr, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract evaluates a jq query expression against the document at path and
// returns the first result rendered as a string. The expression language
// composes nested field access with string concatenation, e.g.
// `.netconf.ipaddr + "/" + .netconf.cidr`.
func Extract(path, expr string) (string, error) {
	doc, err := parse(path)
	if err != nil {
		return "", err
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return "", &ExtractionError{Expr: expr, Err: err}
	}

	iter := query.Run(doc)
	v, ok := iter.Next()
	if !ok {
		return "", &ExtractionError{Expr: expr, Err: errors.New("no output")}
	}
	if evalErr, isErr := v.(error); isErr {
		return "", &ExtractionError{Expr: expr, Err: evalErr}
	}
	if v == nil {
		return "", &ExtractionError{Expr: expr, Err: errors.New("null result")}
	}

	if s, isStr := v.(string); isStr {
		return s, nil
	}
	// Non-string scalars (counts, booleans) render the way `jq -r` prints
	// them.
	rendered, err := json.Marshal(v)
	if err != nil {
		return "", &ExtractionError{Expr: expr, Err: err}
	}
	return string(rendered), nil
}
