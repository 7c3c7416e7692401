package document

import (
	"errors"
	"testing"
)

func TestExtractConcatenation(t *testing.T) {
	path := writeDoc(t, workedExample)
	got, err := Extract(path, `.netconf.ipaddr + "/" + .netconf.cidr`)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "10.0.0.5/24" {
		t.Fatalf("Extract = %q, want %q", got, "10.0.0.5/24")
	}
}

func TestExtractNestedField(t *testing.T) {
	path := writeDoc(t, workedExample)
	got, err := Extract(path, ".mounts[1].dev")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "/dev/vdb" {
		t.Fatalf("Extract = %q, want %q", got, "/dev/vdb")
	}
}

func TestExtractCount(t *testing.T) {
	path := writeDoc(t, workedExample)
	got, err := Extract(path, ".mounts | length")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "2" {
		t.Fatalf("Extract = %q, want %q", got, "2")
	}
}

// An empty string that evaluates successfully is a result, not a failure.
func TestExtractEmptyStringIsNotError(t *testing.T) {
	path := writeDoc(t, `{"netconf":{"gateway":""}}`)
	got, err := Extract(path, ".netconf.gateway")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "" {
		t.Fatalf("Extract = %q, want empty string", got)
	}
}

func TestExtractAbsentField(t *testing.T) {
	path := writeDoc(t, `{"netconf":{"ipaddr":"10.0.0.5"}}`)
	_, err := Extract(path, ".netconf.gateway")

	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Extract = %v, want *ExtractionError", err)
	}
}

func TestExtractConcatWithAbsentField(t *testing.T) {
	path := writeDoc(t, `{"netconf":{"cidr":"24"}}`)
	_, err := Extract(path, `.netconf.ipaddr + "/" + .netconf.cidr`)

	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Extract = %v, want *ExtractionError", err)
	}
}

func TestExtractBadExpression(t *testing.T) {
	path := writeDoc(t, workedExample)
	_, err := Extract(path, ".netconf.[")

	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Extract = %v, want *ExtractionError", err)
	}
}

func TestExtractMalformedDocument(t *testing.T) {
	path := writeDoc(t, `{"netconf": {`)
	_, err := Extract(path, ".netconf")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Extract = %v, want *ValidationError", err)
	}
}
