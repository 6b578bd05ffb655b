package checker

import (
	"errors"
	"testing"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

func TestParseFindingLines(t *testing.T) {
	raw := []byte("{\"Summary\":\"x\"}\nnot json\n{\"Summary\":\"y\"}\n")

	result := ParseFindingLines(raw)
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(result.Findings))
	}
	if result.Findings[0].Summary != "x" || result.Findings[1].Summary != "y" {
		t.Errorf("findings out of order: %+v", result.Findings)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped line, got %d", len(result.Skipped))
	}
	skipped := result.Skipped[0]
	if skipped.Number != 2 || skipped.Text != "not json" {
		t.Errorf("unexpected skipped line: %+v", skipped)
	}
	if !errors.Is(skipped.Err, domainErrors.ErrMalformedFinding) {
		t.Errorf("expected ErrMalformedFinding, got %v", skipped.Err)
	}
}

func TestParseFindingLines_BlankLinesIgnored(t *testing.T) {
	result := ParseFindingLines([]byte("\n  \r\n{\"Summary\":\"a\"}\r\n\n"))
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if len(result.Skipped) != 0 {
		t.Errorf("blank lines should not be skipped entries: %+v", result.Skipped)
	}
}

func TestParseFindingLines_Empty(t *testing.T) {
	result := ParseFindingLines(nil)
	if len(result.Findings) != 0 || len(result.Skipped) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestParseFindingLines_SkipsNonObjects(t *testing.T) {
	raw := []byte("[1,2]\n\"text\"\n42\n{\"Summary\":\"ok\",\"Severity\":\"Bogus\"}\n{\"Summary\":\"ok\",\"Severity\":\"medium\"}")

	result := ParseFindingLines(raw)
	if len(result.Skipped) != 4 {
		t.Fatalf("expected 4 skipped lines, got %d: %+v", len(result.Skipped), result.Skipped)
	}
	if len(result.Findings) != 1 || result.Findings[0].Severity != finding.SeverityMedium {
		t.Fatalf("expected one Medium finding, got %+v", result.Findings)
	}
}

func TestParseFindingLine_FullFinding(t *testing.T) {
	line := []byte(`{"Summary":"s","Description":"d","Severity":"High","URLs":[{"URL":"http://a","Extra":null}],"FurtherInfo":[{"URL":"http://b","Title":"B"}]}`)

	f, err := ParseFindingLine(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.URLs[0].URL == nil || *f.URLs[0].URL != "http://a" || f.URLs[0].Extra != nil {
		t.Errorf("unexpected URLs: %+v", f.URLs)
	}
	if f.FurtherInfo[0].Title != "B" {
		t.Errorf("unexpected further info: %+v", f.FurtherInfo)
	}
}
