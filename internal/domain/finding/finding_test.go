package finding

import (
	"encoding/json"
	"errors"
	"testing"

	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{in: "High", want: SeverityHigh},
		{in: "high", want: SeverityHigh},
		{in: " INFO ", want: SeverityInfo},
		{in: "Medium", want: SeverityMedium},
		{in: "low", want: SeverityLow},
		{in: "", want: ""},
		{in: "Critical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domainErrors.ErrInvalidSeverity) {
					t.Fatalf("expected ErrInvalidSeverity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseSeverity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityInfo.Rank() < SeverityLow.Rank() &&
		SeverityLow.Rank() < SeverityMedium.Rank() &&
		SeverityMedium.Rank() < SeverityHigh.Rank()) {
		t.Fatalf("severity ranks out of order")
	}
	if Severity("").Rank() != 0 {
		t.Fatalf("unset severity should rank 0")
	}
}

func TestFindingUnmarshalWireFormat(t *testing.T) {
	raw := `{"Summary":"s","Description":"d","Severity":"high","URLs":[{"URL":null,"Extra":null}],"FurtherInfo":[{"URL":"http://x","Title":"X"}]}`

	var f Finding
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Severity != SeverityHigh {
		t.Errorf("expected normalized severity High, got %q", f.Severity)
	}
	if len(f.URLs) != 1 || f.URLs[0].URL != nil || f.URLs[0].Extra != nil {
		t.Errorf("expected one null URL entry, got %+v", f.URLs)
	}
	if len(f.FurtherInfo) != 1 || f.FurtherInfo[0].Title != "X" {
		t.Errorf("unexpected further info: %+v", f.FurtherInfo)
	}
}

func TestFindingUnmarshalRejectsUnknownSeverity(t *testing.T) {
	var f Finding
	err := json.Unmarshal([]byte(`{"Summary":"s","Severity":"Catastrophic"}`), &f)
	if !errors.Is(err, domainErrors.ErrInvalidSeverity) {
		t.Fatalf("expected ErrInvalidSeverity, got %v", err)
	}
}

func TestFindingMarshalKeepsNullURLs(t *testing.T) {
	f, err := New("s", "d", SeverityInfo, []URLRef{UnsetURL()}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Summary":"s","Description":"d","Severity":"Info","URLs":[{"URL":null,"Extra":null}],"FurtherInfo":null}`
	if string(data) != want {
		t.Fatalf("marshal = %s\nwant      %s", data, want)
	}
}

func TestNewCopiesSlices(t *testing.T) {
	refs := []Reference{{URL: "http://a", Title: "A"}}
	f, err := New("summary", "", SeverityLow, nil, refs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	refs[0].Title = "changed"
	if f.FurtherInfo[0].Title != "A" {
		t.Fatalf("finding shares caller slice: %+v", f.FurtherInfo)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(" ", "", SeverityInfo, nil, nil); !errors.Is(err, domainErrors.ErrEmptySummary) {
		t.Errorf("expected ErrEmptySummary, got %v", err)
	}
	if _, err := New("s", "", Severity("nope"), nil, nil); !errors.Is(err, domainErrors.ErrInvalidSeverity) {
		t.Errorf("expected ErrInvalidSeverity, got %v", err)
	}
}

func TestCountAndHighestSeverity(t *testing.T) {
	findings := []Finding{
		{Summary: "a", Severity: SeverityInfo},
		{Summary: "b", Severity: SeverityHigh},
		{Summary: "c", Severity: SeverityHigh},
	}
	counts := CountBySeverity(findings)
	if counts[SeverityHigh] != 2 || counts[SeverityInfo] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if got := HighestSeverity(findings); got != SeverityHigh {
		t.Fatalf("HighestSeverity = %q, want High", got)
	}
	if got := HighestSeverity(nil); got != "" {
		t.Fatalf("HighestSeverity(nil) = %q, want empty", got)
	}
}
