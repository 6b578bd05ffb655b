package finding

import (
	"encoding/json"
	"fmt"
	"strings"

	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

// Severity ranks how serious a finding is.
type Severity string

const (
	SeverityInfo   Severity = "Info"
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

var severities = []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh}

// ParseSeverity resolves a severity name case-insensitively.
// The empty string is accepted and means "unset".
func ParseSeverity(s string) (Severity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, sev := range severities {
		if strings.EqualFold(s, string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidSeverity, s)
}

// Rank orders severities from Info (1) to High (4); unset severities rank 0.
func (s Severity) Rank() int {
	for i, sev := range severities {
		if s == sev {
			return i + 1
		}
	}
	return 0
}

func (s Severity) String() string {
	return string(s)
}

// UnmarshalJSON normalizes casing and rejects unknown severities.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidSeverity, err)
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// URLRef points at the location a finding applies to. Both fields are optional
// and serialize as null when unset.
type URLRef struct {
	URL   *string `json:"URL" yaml:"url"`
	Extra *string `json:"Extra" yaml:"extra"`
}

// Reference links to further reading about a finding.
type Reference struct {
	URL   string `json:"URL" yaml:"url"`
	Title string `json:"Title" yaml:"title"`
}

// Finding is a single reported security observation. Findings are values:
// once built they are handed to a Reporter and never changed.
type Finding struct {
	Summary     string      `json:"Summary" yaml:"summary"`
	Description string      `json:"Description" yaml:"description"`
	Severity    Severity    `json:"Severity" yaml:"severity"`
	URLs        []URLRef    `json:"URLs" yaml:"urls"`
	FurtherInfo []Reference `json:"FurtherInfo" yaml:"further_info"`
}

// New builds a finding, copying the supplied slices so later changes by the
// caller cannot leak into the finding.
func New(summary, description string, severity Severity, urls []URLRef, furtherInfo []Reference) (Finding, error) {
	if strings.TrimSpace(summary) == "" {
		return Finding{}, domainErrors.ErrEmptySummary
	}
	if severity.Rank() == 0 {
		return Finding{}, fmt.Errorf("%w: %q", domainErrors.ErrInvalidSeverity, severity)
	}
	return Finding{
		Summary:     summary,
		Description: description,
		Severity:    severity,
		URLs:        append([]URLRef(nil), urls...),
		FurtherInfo: append([]Reference(nil), furtherInfo...),
	}, nil
}

// UnsetURL is the placeholder location used when a finding applies to the
// target as a whole.
func UnsetURL() URLRef {
	return URLRef{}
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(severities))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

// HighestSeverity returns the most severe finding level, or "" for no findings.
func HighestSeverity(findings []Finding) Severity {
	var highest Severity
	for _, f := range findings {
		if f.Severity.Rank() > highest.Rank() {
			highest = f.Severity
		}
	}
	return highest
}
