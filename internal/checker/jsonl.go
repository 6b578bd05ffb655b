package checker

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

// SkippedLine is a non-empty output line that did not decode as a finding.
type SkippedLine struct {
	Number int // 1-based line number in the raw output
	Text   string
	Err    error
}

// LineParseResult is the outcome of parsing scanner output.
type LineParseResult struct {
	Findings []finding.Finding
	Skipped  []SkippedLine
}

// ParseFindingLines decodes newline-delimited finding objects. Lines that are
// not a JSON object of finding shape are skipped and recorded; blank lines are
// ignored. It never fails.
func ParseFindingLines(raw []byte) LineParseResult {
	var result LineParseResult
	for i, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		f, err := ParseFindingLine(line)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedLine{Number: i + 1, Text: string(line), Err: err})
			continue
		}
		result.Findings = append(result.Findings, f)
	}
	return result
}

// ParseFindingLine decodes a single JSON finding object.
func ParseFindingLine(line []byte) (finding.Finding, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return finding.Finding{}, fmt.Errorf("%w: not a JSON object", domainErrors.ErrMalformedFinding)
	}
	var f finding.Finding
	if err := json.Unmarshal(line, &f); err != nil {
		return finding.Finding{}, fmt.Errorf("%w: %v", domainErrors.ErrMalformedFinding, err)
	}
	return f, nil
}
