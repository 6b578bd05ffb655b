package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/khanhnv2901/seca-setcookie/internal/checker"
	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

// RunMetadata describes one CLI invocation over a set of targets.
type RunMetadata struct {
	BatchID      string                 `json:"batch_id" yaml:"batch_id"`
	Plugin       string                 `json:"plugin" yaml:"plugin"`
	StartAt      time.Time              `json:"started_at" yaml:"started_at"`
	CompleteAt   time.Time              `json:"completed_at" yaml:"completed_at"`
	TotalTargets int                    `json:"total_targets" yaml:"total_targets"`
	StatusCounts map[finding.Status]int `json:"status_counts" yaml:"status_counts"`
}

type RunOutput struct {
	Metadata RunMetadata         `json:"metadata" yaml:"metadata"`
	Results  []checker.RunResult `json:"results" yaml:"results"`
}

// yamlResult mirrors checker.RunResult with yaml field names.
type yamlResult struct {
	RunID      string            `yaml:"run_id"`
	Plugin     string            `yaml:"plugin"`
	Target     string            `yaml:"target"`
	StartedAt  time.Time         `yaml:"started_at"`
	Status     string            `yaml:"status"`
	DurationMS float64           `yaml:"duration_ms"`
	Error      string            `yaml:"error,omitempty"`
	Findings   []finding.Finding `yaml:"findings"`
}

func renderOutput(w io.Writer, format string, output RunOutput) error {
	switch strings.ToLower(format) {
	case "", "text":
		return renderText(w, output.Results)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	case "jsonl":
		// scanner wire format: one finding per line, nothing else
		lines := checker.NewLineReporter(w)
		for _, r := range output.Results {
			lines.ReportIssues(r.Findings)
		}
		return lines.Err()
	case "yaml":
		return renderYAML(w, output)
	}
	return validateFormat(format)
}

func renderText(w io.Writer, results []checker.RunResult) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s %s %s (%d finding(s), %.0fms)\n",
			colorInfo("["+r.Plugin+"]"), r.Target, formatStatusWithColor(r.Status.String()), len(r.Findings), r.DurationMS); err != nil {
			return err
		}
		for _, f := range r.Findings {
			if _, err := fmt.Fprintf(w, "  [%s] %s\n", formatSeverityWithColor(f.Severity.String()), f.Summary); err != nil {
				return err
			}
			if f.Description != "" {
				if _, err := fmt.Fprintf(w, "      %s\n", f.Description); err != nil {
					return err
				}
			}
			for _, ref := range f.FurtherInfo {
				if _, err := fmt.Fprintf(w, "      see: %s (%s)\n", ref.Title, ref.URL); err != nil {
					return err
				}
			}
		}
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, "  %s %s\n", colorError("error:"), r.Error); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderYAML(w io.Writer, output RunOutput) error {
	doc := struct {
		Metadata RunMetadata  `yaml:"metadata"`
		Results  []yamlResult `yaml:"results"`
	}{Metadata: output.Metadata}
	for _, r := range output.Results {
		doc.Results = append(doc.Results, yamlResult{
			RunID:      r.RunID,
			Plugin:     r.Plugin,
			Target:     r.Target,
			StartedAt:  r.StartedAt,
			Status:     r.Status.String(),
			DurationMS: r.DurationMS,
			Error:      r.Error,
			Findings:   r.Findings,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// writeResults stores the run output as results/<batch-id>/<filename>.
func writeResults(appCtx *AppContext, output RunOutput, filename string) (string, error) {
	if _, err := ensureResultsDir(appCtx.ResultsDir, output.Metadata.BatchID); err != nil {
		return "", err
	}
	path, err := resolveResultsPath(appCtx.ResultsDir, output.Metadata.BatchID, filename)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: results: %v", domainErrors.ErrSerializationFailed, err)
	}
	if err := os.WriteFile(path, data, consts.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}
