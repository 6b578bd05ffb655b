package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khanhnv2901/seca-setcookie/internal/checker"
	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

type telemetryRecord struct {
	Timestamp         time.Time `json:"timestamp"`
	Command           string    `json:"command"`
	BatchID           string    `json:"batch_id"`
	TargetCount       int       `json:"target_count"`
	FinishedCount     int       `json:"finished_count"`
	FailedCount       int       `json:"failed_count"`
	StoppedCount      int       `json:"stopped_count"`
	FindingCount      int       `json:"finding_count"`
	HighFindingCount  int       `json:"high_finding_count"`
	SuccessRate       float64   `json:"success_rate"`
	DurationSeconds   float64   `json:"duration_seconds"`
	AvgDurationPerRun float64   `json:"avg_duration_per_run"`
}

func buildTelemetryRecord(batchID string, command string, results []checker.RunResult, duration time.Duration) telemetryRecord {
	counts := checker.SummarizeStatuses(results)
	total := len(results)

	findings, high := 0, 0
	for _, r := range results {
		findings += len(r.Findings)
		high += finding.CountBySeverity(r.Findings)[finding.SeverityHigh]
	}

	successRate := 0.0
	avgDuration := 0.0
	if total > 0 {
		successRate = (float64(counts[finding.StatusFinished]) / float64(total)) * 100
		avgDuration = duration.Seconds() / float64(total)
	}

	return telemetryRecord{
		Timestamp:         time.Now().UTC(),
		Command:           command,
		BatchID:           batchID,
		TargetCount:       total,
		FinishedCount:     counts[finding.StatusFinished],
		FailedCount:       counts[finding.StatusFailed],
		StoppedCount:      counts[finding.StatusStopped],
		FindingCount:      findings,
		HighFindingCount:  high,
		SuccessRate:       successRate,
		DurationSeconds:   duration.Seconds(),
		AvgDurationPerRun: avgDuration,
	}
}

func recordTelemetry(appCtx *AppContext, batchID string, command string, results []checker.RunResult, duration time.Duration) error {
	record := buildTelemetryRecord(batchID, command, results, duration)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: telemetry: %v", domainErrors.ErrSerializationFailed, err)
	}

	telemetryPath := filepath.Join(appCtx.ResultsDir, "telemetry.jsonl")
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}
