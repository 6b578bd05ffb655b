package checker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
)

// Plugin is the interface both cookie plugins satisfy. A host constructs the
// plugin with its configuration and hands it an output sink per invocation.
type Plugin interface {
	// Run inspects a single target, reporting findings and one terminal status to r
	Run(ctx context.Context, target string, r Reporter) error

	// Name returns the plugin name (e.g., "SetCookie", "SetCookieScanner")
	Name() string
}

// RunResult represents the outcome of one plugin invocation against one target
type RunResult struct {
	RunID      string            `json:"run_id"`
	Plugin     string            `json:"plugin"`
	Target     string            `json:"target"`
	StartedAt  time.Time         `json:"started_at"`
	Status     finding.Status    `json:"status"`
	Findings   []finding.Finding `json:"findings"`
	DurationMS float64           `json:"duration_ms"`
	Error      string            `json:"error,omitempty"`
}

// AuditFunc is a callback invoked once per completed target
type AuditFunc func(result RunResult) error

// Runner orchestrates plugin invocations over several targets with
// concurrency and rate limiting. Each target gets its own sink.
type Runner struct {
	Concurrency int           // Maximum number of concurrent invocations
	RateLimit   int           // Invocations per second (global); 0 disables the limit
	Timeout     time.Duration // Per-invocation timeout; 0 means none
}

// RunPlugin executes plugin against targets using a worker pool. Results keep
// the order of targets.
func (r *Runner) RunPlugin(ctx context.Context, targets []string, plugin Plugin, auditFn AuditFunc) []RunResult {
	limit := rate.Inf
	burst := 1
	if r.RateLimit > 0 {
		limit = rate.Limit(r.RateLimit)
		burst = r.RateLimit
	}
	limiter := rate.NewLimiter(limit, burst)

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// Worker pool
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]RunResult, len(targets))

	for i, target := range targets {
		wg.Add(1)
		go func(i int, t string) {
			defer wg.Done()

			// Acquire semaphore
			sem <- struct{}{}
			defer func() { <-sem }()

			result := r.runOne(ctx, limiter, t, plugin)

			// Call audit function if provided
			if auditFn != nil {
				_ = auditFn(result)
			}

			results[i] = result
		}(i, target)
	}

	wg.Wait()
	return results
}

func (r *Runner) runOne(ctx context.Context, limiter *rate.Limiter, target string, plugin Plugin) RunResult {
	result := RunResult{
		RunID:     uuid.NewString(),
		Plugin:    plugin.Name(),
		Target:    target,
		StartedAt: time.Now().UTC(),
	}

	// Wait for rate limiter; a cancelled host never starts the plugin
	if err := limiter.Wait(ctx); err != nil {
		result.Status = finding.StatusStopped
		result.Error = err.Error()
		return result
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	collector := NewCollector()
	err := plugin.Run(runCtx, target, collector)
	result.DurationMS = float64(time.Since(start).Microseconds()) / 1000

	result.Findings = collector.Findings()
	status, finished := collector.Status()
	switch {
	case finished:
		result.Status = status
	case err != nil && errors.Is(err, context.Canceled):
		result.Status = finding.StatusStopped
	case err != nil:
		result.Status = finding.StatusFailed
	default:
		result.Status = finding.StatusFinished
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// SummarizeStatuses counts results per terminal status.
func SummarizeStatuses(results []RunResult) map[finding.Status]int {
	counts := make(map[finding.Status]int, 3)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
