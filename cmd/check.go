package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/khanhnv2901/seca-setcookie/internal/checker"
	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	"github.com/khanhnv2901/seca-setcookie/internal/metrics"
	"github.com/khanhnv2901/seca-setcookie/internal/shared/security"
)

type checkConfig struct {
	CreatePlugin    func(appCtx *AppContext) (checker.Plugin, error)
	ResultsFilename string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run Set-Cookie checks against authorized targets (no scanning/exploitation)",
}

var checkSetCookieCmd = &cobra.Command{
	Use:   "setcookie <target> [target...]",
	Short: "Fetch each target once and check Set-Cookie for secure and HttpOnly",
	Long: `Issue a single GET per target and inspect the Set-Cookie response header.

Reports:
- Info when the site sends no Set-Cookie header
- High when the secure attribute is missing
- High when the HttpOnly attribute is missing
- Info when both attributes are present

Attribute names are matched exactly ("secure", "HttpOnly") unless --fold-case is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckCommand(cmd, args, checkConfig{
			CreatePlugin:    newSetCookiePlugin,
			ResultsFilename: "setcookie_results.json",
		})
	},
}

var checkScannerCmd = &cobra.Command{
	Use:   "scanner <target> [target...]",
	Short: "Run the external setcookie_scanner program and collect its findings",
	Long: `Locate the scanner program (default "setcookie_scanner") on the configured
search path or $PATH, run it once per target with the target as its only
argument, and report every JSON finding line it prints on stdout.

Non-JSON output lines are logged and skipped. A non-zero exit marks the target
FAILED. Interrupting the command stops running scanners with --stop-signal and
marks them STOPPED.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckCommand(cmd, args, checkConfig{
			CreatePlugin:    newScannerPlugin,
			ResultsFilename: "scanner_results.json",
		})
	},
}

func newSetCookiePlugin(appCtx *AppContext) (checker.Plugin, error) {
	runtimeCfg := appCtx.Config.Check
	return &checker.SetCookieChecker{
		Timeout:  time.Duration(runtimeCfg.TimeoutSecs) * time.Second,
		FoldCase: runtimeCfg.FoldCase,
		Logger:   appCtx.Logger.Desugar(),
	}, nil
}

func newScannerPlugin(appCtx *AppContext) (checker.Plugin, error) {
	scannerCfg := appCtx.Config.Scanner
	stopSignal, err := parseStopSignal(scannerCfg.StopSignal)
	if err != nil {
		return nil, err
	}
	return checker.NewExternalScanner(checker.ExternalScannerConfig{
		Program:    scannerCfg.Program,
		SearchPath: scannerCfg.SearchPath,
		Env:        scannerCfg.Env,
		StopSignal: stopSignal,
	}, checker.WithLogger(appCtx.Logger.Desugar())), nil
}

func runCheckCommand(cmd *cobra.Command, args []string, config checkConfig) error {
	// Get application context
	appCtx := getAppContext(cmd)
	runtimeCfg := appCtx.Config.Check

	if err := validateFormat(runtimeCfg.Format); err != nil {
		return err
	}
	if runtimeCfg.MetricsFile != "" {
		if err := security.CheckOutputPath(runtimeCfg.MetricsFile); err != nil {
			return err
		}
	}

	targets := normalizeTargets(args)
	if len(targets) == 0 {
		return fmt.Errorf("at least one non-empty target is required")
	}

	plugin, err := config.CreatePlugin(appCtx)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "\n%s Received %s, stopping...\n", colorWarn("!"), sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	recorder := metrics.NewRecorder()
	auditFn := func(result checker.RunResult) error {
		recorder.Observe(result)
		appCtx.Logger.Infow("target complete",
			"run_id", result.RunID,
			"plugin", result.Plugin,
			"target", result.Target,
			"status", result.Status,
			"findings", len(result.Findings),
			"duration_ms", result.DurationMS,
		)
		return nil
	}

	var progress *progressPrinter
	if runtimeCfg.ProgressEnabled {
		progress = newProgressPrinter(cmd.ErrOrStderr(), len(targets), plugin.Name())
		progress.Start()
		orig := auditFn
		auditFn = func(result checker.RunResult) error {
			if err := orig(result); err != nil {
				return err
			}
			progress.Increment(result.Status, result.DurationMS/1000)
			return nil
		}
	}

	// Create runner
	runner := &checker.Runner{
		Concurrency: runtimeCfg.Concurrency,
		RateLimit:   runtimeCfg.RateLimit,
	}

	startAll := time.Now()
	results := runner.RunPlugin(ctx, targets, plugin, auditFn)

	if progress != nil {
		progress.Stop()
	}

	output := RunOutput{
		Metadata: RunMetadata{
			BatchID:      uuid.NewString(),
			Plugin:       plugin.Name(),
			StartAt:      startAll.UTC(),
			CompleteAt:   time.Now().UTC(),
			TotalTargets: len(targets),
			StatusCounts: checker.SummarizeStatuses(results),
		},
		Results: results,
	}

	if err := renderOutput(cmd.OutOrStdout(), runtimeCfg.Format, output); err != nil {
		return fmt.Errorf("render results: %w", err)
	}

	if runtimeCfg.SaveResults && appCtx.ResultsDir != "" {
		path, err := writeResults(appCtx, output, config.ResultsFilename)
		if err != nil {
			return err
		}
		appCtx.Logger.Infow("results written", "path", path)
	}

	if runtimeCfg.TelemetryEnabled && appCtx.ResultsDir != "" {
		if err := recordTelemetry(appCtx, output.Metadata.BatchID, cmd.CommandPath(), results, time.Since(startAll)); err != nil {
			appCtx.Logger.Warnw("failed to record telemetry", "error", err)
		}
	}

	if runtimeCfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(runtimeCfg.MetricsFile); err != nil {
			appCtx.Logger.Warnw("failed to write metrics", "error", err)
		}
	}

	counts := output.Metadata.StatusCounts
	if counts[finding.StatusFailed] > 0 || counts[finding.StatusStopped] > 0 {
		return &RunFailedError{
			Failed:  counts[finding.StatusFailed],
			Stopped: counts[finding.StatusStopped],
			Total:   len(results),
		}
	}
	return nil
}

// normalizeTargets trims and de-duplicates targets, keeping first-seen order.
func normalizeTargets(args []string) []string {
	trimmed := lo.Map(args, func(t string, _ int) string { return strings.TrimSpace(t) })
	return lo.Uniq(lo.Compact(trimmed))
}

func addCommonCheckFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&cliConfig.Check.SaveResults, "save", cliConfig.Check.SaveResults, "Write results to the results directory")
}

func init() {
	// Global check flags (apply to all subcommands)
	checkCmd.PersistentFlags().IntVarP(&cliConfig.Check.Concurrency, "concurrency", "c", cliConfig.Check.Concurrency, "max concurrent targets")
	checkCmd.PersistentFlags().IntVarP(&cliConfig.Check.RateLimit, "rate", "r", cliConfig.Check.RateLimit, "targets started per second (global, 0 = unlimited)")
	checkCmd.PersistentFlags().BoolVar(&cliConfig.Check.TelemetryEnabled, "telemetry", cliConfig.Check.TelemetryEnabled, "Record telemetry metrics (durations, status counts)")
	checkCmd.PersistentFlags().BoolVar(&cliConfig.Check.ProgressEnabled, "progress", cliConfig.Check.ProgressEnabled, "Display live progress for multi-target runs")
	checkCmd.PersistentFlags().StringVarP(&cliConfig.Check.Format, "format", "f", cliConfig.Check.Format, "Output format (text|json|jsonl|yaml)")
	checkCmd.PersistentFlags().StringVar(&cliConfig.Check.MetricsFile, "metrics-file", cliConfig.Check.MetricsFile, "Write Prometheus metrics to this textfile after the run")

	// Set-Cookie specific flags
	addCommonCheckFlags(checkSetCookieCmd)
	checkSetCookieCmd.Flags().IntVarP(&cliConfig.Check.TimeoutSecs, "timeout", "t", cliConfig.Check.TimeoutSecs, "request timeout in seconds")
	checkSetCookieCmd.Flags().BoolVar(&cliConfig.Check.FoldCase, "fold-case", cliConfig.Check.FoldCase, "Match secure/HttpOnly case-insensitively (default: exact match)")

	// Scanner specific flags
	addCommonCheckFlags(checkScannerCmd)
	checkScannerCmd.Flags().StringVar(&cliConfig.Scanner.Program, "program", cliConfig.Scanner.Program, "Scanner program name or path")
	checkScannerCmd.Flags().StringSliceVar(&cliConfig.Scanner.SearchPath, "search-path", cliConfig.Scanner.SearchPath, "Directories searched for the scanner program (default: $PATH)")
	checkScannerCmd.Flags().StringVar(&cliConfig.Scanner.StopSignal, "stop-signal", cliConfig.Scanner.StopSignal, "Signal sent to the scanner when the run is interrupted")
	checkScannerCmd.Flags().StringToStringVar(&cliConfig.Scanner.Env, "env", cliConfig.Scanner.Env, "Extra KEY=VALUE environment for the scanner")

	checkCmd.AddCommand(checkSetCookieCmd)
	checkCmd.AddCommand(checkScannerCmd)
}
