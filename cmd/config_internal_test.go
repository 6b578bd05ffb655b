package cmd

import (
	"errors"
	"syscall"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// isolateConfig restores cliConfig, flag state and viper after the test.
func isolateConfig(t *testing.T) {
	t.Helper()

	saved := *cliConfig
	saved.Scanner.SearchPath = append([]string(nil), cliConfig.Scanner.SearchPath...)
	saved.Scanner.Env = make(map[string]string, len(cliConfig.Scanner.Env))
	for k, v := range cliConfig.Scanner.Env {
		saved.Scanner.Env[k] = v
	}

	t.Cleanup(func() {
		*cliConfig = saved
		for _, fs := range []*pflag.FlagSet{checkCmd.PersistentFlags(), checkSetCookieCmd.Flags(), checkScannerCmd.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
		viper.Reset()
	})
}

func TestApplyConfigDefaults_UsesConfigWhenFlagUnset(t *testing.T) {
	isolateConfig(t)

	viper.Set("defaults.timeout_secs", 42)
	viper.Set("defaults.telemetry", true)
	viper.Set("check.concurrency", 5)
	viper.Set("check.fold_case", true)
	viper.Set("check.format", "yaml")
	viper.Set("scanner.program", "/opt/bin/custom_scanner")
	viper.Set("scanner.search_path", []string{"/opt/scanners"})
	viper.Set("scanner.stop_signal", "SIGTERM")
	viper.Set("scanner.env", map[string]string{"setcookie_debug": "1"})

	applyConfigDefaults(rootCmd)

	if cliConfig.Check.TimeoutSecs != 42 || cliConfig.Defaults.TimeoutSecs != 42 {
		t.Errorf("timeout not applied: %+v", cliConfig.Check)
	}
	if !cliConfig.Check.TelemetryEnabled {
		t.Errorf("telemetry default not applied")
	}
	if cliConfig.Check.Concurrency != 5 {
		t.Errorf("expected concurrency 5, got %d", cliConfig.Check.Concurrency)
	}
	if !cliConfig.Check.FoldCase {
		t.Errorf("fold_case default not applied")
	}
	if cliConfig.Check.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cliConfig.Check.Format)
	}
	if cliConfig.Scanner.Program != "/opt/bin/custom_scanner" {
		t.Errorf("unexpected program %s", cliConfig.Scanner.Program)
	}
	if len(cliConfig.Scanner.SearchPath) != 1 || cliConfig.Scanner.SearchPath[0] != "/opt/scanners" {
		t.Errorf("unexpected search path %v", cliConfig.Scanner.SearchPath)
	}
	if cliConfig.Scanner.StopSignal != "SIGTERM" {
		t.Errorf("unexpected stop signal %s", cliConfig.Scanner.StopSignal)
	}
	if cliConfig.Scanner.Env["SETCOOKIE_DEBUG"] != "1" {
		t.Errorf("scanner env keys should be upper-cased: %v", cliConfig.Scanner.Env)
	}
}

func TestApplyConfigDefaults_ExplicitFlagWins(t *testing.T) {
	isolateConfig(t)

	if err := checkCmd.PersistentFlags().Set("rate", "3"); err != nil {
		t.Fatalf("set rate flag: %v", err)
	}
	if err := checkScannerCmd.Flags().Set("stop-signal", "SIGINT"); err != nil {
		t.Fatalf("set stop-signal flag: %v", err)
	}
	viper.Set("check.rate", 9)
	viper.Set("scanner.stop_signal", "SIGTERM")

	applyConfigDefaults(rootCmd)

	if cliConfig.Check.RateLimit != 3 {
		t.Errorf("explicit --rate should win, got %d", cliConfig.Check.RateLimit)
	}
	if cliConfig.Scanner.StopSignal != "SIGINT" {
		t.Errorf("explicit --stop-signal should win, got %s", cliConfig.Scanner.StopSignal)
	}
}

func TestParseStopSignal(t *testing.T) {
	tests := []struct {
		in   string
		want syscall.Signal
	}{
		{in: "", want: syscall.SIGKILL},
		{in: "SIGKILL", want: syscall.SIGKILL},
		{in: "term", want: syscall.SIGTERM},
		{in: " sigint ", want: syscall.SIGINT},
		{in: "HUP", want: syscall.SIGHUP},
		{in: "15", want: syscall.Signal(15)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStopSignal(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseStopSignal(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseStopSignal_Unknown(t *testing.T) {
	for _, in := range []string{"SIGNOPE", "-1", "0"} {
		_, err := parseStopSignal(in)
		var sigErr *InvalidSignalError
		if !errors.As(err, &sigErr) {
			t.Errorf("%q: expected InvalidSignalError, got %v", in, err)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"text", "JSON", "jsonl", "yaml"} {
		if err := validateFormat(f); err != nil {
			t.Errorf("%s: unexpected error: %v", f, err)
		}
	}
	if err := validateFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
