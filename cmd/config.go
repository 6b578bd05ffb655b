package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
)

const (
	defaultHTTPTimeoutSeconds = 10
	defaultOutputFormat       = "text"
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Check    CheckRuntimeConfig
	Scanner  ScannerConfig
}

// DefaultValues represent operator-level defaults, typically derived from env/config.
type DefaultValues struct {
	TimeoutSecs      int
	TelemetryEnabled bool
}

// CheckRuntimeConfig consolidates flag-driven settings for check commands.
type CheckRuntimeConfig struct {
	Concurrency      int
	RateLimit        int
	TimeoutSecs      int
	FoldCase         bool
	TelemetryEnabled bool
	ProgressEnabled  bool
	SaveResults      bool
	Format           string
	MetricsFile      string
}

// ScannerConfig describes how the external scanner program is found and run.
type ScannerConfig struct {
	Program    string
	SearchPath []string
	StopSignal string
	Env        map[string]string
}

type defaultOverrides struct {
	TimeoutSecs      *int
	TelemetryEnabled *bool
	Concurrency      *int
	RateLimit        *int
	FoldCase         *bool
	Format           string
	MetricsFile      string
	Program          string
	SearchPath       []string
	StopSignal       string
	Env              map[string]string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			TimeoutSecs:      defaultHTTPTimeoutSeconds,
			TelemetryEnabled: false,
		},
		Check: CheckRuntimeConfig{
			Concurrency:      1,
			RateLimit:        1,
			TimeoutSecs:      defaultHTTPTimeoutSeconds,
			FoldCase:         false,
			TelemetryEnabled: false,
			SaveResults:      true,
			Format:           defaultOutputFormat,
		},
		Scanner: ScannerConfig{
			Program:    consts.DefaultScannerProgram,
			SearchPath: nil,
			StopSignal: "SIGKILL",
			Env:        map[string]string{},
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.telemetry") {
		val := viper.GetBool("defaults.telemetry")
		overrides.TelemetryEnabled = &val
	}

	if viper.IsSet("check.concurrency") {
		val := viper.GetInt("check.concurrency")
		overrides.Concurrency = &val
	}

	if viper.IsSet("check.rate") {
		val := viper.GetInt("check.rate")
		overrides.RateLimit = &val
	}

	if viper.IsSet("check.fold_case") {
		val := viper.GetBool("check.fold_case")
		overrides.FoldCase = &val
	}

	overrides.Format = viper.GetString("check.format")
	overrides.MetricsFile = viper.GetString("check.metrics_file")
	overrides.Program = viper.GetString("scanner.program")
	overrides.SearchPath = viper.GetStringSlice("scanner.search_path")
	overrides.StopSignal = viper.GetString("scanner.stop_signal")
	overrides.Env = viper.GetStringMapString("scanner.env")

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()
	checkFlags := checkCmd.PersistentFlags()

	if overrides.TimeoutSecs != nil {
		applyIntDefault(checkSetCookieCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Defaults.TimeoutSecs = v
			cliConfig.Check.TimeoutSecs = v
		})
	}

	if overrides.TelemetryEnabled != nil {
		applyBoolDefault(checkFlags, "telemetry", *overrides.TelemetryEnabled, func(v bool) {
			cliConfig.Defaults.TelemetryEnabled = v
			cliConfig.Check.TelemetryEnabled = v
		})
	}

	if overrides.Concurrency != nil {
		applyIntDefault(checkFlags, "concurrency", *overrides.Concurrency, func(v int) {
			cliConfig.Check.Concurrency = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(checkFlags, "rate", *overrides.RateLimit, func(v int) {
			cliConfig.Check.RateLimit = v
		})
	}

	if overrides.FoldCase != nil {
		applyBoolDefault(checkSetCookieCmd.Flags(), "fold-case", *overrides.FoldCase, func(v bool) {
			cliConfig.Check.FoldCase = v
		})
	}

	if overrides.Format != "" {
		setStringFlagIfUnset(checkFlags, "format", overrides.Format)
	}

	if overrides.MetricsFile != "" {
		setStringFlagIfUnset(checkFlags, "metrics-file", overrides.MetricsFile)
	}

	scannerFlags := checkScannerCmd.Flags()
	if overrides.Program != "" {
		setStringFlagIfUnset(scannerFlags, "program", overrides.Program)
	}

	if len(overrides.SearchPath) > 0 {
		flag := scannerFlags.Lookup("search-path")
		if flag == nil || !flag.Changed {
			cliConfig.Scanner.SearchPath = append([]string(nil), overrides.SearchPath...)
		}
	}

	if overrides.StopSignal != "" {
		setStringFlagIfUnset(scannerFlags, "stop-signal", overrides.StopSignal)
	}

	for k, v := range overrides.Env {
		if cliConfig.Scanner.Env == nil {
			cliConfig.Scanner.Env = map[string]string{}
		}
		// viper lower-cases map keys; scanner settings are upper-case env vars
		cliConfig.Scanner.Env[strings.ToUpper(k)] = v
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}

var signalNames = map[string]syscall.Signal{
	"SIGKILL": syscall.SIGKILL,
	"SIGTERM": syscall.SIGTERM,
	"SIGINT":  syscall.SIGINT,
	"SIGHUP":  syscall.SIGHUP,
	"SIGQUIT": syscall.SIGQUIT,
}

// parseStopSignal accepts "SIGKILL", "kill" or a signal number such as "9".
func parseStopSignal(s string) (syscall.Signal, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return consts.DefaultStopSignal, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return syscall.Signal(n), nil
	}
	if !strings.HasPrefix(s, "SIG") {
		s = "SIG" + s
	}
	if sig, ok := signalNames[s]; ok {
		return sig, nil
	}
	return 0, &InvalidSignalError{Value: s}
}

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json", "jsonl", "yaml":
		return nil
	}
	return fmt.Errorf("unsupported output format %q (text|json|jsonl|yaml)", format)
}
