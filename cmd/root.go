package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
)

var cfgFile string
var verbose bool
var appCtx *AppContext

var rootCmd = &cobra.Command{
	Use:   "seca-setcookie",
	Short: "Set-Cookie secure/HttpOnly checks for authorized targets",
	Long: `seca-setcookie runs two Set-Cookie plugins against targets you are authorized to test:

  check setcookie  fetch each target once and inspect its Set-Cookie header
  check scanner    run the external setcookie_scanner program and collect its findings`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".seca-setcookie")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("SECA_SETCOOKIE")
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		applyConfigDefaults(cmd)

		resultsDir := viper.GetString("results_dir")
		if resultsDir == "" {
			dir, err := getResultsDir()
			if err != nil {
				return err
			}
			resultsDir = dir
		}

		// create results dir if not exists
		if err := os.MkdirAll(resultsDir, consts.DefaultDirPerm); err != nil {
			return fmt.Errorf("failed to create results directory: %s", err.Error())
		}

		// Make final resultsDir absolute (for clarity in logs)
		if abs, err := filepath.Abs(resultsDir); err == nil {
			resultsDir = abs
		}

		// init logger
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		appCtx = &AppContext{
			Logger:     l.Sugar(),
			ResultsDir: resultsDir,
			Config:     cliConfig,
		}
		appCtx.Logger.Debugf("results_dir=%s config=%s", resultsDir, viper.ConfigFileUsed())

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx != nil && appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
	},
}

// newLogger builds the production JSON logger, or a development logger at
// debug level when verbose output is requested.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.seca-setcookie.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")

	// add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
