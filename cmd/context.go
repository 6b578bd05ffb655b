package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AppContext carries what every command needs after initialization.
type AppContext struct {
	Logger     *zap.SugaredLogger
	ResultsDir string
	Config     *CLIConfig
}

// getAppContext returns the context built by the root command, falling back to
// a no-op logger and the default config when a command runs without it (tests).
func getAppContext(cmd *cobra.Command) *AppContext {
	if appCtx != nil {
		return appCtx
	}
	return &AppContext{
		Logger: zap.NewNop().Sugar(),
		Config: cliConfig,
	}
}
