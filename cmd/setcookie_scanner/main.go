// Command setcookie_scanner checks one URL's Set-Cookie header and prints each
// finding as a JSON object on its own line. It is the program the scanner
// plugin runs by default; the URL is its only argument and everything else is
// configured through SETCOOKIE_* environment variables.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"go.uber.org/zap"

	"github.com/khanhnv2901/seca-setcookie/internal/checker"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	programName = "setcookie_scanner"
)

type config struct {
	Timeout  time.Duration `env:"SETCOOKIE_TIMEOUT" envDefault:"10s"`
	FoldCase bool          `env:"SETCOOKIE_FOLD_CASE" envDefault:"false"`
	Debug    bool          `env:"SETCOOKIE_DEBUG" envDefault:"false"`
}

func loadConfig() (cfg config, err error) {
	err = env.Parse(&cfg)
	return
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] == "" {
		fmt.Fprintf(stderr, "usage: %s <url>\nURL missing from the command-line parameter list.\n", programName)
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "%s: invalid configuration: %v\n", programName, err)
		return exitUsage
	}

	logger := zap.NewNop()
	if cfg.Debug {
		// stdout carries findings only, so logs go to stderr
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if l, err := zcfg.Build(); err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	chk := &checker.SetCookieChecker{
		Timeout:  cfg.Timeout,
		FoldCase: cfg.FoldCase,
		Logger:   logger,
	}

	lines := checker.NewLineReporter(stdout)
	if err := chk.Run(ctx, args[0], lines); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitFailed
	}
	if err := lines.Err(); err != nil {
		fmt.Fprintf(stderr, "%s: write findings: %v\n", programName, err)
		return exitFailed
	}
	return exitOK
}
