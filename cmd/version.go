package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via -ldflags)
// These default values indicate a development build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// pluginVersion is the version both plugins report to a host.
const pluginVersion = "0.1"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display detailed version information for seca-setcookie (use --verbose for build details)",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if verbose {
			fmt.Fprintf(out, `seca-setcookie Version Information:
  Version:        %s
  Plugin Version: %s
  Git Commit:     %s
  Build Date:     %s
  Go Version:     %s
  OS/Arch:        %s/%s
  Compiler:       %s
`, Version, pluginVersion, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.Compiler)
		} else {
			fmt.Fprintf(out, "seca-setcookie version %s\n", Version)
		}
	},
}
