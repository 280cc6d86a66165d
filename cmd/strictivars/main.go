// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"strictivars/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "strictivars",
	Short: "Guard Ruby instance variable reads against typos",
	Long: `strictivars rewrites Ruby source so that reading an instance variable
that was never assigned raises a NameError instead of returning nil.`,
	PersistentPreRunE: configureOutput,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(instrumentCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upwards)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().Int("jobs", 0, "files processed in parallel (default: config or GOMAXPROCS)")
	rootCmd.PersistentFlags().Bool("eval-rewrite", true, "rewrite eval-family calls so evaluated strings are guarded too")
	rootCmd.PersistentFlags().Bool("no-cache", false, "do not read or write the instrumentation cache")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureOutput(cmd *cobra.Command, _ []string) error {
	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
	}

	verbosity, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return err
	}
	// The language server logs by default; everything else stays quiet
	// unless asked.
	if cmd == lspCmd && verbosity == 0 {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
