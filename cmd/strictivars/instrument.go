package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"strictivars/internal/driver"
)

var instrumentOut string

func init() {
	instrumentCmd.Flags().StringVarP(&instrumentOut, "out", "o", "", "write instrumented files under this directory")
}

var instrumentCmd = &cobra.Command{
	Use:   "instrument [paths...]",
	Short: "Insert strict ivar guards into Ruby files",
	Long: `Instrument rewrites every selected .rb file. A single file is printed to
stdout; several files need --out, which mirrors their paths below it.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runInstrument,
}

func runInstrument(cmd *cobra.Command, args []string) error {
	start := time.Now()
	opts, err := loadOptions(cmd, false)
	if err != nil {
		return err
	}
	files, err := driver.Collect(args, opts.Config)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no Ruby files selected")
	}
	if instrumentOut == "" && len(files) > 1 {
		return fmt.Errorf("%d files selected; use --out to choose where to write them", len(files))
	}

	results, err := driver.Run(cmd.Context(), files, opts)
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed, guards, hits := 0, 0, 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", color.RedString("error"), r.Err)
			failed++
			continue
		}
		// Syntax errors are reported but the output is still written.
		if _, err := printDiagnostics(stderr, r); err != nil {
			return err
		}
		guards += r.Guards
		if r.CacheHit {
			hits++
		}
		if instrumentOut == "" {
			if _, err := io.WriteString(stdout, r.Output); err != nil {
				return err
			}
			continue
		}
		target, err := writeOutput(opts.Config.Root, instrumentOut, r)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", color.RedString("error"), err)
			failed++
			continue
		}
		log.Debugf("%s -> %s (%d guards, %d evals)", r.Path, target, r.Guards, r.Evals)
	}

	if showTimings(cmd) {
		fmt.Fprintf(stderr, "instrumented %d files, %d guards, %d cached in %s\n",
			len(results)-failed, guards, hits, formatDuration(time.Since(start)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
