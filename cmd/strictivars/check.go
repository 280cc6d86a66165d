package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"strictivars/internal/driver"
	diag "strictivars/internal/errors"
)

var checkSites bool

func init() {
	checkCmd.Flags().BoolVar(&checkSites, "sites", false, "also list every guard and eval rewrite")
}

var checkCmd = &cobra.Command{
	Use:          "check [paths...]",
	Short:        "Report syntax errors and fields that are read but never assigned",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()
	opts, err := loadOptions(cmd, checkSites)
	if err != nil {
		return err
	}
	files, err := driver.Collect(args, opts.Config)
	if err != nil {
		return err
	}
	results, err := driver.Run(cmd.Context(), files, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var errs, warnings, guards int
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s: %s\n", color.RedString("error"), r.Err)
			errs++
			continue
		}
		n, err := printDiagnostics(out, r)
		if err != nil {
			return err
		}
		errs += n
		for _, d := range r.Diagnostics {
			if d.Level == diag.Warning {
				warnings++
			}
		}
		guards += r.Guards
	}

	summary := fmt.Sprintf("checked %d files: %s, %d guard sites", len(results), diag.Summary(errs, warnings), guards)
	if showTimings(cmd) {
		summary += " in " + formatDuration(time.Since(start))
	}
	if errs > 0 {
		color.New(color.FgRed).Fprintln(out, summary)
		return fmt.Errorf("check failed")
	}
	color.New(color.FgGreen).Fprintln(out, summary)
	return nil
}
