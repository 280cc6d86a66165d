package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"strictivars/internal/driver"
	"strictivars/repl"
)

var replCmd = &cobra.Command{
	Use:          "repl",
	Short:        "Instrument Ruby snippets interactively",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		name := "there"
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome to the strictivars REPL, %s!\n", name)
		fmt.Fprintln(cmd.OutOrStdout(), "Enter Ruby code and finish it with an empty line. :help lists commands.")
		return repl.Start(os.Stdin, cmd.OutOrStdout(), driver.InstrumentOptions(cfg)...)
	},
}
