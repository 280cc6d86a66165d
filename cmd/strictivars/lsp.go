package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/glsp/server"

	"strictivars/internal/driver"
	"strictivars/internal/lsp"
)

const lsName = "strictivars"

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the strictivars language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	handler := lsp.NewHandler(driver.InstrumentOptions(cfg)...)
	log.Infof("starting %s language server %s", lsName, version)
	return server.NewServer(handler.Protocol(), lsName, false).RunStdio()
}
