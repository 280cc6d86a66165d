// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp/server"

	"strictivars/internal/config"
	"strictivars/internal/driver"
	"strictivars/internal/lsp"
)

const lsName = "strictivars"

// Standalone server for editors that launch a dedicated binary; equivalent
// to "strictivars lsp".
func main() {
	commonlog.Configure(1, nil)

	cfg, err := config.Discover(".")
	if err != nil {
		log.Println("Error loading configuration:", err)
		os.Exit(1)
	}
	handler := lsp.NewHandler(driver.InstrumentOptions(cfg)...)

	s := server.NewServer(handler.Protocol(), lsName, false)
	log.Println("Starting strictivars LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting strictivars LSP server:", err)
		os.Exit(1)
	}
}
