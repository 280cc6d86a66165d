package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.gitCommit=... -X main.buildDate=...".
var (
	version   = "0.1.0"
	gitCommit = ""
	buildDate = ""
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show strictivars build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := collectVersionInfo()
		switch strings.ToLower(versionFormat) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), payload)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func collectVersionInfo() versionPayload {
	payload := versionPayload{
		Tool:      "strictivars",
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return payload
	}
	payload.GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if payload.GitCommit == "" {
				payload.GitCommit = setting.Value
			}
		case "vcs.time":
			if payload.BuildDate == "" {
				payload.BuildDate = setting.Value
			}
		}
	}
	return payload
}

func renderVersionPretty(w io.Writer, p versionPayload) {
	fmt.Fprintf(w, "%s %s", p.Tool, p.Version)
	if p.GoVersion != "" {
		fmt.Fprintf(w, " (%s)", p.GoVersion)
	}
	fmt.Fprintln(w)
	if p.GitCommit != "" {
		fmt.Fprintf(w, "commit: %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(w, "built:  %s\n", p.BuildDate)
	}
}
