package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"strictivars/internal/cache"
	"strictivars/internal/config"
	"strictivars/internal/driver"
	diag "strictivars/internal/errors"
)

var log = commonlog.GetLogger("strictivars.cli")

// loadConfig reads --config, or the nearest strictivars.toml above the
// working directory, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return nil, err
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debugf("using config %s", cfg.Path)
	}

	if cmd.Flags().Changed("eval-rewrite") {
		rewrite, err := cmd.Flags().GetBool("eval-rewrite")
		if err != nil {
			return nil, err
		}
		cfg.Instrument.EvalRewrite = &rewrite
	}
	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return nil, err
		}
		if jobs < 0 {
			return nil, fmt.Errorf("--jobs must not be negative")
		}
		cfg.Run.Jobs = jobs
	}
	return cfg, nil
}

// loadOptions builds the driver options for a batch command. A cache that
// cannot be opened is reported and skipped.
func loadOptions(cmd *cobra.Command, notes bool) (driver.Options, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{
		Config: cfg,
		Jobs:   cfg.Run.Jobs,
		Engine: "strictivars " + version,
		Notes:  notes,
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return driver.Options{}, err
	}
	if noCache || !cfg.CacheEnabled() {
		return opts, nil
	}
	dir := cfg.Cache.Dir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.Root, dir)
	}
	c, err := cache.Open(dir)
	if err != nil {
		log.Warningf("running without cache: %s", err)
		return opts, nil
	}
	log.Debugf("cache at %s", c.Dir())
	opts.Cache = c
	return opts, nil
}

// outputPath mirrors path under outDir, relative to root. Files outside
// root keep only their base name.
func outputPath(root, outDir, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Join(outDir, filepath.Base(path))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(outDir, filepath.Base(path))
	}
	return filepath.Join(outDir, rel)
}

func writeOutput(root, outDir string, r driver.Result) (string, error) {
	target := outputPath(root, outDir, r.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, []byte(r.Output), 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// printDiagnostics renders a file's diagnostics and returns how many of
// them are errors.
func printDiagnostics(w io.Writer, r driver.Result) (int, error) {
	if len(r.Diagnostics) == 0 {
		return 0, nil
	}
	return diag.NewReporter(r.Path, r.Source).Print(w, r.Diagnostics)
}

func showTimings(cmd *cobra.Command) bool {
	timings, err := cmd.Flags().GetBool("timings")
	return err == nil && timings
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
