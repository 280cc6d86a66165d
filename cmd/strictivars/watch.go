package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"strictivars/internal/driver"
)

// Editors often write a file in several steps.
const watchDebounce = 100 * time.Millisecond

var watchOut string

func init() {
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "directory receiving instrumented files (required)")
	_ = watchCmd.MarkFlagRequired("out")
}

var watchCmd = &cobra.Command{
	Use:          "watch DIR",
	Short:        "Instrument a directory and keep the output up to date",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd, false)
	if err != nil {
		return err
	}
	root := args[0]
	outAbs, err := filepath.Abs(watchOut)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	if err := watchTree(watcher, root, outAbs); err != nil {
		return err
	}

	files, err := driver.Collect([]string{root}, opts.Config)
	if err != nil {
		return err
	}
	if err := instrumentInto(ctx, cmd, files, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes\n", root)

	pending := make(map[string]bool)
	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Debugf("watch event %s", event)
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name, outAbs); err != nil {
						log.Warningf("%s", err)
					}
					continue
				}
			}
			if !strings.HasSuffix(event.Name, ".rb") {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				delete(pending, event.Name)
				target := outputPath(opts.Config.Root, watchOut, event.Name)
				if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
					log.Warningf("failed to remove %s: %s", target, err)
				}
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = true
				flush = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watcher: %s", err)

		case <-flush:
			flush = nil
			changed := make([]string, 0, len(pending))
			for path := range pending {
				if opts.Config.Matches(absPath(path)) {
					changed = append(changed, path)
				}
			}
			clear(pending)
			slices.Sort(changed)
			if err := instrumentInto(ctx, cmd, changed, opts); err != nil {
				return err
			}
		}
	}
}

// watchTree adds root and every directory below it, except hidden ones and
// the output directory.
func watchTree(watcher *fsnotify.Watcher, root, outAbs string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if absPath(path) == outAbs {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func instrumentInto(ctx context.Context, cmd *cobra.Command, files []string, opts driver.Options) error {
	if len(files) == 0 {
		return nil
	}
	start := time.Now()
	results, err := driver.Run(ctx, files, opts)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", color.RedString("error"), r.Err)
			continue
		}
		if _, err := printDiagnostics(stderr, r); err != nil {
			return err
		}
		if _, err := writeOutput(opts.Config.Root, watchOut, r); err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", color.RedString("error"), err)
		}
	}
	fmt.Fprintf(stderr, "%s %d files in %s\n", color.GreenString("instrumented"), len(results), formatDuration(time.Since(start)))
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
