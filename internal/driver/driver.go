// Package driver instruments many files at once.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"strictivars/internal/cache"
	"strictivars/internal/config"
	diag "strictivars/internal/errors"
	"strictivars/internal/instrument"
)

var log = commonlog.GetLogger("strictivars.driver")

type Options struct {
	// Config selects files and supplies instrumentation settings. Nil means
	// defaults rooted at the working directory.
	Config *config.Config
	// Cache may be nil.
	Cache *cache.Cache
	// Jobs bounds concurrency; zero means GOMAXPROCS.
	Jobs int
	// Engine identifies this build in cache keys.
	Engine string
	// Notes adds a note diagnostic per guard and eval rewrite.
	Notes bool
}

// Result is the outcome for one file. Err is set when the file could not be
// read or instrumented; the other files are still processed.
type Result struct {
	Path        string
	Source      string
	Output      string
	Guards      int
	Evals       int
	Disabled    bool
	HasErrors   bool
	Diagnostics []diag.Diagnostic
	CacheHit    bool
	Err         error
}

func (r *Result) Changed() bool {
	return r.Err == nil && r.Output != r.Source
}

// Collect expands paths into the .rb files to process. Directories are
// walked and filtered through the config's include and exclude patterns;
// files named explicitly are always kept. The result is sorted and free of
// duplicates.
func Collect(paths []string, cfg *config.Config) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".rb") && matches(cfg, path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func matches(cfg *config.Config, path string) bool {
	if cfg == nil {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return cfg.Matches(abs)
}

// InstrumentOptions derives the engine options from a config.
func InstrumentOptions(cfg *config.Config) instrument.Options {
	if cfg == nil {
		return nil
	}
	opts := instrument.Options{instrument.WithEvalRewrite(cfg.EvalRewrite())}
	if len(cfg.Instrument.Ignore) > 0 {
		opts = append(opts, instrument.WithIgnored(cfg.Instrument.Ignore...))
	}
	return opts
}

// Run instruments files concurrently and returns one result per file, in
// the order given. The error is non-nil only when ctx is cancelled.
func Run(ctx context.Context, files []string, opts Options) ([]Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns results[i].
			results[i] = processFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func processFile(path string, opts Options) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	return Instrument(path, string(data), opts)
}

// Instrument processes a single source through the cache.
func Instrument(path, source string, opts Options) Result {
	engineOpts := InstrumentOptions(opts.Config)
	key := cache.KeyFor(opts.Engine, path, source, fmt.Sprintf("%s notes=%t", engineOpts, opts.Notes))

	entry, hit, err := opts.Cache.Get(key)
	if err != nil {
		log.Warningf("cache read for %s: %s", path, err)
	}
	if hit {
		return Result{
			Path:        path,
			Source:      source,
			Output:      entry.Output,
			Guards:      entry.Guards,
			Evals:       entry.Evals,
			Disabled:    entry.Disabled,
			HasErrors:   entry.HasErrors,
			Diagnostics: entry.Diagnostics,
			CacheHit:    true,
		}
	}

	processed, err := instrument.Process(path, source, engineOpts...)
	if err != nil {
		return Result{Path: path, Source: source, Err: err}
	}
	result := Result{
		Path:        path,
		Source:      source,
		Output:      processed.Output,
		Guards:      len(processed.Guards),
		Evals:       len(processed.Evals),
		Disabled:    processed.Disabled,
		HasErrors:   processed.HasErrors(),
		Diagnostics: diag.ForResult(processed, opts.Notes),
	}
	err = opts.Cache.Put(key, &cache.Entry{
		Path:        path,
		Output:      result.Output,
		Guards:      result.Guards,
		Evals:       result.Evals,
		Disabled:    result.Disabled,
		HasErrors:   result.HasErrors,
		Diagnostics: result.Diagnostics,
	})
	if err != nil {
		log.Warningf("cache write for %s: %s", path, err)
	}
	return result
}
