package instrument

import (
	"fmt"
	"strings"
)

// Option configures a call to [Process].
type Option interface {
	apply(r *runOptions)
	String() string
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}
		opt.apply(r)
	}
}

func (o Options) String() string {
	parts := make([]string, 0, len(o))
	for _, opt := range o {
		if opt == nil {
			continue
		}
		parts = append(parts, opt.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

type runOptions struct {
	evalRewrite bool
	ignored     []string
}

func makeOptions(opts ...Option) runOptions {
	r := runOptions{evalRewrite: true}
	Options(opts).apply(&r)
	return r
}

// WithEvalRewrite is an [Option] to configure whether eval-family calls are
// rewritten. Enabled by default.
func WithEvalRewrite(rewrite bool) Option { return evalRewriteOption{rewrite: rewrite} }

type evalRewriteOption struct{ rewrite bool }

func (o evalRewriteOption) apply(r *runOptions) {
	r.evalRewrite = o.rewrite
}

func (o evalRewriteOption) String() string {
	return fmt.Sprintf("eval-rewrite=%t", o.rewrite)
}

// WithIgnored is an [Option] naming instance variables that are never
// guarded, in addition to those listed by the file's directives.
func WithIgnored(names ...string) Option { return ignoredOption{names: names} }

type ignoredOption struct{ names []string }

func (o ignoredOption) apply(r *runOptions) {
	r.ignored = append(r.ignored, o.names...)
}

func (o ignoredOption) String() string {
	return "ignored=" + strings.Join(o.names, ",")
}
