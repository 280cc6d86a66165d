// SPDX-License-Identifier: Apache-2.0

// Package repl instruments Ruby snippets typed at a prompt.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	diag "strictivars/internal/errors"
	"strictivars/internal/instrument"
)

const (
	PROMPT   = ">> "
	CONTINUE = ".. "
)

const filename = "(repl)"

const help = `:help    show this message
:sites   toggle listing guard and eval sites
:eval    toggle rewriting eval-family calls
:quit    leave the REPL
`

type session struct {
	out   io.Writer
	opts  instrument.Options
	sites bool
	eval  bool
}

// Start reads snippets from in until EOF or :quit. A snippet ends at the
// first empty line; its instrumented form is written to out.
func Start(in io.Reader, out io.Writer, opts ...instrument.Option) error {
	s := &session{out: out, opts: opts, eval: true}
	scanner := bufio.NewScanner(in)
	var snippet strings.Builder

	for {
		if snippet.Len() == 0 {
			fmt.Fprint(out, PROMPT)
		} else {
			fmt.Fprint(out, CONTINUE)
		}
		if !scanner.Scan() {
			if snippet.Len() > 0 {
				fmt.Fprintln(out)
				s.run(snippet.String())
			}
			return scanner.Err()
		}

		line := scanner.Text()
		if snippet.Len() == 0 && strings.HasPrefix(line, ":") {
			if !s.command(strings.TrimSpace(line)) {
				return nil
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			if snippet.Len() > 0 {
				s.run(snippet.String())
				snippet.Reset()
			}
			continue
		}
		snippet.WriteString(line)
		snippet.WriteByte('\n')
	}
}

// command handles a colon command and reports whether to keep going.
func (s *session) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return false
	case ":help":
		fmt.Fprint(s.out, help)
	case ":sites":
		s.sites = !s.sites
		fmt.Fprintf(s.out, "sites %s\n", onOff(s.sites))
	case ":eval":
		s.eval = !s.eval
		fmt.Fprintf(s.out, "eval rewriting %s\n", onOff(s.eval))
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", cmd)
	}
	return true
}

func (s *session) run(source string) {
	opts := append(instrument.Options{}, s.opts...)
	opts = append(opts, instrument.WithEvalRewrite(s.eval))

	result, err := instrument.Process(filename, source, opts...)
	if err != nil {
		fmt.Fprintf(s.out, "error: %s\n", err)
		return
	}
	if _, err := diag.NewReporter(filename, source).Print(s.out, diag.ForResult(result, s.sites)); err != nil {
		fmt.Fprintf(s.out, "error: %s\n", err)
		return
	}
	fmt.Fprint(s.out, result.Output)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
