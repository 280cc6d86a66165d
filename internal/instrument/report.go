package instrument

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"strictivars/internal/ast"
)

// maxTypoDistance bounds the edit distance of a suggested spelling.
const maxTypoDistance = 2

// Finding is a guarded read of an instance variable that nothing in the
// file ever assigns, which usually means a typo.
type Finding struct {
	Name        string
	Position    ast.Position
	End         ast.Position
	Suggestions []string
}

// Analyze reports the guard sites of result whose variable is never
// written in the same file. Writes are assignments of any form plus the
// attr_writer and attr_accessor macros.
func Analyze(result *Result) []Finding {
	if result == nil || result.Program == nil {
		return nil
	}
	written := writtenNames(result.Program)
	candidates := make([]string, 0, len(written))
	for name := range written {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	var findings []Finding
	for _, site := range result.Guards {
		if written[site.Name] {
			continue
		}
		findings = append(findings, Finding{
			Name:        site.Name,
			Position:    site.Position,
			End:         site.End,
			Suggestions: suggest(site.Name, candidates),
		})
	}
	return findings
}

func writtenNames(program *ast.Program) map[string]bool {
	written := make(map[string]bool)
	ast.Inspect(program, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.IvarTarget:
			written[n.Name] = true
		case *ast.Call:
			if ast.IsNil(n.Receiver) && (n.Name == "attr_writer" || n.Name == "attr_accessor") && n.Arguments != nil {
				for _, arg := range n.Arguments.Args {
					if lit, ok := arg.(*ast.Literal); ok && lit.Kind == ast.SymbolLit {
						written["@"+strings.TrimPrefix(lit.Value, ":")] = true
					}
				}
			}
		}
		return true
	})
	return written
}

// suggest ranks written names that look like name: subsequence matches in
// either direction first, then close edits.
func suggest(name string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(name, candidates)
	for _, candidate := range candidates {
		if fuzzy.MatchFold(candidate, name) {
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: candidate, Distance: fuzzy.LevenshteinDistance(name, candidate)})
		} else if d := fuzzy.LevenshteinDistance(name, candidate); d <= maxTypoDistance {
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: candidate, Distance: d})
		}
	}
	sort.Stable(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, rank := range ranks {
		if seen[rank.Target] {
			continue
		}
		seen[rank.Target] = true
		out = append(out, rank.Target)
	}
	return out
}
