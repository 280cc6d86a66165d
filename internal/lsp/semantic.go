package lsp

import (
	"sort"

	"strictivars/internal/ast"
	"strictivars/internal/instrument"
)

// SemanticTokenTypes is the token type legend advertised to clients.
var SemanticTokenTypes = []string{
	"property",
}

// SemanticTokenModifiers is the modifier legend. "guarded" marks the reads
// that receive a guard, "unassigned" the reads of fields nothing in the
// file assigns, "modification" every write.
var SemanticTokenModifiers = []string{
	"guarded",
	"unassigned",
	"modification",
}

const (
	modGuarded = 1 << iota
	modUnassigned
	modModification
)

// SemanticToken is one entry before delta encoding. Line and StartChar are
// 0-based.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(result *instrument.Result) []SemanticToken {
	if result == nil || result.Program == nil {
		return nil
	}
	guarded := make(map[int]bool, len(result.Guards))
	for _, site := range result.Guards {
		guarded[site.Position.Offset] = true
	}
	unassigned := make(map[int]bool)
	for _, finding := range instrument.Analyze(result) {
		unassigned[finding.Position.Offset] = true
	}

	type span struct {
		start, end int
		mods       int
	}
	var spans []span
	ast.Inspect(result.Program, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.IvarRead:
			mods := 0
			if guarded[n.Pos.Offset] {
				mods |= modGuarded
			}
			if unassigned[n.Pos.Offset] {
				mods |= modUnassigned
			}
			spans = append(spans, span{n.Pos.Offset, n.EndPos.Offset, mods})
		case *ast.IvarTarget:
			spans = append(spans, span{n.Pos.Offset, n.EndPos.Offset, modModification})
		}
		return true
	})
	// Heredoc bodies follow the line of their opener, so tree order is not
	// always text order.
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	tokens := make([]SemanticToken, 0, len(spans))
	for _, s := range spans {
		start := positionAt(result.Source, s.start)
		end := positionAt(result.Source, s.end)
		if start.Line != end.Line {
			continue
		}
		tokens = append(tokens, SemanticToken{
			Line:           start.Line,
			StartChar:      start.Character,
			Length:         end.Character - start.Character,
			TokenType:      0,
			TokenModifiers: s.mods,
		})
	}
	return tokens
}

// encodeSemanticTokens applies the relative encoding of the protocol: each
// token is five integers, its line and start relative to the previous one.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length,
			uint32(toUInteger(token.TokenType)), uint32(toUInteger(token.TokenModifiers)))
		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}
