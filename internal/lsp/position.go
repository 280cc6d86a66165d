package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// positionAt converts a byte offset into text into an LSP position, whose
// character is counted in UTF-16 code units. Offsets past the end clamp to
// the end.
func positionAt(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	line := strings.Count(text[:lineStart], "\n")

	character := 0
	for _, r := range text[lineStart:offset] {
		character += utf16.RuneLen(r)
	}
	return protocol.Position{Line: toUInteger(line), Character: toUInteger(character)}
}

// offsetAt is the inverse of positionAt. A character past the end of its
// line clamps to the line end.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}

	units := protocol.UInteger(0)
	for offset < len(text) && text[offset] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		units += toUInteger(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

func rangeOf(text string, start, end int) protocol.Range {
	return protocol.Range{Start: positionAt(text, start), End: positionAt(text, end)}
}

func toUInteger(n int) protocol.UInteger {
	v, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return 0
	}
	return v
}
