package instrument

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var ErrOffsetOutOfRange = errors.New("annotation offset out of range")

// Apply inserts every annotation into source. Annotations are stably sorted
// by offset and written from the highest offset down into a buffer filled
// from its end, so texts sharing an offset end up in discovery order.
func Apply(source string, annotations []Annotation) (string, error) {
	sorted := slices.Clone(annotations)
	slices.SortStableFunc(sorted, func(a, b Annotation) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	size := len(source)
	for _, a := range sorted {
		if a.Offset < 0 || a.Offset > len(source) {
			return "", fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, a.Offset, len(source))
		}
		size += len(a.Text)
	}

	buffer := make([]byte, size)
	cursor, end := size, len(source)
	for i := len(sorted) - 1; i >= 0; i-- {
		a := sorted[i]
		cursor -= copy(buffer[cursor-(end-a.Offset):cursor], source[a.Offset:end])
		cursor -= copy(buffer[cursor-len(a.Text):cursor], a.Text)
		end = a.Offset
	}
	copy(buffer[:cursor], source[:end])
	return string(buffer), nil
}
