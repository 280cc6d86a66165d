package instrument

// Annotation inserts Text into the source at byte Offset.
type Annotation struct {
	Offset int
	Text   string
}

// AnnotationList collects annotations in discovery order. Entries are
// never removed or reordered; the order of entries sharing an offset is the
// order their texts appear in the output.
type AnnotationList []Annotation

func (l *AnnotationList) Push(offset int, text string) {
	*l = append(*l, Annotation{Offset: offset, Text: text})
}
