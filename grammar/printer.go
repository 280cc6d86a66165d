package grammar

import (
	"strings"
)

// String renders the directive in its canonical form.
func (d *Directive) String() string {
	var b strings.Builder
	b.WriteString("# strictivars: ")
	if d.Action != nil {
		b.WriteString(d.Action.String())
	}
	return b.String()
}

func (a *Action) String() string {
	if a.Disable {
		return "disable"
	}
	return "ignore " + strings.Join(a.Ignore, ", ")
}

// IgnoreDirective builds the directive that exempts names from guarding.
func IgnoreDirective(names ...string) *Directive {
	return &Directive{Marker: "strictivars", Action: &Action{Ignore: names}}
}
