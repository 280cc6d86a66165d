package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Directive is one "# strictivars: ..." magic comment.
type Directive struct {
	Pos lexer.Position

	Marker string  `"#" @"strictivars" ":"`
	Action *Action `@@`
}

type Action struct {
	Disable bool     `  @"disable"`
	Ignore  []string `| "ignore" @Ivar ( "," @Ivar )*`
}

// Directives is the combined effect of every directive in a file.
type Directives struct {
	Disabled bool
	Ignored  []string
}

// IsIgnored reports whether name was listed by an ignore directive.
func (d *Directives) IsIgnored(name string) bool {
	for _, ignored := range d.Ignored {
		if ignored == name {
			return true
		}
	}
	return false
}

func (d *Directives) add(directive *Directive) {
	if directive.Action == nil {
		return
	}
	if directive.Action.Disable {
		d.Disabled = true
	}
	for _, name := range directive.Action.Ignore {
		if !d.IsIgnored(name) {
			d.Ignored = append(d.Ignored, name)
		}
	}
}
