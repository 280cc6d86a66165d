package errors

// Diagnostic codes reported by strictivars.
//
// Code ranges:
// E0100-E0199: Scanner and parser errors
// W0800-W0899: Warnings about the instrumented source
// N0900-N0999: Notes describing what the instrumentation did

const (
	// E0100: The scanner could not tokenize part of the file
	ErrorScan = "E0100"

	// E0101: The parser could not make sense of part of the file
	ErrorParse = "E0101"

	// W0800: An instance variable is read but never assigned in the file
	WarningUnassignedField = "W0800"

	// W0801: A "# strictivars:" comment could not be parsed
	WarningMalformedDirective = "W0801"

	// N0900: A guard was inserted around an instance variable read
	NoteGuardInserted = "N0900"

	// N0901: An eval-family call was rewritten
	NoteEvalRewritten = "N0901"
)

// GetErrorDescription returns a human-readable description of the code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorScan:
		return "Source could not be tokenized"
	case ErrorParse:
		return "Source could not be parsed; instrumentation used a partial tree"
	case WarningUnassignedField:
		return "Instance variable is read but never assigned in this file"
	case WarningMalformedDirective:
		return "Directive comment is not understood and was ignored"
	case NoteGuardInserted:
		return "First read of an instance variable in its scope is guarded"
	case NoteEvalRewritten:
		return "Arguments of an eval-family call are routed through the runtime"
	default:
		return "Unknown diagnostic code"
	}
}

// IsWarning returns true if the code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// IsNote returns true if the code is informational
func IsNote(code string) bool {
	return code != "" && code[0] == 'N'
}

// GetErrorCategory returns the category of a code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0100" && code < "E0200":
		return "Syntax"
	case IsWarning(code):
		return "Warning"
	case IsNote(code):
		return "Instrumentation"
	default:
		return "Unknown"
	}
}
