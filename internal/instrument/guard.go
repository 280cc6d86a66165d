package instrument

// Text inserted around the first read of an instance variable in a scope:
//
//	(defined?(@x) ? @x : (::Kernel.raise(::StrictIvars::NameError.new(self, :@x))))
func guardOpen(name string) string {
	return "(defined?(" + name + ") ? "
}

func guardClose(name string) string {
	return " : (::Kernel.raise(::StrictIvars::NameError.new(self, :" + name + "))))"
}

// Braces turning a "#@x" interpolation into "#{@x}" so a guard fits inside.
const (
	shorthandOpen  = "{"
	shorthandClose = "}"
)
