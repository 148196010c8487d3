package script

import "fmt"

// FormatError reports a malformed or missing directive. It identifies
// the offending line or element and the expected form when known.
type FormatError struct {
	Line      int
	Directive string
	Msg       string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid script: line %d [%s]: %s", e.Line, e.Directive, e.Msg)
	}
	return fmt.Sprintf("invalid script: [%s]: %s", e.Directive, e.Msg)
}

func formatErrf(line int, directive, format string, args ...interface{}) *FormatError {
	return &FormatError{Line: line, Directive: directive, Msg: fmt.Sprintf(format, args...)}
}
