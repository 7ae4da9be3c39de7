package program

import "fmt"

// IOError reports a script that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read script %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError reports the first script line that does not match the
// instruction grammar.
type FormatError struct {
	Script string
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: invalid instruction format: %q (%s)",
		e.Script, e.Line, e.Text, e.Reason)
}
