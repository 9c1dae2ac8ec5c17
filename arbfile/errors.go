package arbfile

import "fmt"

// NotFoundError is returned when a referenced file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: file not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError is returned when file content is not valid JSON.
// Line and Column are 1-based and zero when unknown.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s:%d:%d: %v", where, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError is returned when reading or writing a file fails for any
// reason other than the file being absent.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
