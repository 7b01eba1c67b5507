package dataset

import "fmt"

// FileAccessError indicates an input file is missing or unreadable.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ParseError indicates malformed tabular structure or a cell that could not be
// read as the value a caller required. Line is 1-based and 0 when unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates a required column is absent or ambiguous.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema %s: column %q: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema %s: %s", e.Table, e.Reason)
}

// SelectionError indicates no crop row matched the requested name.
type SelectionError struct {
	Crop string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("no crop named %q in dataset", e.Crop)
}
