package compare

import (
	"fmt"
)

// PatternError indicates that an exclusion pattern failed to compile as a
// regular expression. It is raised before any traversal begins.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// PathMappingError indicates that a walked entry's path could not be
// expressed relative to the first root. This should not occur during normal
// operation; it signals an internal inconsistency and aborts the comparison.
type PathMappingError struct {
	Path string
	Root string
	Err  error
}

func (e *PathMappingError) Error() string {
	return fmt.Sprintf("cannot express %q relative to root %q", e.Path, e.Root)
}

func (e *PathMappingError) Unwrap() error {
	return e.Err
}

// IoError indicates that a file already selected for comparison could not be
// read. Unlike walk failures, which drop the affected entry, a read failure
// here aborts the whole comparison.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("failed to read %q: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
