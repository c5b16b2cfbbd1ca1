package scanner

import (
	"fmt"
	"strings"
)

// FileError reports a file that could not be read once its task started.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ErrorPolicy decides what a FileError does to the run.
type ErrorPolicy string

const (
	// PolicyAbort stops dispatching files on the first FileError and fails
	// the run without a result.
	PolicyAbort ErrorPolicy = "abort"

	// PolicyContinue skips unreadable files, aggregates the rest and reports
	// every failure at the end.
	PolicyContinue ErrorPolicy = "continue"
)

// ParseErrorPolicy converts a flag value into an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAbort, PolicyContinue:
		return p, nil
	case "":
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, PolicyAbort, PolicyContinue)
	}
}
