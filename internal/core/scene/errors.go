package scene

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLine = errors.New("malformed scene line")
	ErrEmptyScene    = errors.New("scene contains no bodies")
)

// ParseError locates a rejected line in a scene description.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
