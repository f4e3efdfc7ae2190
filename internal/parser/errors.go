package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every *Error wraps exactly one of them.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrNoRoot            = errors.New("missing <mjml> root element")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrUnclosedTag       = errors.New("unclosed tag")
	ErrUnexpectedTag     = errors.New("unexpected tag")
	ErrInvalidNesting    = errors.New("invalid nesting")
	ErrMissingAttribute  = errors.New("missing required attribute")
	ErrInvalidAttribute  = errors.New("invalid attribute value")
	ErrUnexpectedContent = errors.New("unexpected content")
)

// Error is a parse failure with its source location.
type Error struct {
	Err        error  // one of the sentinels above
	Tag        string // tag involved, without angle brackets; may be empty
	Line       int
	Column     int
	Detail     string
	Suggestion string // closest known tag for ErrUnknownTag
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d, column %d: %s", e.Line, e.Column, e.Detail)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean <%s>?)", e.Suggestion)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
