package mjml

import (
	"errors"

	"github.com/alnah/go-mjml/internal/parser"
	"github.com/alnah/go-mjml/internal/pipeline"
	"github.com/alnah/go-mjml/internal/render"
)

// Sentinel errors for library operations.
var (
	// Error kinds. Every *Error matches exactly one of them with errors.Is.
	ErrParse    = errors.New("parse error")
	ErrRender   = errors.New("render error")
	ErrEncoding = errors.New("encoding error")

	// ErrEmptyInput is matched by conversions of blank markup.
	ErrEmptyInput = parser.ErrEmptyInput

	ErrInvalidOption    = errors.New("invalid option")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInternal         = errors.New("internal error")
)

// Stage errors, reachable with errors.As.
type (
	ParseError    = parser.Error
	RenderError   = render.Error
	EncodingError = pipeline.EncodingError
)

// Error is a conversion failure. Its message names the failing stage,
// followed by the stage error's message, which includes the source position
// when there is one.
type Error struct {
	Kind error // ErrParse, ErrRender or ErrEncoding
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == nil {
		return e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// classify wraps stage errors into *Error. Other errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var kindErr *Error
	if errors.As(err, &kindErr) {
		return err
	}

	var (
		parseErr  *parser.Error
		renderErr *render.Error
		encErr    *pipeline.EncodingError
	)
	switch {
	case errors.As(err, &parseErr):
		return &Error{Kind: ErrParse, Err: err}
	case errors.As(err, &renderErr):
		return &Error{Kind: ErrRender, Err: err}
	case errors.As(err, &encErr):
		return &Error{Kind: ErrEncoding, Err: err}
	}
	return err
}
