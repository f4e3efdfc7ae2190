package render

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mjml/internal/ast"
)

// Sentinel errors. Every *Error wraps one of them.
var (
	ErrInvalidValue  = errors.New("invalid attribute value")
	ErrWidthOverflow = errors.New("column widths do not fit the row")
	ErrInvalidOption = errors.New("invalid render option")
)

// Error is a render failure tied to a node of the source document.
type Error struct {
	Err       error
	Tag       string
	Attribute string
	Value     string
	Line      int
	Column    int
	Detail    string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Detail
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidValue(n *ast.Node, attr, value string) *Error {
	return &Error{
		Err:       ErrInvalidValue,
		Tag:       n.Tag(),
		Attribute: attr,
		Value:     value,
		Line:      n.Pos.Line,
		Column:    n.Pos.Column,
		Detail:    fmt.Sprintf("<%s> has invalid %s %q", n.Tag(), attr, value),
	}
}

func widthOverflow(row *ast.Node, detail string) *Error {
	return &Error{
		Err:    ErrWidthOverflow,
		Tag:    row.Tag(),
		Line:   row.Pos.Line,
		Column: row.Pos.Column,
		Detail: fmt.Sprintf("<%s> %s", row.Tag(), detail),
	}
}
