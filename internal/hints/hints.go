// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/alnah/go-mjml/internal/ast"
	"github.com/alnah/go-mjml/internal/parser"
	"github.com/alnah/go-mjml/internal/render"
)

// For returns the hint for err, or "" when there is none.
func For(err error) string {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return forParse(perr)
	}
	var rerr *render.Error
	if errors.As(err, &rerr) {
		return forRender(rerr)
	}
	return ""
}

func forParse(e *parser.Error) string {
	switch {
	case errors.Is(e.Err, parser.ErrNoRoot):
		return format("wrap the document in <mjml>...</mjml>")
	case errors.Is(e.Err, parser.ErrUnclosedTag):
		return format("add </" + e.Tag + "> before its parent is closed")
	case errors.Is(e.Err, parser.ErrInvalidNesting):
		if parents := allowedParents(e.Tag); len(parents) > 0 {
			return format("<" + e.Tag + "> can be placed in: " + strings.Join(parents, ", "))
		}
	case errors.Is(e.Err, parser.ErrMissingAttribute):
		if k, ok := ast.KindOf(e.Tag); ok {
			if required := ast.RequiredAttributes(k); len(required) > 0 {
				return format("<" + e.Tag + "> requires: " + strings.Join(required, ", "))
			}
		}
	case errors.Is(e.Err, parser.ErrUnknownTag):
		if e.Suggestion == "" {
			return format("mj-social, mj-navbar, mj-carousel, mj-accordion and mj-hero are not supported; use mj-raw for custom markup")
		}
	case errors.Is(e.Err, parser.ErrUnexpectedContent):
		return format("text belongs inside mj-text, mj-button or mj-raw")
	}
	return ""
}

func forRender(e *render.Error) string {
	switch {
	case errors.Is(e.Err, render.ErrWidthOverflow):
		return format("explicit column widths in a row must add up to 100% of the row, or leave room for unsized columns")
	case errors.Is(e.Err, render.ErrInvalidValue):
		return format("use a number with px or %, e.g. 300px or 50%")
	case errors.Is(e.Err, render.ErrInvalidOption):
		return format("breakpoints are pixel lengths, e.g. 480px")
	}
	return ""
}

// allowedParents lists the tags that accept tag as a child.
func allowedParents(tag string) []string {
	child, ok := ast.KindOf(tag)
	if !ok {
		return nil
	}
	var parents []string
	for _, name := range ast.Tags() {
		if k, _ := ast.KindOf(name); ast.CanContain(k, child) {
			parents = append(parents, name)
		}
	}
	sort.Strings(parents)
	return parents
}

// ForUnknownCommand suggests the closest known command.
func ForUnknownCommand(name string, commands []string) string {
	matches := fuzzy.Find(name, commands)
	if len(matches) == 0 {
		return format("run 'mjml help' for usage")
	}
	return format("did you mean '" + matches[0].Str + "'?")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-mjml/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForNoInput returns hints for a convert call without input.
func ForNoInput() string {
	return format("pass a .mjml file or directory, or - to read stdin")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAddressInUse returns hints for a listen address that is taken.
func ForAddressInUse(addr string) string {
	return format(addr + " is in use; pass --addr or set MJML_ADDR")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
