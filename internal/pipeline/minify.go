package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// Sentinel errors for minification.
var (
	ErrMinify      = errors.New("minification failed")
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// EncodingError reports text that is not valid UTF-8.
type EncodingError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v at byte %d", ErrInvalidUTF8, e.Offset)
}

func (e *EncodingError) Unwrap() error { return ErrInvalidUTF8 }

// Minifier shrinks a rendered document.
type Minifier interface {
	Minify(ctx context.Context, htmlContent string) (string, error)
}

// HTMLMinifier collapses whitespace and minifies embedded CSS. End tags,
// document tags, quotes, default attribute values and conditional comments
// are kept: mail clients depend on all of them.
type HTMLMinifier struct {
	m *minify.M
}

// NewHTMLMinifier creates an HTMLMinifier.
func NewHTMLMinifier() *HTMLMinifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepEndTags:         true,
		KeepDocumentTags:    true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
		KeepSpecialComments: true,
	})
	return &HTMLMinifier{m: m}
}

// Minify returns the minified document. The input is returned unchanged when
// minification would not make it shorter.
func (h *HTMLMinifier) Minify(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	protected, blocks := protectConditionals(htmlContent)
	out, err := h.m.String("text/html", protected)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	out = restoreConditionals(out, blocks)
	if err := ValidateUTF8(out); err != nil {
		return "", err
	}
	if len(out) >= len(htmlContent) {
		return htmlContent, nil
	}
	return out, nil
}

const (
	conditionalOpen   = "<!--[if "
	conditionalEnd    = "<![endif]-->"
	revealedMarker    = "<!-->"
	placeholderPrefix = "mjmlconditional"
)

// conditionalBlocks holds the hidden conditional comments taken out of a
// document and the placeholder prefix that stands in for them.
type conditionalBlocks struct {
	prefix string
	bodies []string
}

func (c *conditionalBlocks) placeholder(i int) string {
	return c.prefix + strconv.Itoa(i) + "x"
}

// protectConditionals replaces every <!--[if ...]>...<![endif]--> block with
// a plain text placeholder. Their bodies hold Outlook XML such as
// <o:AllowPNG/> whose case and self-closing form must survive minification.
// Downlevel-revealed openers (<!--[if !mso]><!-->) are left in place.
func protectConditionals(doc string) (string, *conditionalBlocks) {
	blocks := &conditionalBlocks{prefix: placeholderPrefix}
	for strings.Contains(doc, blocks.prefix) {
		blocks.prefix += "x"
	}

	var out strings.Builder
	rest := doc
	for {
		start := strings.Index(rest, conditionalOpen)
		if start == -1 {
			break
		}
		cond := strings.Index(rest[start:], "]>")
		if cond == -1 {
			break
		}
		bodyStart := start + cond + len("]>")
		if strings.HasPrefix(rest[bodyStart:], revealedMarker) {
			out.WriteString(rest[:bodyStart+len(revealedMarker)])
			rest = rest[bodyStart+len(revealedMarker):]
			continue
		}
		end := strings.Index(rest[bodyStart:], conditionalEnd)
		if end == -1 {
			break
		}
		stop := bodyStart + end + len(conditionalEnd)
		out.WriteString(rest[:start])
		out.WriteString(blocks.placeholder(len(blocks.bodies)))
		blocks.bodies = append(blocks.bodies, rest[start:stop])
		rest = rest[stop:]
	}
	if len(blocks.bodies) == 0 {
		return doc, blocks
	}
	out.WriteString(rest)
	return out.String(), blocks
}

// restoreConditionals puts the original blocks back, byte for byte.
func restoreConditionals(doc string, blocks *conditionalBlocks) string {
	for i, body := range blocks.bodies {
		doc = strings.Replace(doc, blocks.placeholder(i), body, 1)
	}
	return doc
}

// ValidateUTF8 returns an *EncodingError locating the first invalid sequence
// in s, or nil.
func ValidateUTF8(s string) error {
	if utf8.ValidString(s) {
		return nil
	}
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size <= 1 {
				return &EncodingError{Offset: i}
			}
		}
	}
	return &EncodingError{Offset: len(s)}
}

// Compile-time interface check.
var _ Minifier = (*HTMLMinifier)(nil)
