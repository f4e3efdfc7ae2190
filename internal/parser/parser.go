// Package parser turns MJML source text into an ast.Document.
//
// Tokenizing is delegated to golang.org/x/net/html. The parser adds what an
// HTML tokenizer does not know about: the mjml root, the component nesting
// table, required attributes and verbatim capture of ending-tag content.
package parser

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"golang.org/x/net/html"

	"github.com/alnah/go-mjml/internal/ast"
	"github.com/alnah/go-mjml/internal/css"
)

const includeTag = "mj-include"

type parser struct {
	input string
	lines []int // byte offset of each line start

	z    *html.Tokenizer
	off  int // absolute offset of the current token
	next int // absolute offset just past the current token

	stack      []*ast.Node
	doc        *ast.Document
	rootClosed bool
}

// Parse parses input into a Document. Errors are *Error values.
func Parse(input string) (*ast.Document, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &Error{Err: ErrEmptyInput, Line: 1, Column: 1, Detail: "input is empty"}
	}

	p := &parser{
		input: input,
		lines: lineStarts(input),
		doc:   &ast.Document{},
	}
	p.reset(0)

	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// position converts a byte offset into a 1-based line and rune column.
func (p *parser) position(offset int) ast.Position {
	if offset > len(p.input) {
		offset = len(p.input)
	}
	line := sort.SearchInts(p.lines, offset+1) - 1
	if line < 0 {
		line = 0
	}
	col := utf8.RuneCountInString(p.input[p.lines[line]:offset]) + 1
	return ast.Position{Offset: offset, Line: line + 1, Column: col}
}

// reset restarts tokenizing at an absolute offset.
func (p *parser) reset(offset int) {
	p.z = html.NewTokenizer(strings.NewReader(p.input[offset:]))
	p.next = offset
}

func (p *parser) errorAt(offset int, sentinel error, tag, format string, args ...any) *Error {
	pos := p.position(offset)
	return &Error{
		Err:    sentinel,
		Tag:    tag,
		Line:   pos.Line,
		Column: pos.Column,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (p *parser) top() *ast.Node {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) run() error {
	for {
		tt := p.z.Next()
		p.off = p.next
		p.next += len(p.z.Raw())

		var err error
		switch tt {
		case html.ErrorToken:
			if zerr := p.z.Err(); zerr != io.EOF {
				return p.errorAt(p.off, ErrUnexpectedContent, "", "malformed markup: %v", zerr)
			}
			return p.finish()
		case html.StartTagToken, html.SelfClosingTagToken:
			err = p.startTag(p.z.Token(), tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			err = p.endTag(p.z.Token().Data)
		case html.TextToken:
			err = p.text()
		case html.CommentToken:
			p.comment(p.z.Token().Data)
		case html.DoctypeToken:
			if len(p.stack) > 0 || p.doc.Root != nil {
				err = p.errorAt(p.off, ErrUnexpectedContent, "", "unexpected doctype")
			}
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) finish() error {
	if n := p.top(); n != nil {
		return p.errorAt(n.Pos.Offset, ErrUnclosedTag, n.Tag(), "unclosed tag <%s>", n.Tag())
	}
	if p.doc.Root == nil {
		return p.errorAt(0, ErrNoRoot, "mjml", "missing <mjml> root element")
	}
	return nil
}

func (p *parser) startTag(tok html.Token, selfClosing bool) error {
	name := tok.Data

	if name == includeTag {
		if selfClosing {
			return nil
		}
		_, err := p.capture(name, p.off)
		return err
	}

	parent := p.top()
	kind, ok := ast.KindOf(name)
	if !ok && parent != nil {
		e := p.errorAt(p.off, ErrUnknownTag, name, "unknown tag <%s>", name)
		e.Suggestion = Suggest(name)
		return e
	}

	node := &ast.Node{Kind: kind, Pos: p.position(p.off)}
	for _, a := range tok.Attr {
		node.SetAttr(a.Key, a.Val)
	}

	if parent == nil {
		return p.root(name, node, selfClosing)
	}
	if err := p.attach(parent, node); err != nil {
		return err
	}

	if selfClosing {
		return nil
	}
	// Defaults declared inside mj-attributes never carry content.
	if kind.IsEnding() && parent.Kind != ast.KindAttributes {
		content, err := p.capture(name, node.Pos.Offset)
		if err != nil {
			return err
		}
		node.Content = content
		return nil
	}
	p.stack = append(p.stack, node)
	return nil
}

func (p *parser) root(name string, node *ast.Node, selfClosing bool) error {
	if p.rootClosed {
		return p.errorAt(p.off, ErrUnexpectedContent, name, "unexpected <%s> after </mjml>", name)
	}
	if node.Kind != ast.KindMJML {
		return p.errorAt(p.off, ErrNoRoot, name, "expected <mjml> root element, found <%s>", name)
	}
	p.doc.Root = node
	if selfClosing {
		p.rootClosed = true
		return nil
	}
	p.stack = append(p.stack, node)
	return nil
}

func (p *parser) attach(parent, node *ast.Node) error {
	if !ast.CanContain(parent.Kind, node.Kind) {
		return p.errorAt(p.off, ErrInvalidNesting, node.Tag(),
			"<%s> is not allowed inside <%s>", node.Tag(), parent.Tag())
	}

	if parent.Kind == ast.KindMJML {
		switch node.Kind {
		case ast.KindHead:
			if p.doc.Head != nil {
				return p.errorAt(p.off, ErrUnexpectedTag, node.Tag(), "duplicate <%s>", node.Tag())
			}
			p.doc.Head = node
		case ast.KindBody:
			if p.doc.Body != nil {
				return p.errorAt(p.off, ErrUnexpectedTag, node.Tag(), "duplicate <%s>", node.Tag())
			}
			p.doc.Body = node
		}
	}

	if err := p.validate(parent, node); err != nil {
		return err
	}
	parent.Children = append(parent.Children, node)
	return nil
}

func (p *parser) validate(parent, node *ast.Node) error {
	if parent.Kind == ast.KindAttributes && node.Kind != ast.KindClass {
		return nil
	}
	for _, name := range ast.RequiredAttributes(node.Kind) {
		if _, ok := node.Attr(name); !ok {
			return p.errorAt(p.off, ErrMissingAttribute, node.Tag(),
				"<%s> requires the %q attribute", node.Tag(), name)
		}
	}
	if node.Kind == ast.KindBreakpoint {
		width, _ := node.Attr("width")
		if _, err := css.ParsePixels(width); err != nil {
			return p.errorAt(p.off, ErrInvalidAttribute, node.Tag(),
				"<%s> width must be a pixel value, got %q", node.Tag(), width)
		}
	}
	return nil
}

func (p *parser) endTag(name string) error {
	if name == includeTag {
		return nil
	}
	n := p.top()
	if n == nil {
		return p.errorAt(p.off, ErrUnexpectedTag, name, "unexpected closing tag </%s>", name)
	}
	if n.Tag() == name {
		p.stack = p.stack[:len(p.stack)-1]
		if len(p.stack) == 0 {
			p.rootClosed = true
		}
		return nil
	}
	for i := len(p.stack) - 2; i >= 0; i-- {
		if p.stack[i].Tag() == name {
			return p.errorAt(n.Pos.Offset, ErrUnclosedTag, n.Tag(), "unclosed tag <%s>", n.Tag())
		}
	}
	return p.errorAt(p.off, ErrUnexpectedTag, name, "unexpected closing tag </%s>", name)
}

func (p *parser) text() error {
	raw := p.input[p.off:p.next]
	trimmed := strings.TrimLeft(raw, " \t\r\n\f")
	if trimmed == "" {
		return nil
	}
	at := p.off + len(raw) - len(trimmed)

	n := p.top()
	switch {
	case n != nil:
		return p.errorAt(at, ErrUnexpectedContent, n.Tag(), "unexpected text inside <%s>", n.Tag())
	case p.doc.Root == nil:
		return p.errorAt(at, ErrNoRoot, "", "unexpected text before <mjml>")
	default:
		return p.errorAt(at, ErrUnexpectedContent, "", "unexpected text after </mjml>")
	}
}

func (p *parser) comment(data string) {
	n := p.top()
	if n == nil {
		return
	}
	// The tokenizer reports "<?xml ...?>" and "<!...>" as bogus comments.
	if !strings.HasPrefix(p.input[p.off:], "<!--") {
		return
	}
	n.Children = append(n.Children, &ast.Node{
		Kind:    ast.KindComment,
		Content: data,
		Pos:     p.position(p.off),
	})
}

// capture returns the verbatim markup between the current start tag and its
// matching end tag, balancing nested tags of the same name, then resumes
// tokenizing after the end tag.
func (p *parser) capture(tag string, startOffset int) (string, error) {
	open, closing := "<"+tag, "</"+tag
	depth := 0
	for i := p.next; ; {
		j := strings.IndexByte(p.input[i:], '<')
		if j < 0 {
			break
		}
		j += i
		rest := p.input[j:]
		switch {
		case hasTagPrefix(rest, closing):
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return "", p.errorAt(startOffset, ErrUnclosedTag, tag, "unclosed tag <%s>", tag)
			}
			if depth == 0 {
				content := p.input[p.next:j]
				p.reset(j + end + 1)
				return content, nil
			}
			depth--
		case hasTagPrefix(rest, open):
			if end := strings.IndexByte(rest, '>'); end > 0 && rest[end-1] != '/' {
				depth++
			}
		}
		i = j + 1
	}
	return "", p.errorAt(startOffset, ErrUnclosedTag, tag, "unclosed tag <%s>", tag)
}

// hasTagPrefix matches prefix case-insensitively, as the tokenizer lowercases
// tag names, and requires a tag boundary after it.
func hasTagPrefix(s, prefix string) bool {
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return false
	}
	switch s[len(prefix)] {
	case '>', '/', ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// Suggest returns the known tag closest to name, or "" when nothing is close.
func Suggest(name string) string {
	if !strings.HasPrefix(name, "mj") {
		return ""
	}
	matches := fuzzy.Find(name, ast.Tags())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
