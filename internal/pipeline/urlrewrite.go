package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ErrInvalidBaseURL indicates the base URL cannot be parsed or is not absolute.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// rewritable maps tags to the attribute holding their URL.
var rewritable = map[string]string{
	"img": "src",
	"a":   "href",
}

// skippedPrefixes are URL forms left untouched: fragments, non-HTTP schemes
// and the placeholder syntaxes of common mail templating engines.
var skippedPrefixes = []string{
	"#", "//", "mailto:", "tel:", "data:", "cid:",
	"{{", "[[", "*|", "%", "$",
}

// RewriteRelativeURLs resolves relative img src and a href values against
// baseURL. Only the rewritten tags are re-serialized; everything else,
// including conditional comments, is copied byte for byte.
func RewriteRelativeURLs(htmlContent, baseURL string) (string, error) {
	if baseURL == "" {
		return htmlContent, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("%w: %q is not absolute", ErrInvalidBaseURL, baseURL)
	}

	var out strings.Builder
	out.Grow(len(htmlContent))
	z := html.NewTokenizer(strings.NewReader(htmlContent))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return out.String(), nil
			}
			return "", z.Err()
		}
		// Token() unescapes attribute values in place, so Raw must be copied first.
		raw := string(z.Raw())
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.WriteString(raw)
			continue
		}

		tok := z.Token()
		key, ok := rewritable[tok.Data]
		if !ok || !rewriteAttr(tok.Attr, key, base) {
			out.WriteString(raw)
			continue
		}
		writeTag(&out, tok, tt == html.SelfClosingTagToken)
	}
}

// rewriteAttr resolves the named attribute in place and reports whether it changed.
func rewriteAttr(attrs []html.Attribute, key string, base *url.URL) bool {
	for i, a := range attrs {
		if a.Key != key || !isRelative(a.Val) {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(a.Val))
		if err != nil {
			return false
		}
		attrs[i].Val = base.ResolveReference(ref).String()
		return true
	}
	return false
}

func isRelative(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	for _, p := range skippedPrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}

func writeTag(out *strings.Builder, tok html.Token, selfClosing bool) {
	out.WriteByte('<')
	out.WriteString(tok.Data)
	for _, a := range tok.Attr {
		out.WriteByte(' ')
		out.WriteString(a.Key)
		out.WriteString(`="`)
		out.WriteString(html.EscapeString(a.Val))
		out.WriteByte('"')
	}
	if selfClosing {
		out.WriteString(" />")
		return
	}
	out.WriteByte('>')
}
