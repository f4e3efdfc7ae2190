package render

import (
	"strings"

	"golang.org/x/net/html"
)

// style joins alternating property/value pairs into an inline style,
// dropping properties whose value is empty.
func style(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		b.WriteString(pairs[i])
		b.WriteByte(':')
		b.WriteString(pairs[i+1])
		b.WriteByte(';')
	}
	return b.String()
}

// classes joins non-empty class names.
func classes(names ...string) string {
	var b strings.Builder
	for _, n := range names {
		if n == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n)
	}
	return b.String()
}

// writer accumulates markup. Attribute pairs with empty values are skipped,
// except alt which images always carry.
type writer struct {
	strings.Builder
}

func (w *writer) tag(name string, attrs []string) {
	w.WriteByte('<')
	w.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		key, val := attrs[i], attrs[i+1]
		if val == "" && key != "alt" {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(key)
		w.WriteString(`="`)
		w.WriteString(html.EscapeString(val))
		w.WriteByte('"')
	}
}

// open writes a start tag followed by a newline.
func (w *writer) open(name string, attrs ...string) {
	w.tag(name, attrs)
	w.WriteString(">\n")
}

// openInline writes a start tag without a trailing newline.
func (w *writer) openInline(name string, attrs ...string) {
	w.tag(name, attrs)
	w.WriteByte('>')
}

// void writes a self-closing element.
func (w *writer) void(name string, attrs ...string) {
	w.tag(name, attrs)
	w.WriteString(" />\n")
}

func (w *writer) close(name string) {
	w.WriteString("</")
	w.WriteString(name)
	w.WriteString(">\n")
}

// line writes s followed by a newline.
func (w *writer) line(s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

// mso writes markup only Outlook and IE see.
func (w *writer) mso(s string) {
	w.WriteString("<!--[if mso | IE]>")
	w.WriteString(s)
	w.WriteString("<![endif]-->\n")
}

func (w *writer) comment(s string) {
	w.WriteString("<!--")
	w.WriteString(s)
	w.WriteString("-->\n")
}
