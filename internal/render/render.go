// Package render turns a parsed document into a complete HTML email.
//
// A render pass walks the tree depth-first. Containers compute the pixel box
// their children get and the share of the row each column takes; leaves emit
// their markup with fully resolved inline styles. Everything the head needs
// (fonts, media queries, styles) is collected during the walk and written
// once the body is done.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-mjml/internal/assets"
	"github.com/alnah/go-mjml/internal/ast"
	"github.com/alnah/go-mjml/internal/css"
)

// renderer holds the state of one pass. It is never shared.
type renderer struct {
	opts       Options
	loader     assets.AssetLoader
	g          *globals
	breakpoint float64
	fonts      []Font

	title   string
	preview string
	styles  []string
	headRaw []string

	mediaOrder      []string
	media           map[string]string
	fullWidthMobile bool

	out writer
}

// Render renders doc to an HTML document. Errors are *Error values.
func Render(doc *ast.Document, opts Options) (string, error) {
	if doc == nil || doc.Root == nil {
		return "", &Error{Err: ErrInvalidOption, Detail: "document has no <mjml> root"}
	}

	r, err := newRenderer(opts)
	if err != nil {
		return "", err
	}
	if err := r.head(doc.Head); err != nil {
		return "", err
	}
	if doc.Body != nil {
		if err := r.body(doc.Body); err != nil {
			return "", err
		}
	}
	return r.document(doc)
}

func newRenderer(opts Options) (*renderer, error) {
	bp := opts.Breakpoint
	if bp == "" {
		bp = DefaultBreakpoint
	}
	width, err := css.ParsePixels(bp)
	if err != nil {
		return nil, &Error{
			Err:       ErrInvalidOption,
			Attribute: "breakpoint",
			Value:     bp,
			Detail:    fmt.Sprintf("invalid breakpoint %q: must be a pixel value", bp),
		}
	}

	loader := opts.Assets
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	return &renderer{
		opts:       opts,
		loader:     loader,
		g:          newGlobals(),
		breakpoint: width,
		fonts:      append([]Font(nil), opts.Fonts...),
		media:      map[string]string{},
	}, nil
}

func (r *renderer) attrs(n *ast.Node) attrs {
	return attrs{node: n, g: r.g}
}

// addFont registers or replaces a font by name.
func (r *renderer) addFont(name, href string) {
	for i := range r.fonts {
		if r.fonts[i].Name == name {
			r.fonts[i].Href = href
			return
		}
	}
	r.fonts = append(r.fonts, Font{Name: name, Href: href})
}

// addMedia registers a desktop width rule for a column class.
func (r *renderer) addMedia(class, rule string) {
	if _, ok := r.media[class]; ok {
		return
	}
	r.media[class] = rule
	r.mediaOrder = append(r.mediaOrder, class)
}

func (r *renderer) comment(w *writer, n *ast.Node) {
	if r.opts.KeepComments {
		w.comment(n.Content)
	}
}

func (r *renderer) head(head *ast.Node) error {
	if head == nil {
		return nil
	}
	for _, n := range head.Children {
		switch n.Kind {
		case ast.KindAttributes:
			r.g.collect(n)
		case ast.KindBreakpoint:
			v, _ := n.Attr("width")
			width, err := css.ParsePixels(v)
			if err != nil {
				return invalidValue(n, "width", v)
			}
			r.breakpoint = width
		case ast.KindFont:
			name, _ := n.Attr("name")
			href, _ := n.Attr("href")
			r.addFont(name, href)
		case ast.KindPreview:
			r.preview = n.Content
		case ast.KindStyle:
			r.styles = append(r.styles, strings.TrimSpace(n.Content))
		case ast.KindTitle:
			r.title = n.Content
		case ast.KindRaw:
			r.headRaw = append(r.headRaw, n.Content)
		case ast.KindComment:
			if r.opts.KeepComments {
				r.headRaw = append(r.headRaw, "<!--"+n.Content+"-->")
			}
		}
	}
	return nil
}

var fontFamilyDecl = regexp.MustCompile(`font-family:([^;"]+)`)

// usedFonts returns the registered fonts referenced by a font-family
// declaration in markup, in registry order.
func (r *renderer) usedFonts(markup string) []Font {
	decls := fontFamilyDecl.FindAllStringSubmatch(markup, -1)
	var used []Font
	for _, f := range r.fonts {
		for _, d := range decls {
			if strings.Contains(d[1], f.Name) {
				used = append(used, f)
				break
			}
		}
	}
	return used
}

func (r *renderer) document(doc *ast.Document) (string, error) {
	reset, err := r.loader.LoadStyle(assets.StyleReset)
	if err != nil {
		return "", &Error{Err: ErrInvalidOption, Detail: fmt.Sprintf("loading %s style: %v", assets.StyleReset, err)}
	}
	outlook, err := r.loader.LoadStyle(assets.StyleOutlook)
	if err != nil {
		return "", &Error{Err: ErrInvalidOption, Detail: fmt.Sprintf("loading %s style: %v", assets.StyleOutlook, err)}
	}

	body := r.out.String()

	lang := doc.Lang()
	if lang == "" {
		lang = r.opts.Language
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	dir := doc.Dir()
	if dir == "" {
		dir = r.opts.Direction
	}
	if dir == "" {
		dir = DefaultDirection
	}

	var w writer
	w.line("<!doctype html>")
	w.open("html",
		"lang", lang,
		"dir", dir,
		"xmlns", "http://www.w3.org/1999/xhtml",
		"xmlns:v", "urn:schemas-microsoft-com:vml",
		"xmlns:o", "urn:schemas-microsoft-com:office:office",
	)
	w.open("head")
	w.openInline("title")
	w.WriteString(r.title)
	w.close("title")
	w.line("<!--[if !mso]><!-->")
	w.line(`<meta http-equiv="X-UA-Compatible" content="IE=edge">`)
	w.line("<!--<![endif]-->")
	w.line(`<meta http-equiv="Content-Type" content="text/html; charset=UTF-8">`)
	w.line(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.open("style", "type", "text/css")
	w.line(strings.TrimSpace(reset))
	w.close("style")
	w.line("<!--[if mso]>")
	w.line("<noscript>")
	w.line("<xml>")
	w.line("<o:OfficeDocumentSettings>")
	w.line("<o:AllowPNG/>")
	w.line("<o:PixelsPerInch>96</o:PixelsPerInch>")
	w.line("</o:OfficeDocumentSettings>")
	w.line("</xml>")
	w.line("</noscript>")
	w.line("<![endif]-->")
	w.line("<!--[if lte mso 11]>")
	w.open("style", "type", "text/css")
	w.line(strings.TrimSpace(outlook))
	w.close("style")
	w.line("<![endif]-->")

	if fonts := r.usedFonts(body); len(fonts) > 0 {
		w.line("<!--[if !mso]><!-->")
		for _, f := range fonts {
			w.openInline("link", "href", f.Href, "rel", "stylesheet", "type", "text/css")
			w.WriteByte('\n')
		}
		w.open("style", "type", "text/css")
		for _, f := range fonts {
			w.line(fmt.Sprintf("@import url(%s);", f.Href))
		}
		w.close("style")
		w.line("<!--<![endif]-->")
	}

	if len(r.mediaOrder) > 0 {
		bp := css.Px(r.breakpoint)
		w.open("style", "type", "text/css")
		w.line(fmt.Sprintf("@media only screen and (min-width:%s) {", bp))
		for _, class := range r.mediaOrder {
			w.line(fmt.Sprintf(".%s { %s }", class, r.media[class]))
		}
		w.line("}")
		w.close("style")
		w.open("style", "media", fmt.Sprintf("screen and (min-width:%s)", bp))
		for _, class := range r.mediaOrder {
			w.line(fmt.Sprintf(".moz-text-html .%s { %s }", class, r.media[class]))
		}
		w.close("style")
	}

	if r.fullWidthMobile {
		w.open("style", "type", "text/css")
		w.line(fmt.Sprintf("@media only screen and (max-width:%s) {", css.Px(r.breakpoint-1)))
		w.line("table.mj-full-width-mobile { width: 100% !important; }")
		w.line("td.mj-full-width-mobile { width: auto !important; }")
		w.line("}")
		w.close("style")
	}

	for _, s := range r.styles {
		w.open("style", "type", "text/css")
		w.line(s)
		w.close("style")
	}
	for _, raw := range r.headRaw {
		w.line(raw)
	}
	w.close("head")

	bodyStyle := "word-spacing:normal;"
	if doc.Body != nil {
		bodyStyle = style("word-spacing", "normal", "background-color", r.attrs(doc.Body).get("background-color"))
	}
	w.open("body", "style", bodyStyle)
	w.WriteString(body)
	w.close("body")
	w.close("html")

	return w.String(), nil
}
