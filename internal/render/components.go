package render

import (
	"fmt"
	"math"

	"github.com/alnah/go-mjml/internal/ast"
	"github.com/alnah/go-mjml/internal/css"
)

// leaf renders a column child in its own table row. box is the column's
// content width.
func (r *renderer) leaf(n *ast.Node, box float64) error {
	w := &r.out
	switch n.Kind {
	case ast.KindRaw:
		w.line(n.Content)
		return nil
	case ast.KindComment:
		r.comment(w, n)
		return nil
	}

	a := r.attrs(n)
	pad, err := a.padding("padding")
	if err != nil {
		return err
	}
	if _, _, err := a.length("width"); err != nil {
		return err
	}
	inner := math.Max(0, box-pad.Horizontal())

	w.open("tr")
	w.open("td",
		"align", a.get("align"),
		"class", a.get("css-class"),
		"style", style(
			"background", a.get("container-background-color"),
			"font-size", "0px",
			"padding", a.get("padding"),
			"padding-top", a.get("padding-top"),
			"padding-right", a.get("padding-right"),
			"padding-bottom", a.get("padding-bottom"),
			"padding-left", a.get("padding-left"),
			"word-break", "break-word",
		),
	)

	switch n.Kind {
	case ast.KindText:
		err = r.text(a)
	case ast.KindImage:
		err = r.image(a, inner)
	case ast.KindButton:
		err = r.button(a)
	case ast.KindDivider:
		err = r.divider(a, inner)
	case ast.KindSpacer:
		err = r.spacer(a)
	case ast.KindTable:
		err = r.table(a)
	}
	if err != nil {
		return err
	}

	w.close("td")
	w.close("tr")
	return nil
}

func (r *renderer) text(a attrs) error {
	if _, _, err := a.pixels("height"); err != nil {
		return err
	}
	w := &r.out
	w.openInline("div", "style", style(
		"font-family", a.get("font-family"),
		"font-size", a.get("font-size"),
		"font-style", a.get("font-style"),
		"font-weight", a.get("font-weight"),
		"letter-spacing", a.get("letter-spacing"),
		"line-height", a.get("line-height"),
		"text-align", a.get("align"),
		"text-decoration", a.get("text-decoration"),
		"text-transform", a.get("text-transform"),
		"color", a.get("color"),
		"height", a.get("height"),
	))
	w.WriteString(a.node.Content)
	w.close("div")
	return nil
}

func (r *renderer) image(a attrs, box float64) error {
	width := box
	if px, ok, err := a.pixels("width"); err != nil {
		return err
	} else if ok {
		width = math.Min(px, box)
	}
	height, heightAttr := "auto", "auto"
	if px, ok, err := a.pixels("height"); err != nil {
		return err
	} else if ok {
		height, heightAttr = css.Px(px), css.FormatNumber(px)
	}

	fluid := a.get("fluid-on-mobile") == "true"
	mobileClass := ""
	tdWidth := css.Px(width)
	if fluid {
		r.fullWidthMobile = true
		mobileClass = "mj-full-width-mobile"
		tdWidth = ""
	}

	w := &r.out
	w.open("table",
		"border", "0",
		"cellpadding", "0",
		"cellspacing", "0",
		"role", "presentation",
		"style", style("border-collapse", "collapse", "border-spacing", "0px"),
		"class", mobileClass,
	)
	w.open("tbody")
	w.open("tr")
	w.open("td", "style", style("width", tdWidth), "class", mobileClass)

	href := a.get("href")
	if href != "" {
		w.open("a", "href", href, "target", a.get("target"), "rel", a.get("rel"), "title", a.get("title"))
	}
	w.void("img",
		"alt", a.get("alt"),
		"height", heightAttr,
		"src", a.get("src"),
		"srcset", a.get("srcset"),
		"style", style(
			"border", a.get("border"),
			"border-radius", a.get("border-radius"),
			"display", "block",
			"outline", "none",
			"text-decoration", "none",
			"height", height,
			"width", "100%",
			"font-size", a.get("font-size"),
		),
		"title", a.get("title"),
		"width", css.FormatNumber(width),
	)
	if href != "" {
		w.close("a")
	}

	w.close("td")
	w.close("tr")
	w.close("tbody")
	w.close("table")
	return nil
}

func (r *renderer) button(a attrs) error {
	width, hasWidth, err := a.length("width")
	if err != nil {
		return err
	}
	if _, err := a.padding("inner-padding"); err != nil {
		return err
	}
	widthCSS := ""
	if hasWidth {
		widthCSS = width.String()
	}

	bg := a.get("background-color")
	radius := a.get("border-radius")
	innerPadding := a.get("inner-padding")

	w := &r.out
	w.open("table",
		"border", "0",
		"cellpadding", "0",
		"cellspacing", "0",
		"role", "presentation",
		"style", style("border-collapse", "separate", "width", widthCSS, "line-height", "100%"),
	)
	w.open("tbody")
	w.open("tr")
	w.open("td",
		"align", "center",
		"bgcolor", bg,
		"role", "presentation",
		"style", style(
			"border", a.get("border"),
			"border-bottom", a.get("border-bottom"),
			"border-left", a.get("border-left"),
			"border-radius", radius,
			"border-right", a.get("border-right"),
			"border-top", a.get("border-top"),
			"cursor", "auto",
			"font-style", a.get("font-style"),
			"height", a.get("height"),
			"mso-padding-alt", innerPadding,
			"text-align", a.get("text-align"),
			"background", bg,
		),
		"valign", a.get("vertical-align"),
	)

	linkStyle := style(
		"display", "inline-block",
		"width", widthCSS,
		"background", bg,
		"color", a.get("color"),
		"font-family", a.get("font-family"),
		"font-size", a.get("font-size"),
		"font-style", a.get("font-style"),
		"font-weight", a.get("font-weight"),
		"line-height", a.get("line-height"),
		"letter-spacing", a.get("letter-spacing"),
		"margin", "0",
		"text-decoration", a.get("text-decoration"),
		"text-transform", a.get("text-transform"),
		"padding", innerPadding,
		"mso-padding-alt", "0px",
		"border-radius", radius,
	)
	tag := "p"
	if href := a.get("href"); href != "" {
		tag = "a"
		w.openInline("a", "href", href, "rel", a.get("rel"), "title", a.get("title"), "style", linkStyle, "target", a.get("target"))
	} else {
		w.openInline("p", "style", linkStyle)
	}
	w.WriteString(a.node.Content)
	w.close(tag)

	w.close("td")
	w.close("tr")
	w.close("tbody")
	w.close("table")
	return nil
}

func (r *renderer) divider(a attrs, box float64) error {
	width, _, err := a.length("width")
	if err != nil {
		return err
	}
	borderWidth, _, err := a.pixels("border-width")
	if err != nil {
		return err
	}

	border := fmt.Sprintf("%s %s %s", a.get("border-style"), css.Px(borderWidth), a.get("border-color"))
	margin := "0px auto"
	switch a.get("align") {
	case "left":
		margin = "0px"
	case "right":
		margin = "0px 0px 0px auto"
	}

	outlook := width.Value
	if width.IsPercent() {
		outlook = box * width.Value / 100
	}

	w := &r.out
	w.openInline("p", "style", style(
		"border-top", border,
		"font-size", "1px",
		"margin", margin,
		"width", width.String(),
	))
	w.close("p")
	w.mso(fmt.Sprintf(`<table align="%s" border="0" cellpadding="0" cellspacing="0" style="%s" role="presentation" width="%s" ><tr><td style="height:0;line-height:0;"> &nbsp;
</td></tr></table>`,
		a.get("align"),
		style("border-top", border, "font-size", "1px", "margin", margin, "width", css.Px(outlook)),
		css.Px(outlook),
	))
	return nil
}

func (r *renderer) spacer(a attrs) error {
	height, _, err := a.pixels("height")
	if err != nil {
		return err
	}
	h := css.Px(height)
	w := &r.out
	w.openInline("div", "style", style("height", h, "line-height", h))
	w.WriteString("&#8202;")
	w.close("div")
	return nil
}

func (r *renderer) table(a attrs) error {
	width, _, err := a.length("width")
	if err != nil {
		return err
	}
	widthAttr := css.FormatNumber(width.Value)
	if width.IsPercent() {
		widthAttr = width.String()
	}

	w := &r.out
	w.openInline("table",
		"cellpadding", a.get("cellpadding"),
		"cellspacing", a.get("cellspacing"),
		"width", widthAttr,
		"border", "0",
		"style", style(
			"color", a.get("color"),
			"font-family", a.get("font-family"),
			"font-size", a.get("font-size"),
			"line-height", a.get("line-height"),
			"table-layout", a.get("table-layout"),
			"width", width.String(),
			"border", a.get("border"),
		),
	)
	w.WriteString(a.node.Content)
	w.close("table")
	return nil
}
