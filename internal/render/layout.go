package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/alnah/go-mjml/internal/ast"
	"github.com/alnah/go-mjml/internal/css"
)

const fullShare = 10000 // 100% in hundredths of a percent

// columnWidth is the resolved width of one column or group in its row.
type columnWidth struct {
	share  int     // hundredths of a percent of the row
	pixels float64 // width inside the row's box
	class  string  // desktop width class
	rule   string  // declarations of the class
}

// percent formats the share, e.g. "33.33%".
func (c columnWidth) percent() string {
	return css.FormatNumber(float64(c.share)/100) + "%"
}

func (r *renderer) body(n *ast.Node) error {
	a := r.attrs(n)
	width, ok, err := a.pixels("width")
	if err != nil {
		return err
	}
	if !ok {
		width = 600
	}

	w := &r.out
	bg := a.get("background-color")
	w.open("div", "class", a.get("css-class"), "style", style("background-color", bg))
	if r.preview != "" {
		w.openInline("div", "style", "display:none;font-size:1px;color:#ffffff;line-height:1px;max-height:0px;max-width:0px;opacity:0;overflow:hidden;")
		w.WriteString(r.preview)
		w.close("div")
	}
	for _, child := range n.Children {
		if err := r.block(child, width, false); err != nil {
			return err
		}
	}
	w.close("div")
	return nil
}

// block renders a child of mj-body or mj-wrapper.
func (r *renderer) block(n *ast.Node, width float64, nested bool) error {
	switch n.Kind {
	case ast.KindSection:
		return r.row(n, width, nested, r.columns)
	case ast.KindWrapper:
		return r.row(n, width, nested, r.wrapped)
	case ast.KindRaw:
		r.out.line(n.Content)
	case ast.KindComment:
		r.comment(&r.out, n)
	}
	return nil
}

// row renders the frame shared by mj-section and mj-wrapper and calls inner
// with the content box width.
func (r *renderer) row(n *ast.Node, width float64, nested bool, inner func(*ast.Node, float64) error) error {
	a := r.attrs(n)
	pad, err := a.padding("padding")
	if err != nil {
		return err
	}
	box := math.Max(0, width-pad.Horizontal()-a.borderWidth())

	fullWidth := a.get("full-width") == "full-width" && !nested
	bg := a.get("background-color")
	radius := a.get("border-radius")
	cssClass := a.get("css-class")
	w := &r.out

	if fullWidth {
		w.open("table",
			"align", "center",
			"border", "0",
			"cellpadding", "0",
			"cellspacing", "0",
			"class", cssClass,
			"role", "presentation",
			"style", style("background", bg, "background-color", bg, "width", "100%"),
		)
		w.open("tbody")
		w.open("tr")
		w.open("td")
	}
	if !nested {
		w.mso(fmt.Sprintf(`<table align="center" border="0" cellpadding="0" cellspacing="0" role="presentation" style="width:%s;" width="%s" ><tr><td style="line-height:0px;font-size:0px;mso-line-height-rule:exactly;">`,
			css.Px(width), css.FormatNumber(width)))
	}

	divBg, divClass := bg, cssClass
	if fullWidth {
		divBg, divClass = "", ""
	}
	w.open("div",
		"class", divClass,
		"style", style("background", divBg, "background-color", divBg, "margin", "0px auto", "border-radius", radius, "max-width", css.Px(width)),
	)
	w.open("table",
		"align", "center",
		"border", "0",
		"cellpadding", "0",
		"cellspacing", "0",
		"role", "presentation",
		"style", style("background", divBg, "background-color", divBg, "width", "100%", "border-radius", radius),
	)
	w.open("tbody")
	w.open("tr")
	w.open("td", "style", style(
		"border", a.get("border"),
		"border-bottom", a.get("border-bottom"),
		"border-left", a.get("border-left"),
		"border-right", a.get("border-right"),
		"border-top", a.get("border-top"),
		"direction", a.get("direction"),
		"font-size", "0px",
		"padding", a.get("padding"),
		"padding-bottom", a.get("padding-bottom"),
		"padding-left", a.get("padding-left"),
		"padding-right", a.get("padding-right"),
		"padding-top", a.get("padding-top"),
		"text-align", a.get("text-align"),
	))

	if err := inner(n, box); err != nil {
		return err
	}

	w.close("td")
	w.close("tr")
	w.close("tbody")
	w.close("table")
	w.close("div")
	if !nested {
		w.mso("</td></tr></table>")
	}
	if fullWidth {
		w.close("td")
		w.close("tr")
		w.close("tbody")
		w.close("table")
	}
	return nil
}

// wrapped renders the sections of a wrapper, each in its own Outlook row.
func (r *renderer) wrapped(wrapper *ast.Node, box float64) error {
	w := &r.out
	w.mso(`<table role="presentation" border="0" cellpadding="0" cellspacing="0">`)
	for _, child := range wrapper.Children {
		if child.Kind != ast.KindSection {
			if err := r.block(child, box, true); err != nil {
				return err
			}
			continue
		}
		w.mso(fmt.Sprintf(`<tr><td width="%s" >`, css.Px(box)))
		if err := r.block(child, box, true); err != nil {
			return err
		}
		w.mso("</td></tr>")
	}
	w.mso("</table>")
	return nil
}

// columns renders the columns and groups of a section.
func (r *renderer) columns(section *ast.Node, box float64) error {
	widths, err := r.distribute(section, box)
	if err != nil {
		return err
	}

	w := &r.out
	w.mso(`<table role="presentation" border="0" cellpadding="0" cellspacing="0"><tr>`)
	i := 0
	for _, child := range section.Children {
		switch child.Kind {
		case ast.KindColumn, ast.KindGroup:
			cw := widths[i]
			i++
			valign := r.attrs(child).get("vertical-align")
			if valign == "" {
				valign = "top"
			}
			w.mso(fmt.Sprintf(`<td style="vertical-align:%s;width:%s;" >`, valign, css.Px(cw.pixels)))
			if child.Kind == ast.KindGroup {
				err = r.group(child, cw)
			} else {
				err = r.column(child, cw, "100%")
			}
			if err != nil {
				return err
			}
			w.mso("</td>")
		case ast.KindRaw:
			w.line(child.Content)
		case ast.KindComment:
			r.comment(w, child)
		}
	}
	w.mso("</tr></table>")
	return nil
}

func (r *renderer) group(n *ast.Node, cw columnWidth) error {
	a := r.attrs(n)
	widths, err := r.distribute(n, cw.pixels)
	if err != nil {
		return err
	}
	bg := a.get("background-color")

	w := &r.out
	w.open("div",
		"class", classes(cw.class, "mj-outlook-group-fix", a.get("css-class")),
		"style", style(
			"font-size", "0",
			"line-height", "0",
			"text-align", "left",
			"display", "inline-block",
			"width", "100%",
			"direction", a.get("direction"),
			"vertical-align", a.get("vertical-align"),
			"background-color", bg,
		),
	)
	w.mso(fmt.Sprintf(`<table%s border="0" cellpadding="0" cellspacing="0" role="presentation"><tr>`, bgcolorAttr(bg)))
	i := 0
	for _, child := range n.Children {
		switch child.Kind {
		case ast.KindColumn:
			col := widths[i]
			i++
			valign := r.attrs(child).get("vertical-align")
			w.mso(fmt.Sprintf(`<td style="vertical-align:%s;width:%s;" >`, valign, css.Px(col.pixels)))
			if err := r.column(child, col, col.percent()); err != nil {
				return err
			}
			w.mso("</td>")
		case ast.KindRaw:
			w.line(child.Content)
		case ast.KindComment:
			r.comment(w, child)
		}
	}
	w.mso("</tr></table>")
	w.close("div")
	return nil
}

func bgcolorAttr(color string) string {
	if color == "" {
		return ""
	}
	return fmt.Sprintf(` bgcolor="%s"`, color)
}

// column renders a column. mobileWidth is its width below the breakpoint:
// 100% in sections, its own share inside groups.
func (r *renderer) column(n *ast.Node, cw columnWidth, mobileWidth string) error {
	a := r.attrs(n)
	pad, err := a.padding("padding")
	if err != nil {
		return err
	}
	content := math.Max(0, cw.pixels-pad.Horizontal()-a.borderWidth())

	w := &r.out
	w.open("div",
		"class", classes(cw.class, "mj-outlook-group-fix", a.get("css-class")),
		"style", style(
			"font-size", "0px",
			"text-align", "left",
			"direction", a.get("direction"),
			"display", "inline-block",
			"vertical-align", a.get("vertical-align"),
			"width", mobileWidth,
		),
	)

	frame := style(
		"background-color", a.get("background-color"),
		"border", a.get("border"),
		"border-bottom", a.get("border-bottom"),
		"border-left", a.get("border-left"),
		"border-radius", a.get("border-radius"),
		"border-right", a.get("border-right"),
		"border-top", a.get("border-top"),
		"vertical-align", a.get("vertical-align"),
	)
	gutter := a.has("padding") || a.has("padding-top") || a.has("padding-right") ||
		a.has("padding-bottom") || a.has("padding-left")

	tableAttrs := []string{"border", "0", "cellpadding", "0", "cellspacing", "0", "role", "presentation"}
	if gutter {
		w.open("table", append(tableAttrs, "width", "100%")...)
		w.open("tbody")
		w.open("tr")
		w.open("td", "style", frame+style(
			"padding", a.get("padding"),
			"padding-bottom", a.get("padding-bottom"),
			"padding-left", a.get("padding-left"),
			"padding-right", a.get("padding-right"),
			"padding-top", a.get("padding-top"),
		))
		w.open("table", append(tableAttrs, "width", "100%")...)
	} else {
		w.open("table", append(tableAttrs, "style", frame, "width", "100%")...)
	}
	w.open("tbody")

	for _, child := range n.Children {
		if err := r.leaf(child, content); err != nil {
			return err
		}
	}

	w.close("tbody")
	w.close("table")
	if gutter {
		w.close("td")
		w.close("tr")
		w.close("tbody")
		w.close("table")
	}
	w.close("div")
	return nil
}

// distribute resolves the widths of the columns and groups of a row.
func (r *renderer) distribute(row *ast.Node, box float64) ([]columnWidth, error) {
	var authored []*css.Length
	for _, child := range row.Children {
		if !child.Kind.IsColumnLike() {
			continue
		}
		l, ok, err := r.attrs(child).length("width")
		if err != nil {
			return nil, err
		}
		if ok {
			authored = append(authored, &l)
		} else {
			authored = append(authored, nil)
		}
	}

	sh, err := shares(authored, box)
	if err != nil {
		return nil, widthOverflow(row, err.Error())
	}

	keep := true
	for _, l := range authored {
		if l == nil {
			keep = false
			break
		}
	}

	widths := make([]columnWidth, len(sh))
	for i, s := range sh {
		cw := columnWidth{share: s, pixels: box * float64(s) / fullShare}
		if keep && !authored[i].IsPercent() {
			px := authored[i].Value
			cw.pixels = px
			cw.class = "mj-column-px-" + classSuffix(px)
			cw.rule = fmt.Sprintf("width:%s !important; max-width: %s;", css.Px(px), css.Px(px))
		} else {
			pct := cw.percent()
			cw.class = "mj-column-per-" + classSuffix(float64(s)/100)
			cw.rule = fmt.Sprintf("width:%s !important; max-width: %s;", pct, pct)
		}
		r.addMedia(cw.class, cw.rule)
		widths[i] = cw
	}
	return widths, nil
}

func classSuffix(n float64) string {
	return strings.ReplaceAll(css.FormatNumber(n), ".", "-")
}

// shares computes each child's share of a row in hundredths of a percent.
// A nil entry is an unsized child. Unsized children split what explicit
// widths leave, the last one absorbing the rounding remainder, so the row
// sums to exactly 100%. A row of sized children must already add up to 100%
// within one hundredth per child; the last child absorbs that difference.
func shares(widths []*css.Length, box float64) ([]int, error) {
	out := make([]int, len(widths))
	if len(widths) == 0 {
		return out, nil
	}
	used, sized, unsized, lastUnsized := 0, 0, 0, -1
	for i, w := range widths {
		switch {
		case w == nil:
			unsized++
			lastUnsized = i
			continue
		case w.IsPercent():
			if w.Value > 100 {
				return nil, fmt.Errorf("has a %g%% column, more than 100%%", w.Value)
			}
			out[i] = int(math.Round(w.Value * 100))
		default:
			if box <= 0 {
				return nil, fmt.Errorf("has no room for a %s column", css.Px(w.Value))
			}
			if w.Value > box {
				return nil, fmt.Errorf("has a %gpx column, wider than its %s box", w.Value, css.Px(box))
			}
			out[i] = int(math.Round(w.Value / box * fullShare))
		}
		used += out[i]
		sized++
	}

	if used > fullShare+sized {
		return nil, fmt.Errorf("column widths add up to %s%%, more than 100%%", css.FormatNumber(float64(used)/100))
	}
	if unsized == 0 {
		if fullShare-used > sized {
			return nil, fmt.Errorf("column widths add up to %s%%, not 100%%", css.FormatNumber(float64(used)/100))
		}
		out[len(out)-1] += fullShare - used
		return out, nil
	}

	remaining := fullShare - used
	if remaining <= 0 {
		return nil, fmt.Errorf("explicit column widths leave no room for %d unsized column(s)", unsized)
	}
	each := remaining / unsized
	for i, w := range widths {
		if w == nil {
			out[i] = each
		}
	}
	out[lastUnsized] += remaining - each*unsized
	return out, nil
}
