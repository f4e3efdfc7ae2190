package render

import (
	"strings"

	"github.com/alnah/go-mjml/internal/ast"
	"github.com/alnah/go-mjml/internal/css"
)

const defaultFontFamily = "Ubuntu, Helvetica, Arial, sans-serif"

// defaults holds the built-in attribute values of each component.
var defaults = map[ast.Kind]map[string]string{
	ast.KindBody: {
		"width": DefaultBodyWidth,
	},
	ast.KindWrapper: {
		"direction":  "ltr",
		"padding":    "20px 0",
		"text-align": "center",
	},
	ast.KindSection: {
		"direction":  "ltr",
		"padding":    "20px 0",
		"text-align": "center",
	},
	ast.KindGroup: {
		"direction": "ltr",
	},
	ast.KindColumn: {
		"direction":      "ltr",
		"vertical-align": "top",
	},
	ast.KindText: {
		"align":       "left",
		"color":       "#000000",
		"font-family": defaultFontFamily,
		"font-size":   "13px",
		"line-height": "1",
		"padding":     "10px 25px",
	},
	ast.KindImage: {
		"align":     "center",
		"alt":       "",
		"border":    "0",
		"height":    "auto",
		"padding":   "10px 25px",
		"target":    "_blank",
		"font-size": "13px",
	},
	ast.KindButton: {
		"align":            "center",
		"background-color": "#414141",
		"border":           "none",
		"border-radius":    "3px",
		"color":            "#ffffff",
		"font-family":      defaultFontFamily,
		"font-size":        "13px",
		"font-weight":      "normal",
		"inner-padding":    "10px 25px",
		"line-height":      "120%",
		"padding":          "10px 25px",
		"target":           "_blank",
		"text-decoration":  "none",
		"text-transform":   "none",
		"vertical-align":   "middle",
	},
	ast.KindDivider: {
		"align":        "center",
		"border-color": "#000000",
		"border-style": "solid",
		"border-width": "4px",
		"padding":      "10px 25px",
		"width":        "100%",
	},
	ast.KindSpacer: {
		"height": "20px",
	},
	ast.KindTable: {
		"align":        "left",
		"border":       "none",
		"cellpadding":  "0",
		"cellspacing":  "0",
		"color":        "#000000",
		"font-family":  defaultFontFamily,
		"font-size":    "13px",
		"line-height":  "22px",
		"padding":      "10px 25px",
		"table-layout": "auto",
		"width":        "100%",
	},
}

// globals holds the mj-attributes declarations of a document.
type globals struct {
	all     map[string]string
	tags    map[ast.Kind]map[string]string
	classes map[string]map[string]string
}

func newGlobals() *globals {
	return &globals{
		all:     map[string]string{},
		tags:    map[ast.Kind]map[string]string{},
		classes: map[string]map[string]string{},
	}
}

// collect reads one mj-attributes block. Later declarations override earlier ones.
func (g *globals) collect(block *ast.Node) {
	for _, child := range block.Children {
		switch child.Kind {
		case ast.KindComment:
			continue
		case ast.KindAll:
			for _, a := range child.Attrs {
				g.all[a.Name] = a.Value
			}
		case ast.KindClass:
			name, _ := child.Attr("name")
			class := g.classes[name]
			if class == nil {
				class = map[string]string{}
				g.classes[name] = class
			}
			for _, a := range child.Attrs {
				if a.Name != "name" {
					class[a.Name] = a.Value
				}
			}
		default:
			tag := g.tags[child.Kind]
			if tag == nil {
				tag = map[string]string{}
				g.tags[child.Kind] = tag
			}
			for _, a := range child.Attrs {
				tag[a.Name] = a.Value
			}
		}
	}
}

// attrs resolves attribute values for one node in precedence order:
// own attribute, mj-class, mj-attributes tag default, mj-all, built-in default.
type attrs struct {
	node *ast.Node
	g    *globals
}

func (a attrs) lookup(name string) (string, bool) {
	if v, ok := a.node.Attr(name); ok {
		return v, true
	}
	if a.g != nil {
		if classList, ok := a.node.Attr("mj-class"); ok {
			names := strings.Fields(classList)
			for i := len(names) - 1; i >= 0; i-- {
				if v, ok := a.g.classes[names[i]][name]; ok {
					return v, true
				}
			}
		}
		if v, ok := a.g.tags[a.node.Kind][name]; ok {
			return v, true
		}
		if v, ok := a.g.all[name]; ok {
			return v, true
		}
	}
	v, ok := defaults[a.node.Kind][name]
	return v, ok
}

// get returns the resolved value or "".
func (a attrs) get(name string) string {
	v, _ := a.lookup(name)
	return v
}

// has reports whether the attribute resolves to a non-empty value.
func (a attrs) has(name string) bool {
	return a.get(name) != ""
}

// length parses a px or % attribute. The zero Length and ok=false mean unset.
func (a attrs) length(name string) (css.Length, bool, error) {
	v := a.get(name)
	if v == "" {
		return css.Length{}, false, nil
	}
	l, err := css.ParseLength(v)
	if err != nil {
		return css.Length{}, false, invalidValue(a.node, name, v)
	}
	return l, true, nil
}

// pixels parses an attribute that only accepts pixels.
func (a attrs) pixels(name string) (float64, bool, error) {
	v := a.get(name)
	if v == "" || v == "auto" {
		return 0, false, nil
	}
	n, err := css.ParsePixels(v)
	if err != nil {
		return 0, false, invalidValue(a.node, name, v)
	}
	return n, true, nil
}

// padding resolves the padding shorthand and its per-side overrides.
func (a attrs) padding(prefix string) (css.Box, error) {
	var box css.Box
	if v := a.get(prefix); v != "" {
		b, err := css.ParseBox(v)
		if err != nil {
			return css.Box{}, invalidValue(a.node, prefix, v)
		}
		box = b
	}
	sides := []struct {
		name string
		dst  *float64
	}{
		{prefix + "-top", &box.Top},
		{prefix + "-right", &box.Right},
		{prefix + "-bottom", &box.Bottom},
		{prefix + "-left", &box.Left},
	}
	for _, s := range sides {
		v := a.get(s.name)
		if v == "" {
			continue
		}
		n, err := css.ParsePixels(v)
		if err != nil {
			return css.Box{}, invalidValue(a.node, s.name, v)
		}
		*s.dst = n
	}
	return box, nil
}

// borderWidth returns the horizontal border width from border, border-left
// and border-right.
func (a attrs) borderWidth() float64 {
	left, right := a.get("border-left"), a.get("border-right")
	border := css.BorderWidth(a.get("border"))
	l, r := border, border
	if left != "" {
		l = css.BorderWidth(left)
	}
	if right != "" {
		r = css.BorderWidth(right)
	}
	return l + r
}
