// Package ast defines the component tree produced by the parser and
// consumed by the renderer.
//
// The set of component kinds is closed: every kind the parser accepts has a
// Kind constant here, and the renderer switches over all of them.
package ast

// Kind identifies a component type.
type Kind uint8

// Component kinds.
const (
	KindUnknown Kind = iota

	// Document structure.
	KindMJML
	KindHead
	KindBody

	// Head components.
	KindAttributes
	KindAll
	KindClass
	KindBreakpoint
	KindFont
	KindPreview
	KindStyle
	KindTitle

	// Layout containers.
	KindWrapper
	KindSection
	KindGroup
	KindColumn

	// Content leaves.
	KindText
	KindImage
	KindButton
	KindDivider
	KindSpacer
	KindTable
	KindRaw

	// KindComment holds a source comment. It has no tag name.
	KindComment
)

var kindTags = [...]string{
	KindUnknown:    "",
	KindMJML:       "mjml",
	KindHead:       "mj-head",
	KindBody:       "mj-body",
	KindAttributes: "mj-attributes",
	KindAll:        "mj-all",
	KindClass:      "mj-class",
	KindBreakpoint: "mj-breakpoint",
	KindFont:       "mj-font",
	KindPreview:    "mj-preview",
	KindStyle:      "mj-style",
	KindTitle:      "mj-title",
	KindWrapper:    "mj-wrapper",
	KindSection:    "mj-section",
	KindGroup:      "mj-group",
	KindColumn:     "mj-column",
	KindText:       "mj-text",
	KindImage:      "mj-image",
	KindButton:     "mj-button",
	KindDivider:    "mj-divider",
	KindSpacer:     "mj-spacer",
	KindTable:      "mj-table",
	KindRaw:        "mj-raw",
	KindComment:    "",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, tag := range kindTags {
		if tag != "" {
			m[tag] = Kind(k)
		}
	}
	return m
}()

// Tag returns the markup tag name of the kind, or "" for comments and unknown kinds.
func (k Kind) Tag() string {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return ""
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindUnknown:
		return "unknown"
	}
	return k.Tag()
}

// KindOf returns the kind for a tag name.
func KindOf(tag string) (Kind, bool) {
	k, ok := tagKinds[tag]
	return k, ok
}

// Tags returns every known tag name in declaration order.
func Tags() []string {
	tags := make([]string, 0, len(kindTags))
	for _, tag := range kindTags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// IsEnding reports whether the kind keeps its inner markup verbatim
// instead of parsing it into child components.
func (k Kind) IsEnding() bool {
	switch k {
	case KindText, KindButton, KindTable, KindRaw, KindStyle, KindTitle, KindPreview:
		return true
	}
	return false
}

// IsBodyComponent reports whether the kind may appear inside mj-body.
// These are also the tags accepted as defaults inside mj-attributes.
func (k Kind) IsBodyComponent() bool {
	switch k {
	case KindWrapper, KindSection, KindGroup, KindColumn,
		KindText, KindImage, KindButton, KindDivider, KindSpacer, KindTable, KindRaw:
		return true
	}
	return false
}

// IsColumnLike reports whether the kind takes part in width distribution
// inside a section or group.
func (k Kind) IsColumnLike() bool {
	return k == KindColumn || k == KindGroup
}

var children = map[Kind][]Kind{
	KindMJML: {KindHead, KindBody},
	KindHead: {KindAttributes, KindBreakpoint, KindFont, KindPreview, KindStyle, KindTitle, KindRaw},
	KindAttributes: {
		KindAll, KindClass,
		KindBody, KindWrapper, KindSection, KindGroup, KindColumn,
		KindText, KindImage, KindButton, KindDivider, KindSpacer, KindTable,
	},
	KindBody:    {KindWrapper, KindSection, KindRaw},
	KindWrapper: {KindSection, KindRaw},
	KindSection: {KindColumn, KindGroup, KindRaw},
	KindGroup:   {KindColumn, KindRaw},
	KindColumn:  {KindText, KindImage, KindButton, KindDivider, KindSpacer, KindTable, KindRaw},
}

// CanContain reports whether a node of kind parent may have a child of kind child.
// Comments are allowed anywhere children are.
func CanContain(parent, child Kind) bool {
	allowed, ok := children[parent]
	if !ok {
		return false
	}
	if child == KindComment {
		return true
	}
	for _, k := range allowed {
		if k == child {
			return true
		}
	}
	return false
}

// RequiredAttributes returns the attributes a kind must declare.
func RequiredAttributes(k Kind) []string {
	switch k {
	case KindImage:
		return []string{"src"}
	case KindFont:
		return []string{"name", "href"}
	case KindClass:
		return []string{"name"}
	case KindBreakpoint:
		return []string{"width"}
	}
	return nil
}
