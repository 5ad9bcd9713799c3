package emailbuilder

import (
	"regexp"
	"strings"
)

// Style is the CSS-like style map of a block, restricted to a fixed key set.
// Numeric values are pixels unless the property is unitless.
type Style struct {
	BackgroundColor *Value `json:"backgroundColor,omitempty"`
	Color           *Value `json:"color,omitempty"`
	FontFamily      *Value `json:"fontFamily,omitempty"`
	FontSize        *Value `json:"fontSize,omitempty"`
	FontWeight      *Value `json:"fontWeight,omitempty"`
	LineHeight      *Value `json:"lineHeight,omitempty"`
	LetterSpacing   *Value `json:"letterSpacing,omitempty"`
	TextAlign       *Value `json:"textAlign,omitempty"`
	VerticalAlign   *Value `json:"verticalAlign,omitempty"`
	TextDecoration  *Value `json:"textDecoration,omitempty"`
	PaddingX        *Value `json:"paddingX,omitempty"`
	PaddingY        *Value `json:"paddingY,omitempty"`
	PaddingTop      *Value `json:"paddingTop,omitempty"`
	PaddingRight    *Value `json:"paddingRight,omitempty"`
	PaddingBottom   *Value `json:"paddingBottom,omitempty"`
	PaddingLeft     *Value `json:"paddingLeft,omitempty"`
	BorderRadius    *Value `json:"borderRadius,omitempty"`
	BorderWidth     *Value `json:"borderWidth,omitempty"`
	BorderStyle     *Value `json:"borderStyle,omitempty"`
	BorderColor     *Value `json:"borderColor,omitempty"`
	Opacity         *Value `json:"opacity,omitempty"`
}

// styleKeys lists every style key in serialisation order. The shorthand
// paddings come before the explicit sides so that the latter win.
var styleKeys = []string{
	"backgroundColor",
	"color",
	"fontFamily",
	"fontSize",
	"fontWeight",
	"lineHeight",
	"letterSpacing",
	"textAlign",
	"verticalAlign",
	"textDecoration",
	"paddingX",
	"paddingY",
	"paddingTop",
	"paddingRight",
	"paddingBottom",
	"paddingLeft",
	"borderRadius",
	"borderWidth",
	"borderStyle",
	"borderColor",
	"opacity",
}

var (
	paddingKeys    = []string{"paddingX", "paddingY", "paddingTop", "paddingRight", "paddingBottom", "paddingLeft"}
	typographyKeys = []string{"color", "fontFamily", "fontSize", "fontWeight", "lineHeight", "letterSpacing", "textAlign", "textDecoration"}
	borderKeys     = []string{"borderWidth", "borderStyle", "borderColor"}
)

func keys(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var styleKeysByType = map[BlockType][]string{
	BlockTypeHeader:  keys([]string{"backgroundColor"}, typographyKeys, paddingKeys),
	BlockTypeText:    keys([]string{"backgroundColor"}, typographyKeys, paddingKeys),
	BlockTypeFooter:  keys([]string{"backgroundColor"}, typographyKeys, paddingKeys),
	BlockTypeImage:   keys([]string{"backgroundColor", "textAlign", "verticalAlign", "borderRadius"}, paddingKeys),
	BlockTypeButton:  keys([]string{"backgroundColor", "color", "fontFamily", "fontSize", "fontWeight", "textAlign", "borderRadius"}, paddingKeys),
	BlockTypeSpacer:  {"backgroundColor"},
	BlockTypeDivider: keys([]string{"backgroundColor"}, borderKeys, paddingKeys),
	BlockTypeColumns: keys([]string{"backgroundColor", "verticalAlign", "borderRadius"}, paddingKeys),
	BlockTypeProduct: keys([]string{"backgroundColor", "verticalAlign", "borderRadius"}, paddingKeys),
}

// StyleKeys returns the style keys editable on a block type.
func StyleKeys(t BlockType) []string {
	return append([]string(nil), styleKeysByType[t]...)
}

// ref returns the address of the field named key, or nil for unknown keys.
func (s *Style) ref(key string) **Value {
	switch key {
	case "backgroundColor":
		return &s.BackgroundColor
	case "color":
		return &s.Color
	case "fontFamily":
		return &s.FontFamily
	case "fontSize":
		return &s.FontSize
	case "fontWeight":
		return &s.FontWeight
	case "lineHeight":
		return &s.LineHeight
	case "letterSpacing":
		return &s.LetterSpacing
	case "textAlign":
		return &s.TextAlign
	case "verticalAlign":
		return &s.VerticalAlign
	case "textDecoration":
		return &s.TextDecoration
	case "paddingX":
		return &s.PaddingX
	case "paddingY":
		return &s.PaddingY
	case "paddingTop":
		return &s.PaddingTop
	case "paddingRight":
		return &s.PaddingRight
	case "paddingBottom":
		return &s.PaddingBottom
	case "paddingLeft":
		return &s.PaddingLeft
	case "borderRadius":
		return &s.BorderRadius
	case "borderWidth":
		return &s.BorderWidth
	case "borderStyle":
		return &s.BorderStyle
	case "borderColor":
		return &s.BorderColor
	case "opacity":
		return &s.Opacity
	}
	return nil
}

// Get returns the value stored under key, or nil.
func (s Style) Get(key string) *Value {
	if r := s.ref(key); r != nil {
		return *r
	}
	return nil
}

// Set stores v under key. It returns false for unknown keys.
func (s *Style) Set(key string, v *Value) bool {
	r := s.ref(key)
	if r == nil {
		return false
	}
	*r = v
	return true
}

// Merge overlays the non-nil fields of patch.
func (s Style) Merge(patch Style) Style {
	out := s
	for _, key := range styleKeys {
		if v := patch.Get(key); v != nil {
			out.Set(key, v)
		}
	}
	return out
}

// Without returns a copy with the given keys cleared.
func (s Style) Without(keys ...string) Style {
	out := s
	for _, key := range keys {
		out.Set(key, nil)
	}
	return out
}

func (s Style) restrict(t BlockType) Style {
	var out Style
	for _, key := range styleKeysByType[t] {
		out.Set(key, s.Get(key))
	}
	return out
}

type declaration struct {
	property string
	value    string
}

var unitlessProperties = map[string]bool{
	"line-height": true,
	"font-weight": true,
	"opacity":     true,
	"flex":        true,
}

var camelBoundary = regexp.MustCompile("([a-z0-9])([A-Z])")

func camelToKebab(s string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(s, "${1}-${2}"))
}

// cssValue renders a value for property, appending px to unit-bearing numbers.
func cssValue(property string, v *Value) string {
	if v == nil {
		return ""
	}
	if v.IsNumber() {
		if unitlessProperties[property] {
			return v.String()
		}
		return v.String() + "px"
	}
	return sanitizeCSSValue(v.String())
}

// sanitizeCSSValue keeps a raw value from escaping its declaration.
func sanitizeCSSValue(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"':
			return -1
		}
		return r
	}, s))
}

func (s Style) declarations() []declaration {
	var out []declaration
	add := func(property string, v *Value) {
		if value := cssValue(property, v); value != "" {
			out = append(out, declaration{property: property, value: value})
		}
	}
	for _, key := range styleKeys {
		v := s.Get(key)
		if v == nil {
			continue
		}
		switch key {
		case "paddingX":
			add("padding-left", v)
			add("padding-right", v)
		case "paddingY":
			add("padding-top", v)
			add("padding-bottom", v)
		default:
			add(camelToKebab(key), v)
		}
	}
	return out
}

// CSS serialises the style as inline declarations, e.g.
// "color:#111827;font-size:16px;line-height:1.5".
func (s Style) CSS() string {
	return joinDeclarations(s.declarations())
}

func joinDeclarations(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+":"+d.value)
	}
	return strings.Join(parts, ";")
}

// inlineCSS joins raw declarations, skipping empty ones.
func inlineCSS(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "; "); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ";")
}
