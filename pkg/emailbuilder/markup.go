package emailbuilder

import (
	"strings"
)

// escapeAttr escapes an attribute value. Ampersands in absolute URLs are
// kept as-is so query strings and Liquid placeholders survive untouched.
func escapeAttr(value, name string) string {
	isURLAttribute := name == "src" || name == "href" || name == "data-href"
	looksLikeURL := strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "//")
	if !(isURLAttribute && looksLikeURL) {
		value = strings.ReplaceAll(value, "&", "&amp;")
	}
	value = strings.ReplaceAll(value, "\"", "&quot;")
	value = strings.ReplaceAll(value, "'", "&#39;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	value = strings.ReplaceAll(value, ">", "&gt;")
	return value
}

func escapeText(content string) string {
	content = strings.ReplaceAll(content, "&", "&amp;")
	content = strings.ReplaceAll(content, "<", "&lt;")
	content = strings.ReplaceAll(content, ">", "&gt;")
	return content
}

// safeURL drops script-capable URLs. Data URIs are only allowed for images.
func safeURL(raw string, allowDataImage bool) string {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(strings.Join(strings.Fields(u), ""))
	switch {
	case strings.HasPrefix(lower, "javascript:"), strings.HasPrefix(lower, "vbscript:"):
		return ""
	case strings.HasPrefix(lower, "data:"):
		if allowDataImage && strings.HasPrefix(lower, "data:image/") {
			return u
		}
		return ""
	}
	return u
}

type attr struct {
	name  string
	value string
}

// tag renders an opening tag with attributes in the given order. Attributes
// with an empty value are skipped unless listed in keepEmpty.
func tag(name string, attrs []attr, keepEmpty ...string) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(name)
	for _, a := range attrs {
		if a.value == "" && !contains(keepEmpty, a.name) {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.value, a.name))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// alignMargin maps a horizontal alignment to the margin that positions a
// fixed-width element.
func alignMargin(align string) string {
	switch align {
	case "left":
		return "margin:0"
	case "right":
		return "margin:0 0 0 auto"
	default:
		return "margin:0 auto"
	}
}

// dimension renders a width or height: numbers become pixels, anything else
// falls back to auto.
func dimension(v *Value) (attrValue, css string) {
	if n, ok := v.Number(); ok && n > 0 {
		return formatNumber(n), formatNumber(n) + "px"
	}
	return "", "auto"
}
