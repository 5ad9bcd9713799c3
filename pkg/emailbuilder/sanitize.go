package emailbuilder

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const strippedElements = "script, style, iframe, object, embed, form, input, link, meta, base"

// SanitizeRichText cleans an html fragment coming from a contenteditable
// region: executable elements, event handler attributes and script URLs are
// removed. Markup that cannot be parsed is escaped as text.
func SanitizeRichText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + markup + "</body>"))
	if err != nil {
		return escapeText(markup)
	}
	body := doc.Find("body")
	body.Find(strippedElements).Remove()
	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		var drop []string
		for _, a := range node.Attr {
			name := strings.ToLower(a.Key)
			switch {
			case strings.HasPrefix(name, "on"):
				drop = append(drop, a.Key)
			case name == "href" || name == "src" || name == "action" || name == "formaction":
				if safeURL(a.Val, name == "src") == "" && strings.TrimSpace(a.Val) != "" {
					drop = append(drop, a.Key)
				}
			}
		}
		for _, name := range drop {
			s.RemoveAttr(name)
		}
	})
	html, err := body.Html()
	if err != nil {
		return escapeText(markup)
	}
	return html
}
