package emailbuilder

import (
	"context"
	"fmt"
	"strings"

	mjmlgo "github.com/Boostport/mjml-go"
)

// ToMJML expresses the document as MJML markup. Each root block becomes a
// section; Columns and Product blocks become multi-column sections. MJML
// cannot nest sections, so containers nested inside a column are embedded
// as raw generated HTML.
func ToMJML(doc *Document) string {
	if doc == nil {
		doc = NewDocument()
	}
	g := doc.GlobalStyles
	width := g.Width
	if !(width > 0) {
		width = DefaultCanvasWidth
	}

	var sb strings.Builder
	sb.WriteString("<mjml>\n")
	sb.WriteString("  <mj-head>\n")
	sb.WriteString("    <mj-title>" + escapeText(doc.Subject) + "</mj-title>\n")
	sb.WriteString("    <mj-attributes>\n")
	sb.WriteString("      " + mjTag("mj-all", []attr{{"font-family", sanitizeCSSValue(g.FontFamily)}}, true) + "\n")
	sb.WriteString("      " + mjTag("mj-text", []attr{{"color", sanitizeCSSValue(g.TextColor)}}, true) + "\n")
	sb.WriteString("    </mj-attributes>\n")
	sb.WriteString("  </mj-head>\n")
	sb.WriteString("  " + mjTag("mj-body", []attr{
		{"background-color", sanitizeCSSValue(g.BackdropColor)},
		{"width", formatNumber(width) + "px"},
	}, false) + "\n")
	wrapper := []attr{
		{"background-color", sanitizeCSSValue(g.CanvasColor)},
		{"padding", "0"},
	}
	if g.CanvasBorderWidth > 0 {
		wrapper = append(wrapper, attr{"border", formatNumber(g.CanvasBorderWidth) + "px solid " + sanitizeCSSValue(g.CanvasBorderColor)})
	}
	if g.CanvasRadius > 0 {
		wrapper = append(wrapper, attr{"border-radius", formatNumber(g.CanvasRadius) + "px"})
	}
	sb.WriteString("    " + mjTag("mj-wrapper", wrapper, false) + "\n")
	for _, b := range doc.Items {
		sb.WriteString(mjmlSection(b))
	}
	sb.WriteString("    </mj-wrapper>\n")
	sb.WriteString("  </mj-body>\n")
	sb.WriteString("</mjml>\n")
	return sb.String()
}

// CompileMJML converts the document to MJML and compiles it to HTML.
func CompileMJML(ctx context.Context, doc *Document) (string, error) {
	out, err := mjmlgo.ToHTML(ctx, ToMJML(doc))
	if err != nil {
		return "", fmt.Errorf("mjml compilation failed: %w", err)
	}
	return out, nil
}

// ExportMJMLFile compiles the document through MJML and returns the result
// as a downloadable HTML file.
func ExportMJMLFile(ctx context.Context, doc *Document) (ExportFile, error) {
	out, err := CompileMJML(ctx, doc)
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Name:        strings.TrimSuffix(exportFileName(doc, "html"), ".html") + "-mjml.html",
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(out),
	}, nil
}

func mjTag(name string, attrs []attr, selfClosing bool) string {
	var sb strings.Builder
	sb.WriteString("<" + name)
	for _, a := range attrs {
		if a.value == "" {
			continue
		}
		sb.WriteString(" " + a.name + `="` + escapeAttr(a.value, a.name) + `"`)
	}
	if selfClosing {
		sb.WriteString(" />")
	} else {
		sb.WriteString(">")
	}
	return sb.String()
}

func mjmlSection(b *Block) string {
	if b == nil {
		return ""
	}
	if !b.Type.IsContainer() {
		content := mjmlContent(b)
		if content == "" {
			return ""
		}
		return "      <mj-section padding=\"0\">\n        <mj-column>\n" + content + "        </mj-column>\n      </mj-section>\n"
	}

	cols := make([]*Column, 0, len(b.Content.Columns))
	for _, col := range b.Content.Columns {
		if col != nil {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return ""
	}
	valign := sanitizeCSSValue(b.Style.VerticalAlign.String())
	if valign == "" {
		valign = "top"
	}
	var sb strings.Builder
	sb.WriteString("      " + mjTag("mj-section", []attr{
		{"background-color", sanitizeCSSValue(b.Style.BackgroundColor.String())},
		{"padding", mjPadding(b.Style)},
		{"border-radius", cssValue("border-radius", b.Style.BorderRadius)},
	}, false) + "\n")
	for i, width := range columnWidths(cols) {
		sb.WriteString("        " + mjTag("mj-column", []attr{{"width", width}, {"vertical-align", valign}}, false) + "\n")
		for _, item := range cols[i].Items {
			sb.WriteString(mjmlContent(item))
		}
		sb.WriteString("        </mj-column>\n")
	}
	sb.WriteString("      </mj-section>\n")
	return sb.String()
}

func mjPadding(s Style) string {
	side := func(explicit, axis *Value) string {
		if v := cssValue("padding", explicit); v != "" {
			return v
		}
		if v := cssValue("padding", axis); v != "" {
			return v
		}
		return "0px"
	}
	return strings.Join([]string{
		side(s.PaddingTop, s.PaddingY),
		side(s.PaddingRight, s.PaddingX),
		side(s.PaddingBottom, s.PaddingY),
		side(s.PaddingLeft, s.PaddingX),
	}, " ")
}

func mjmlContent(b *Block) string {
	if b == nil {
		return ""
	}
	s := b.Style
	indent := "          "
	switch b.Type {
	case BlockTypeHeader, BlockTypeText, BlockTypeFooter:
		return indent + mjTag("mj-text", []attr{
			{"color", sanitizeCSSValue(s.Color.String())},
			{"font-family", sanitizeCSSValue(s.FontFamily.String())},
			{"font-size", cssValue("font-size", s.FontSize)},
			{"font-weight", cssValue("font-weight", s.FontWeight)},
			{"line-height", cssValue("line-height", s.LineHeight)},
			{"letter-spacing", cssValue("letter-spacing", s.LetterSpacing)},
			{"align", sanitizeCSSValue(s.TextAlign.String())},
			{"container-background-color", sanitizeCSSValue(s.BackgroundColor.String())},
			{"padding", mjPadding(s)},
		}, false) + deref(b.Content.HTML) + "</mj-text>\n"
	case BlockTypeImage:
		src := imageSource(b)
		if src == "" {
			return ""
		}
		width := ""
		if n, ok := b.Content.Width.Number(); ok && n > 0 {
			width = formatNumber(n) + "px"
		}
		height := ""
		if n, ok := b.Content.Height.Number(); ok && n > 0 {
			height = formatNumber(n) + "px"
		}
		return indent + mjTag("mj-image", []attr{
			{"src", src},
			{"alt", deref(b.Content.Alt)},
			{"href", safeURL(deref(b.Content.Href), false)},
			{"width", width},
			{"height", height},
			{"align", sanitizeCSSValue(s.TextAlign.String())},
			{"border-radius", cssValue("border-radius", s.BorderRadius)},
			{"container-background-color", sanitizeCSSValue(s.BackgroundColor.String())},
			{"padding", mjPadding(s)},
		}, true) + "\n"
	case BlockTypeButton:
		width := ""
		if b.Content.Width != nil && b.Content.Width.String() == ButtonWidthFull {
			width = "100%"
		}
		return indent + mjTag("mj-button", []attr{
			{"href", safeURL(deref(b.Content.Href), false)},
			{"background-color", sanitizeCSSValue(s.BackgroundColor.String())},
			{"color", sanitizeCSSValue(s.Color.String())},
			{"font-family", sanitizeCSSValue(s.FontFamily.String())},
			{"font-size", cssValue("font-size", s.FontSize)},
			{"font-weight", cssValue("font-weight", s.FontWeight)},
			{"border-radius", cssValue("border-radius", s.BorderRadius)},
			{"align", sanitizeCSSValue(s.TextAlign.String())},
			{"width", width},
			{"inner-padding", mjPadding(s)},
		}, false) + escapeText(deref(b.Content.Text)) + "</mj-button>\n"
	case BlockTypeSpacer:
		height := "0px"
		if n, ok := b.Content.Height.Number(); ok && n > 0 {
			height = formatNumber(n) + "px"
		}
		return indent + mjTag("mj-spacer", []attr{
			{"height", height},
			{"container-background-color", sanitizeCSSValue(s.BackgroundColor.String())},
		}, true) + "\n"
	case BlockTypeDivider:
		return indent + mjTag("mj-divider", []attr{
			{"border-width", cssValue("border-width", s.BorderWidth)},
			{"border-style", sanitizeCSSValue(s.BorderStyle.String())},
			{"border-color", sanitizeCSSValue(s.BorderColor.String())},
			{"container-background-color", sanitizeCSSValue(s.BackgroundColor.String())},
			{"padding", mjPadding(s)},
		}, true) + "\n"
	case BlockTypeColumns, BlockTypeProduct:
		nested := generateBlock(b, 1)
		if nested == "" {
			return ""
		}
		return indent + "<mj-raw>" + nested + "</mj-raw>\n"
	}
	return ""
}
