package emailbuilder

import (
	"math"
	"strconv"
	"strings"
)

// MaxRenderDepth bounds recursion of the renderers. Anything nested deeper
// renders as empty output.
const MaxRenderDepth = 32

// Generate renders the document as a self-contained, table-based HTML email.
// It is pure and total: unknown block types and malformed nodes render as
// empty output instead of failing.
func Generate(doc *Document) string {
	if doc == nil {
		doc = NewDocument()
	}
	var body strings.Builder
	for _, b := range doc.Items {
		body.WriteString(generateBlock(b, 0))
	}
	return generateShell(doc, body.String())
}

func generateShell(doc *Document, body string) string {
	g := doc.GlobalStyles
	width := g.Width
	if !(width > 0) {
		width = DefaultCanvasWidth
	}
	widthAttr := formatNumber(math.Round(width))
	canvasStyle := inlineCSS(
		"width:100%",
		"max-width:"+widthAttr+"px",
		decl("background-color", g.CanvasColor),
		borderDecl(g.CanvasBorderWidth, g.CanvasBorderColor),
		pxDecl("border-radius", g.CanvasRadius),
		decl("font-family", g.FontFamily),
		decl("color", g.TextColor),
	)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(`<html lang="en">` + "\n")
	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	sb.WriteString(`<meta http-equiv="X-UA-Compatible" content="IE=edge">` + "\n")
	sb.WriteString("<title>" + escapeText(doc.Subject) + "</title>\n")
	sb.WriteString("</head>\n")
	sb.WriteString(tag("body", []attr{{"style", inlineCSS("margin:0", "padding:0", decl("background-color", g.BackdropColor))}}) + "\n")
	sb.WriteString(tag("table", []attr{
		{"role", "presentation"},
		{"width", "100%"},
		{"cellpadding", "0"},
		{"cellspacing", "0"},
		{"border", "0"},
		{"style", decl("background-color", g.BackdropColor)},
	}) + "\n")
	sb.WriteString("<tr>\n")
	sb.WriteString(`<td align="center" style="padding:24px 0">` + "\n")
	sb.WriteString(tag("table", []attr{
		{"role", "presentation"},
		{"class", "email-canvas"},
		{"width", widthAttr},
		{"cellpadding", "0"},
		{"cellspacing", "0"},
		{"border", "0"},
		{"style", canvasStyle},
	}) + "\n")
	sb.WriteString("<tr>\n<td>\n")
	sb.WriteString(body)
	sb.WriteString("</td>\n</tr>\n</table>\n")
	sb.WriteString("</td>\n</tr>\n</table>\n")
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func decl(property, value string) string {
	value = sanitizeCSSValue(value)
	if value == "" {
		return ""
	}
	return property + ":" + value
}

func pxDecl(property string, n float64) string {
	if !(n > 0) {
		return ""
	}
	return property + ":" + formatNumber(n) + "px"
}

func borderDecl(width float64, color string) string {
	if !(width > 0) {
		return ""
	}
	color = sanitizeCSSValue(color)
	if color == "" {
		color = "transparent"
	}
	return "border:" + formatNumber(width) + "px solid " + color
}

func generateBlock(b *Block, depth int) string {
	if b == nil || depth > MaxRenderDepth {
		return ""
	}
	switch b.Type {
	case BlockTypeHeader, BlockTypeText, BlockTypeFooter:
		return tag("div", []attr{{"style", b.Style.CSS()}}) + deref(b.Content.HTML) + "</div>\n"
	case BlockTypeImage:
		return generateImage(b)
	case BlockTypeButton:
		return generateButton(b)
	case BlockTypeSpacer:
		return generateSpacer(b)
	case BlockTypeDivider:
		return generateDivider(b)
	case BlockTypeColumns, BlockTypeProduct:
		return generateColumns(b, depth)
	}
	return ""
}

func imageSource(b *Block) string {
	src := safeURL(deref(b.Content.Src), true)
	if src == PlaceholderImageSrc {
		return ""
	}
	return src
}

func generateImage(b *Block) string {
	src := imageSource(b)
	if src == "" {
		return ""
	}
	widthAttr, widthCSS := dimension(b.Content.Width)
	heightAttr, heightCSS := dimension(b.Content.Height)
	imgStyle := inlineCSS(
		"display:inline-block",
		"border:0",
		"outline:none",
		"text-decoration:none",
		"max-width:100%",
		"width:"+widthCSS,
		"height:"+heightCSS,
		decl("vertical-align", b.Style.VerticalAlign.String()),
		cssPair("border-radius", b.Style.BorderRadius),
	)
	img := tag("img", []attr{
		{"src", src},
		{"alt", deref(b.Content.Alt)},
		{"width", widthAttr},
		{"height", heightAttr},
		{"style", imgStyle},
	}, "alt")
	if href := safeURL(deref(b.Content.Href), false); href != "" {
		img = tag("a", []attr{{"href", href}, {"target", "_blank"}}) + img + "</a>"
	}
	wrapper := b.Style.Without("verticalAlign", "borderRadius")
	return tag("div", []attr{{"style", wrapper.CSS()}}) + img + "</div>\n"
}

func cssPair(property string, v *Value) string {
	value := cssValue(property, v)
	if value == "" {
		return ""
	}
	return property + ":" + value
}

func generateButton(b *Block) string {
	s := b.Style
	full := b.Content.Width != nil && b.Content.Width.String() == ButtonWidthFull
	display := "inline-block"
	tableWidth := ""
	if full {
		display = "block"
		tableWidth = "100%"
	}
	padding := Style{
		PaddingX: s.PaddingX, PaddingY: s.PaddingY,
		PaddingTop: s.PaddingTop, PaddingRight: s.PaddingRight, PaddingBottom: s.PaddingBottom, PaddingLeft: s.PaddingLeft,
	}
	linkStyle := inlineCSS(
		"display:"+display,
		padding.CSS(),
		cssPair("color", s.Color),
		cssPair("font-family", s.FontFamily),
		cssPair("font-size", s.FontSize),
		cssPair("font-weight", s.FontWeight),
		cssPair("border-radius", s.BorderRadius),
		"text-decoration:none",
		"text-align:center",
	)
	cellStyle := inlineCSS(cssPair("background-color", s.BackgroundColor), cssPair("border-radius", s.BorderRadius))
	href := safeURL(deref(b.Content.Href), false)

	var sb strings.Builder
	sb.WriteString(`<div style="padding:8px 0">`)
	sb.WriteString(tag("table", []attr{
		{"role", "presentation"},
		{"width", tableWidth},
		{"cellpadding", "0"},
		{"cellspacing", "0"},
		{"border", "0"},
		{"style", alignMargin(s.TextAlign.String())},
	}))
	sb.WriteString("<tr>")
	sb.WriteString(tag("td", []attr{
		{"align", "center"},
		{"bgcolor", sanitizeCSSValue(s.BackgroundColor.String())},
		{"style", cellStyle},
	}))
	sb.WriteString(tag("a", []attr{{"href", href}, {"target", "_blank"}, {"style", linkStyle}}))
	sb.WriteString(escapeText(deref(b.Content.Text)))
	sb.WriteString("</a></td></tr></table></div>\n")
	return sb.String()
}

func generateSpacer(b *Block) string {
	_, height := dimension(b.Content.Height)
	if height == "auto" {
		height = "0px"
	}
	style := inlineCSS(
		"height:"+height,
		"line-height:"+height,
		"font-size:0",
		cssPair("background-color", b.Style.BackgroundColor),
	)
	return tag("div", []attr{{"style", style}}) + "</div>\n"
}

func generateDivider(b *Block) string {
	s := b.Style
	width := cssValue("border-width", s.BorderWidth)
	if width == "" {
		width = "1px"
	}
	lineStyle := sanitizeCSSValue(s.BorderStyle.String())
	if lineStyle == "" {
		lineStyle = "solid"
	}
	color := sanitizeCSSValue(s.BorderColor.String())
	if color == "" {
		color = "#e5e7eb"
	}
	line := inlineCSS("height:0", "line-height:0", "font-size:0", "border-top:"+width+" "+lineStyle+" "+color)
	wrapper := s.Without("borderWidth", "borderStyle", "borderColor")
	return tag("div", []attr{{"style", wrapper.CSS()}}) + tag("div", []attr{{"style", line}}) + "</div></div>\n"
}

// columnWidths returns the percentage width of each column, rounded to two
// decimals. Invalid weights fall back to equal widths.
func columnWidths(cols []*Column) []string {
	total := 0.0
	valid := true
	for _, col := range cols {
		if col == nil || !(col.Flex > 0) || math.IsInf(col.Flex, 0) {
			valid = false
			break
		}
		total += col.Flex
	}
	out := make([]string, len(cols))
	for i, col := range cols {
		pct := 100 / float64(len(cols))
		if valid && total > 0 {
			pct = col.Flex / total * 100
		}
		out[i] = strconv.FormatFloat(math.Round(pct*100)/100, 'f', -1, 64) + "%"
	}
	return out
}

func generateColumns(b *Block, depth int) string {
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
	tableStyle := inlineCSS("table-layout:fixed", b.Style.Without("verticalAlign").CSS())

	var sb strings.Builder
	sb.WriteString(tag("table", []attr{
		{"role", "presentation"},
		{"width", "100%"},
		{"cellpadding", "0"},
		{"cellspacing", "0"},
		{"border", "0"},
		{"style", tableStyle},
	}))
	sb.WriteString("<tr>\n")
	for i, width := range columnWidths(cols) {
		sb.WriteString(tag("td", []attr{
			{"width", width},
			{"valign", valign},
			{"style", inlineCSS("width:"+width, "vertical-align:"+valign)},
		}))
		sb.WriteString("\n")
		for _, item := range cols[i].Items {
			sb.WriteString(generateBlock(item, depth+1))
		}
		sb.WriteString("</td>\n")
	}
	sb.WriteString("</tr></table>\n")
	return sb.String()
}
