package emailbuilder

import (
	"strings"
)

// Labels are the user-facing strings of the editor canvas, already resolved
// to the user's language.
type Labels struct {
	ImagePlaceholder string            `json:"imagePlaceholder"`
	ChooseLayout     string            `json:"chooseLayout"`
	EmptyColumn      string            `json:"emptyColumn"`
	EmptyCanvas      string            `json:"emptyCanvas"`
	Layouts          map[string]string `json:"layouts,omitempty"`
}

// DefaultLabels returns English labels.
func DefaultLabels() Labels {
	return Labels{
		ImagePlaceholder: "Select an image",
		ChooseLayout:     "Choose a column layout",
		EmptyColumn:      "Drop blocks here",
		EmptyCanvas:      "Drag blocks from the toolbar to start building your email",
		Layouts: map[string]string{
			"2-equal": "2 columns",
			"3-equal": "3 columns",
			"4-equal": "4 columns",
			"30-70":   "30 / 70",
			"70-30":   "70 / 30",
		},
	}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.ImagePlaceholder == "" {
		l.ImagePlaceholder = d.ImagePlaceholder
	}
	if l.ChooseLayout == "" {
		l.ChooseLayout = d.ChooseLayout
	}
	if l.EmptyColumn == "" {
		l.EmptyColumn = d.EmptyColumn
	}
	if l.EmptyCanvas == "" {
		l.EmptyCanvas = d.EmptyCanvas
	}
	if l.Layouts == nil {
		l.Layouts = d.Layouts
	}
	return l
}

// LayoutPreset is one of the fixed column layouts offered by the picker.
type LayoutPreset struct {
	Key  string    `json:"key"`
	Flex []float64 `json:"flex"`
}

// LayoutPresets are offered, in order, by empty Columns and Product blocks.
var LayoutPresets = []LayoutPreset{
	{Key: "2-equal", Flex: []float64{1, 1}},
	{Key: "3-equal", Flex: []float64{1, 1, 1}},
	{Key: "4-equal", Flex: []float64{1, 1, 1, 1}},
	{Key: "30-70", Flex: []float64{30, 70}},
	{Key: "70-30", Flex: []float64{70, 30}},
}

// PresetLayout returns the weights of a layout preset.
func PresetLayout(key string) ([]float64, bool) {
	for _, p := range LayoutPresets {
		if p.Key == key {
			return append([]float64(nil), p.Flex...), true
		}
	}
	return nil, false
}

// RenderOptions control the interactive canvas.
type RenderOptions struct {
	Labels Labels
}

type canvasRenderer struct {
	labels   Labels
	selected string
}

type blockRenderer func(r *canvasRenderer, b *Block, depth int) string

var blockRenderers map[BlockType]blockRenderer

func init() {
	blockRenderers = map[BlockType]blockRenderer{
		BlockTypeHeader:  renderRichText,
		BlockTypeText:    renderRichText,
		BlockTypeFooter:  renderRichText,
		BlockTypeImage:   renderImage,
		BlockTypeButton:  renderButton,
		BlockTypeSpacer:  renderSpacer,
		BlockTypeDivider: renderDivider,
		BlockTypeColumns: renderColumns,
		BlockTypeProduct: renderColumns,
	}
}

// RenderCanvas renders the editable canvas markup of the document. Blocks
// are wrapped with data-block-id and data-block-type attributes, columns
// are drop targets carrying data-column-id, and navigation is suppressed.
func RenderCanvas(doc *Document, opts RenderOptions) string {
	if doc == nil {
		doc = NewDocument()
	}
	r := &canvasRenderer{labels: opts.Labels.withDefaults(), selected: doc.SelectedBlockID}
	g := doc.GlobalStyles
	width := g.Width
	if !(width > 0) {
		width = DefaultCanvasWidth
	}

	var sb strings.Builder
	sb.WriteString(tag("div", []attr{
		{"class", "eb-backdrop"},
		{"style", inlineCSS(decl("background-color", g.BackdropColor), "padding:24px 0")},
	}))
	sb.WriteString(tag("div", []attr{
		{"class", "eb-canvas"},
		{"data-container-id", RootContainerID},
		{"data-drop-target", "root"},
		{"style", inlineCSS(
			"max-width:"+formatNumber(width)+"px",
			"margin:0 auto",
			decl("background-color", g.CanvasColor),
			borderDecl(g.CanvasBorderWidth, g.CanvasBorderColor),
			pxDecl("border-radius", g.CanvasRadius),
			decl("font-family", g.FontFamily),
			decl("color", g.TextColor),
		)},
	}))
	if len(doc.Items) == 0 {
		sb.WriteString(`<div class="eb-canvas-empty">` + escapeText(r.labels.EmptyCanvas) + "</div>")
	}
	for _, b := range doc.Items {
		sb.WriteString(r.block(b, 0))
	}
	sb.WriteString("</div></div>")
	return sb.String()
}

func (r *canvasRenderer) block(b *Block, depth int) string {
	if b == nil || depth > MaxRenderDepth {
		return ""
	}
	render, ok := blockRenderers[b.Type]
	if !ok {
		return ""
	}
	class := "eb-block"
	selected := ""
	if b.ID == r.selected {
		class += " eb-selected"
		selected = "true"
	}
	return tag("div", []attr{
		{"class", class},
		{"data-block-id", b.ID},
		{"data-block-type", string(b.Type)},
		{"data-selected", selected},
		{"draggable", "true"},
	}) + render(r, b, depth) + "</div>"
}

func renderRichText(_ *canvasRenderer, b *Block, _ int) string {
	return tag("div", []attr{
		{"contenteditable", "true"},
		{"data-field", "html"},
		{"data-commit", "blur"},
		{"style", b.Style.CSS()},
	}) + deref(b.Content.HTML) + "</div>"
}

func renderImage(r *canvasRenderer, b *Block, _ int) string {
	wrapper := tag("div", []attr{{"style", b.Style.Without("verticalAlign", "borderRadius").CSS()}})
	src := imageSource(b)
	if src == "" {
		return wrapper + tag("div", []attr{
			{"class", "eb-image-placeholder"},
			{"style", "border:2px dashed #d1d5db;padding:32px;text-align:center;color:#6b7280"},
		}) + escapeText(r.labels.ImagePlaceholder) + "</div></div>"
	}
	_, widthCSS := dimension(b.Content.Width)
	_, heightCSS := dimension(b.Content.Height)
	img := tag("img", []attr{
		{"src", src},
		{"alt", deref(b.Content.Alt)},
		{"draggable", "false"},
		{"style", inlineCSS(
			"display:inline-block",
			"max-width:100%",
			"width:"+widthCSS,
			"height:"+heightCSS,
			decl("vertical-align", b.Style.VerticalAlign.String()),
			cssPair("border-radius", b.Style.BorderRadius),
		)},
	}, "alt")
	if href := safeURL(deref(b.Content.Href), false); href != "" {
		img = tag("a", []attr{{"data-href", href}, {"data-suppress-navigation", "true"}}) + img + "</a>"
	}
	return wrapper + img + "</div>"
}

func renderButton(_ *canvasRenderer, b *Block, _ int) string {
	s := b.Style
	display := "inline-block"
	if b.Content.Width != nil && b.Content.Width.String() == ButtonWidthFull {
		display = "block"
	}
	padding := Style{
		PaddingX: s.PaddingX, PaddingY: s.PaddingY,
		PaddingTop: s.PaddingTop, PaddingRight: s.PaddingRight, PaddingBottom: s.PaddingBottom, PaddingLeft: s.PaddingLeft,
	}
	align := sanitizeCSSValue(s.TextAlign.String())
	if align == "" {
		align = "center"
	}
	link := tag("a", []attr{
		{"role", "button"},
		{"data-href", safeURL(deref(b.Content.Href), false)},
		{"data-suppress-navigation", "true"},
		{"style", inlineCSS(
			"display:"+display,
			padding.CSS(),
			cssPair("background-color", s.BackgroundColor),
			cssPair("color", s.Color),
			cssPair("font-family", s.FontFamily),
			cssPair("font-size", s.FontSize),
			cssPair("font-weight", s.FontWeight),
			cssPair("border-radius", s.BorderRadius),
			"text-decoration:none",
			"text-align:center",
			"cursor:default",
		)},
	})
	return `<div style="padding:8px 0;text-align:` + align + `">` + link + escapeText(deref(b.Content.Text)) + "</a></div>"
}

func renderSpacer(_ *canvasRenderer, b *Block, _ int) string {
	_, height := dimension(b.Content.Height)
	if height == "auto" {
		height = "0px"
	}
	return tag("div", []attr{
		{"class", "eb-spacer"},
		{"style", inlineCSS("height:"+height, cssPair("background-color", b.Style.BackgroundColor))},
	}) + "</div>"
}

func renderDivider(_ *canvasRenderer, b *Block, _ int) string {
	return strings.TrimSuffix(generateDivider(b), "\n")
}

func renderColumns(r *canvasRenderer, b *Block, depth int) string {
	if len(b.Content.Columns) == 0 {
		return r.layoutPicker(b)
	}
	valign := sanitizeCSSValue(b.Style.VerticalAlign.String())
	align := "flex-start"
	switch valign {
	case "middle":
		align = "center"
	case "bottom":
		align = "flex-end"
	}

	var sb strings.Builder
	sb.WriteString(tag("div", []attr{
		{"class", "eb-columns"},
		{"style", inlineCSS("display:flex", "align-items:"+align, b.Style.Without("verticalAlign").CSS())},
	}))
	for _, col := range b.Content.Columns {
		if col == nil {
			continue
		}
		sb.WriteString(tag("div", []attr{
			{"class", "eb-column"},
			{"data-column-id", col.ID},
			{"data-drop-target", "column"},
			{"style", inlineCSS("flex:"+formatNumber(col.Flex)+" 1 0%", "min-width:0", "min-height:48px")},
		}))
		if len(col.Items) == 0 {
			sb.WriteString(`<div class="eb-column-empty">` + escapeText(r.labels.EmptyColumn) + "</div>")
		}
		for _, item := range col.Items {
			sb.WriteString(r.block(item, depth+1))
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}

func (r *canvasRenderer) layoutPicker(b *Block) string {
	var sb strings.Builder
	sb.WriteString(`<div class="eb-layout-picker">`)
	sb.WriteString(`<p>` + escapeText(r.labels.ChooseLayout) + `</p>`)
	for _, preset := range LayoutPresets {
		weights := make([]string, len(preset.Flex))
		for i, f := range preset.Flex {
			weights[i] = formatNumber(f)
		}
		label := r.labels.Layouts[preset.Key]
		if label == "" {
			label = preset.Key
		}
		sb.WriteString(tag("button", []attr{
			{"type", "button"},
			{"data-action", "setColumns"},
			{"data-block-id", b.ID},
			{"data-preset", preset.Key},
			{"data-layout", strings.Join(weights, ",")},
		}))
		sb.WriteString(escapeText(label) + "</button>")
	}
	sb.WriteString("</div>")
	return sb.String()
}
