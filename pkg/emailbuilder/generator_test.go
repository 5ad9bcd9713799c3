package emailbuilder

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestGenerate_Shell(t *testing.T) {
	doc := NewDocument()
	doc.Subject = "Spring <sale>"
	out := Generate(doc)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Spring &lt;sale&gt;</title>")

	html := parseHTML(t, out)
	canvas := html.Find("table.email-canvas")
	require.Equal(t, 1, canvas.Length())
	assert.Equal(t, "600", canvas.AttrOr("width", ""))
	style := canvas.AttrOr("style", "")
	assert.Contains(t, style, "max-width:600px")
	assert.Contains(t, style, "background-color:#ffffff")
	assert.Contains(t, style, "border:1px solid #e5e7eb")
	assert.Contains(t, style, "border-radius:8px")
	assert.Contains(t, html.Find("body").AttrOr("style", ""), "background-color:#f3f4f6")
}

func TestGenerate_AppendAndExport(t *testing.T) {
	b := NewBuilder(WithIDGenerator(newSequentialIDs("n")))
	id, ok := b.Append("text")
	require.True(t, ok)
	require.True(t, b.SetContent(id, Content{HTML: String("<p>Hi</p>")}))

	out := b.Generate()
	html := parseHTML(t, out)
	canvasCell := html.Find("table.email-canvas > tbody > tr > td")
	require.Equal(t, 1, canvasCell.Length())

	divs := canvasCell.ChildrenFiltered("div")
	require.Equal(t, 1, divs.Length())
	inner, err := divs.Html()
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi</p>", inner)
	style := divs.AttrOr("style", "")
	assert.Contains(t, style, "font-size:16px")
	assert.Contains(t, style, "line-height:1.5")
	assert.Contains(t, style, "padding-left:24px")
	assert.Contains(t, style, "padding-top:8px")
}

func TestGenerate_ColumnWidths(t *testing.T) {
	tests := []struct {
		name   string
		layout []float64
		want   []string
	}{
		{"two equal", []float64{1, 1}, []string{"50%", "50%"}},
		{"fractional weights", []float64{0.3, 0.7}, []string{"30%", "70%"}},
		{"three equal", []float64{1, 1, 1}, []string{"33.33%", "33.33%", "33.33%"}},
		{"presets", []float64{30, 70}, []string{"30%", "70%"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := make([]*Column, len(tt.layout))
			for i, flex := range tt.layout {
				cols[i] = column(string(rune('a'+i)), flex, textBlock("t"+string(rune('a'+i)), "<p>x</p>"))
			}
			html := parseHTML(t, Generate(docWith(columnsBlock("cols", cols...))))

			var widths []string
			html.Find("table.email-canvas td td").Each(func(_ int, s *goquery.Selection) {
				widths = append(widths, s.AttrOr("width", ""))
			})
			assert.Equal(t, tt.want, widths)
		})
	}
}

func TestGenerate_Blocks(t *testing.T) {
	t.Run("image with link and size", func(t *testing.T) {
		img := &Block{ID: "i", Type: BlockTypeImage, Content: Content{
			Src: String("https://cdn.example.com/a.png?w=1&h=2"), Alt: String("Logo"),
			Href: String("https://example.com"), Width: Num(120), Height: Str("auto"),
		}}
		html := parseHTML(t, Generate(docWith(img)))
		el := html.Find("a > img")
		require.Equal(t, 1, el.Length())
		assert.Equal(t, "https://cdn.example.com/a.png?w=1&h=2", el.AttrOr("src", ""))
		assert.Equal(t, "120", el.AttrOr("width", ""))
		assert.Contains(t, el.AttrOr("style", ""), "width:120px")
		assert.Contains(t, el.AttrOr("style", ""), "height:auto")
		assert.Equal(t, "https://example.com", el.Parent().AttrOr("href", ""))
	})

	t.Run("placeholder image renders nothing", func(t *testing.T) {
		img := &Block{ID: "i", Type: BlockTypeImage, Content: Content{Src: String(PlaceholderImageSrc)}}
		html := parseHTML(t, Generate(docWith(img)))
		assert.Equal(t, 0, html.Find("img").Length())
	})

	t.Run("bulletproof button", func(t *testing.T) {
		btn, ok := DefaultCatalog().Instantiate("button", newSequentialIDs("b"))
		require.True(t, ok)
		btn.Content.Text = String("Shop & save")
		html := parseHTML(t, Generate(docWith(btn)))
		link := html.Find("table.email-canvas table td a")
		require.Equal(t, 1, link.Length())
		assert.Equal(t, "Shop & save", link.Text())
		assert.Equal(t, "https://example.com", link.AttrOr("href", ""))
		assert.Equal(t, "#2563eb", link.Parent().AttrOr("bgcolor", ""))
		assert.Contains(t, link.AttrOr("style", ""), "display:inline-block")
	})

	t.Run("full width button", func(t *testing.T) {
		btn := &Block{ID: "b", Type: BlockTypeButton, Content: Content{Text: String("Go"), Width: Str(ButtonWidthFull)}}
		html := parseHTML(t, Generate(docWith(btn)))
		assert.Equal(t, "100%", html.Find("table.email-canvas table").AttrOr("width", ""))
		assert.Contains(t, html.Find("table.email-canvas table a").AttrOr("style", ""), "display:block")
	})

	t.Run("script href is dropped", func(t *testing.T) {
		btn := &Block{ID: "b", Type: BlockTypeButton, Content: Content{Text: String("x"), Href: String("javascript:alert(1)")}}
		assert.NotContains(t, Generate(docWith(btn)), "javascript:")
	})

	t.Run("spacer and divider", func(t *testing.T) {
		spacer := &Block{ID: "s", Type: BlockTypeSpacer, Content: Content{Height: Num(32)}, Style: Style{BackgroundColor: Str("#ff0000")}}
		divider := &Block{ID: "d", Type: BlockTypeDivider, Style: Style{BorderWidth: Num(2), BorderStyle: Str("dashed"), BorderColor: Str("#cccccc")}}
		out := Generate(docWith(spacer, divider))
		assert.Contains(t, out, `<div style="height:32px;line-height:32px;font-size:0;background-color:#ff0000"></div>`)
		assert.Contains(t, out, "border-top:2px dashed #cccccc")
	})
}

func TestGenerate_Totality(t *testing.T) {
	t.Run("every block type", func(t *testing.T) {
		ids := newSequentialIDs("n")
		doc := NewDocument()
		for _, e := range DefaultCatalog().Entries() {
			b, ok := DefaultCatalog().Instantiate(e.ID, ids)
			require.True(t, ok)
			doc = Insert(doc, RootContainerID, len(doc.Items), b)
		}
		require.Len(t, doc.Items, 9)
		out := Generate(doc)
		assert.NotEmpty(t, out)
		assert.Contains(t, out, "Product name")
	})

	t.Run("unknown type and nil nodes", func(t *testing.T) {
		doc := docWith(&Block{ID: "u", Type: BlockType("carousel")}, nil, textBlock("t", "<p>ok</p>"))
		doc.Items = append(doc.Items, columnsBlock("cols", nil, column("c", 1, nil)))
		out := Generate(doc)
		assert.Contains(t, out, "<p>ok</p>")
		assert.NotContains(t, out, "carousel")
	})

	t.Run("nil document", func(t *testing.T) {
		assert.Contains(t, Generate(nil), "<title></title>")
	})

	t.Run("excessive depth degrades to empty", func(t *testing.T) {
		doc := docWith(nested("deep", MaxRenderDepth+2, textBlock("leaf", "<p>too deep</p>")))
		out := Generate(doc)
		assert.NotContains(t, out, "too deep")
	})

	t.Run("deterministic", func(t *testing.T) {
		b, _ := DefaultCatalog().Instantiate("product", newSequentialIDs("p"))
		doc := docWith(b)
		assert.Equal(t, Generate(doc), Generate(doc))
	})
}

func TestStyleCSS(t *testing.T) {
	s := Style{
		Color:      Str("#111111"),
		FontSize:   Num(14),
		FontWeight: Num(700),
		LineHeight: Num(1.4),
		Opacity:    Num(0.5),
		PaddingX:   Num(10),
		PaddingY:   Num(4),
		PaddingTop: Num(0),
	}
	assert.Equal(t,
		"color:#111111;font-size:14px;font-weight:700;line-height:1.4;padding-left:10px;padding-right:10px;padding-top:4px;padding-bottom:4px;padding-top:0px;opacity:0.5",
		s.CSS(),
	)
	assert.Equal(t, "background-color:red/style", Style{BackgroundColor: Str("red;}</style>")}.CSS())
	assert.Equal(t, "text-align", camelToKebab("textAlign"))
}
