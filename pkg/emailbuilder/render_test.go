package emailbuilder

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCanvas(t *testing.T) {
	t.Run("empty canvas shows the hint", func(t *testing.T) {
		out := RenderCanvas(NewDocument(), RenderOptions{Labels: Labels{EmptyCanvas: "Nothing yet"}})
		html := parseHTML(t, out)
		assert.Equal(t, "Nothing yet", html.Find(".eb-canvas-empty").Text())
		assert.Equal(t, RootContainerID, html.Find(".eb-canvas").AttrOr("data-container-id", ""))
	})

	t.Run("rich text is editable and selection is marked", func(t *testing.T) {
		doc := Select(docWith(textBlock("t", "<p>Hello</p>"), textBlock("u", "<p>Other</p>")), "t")
		html := parseHTML(t, RenderCanvas(doc, RenderOptions{}))

		block := html.Find(`[data-block-id="t"]`)
		require.Equal(t, 1, block.Length())
		assert.Equal(t, "text", block.AttrOr("data-block-type", ""))
		assert.True(t, block.HasClass("eb-selected"))
		assert.False(t, html.Find(`[data-block-id="u"]`).HasClass("eb-selected"))

		editable := block.Find(`[contenteditable="true"]`)
		require.Equal(t, 1, editable.Length())
		inner, err := editable.Html()
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello</p>", inner)
	})

	t.Run("image placeholder", func(t *testing.T) {
		img := &Block{ID: "i", Type: BlockTypeImage, Content: Content{Src: String("")}}
		html := parseHTML(t, RenderCanvas(docWith(img), RenderOptions{Labels: Labels{ImagePlaceholder: "Pick one"}}))
		assert.Equal(t, "Pick one", html.Find(".eb-image-placeholder").Text())
		assert.Equal(t, 0, html.Find("img").Length())
	})

	t.Run("button navigation is suppressed", func(t *testing.T) {
		btn := &Block{ID: "b", Type: BlockTypeButton, Content: Content{Text: String("Go"), Href: String("https://example.com")}}
		html := parseHTML(t, RenderCanvas(docWith(btn), RenderOptions{}))
		link := html.Find(`[data-block-id="b"] a`)
		require.Equal(t, 1, link.Length())
		_, hasHref := link.Attr("href")
		assert.False(t, hasHref)
		assert.Equal(t, "https://example.com", link.AttrOr("data-href", ""))
		assert.Equal(t, "true", link.AttrOr("data-suppress-navigation", ""))
	})

	t.Run("empty columns show the layout picker", func(t *testing.T) {
		html := parseHTML(t, RenderCanvas(docWith(&Block{ID: "cols", Type: BlockTypeColumns}), RenderOptions{}))
		var layouts []string
		html.Find(`.eb-layout-picker button`).Each(func(_ int, s *goquery.Selection) {
			layouts = append(layouts, s.AttrOr("data-layout", ""))
		})
		assert.Equal(t, []string{"1,1", "1,1,1", "1,1,1,1", "30,70", "70,30"}, layouts)
	})

	t.Run("populated columns are drop targets", func(t *testing.T) {
		doc := docWith(columnsBlock("cols",
			column("c1", 1, textBlock("t", "<p>in column</p>")),
			column("c2", 2),
		))
		html := parseHTML(t, RenderCanvas(doc, RenderOptions{Labels: Labels{EmptyColumn: "Drop here"}}))
		cols := html.Find("[data-column-id]")
		require.Equal(t, 2, cols.Length())
		assert.Equal(t, 1, cols.First().Find(`[data-block-id="t"]`).Length())
		assert.Equal(t, "Drop here", cols.Last().Find(".eb-column-empty").Text())
		assert.Contains(t, cols.Last().AttrOr("style", ""), "flex:2 1 0%")
	})

	t.Run("unknown types render empty", func(t *testing.T) {
		html := parseHTML(t, RenderCanvas(docWith(&Block{ID: "x", Type: "carousel"}), RenderOptions{}))
		assert.Equal(t, 0, html.Find(`[data-block-id="x"]`).Length())
	})
}

func TestPresetLayout(t *testing.T) {
	layout, ok := PresetLayout("30-70")
	require.True(t, ok)
	assert.Equal(t, []float64{30, 70}, layout)

	layout[0] = 99
	again, _ := PresetLayout("30-70")
	assert.Equal(t, 30.0, again[0])

	_, ok = PresetLayout("5-95")
	assert.False(t, ok)
}
