package emailbuilder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldByKey(t *testing.T, p Panel, key string) FormField {
	t.Helper()
	for _, f := range p.Fields {
		if f.Key == key {
			return f
		}
	}
	t.Fatalf("field %s not found in %s panel", key, p.Kind)
	return FormField{}
}

func TestSettingsPanel(t *testing.T) {
	t.Run("global panel without selection", func(t *testing.T) {
		p := SettingsPanel(NewDocument())
		assert.Equal(t, PanelKindGlobal, p.Kind)
		assert.Empty(t, p.BlockID)
		assert.Equal(t, "#ffffff", fieldByKey(t, p, "canvasColor").Value)
		assert.Equal(t, float64(600), fieldByKey(t, p, "width").Value)
		assert.Equal(t, FieldTargetGlobal, fieldByKey(t, p, "textColor").Target)
	})

	t.Run("block panel follows the selection", func(t *testing.T) {
		b, _ := DefaultCatalog().Instantiate("text", newSequentialIDs("n"))
		doc := Select(docWith(b), b.ID)
		p := SettingsPanel(doc)
		assert.Equal(t, string(BlockTypeText), p.Kind)
		assert.Equal(t, b.ID, p.BlockID)
		assert.Equal(t, float64(16), fieldByKey(t, p, "fontSize").Value)
		assert.Equal(t, FieldTargetContent, fieldByKey(t, p, "html").Target)
		assert.Len(t, fieldByKey(t, p, "textAlign").Options, 3)
	})

	t.Run("product shares the columns panel", func(t *testing.T) {
		b, _ := DefaultCatalog().Instantiate("product", newSequentialIDs("n"))
		p := SettingsPanel(Select(docWith(b), b.ID))
		assert.Equal(t, string(BlockTypeProduct), p.Kind)
		assert.Equal(t, "middle", fieldByKey(t, p, "verticalAlign").Value)
	})
}

func TestApplySetting(t *testing.T) {
	ids := newSequentialIDs("n")
	catalog := DefaultCatalog()
	text, _ := catalog.Instantiate("text", ids)
	button, _ := catalog.Instantiate("button", ids)
	image, _ := catalog.Instantiate("image", ids)
	doc := docWith(text, button, image)

	valid := []struct {
		name    string
		blockID string
		key     string
		raw     string
		check   func(t *testing.T, next *Document)
	}{
		{"number", text.ID, "fontSize", "18", func(t *testing.T, next *Document) {
			assert.Equal(t, "18", next.Items[0].Style.FontSize.String())
		}},
		{"number with px", text.ID, "paddingY", "12px", func(t *testing.T, next *Document) {
			assert.True(t, next.Items[0].Style.PaddingY.IsNumber())
			assert.Equal(t, "12", next.Items[0].Style.PaddingY.String())
		}},
		{"hex color without hash", text.ID, "color", "FF0000", func(t *testing.T, next *Document) {
			assert.Equal(t, "#ff0000", next.Items[0].Style.Color.String())
		}},
		{"numeric select", text.ID, "fontWeight", "700", func(t *testing.T, next *Document) {
			assert.True(t, next.Items[0].Style.FontWeight.IsNumber())
		}},
		{"rich text is sanitised", text.ID, "html", `<p onclick="x()">Hi</p><script>alert(1)</script>`, func(t *testing.T, next *Document) {
			assert.Equal(t, "<p>Hi</p>", *next.Items[0].Content.HTML)
		}},
		{"button link", button.ID, "href", "https://shop.example.com/sale", func(t *testing.T, next *Document) {
			assert.Equal(t, "https://shop.example.com/sale", *next.Items[1].Content.Href)
		}},
		{"liquid link", button.ID, "href", "{{ unsubscribe_url }}", func(t *testing.T, next *Document) {
			assert.Equal(t, "{{ unsubscribe_url }}", *next.Items[1].Content.Href)
		}},
		{"button width", button.ID, "width", "full", func(t *testing.T, next *Document) {
			assert.Equal(t, ButtonWidthFull, next.Items[1].Content.Width.String())
		}},
		{"image width pixels", image.ID, "width", "320", func(t *testing.T, next *Document) {
			assert.True(t, next.Items[2].Content.Width.IsNumber())
			back, err := ApplySetting(next, image.ID, "width", "AUTO")
			require.NoError(t, err)
			assert.Equal(t, "auto", back.Items[2].Content.Width.String())
		}},
		{"global width", "", "width", "640", func(t *testing.T, next *Document) {
			assert.Equal(t, float64(640), next.GlobalStyles.Width)
		}},
		{"global color", "", "backdropColor", "transparent", func(t *testing.T, next *Document) {
			assert.Equal(t, "transparent", next.GlobalStyles.BackdropColor)
		}},
	}
	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			next, err := ApplySetting(doc, tt.blockID, tt.key, tt.raw)
			require.NoError(t, err)
			require.NotSame(t, doc, next)
			tt.check(t, next)
		})
	}

	invalid := []struct {
		name    string
		blockID string
		key     string
		raw     string
	}{
		{"malformed number", text.ID, "fontSize", "big"},
		{"negative number", text.ID, "fontSize", "-4"},
		{"invalid color", text.ID, "color", "blurple"},
		{"unknown option", text.ID, "textAlign", "justify"},
		{"empty required text", button.ID, "text", "   "},
		{"invalid url", button.ID, "href", "not a url"},
		{"script url", button.ID, "href", "javascript:alert(1)"},
		{"key not on this block", button.ID, "html", "<p>x</p>"},
		{"unknown global", "", "margin", "4"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			before := mustExportJSON(doc)
			next, err := ApplySetting(doc, tt.blockID, tt.key, tt.raw)
			require.Error(t, err)
			var settingErr *SettingError
			assert.True(t, errors.As(err, &settingErr))
			assert.Equal(t, tt.key, settingErr.Key)
			assert.Same(t, doc, next)
			assert.Equal(t, before, mustExportJSON(doc))
		})
	}

	t.Run("dangling block is a silent no-op", func(t *testing.T) {
		next, err := ApplySetting(doc, "missing", "fontSize", "12")
		assert.NoError(t, err)
		assert.Same(t, doc, next)
	})
}
