package emailbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRichText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain markup is kept", "<p>Hello <strong>world</strong></p>", "<p>Hello <strong>world</strong></p>"},
		{"event handlers are removed", `<p onclick="steal()">Hi</p>`, "<p>Hi</p>"},
		{"scripts are removed", "<p>a</p><script>alert(1)</script>", "<p>a</p>"},
		{"iframes are removed", `<iframe src="https://evil.example"></iframe><b>ok</b>`, "<b>ok</b>"},
		{"script links lose their href", `<a href="javascript:alert(1)">x</a>`, "<a>x</a>"},
		{"safe links are kept", `<a href="https://example.com">x</a>`, `<a href="https://example.com">x</a>`},
		{"blank input", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeRichText(tt.input))
		})
	}

	t.Run("embedded images survive", func(t *testing.T) {
		out := SanitizeRichText(`<img src="data:image/png;base64,iVBORw0KGgo=">`)
		assert.Contains(t, out, `src="data:image/png;base64,iVBORw0KGgo="`)
	})

	t.Run("non image data urls are dropped", func(t *testing.T) {
		out := SanitizeRichText(`<img src="data:text/html;base64,PHNjcmlwdD4=">`)
		assert.NotContains(t, out, "data:text/html")
	})
}
