package domain

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTemplateRequest_Validate(t *testing.T) {
	valid := SaveTemplateRequest{
		Name:     "Welcome email",
		Subject:  "Hello",
		HTMLBody: "<html></html>",
		Document: TemplateDocument(`{"items":[{"id":"a","type":"text","content":{"html":"<p>x</p>"}}]}`),
	}
	require.NoError(t, valid.Validate())

	tests := map[string]func(r *SaveTemplateRequest){
		"missing name":     func(r *SaveTemplateRequest) { r.Name = " " },
		"name too long":    func(r *SaveTemplateRequest) { r.Name = strings.Repeat("n", 256) },
		"missing html":     func(r *SaveTemplateRequest) { r.HTMLBody = "" },
		"invalid document": func(r *SaveTemplateRequest) { r.Document = TemplateDocument(`{"items":[{"type":"text"}]}`) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			var validationErr ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}

	t.Run("document is optional", func(t *testing.T) {
		req := valid
		req.Document = nil
		assert.NoError(t, req.Validate())
	})
}

func TestGetTemplateRequest_FromURLParams(t *testing.T) {
	var req GetTemplateRequest
	require.NoError(t, req.FromURLParams(url.Values{"name": {"promo"}}))
	assert.Equal(t, "promo", req.Name)
	assert.Error(t, req.FromURLParams(url.Values{}))
	assert.Error(t, (&DeleteTemplateRequest{}).Validate())
}

func TestTemplateDocument(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		tmpl := Template{Name: "a", Document: TemplateDocument(`{"items":[]}`)}
		out, err := json.Marshal(tmpl)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"document":{"items":[]}`)

		var back Template
		require.NoError(t, json.Unmarshal(out, &back))
		assert.JSONEq(t, `{"items":[]}`, string(back.Document))

		out, err = json.Marshal(Template{Name: "b"})
		require.NoError(t, err)
		assert.NotContains(t, string(out), "document")
	})

	t.Run("sql", func(t *testing.T) {
		buf := []byte(`{"items":[]}`)
		var doc TemplateDocument
		require.NoError(t, doc.Scan(buf))
		buf[2] = 'X'
		assert.Equal(t, `{"items":[]}`, string(doc))

		require.NoError(t, doc.Scan(`{"subject":"s"}`))
		assert.Equal(t, `{"subject":"s"}`, string(doc))
		require.NoError(t, doc.Scan(nil))
		assert.Nil(t, doc)
		assert.Error(t, doc.Scan(42))

		v, err := TemplateDocument(nil).Value()
		require.NoError(t, err)
		assert.Nil(t, v)
		v, err = TemplateDocument(`{}`).Value()
		require.NoError(t, err)
		assert.Equal(t, []byte(`{}`), v)
	})

	t.Run("decode", func(t *testing.T) {
		doc, err := TemplateDocument(`{"subject":"Hi","items":[]}`).Decode()
		require.NoError(t, err)
		assert.Equal(t, "Hi", doc.Subject)

		_, err = TemplateDocument(nil).Decode()
		assert.Error(t, err)
	})
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "validation error: bad", NewValidationError("bad").Error())
	assert.Equal(t, "missing", (&ErrTemplateNotFound{Message: "missing"}).Error())
	assert.Contains(t, (&ErrSessionNotFound{SessionID: "s1"}).Error(), "s1")
	assert.Contains(t, (&ErrMediaNotFound{Ref: "img/a.png"}).Error(), "img/a.png")
}
