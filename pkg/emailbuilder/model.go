package emailbuilder

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BlockType represents the type of a block in the email document
type BlockType string

const (
	BlockTypeHeader  BlockType = "header"
	BlockTypeText    BlockType = "text"
	BlockTypeImage   BlockType = "image"
	BlockTypeButton  BlockType = "button"
	BlockTypeSpacer  BlockType = "spacer"
	BlockTypeDivider BlockType = "divider"
	BlockTypeColumns BlockType = "columns"
	BlockTypeProduct BlockType = "product"
	BlockTypeFooter  BlockType = "footer"
)

// RootContainerID addresses the top-level item sequence of a document.
const RootContainerID = "root"

// PlaceholderImageSrc marks an image block whose source has not been chosen yet.
const PlaceholderImageSrc = "placeholder"

// MaxColumnNesting is the deepest column level the engine will build.
const MaxColumnNesting = 5

const (
	ButtonWidthAuto = "auto"
	ButtonWidthFull = "full"
)

// IsValid reports whether the type belongs to the closed set of block types.
func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeHeader, BlockTypeText, BlockTypeImage, BlockTypeButton, BlockTypeSpacer,
		BlockTypeDivider, BlockTypeColumns, BlockTypeProduct, BlockTypeFooter:
		return true
	}
	return false
}

// IsContainer reports whether blocks of this type carry columns.
func (t BlockType) IsContainer() bool {
	return t == BlockTypeColumns || t == BlockTypeProduct
}

// IsRichText reports whether blocks of this type hold an editable html fragment.
func (t BlockType) IsRichText() bool {
	return t == BlockTypeHeader || t == BlockTypeText || t == BlockTypeFooter
}

// Value is a style or dimension value: either a number (pixels unless the
// property is unitless) or a raw string such as "auto" or "#ffffff".
type Value struct {
	num   float64
	str   string
	isNum bool
}

// Num returns a numeric value.
func Num(n float64) *Value {
	return &Value{num: n, isNum: true}
}

// Str returns a string value.
func Str(s string) *Value {
	return &Value{str: s}
}

func (v *Value) IsNumber() bool {
	return v != nil && v.isNum
}

// Number returns the numeric value. String values holding a number, with or
// without a px suffix, are accepted too.
func (v *Value) Number() (float64, bool) {
	if v == nil {
		return 0, false
	}
	if v.isNum {
		return v.num, true
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v.str), "px"), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v *Value) String() string {
	if v == nil {
		return ""
	}
	if v.isNum {
		return formatNumber(v.num)
	}
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return []byte(formatNumber(v.num)), nil
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{str: s}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a number or a string: %w", err)
	}
	*v = Value{num: n, isNum: true}
	return nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Block is a node of the document tree.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content Content   `json:"content"`
	Style   Style     `json:"style"`
}

// Column is a flex-weighted slot of a Columns or Product block.
type Column struct {
	ID    string   `json:"id"`
	Flex  float64  `json:"flex"`
	Items []*Block `json:"items"`
}

// Content holds the type-specific fields of a block. Only Columns and
// Product blocks carry Columns.
type Content struct {
	HTML    *string   `json:"html,omitempty"`
	Src     *string   `json:"src,omitempty"`
	Alt     *string   `json:"alt,omitempty"`
	Href    *string   `json:"href,omitempty"`
	Text    *string   `json:"text,omitempty"`
	Width   *Value    `json:"width,omitempty"`
	Height  *Value    `json:"height,omitempty"`
	Columns []*Column `json:"columns,omitempty"`
}

var contentKeysByType = map[BlockType][]string{
	BlockTypeHeader: {"html"},
	BlockTypeText:   {"html"},
	BlockTypeFooter: {"html"},
	BlockTypeImage:  {"src", "alt", "href", "width", "height"},
	BlockTypeButton: {"text", "href", "width"},
	BlockTypeSpacer: {"height"},
}

// ContentKeys returns the content fields editable on a block type.
func ContentKeys(t BlockType) []string {
	return append([]string(nil), contentKeysByType[t]...)
}

// Get returns a content field as a Value, or nil when unset.
func (c Content) Get(key string) *Value {
	switch key {
	case "html":
		return strValue(c.HTML)
	case "src":
		return strValue(c.Src)
	case "alt":
		return strValue(c.Alt)
	case "href":
		return strValue(c.Href)
	case "text":
		return strValue(c.Text)
	case "width":
		return c.Width
	case "height":
		return c.Height
	}
	return nil
}

// Set assigns a content field by key. It returns false for unknown keys.
func (c *Content) Set(key string, v *Value) bool {
	switch key {
	case "html":
		c.HTML = strPtr(v)
	case "src":
		c.Src = strPtr(v)
	case "alt":
		c.Alt = strPtr(v)
	case "href":
		c.Href = strPtr(v)
	case "text":
		c.Text = strPtr(v)
	case "width":
		c.Width = v
	case "height":
		c.Height = v
	default:
		return false
	}
	return true
}

// Merge overlays the non-nil fields of patch. Columns are never touched.
func (c Content) Merge(patch Content) Content {
	out := c
	if patch.HTML != nil {
		out.HTML = String(*patch.HTML)
	}
	if patch.Src != nil {
		out.Src = String(*patch.Src)
	}
	if patch.Alt != nil {
		out.Alt = String(*patch.Alt)
	}
	if patch.Href != nil {
		out.Href = String(*patch.Href)
	}
	if patch.Text != nil {
		out.Text = String(*patch.Text)
	}
	if patch.Width != nil {
		out.Width = patch.Width
	}
	if patch.Height != nil {
		out.Height = patch.Height
	}
	return out
}

func (c Content) clone() Content {
	out := c
	out.HTML = copyString(c.HTML)
	out.Src = copyString(c.Src)
	out.Alt = copyString(c.Alt)
	out.Href = copyString(c.Href)
	out.Text = copyString(c.Text)
	out.Columns = nil
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return String(*s)
}

// restrict drops the fields a block type does not support.
func (c Content) restrict(t BlockType) Content {
	out := Content{Columns: c.Columns}
	for _, key := range contentKeysByType[t] {
		out.Set(key, c.Get(key))
	}
	return out
}

// String returns a pointer to s, for building content patches.
func String(s string) *string {
	return &s
}

func strValue(s *string) *Value {
	if s == nil {
		return nil
	}
	return Str(*s)
}

func strPtr(v *Value) *string {
	if v == nil {
		return nil
	}
	return String(v.String())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GlobalStyles apply to the whole email canvas.
type GlobalStyles struct {
	CanvasColor       string  `json:"canvasColor"`
	CanvasBorderColor string  `json:"canvasBorderColor"`
	CanvasBorderWidth float64 `json:"canvasBorderWidth"`
	CanvasRadius      float64 `json:"canvasRadius"`
	BackdropColor     string  `json:"backdropColor"`
	FontFamily        string  `json:"fontFamily"`
	TextColor         string  `json:"textColor"`
	Width             float64 `json:"width"`
}

// GlobalStylesPatch is a partial update of GlobalStyles.
type GlobalStylesPatch struct {
	CanvasColor       *string  `json:"canvasColor,omitempty"`
	CanvasBorderColor *string  `json:"canvasBorderColor,omitempty"`
	CanvasBorderWidth *float64 `json:"canvasBorderWidth,omitempty"`
	CanvasRadius      *float64 `json:"canvasRadius,omitempty"`
	BackdropColor     *string  `json:"backdropColor,omitempty"`
	FontFamily        *string  `json:"fontFamily,omitempty"`
	TextColor         *string  `json:"textColor,omitempty"`
	Width             *float64 `json:"width,omitempty"`
}

// DefaultCanvasWidth is the canvas width used when none is configured.
const DefaultCanvasWidth = 600

// DefaultGlobalStyles returns the styles of a new document.
func DefaultGlobalStyles() GlobalStyles {
	return GlobalStyles{
		CanvasColor:       "#ffffff",
		CanvasBorderColor: "#e5e7eb",
		CanvasBorderWidth: 1,
		CanvasRadius:      8,
		BackdropColor:     "#f3f4f6",
		FontFamily:        "Arial, Helvetica, sans-serif",
		TextColor:         "#111827",
		Width:             DefaultCanvasWidth,
	}
}

// Merge overlays the non-nil fields of patch.
func (g GlobalStyles) Merge(patch GlobalStylesPatch) GlobalStyles {
	out := g
	if patch.CanvasColor != nil {
		out.CanvasColor = *patch.CanvasColor
	}
	if patch.CanvasBorderColor != nil {
		out.CanvasBorderColor = *patch.CanvasBorderColor
	}
	if patch.CanvasBorderWidth != nil {
		out.CanvasBorderWidth = *patch.CanvasBorderWidth
	}
	if patch.CanvasRadius != nil {
		out.CanvasRadius = *patch.CanvasRadius
	}
	if patch.BackdropColor != nil {
		out.BackdropColor = *patch.BackdropColor
	}
	if patch.FontFamily != nil {
		out.FontFamily = *patch.FontFamily
	}
	if patch.TextColor != nil {
		out.TextColor = *patch.TextColor
	}
	if patch.Width != nil {
		out.Width = *patch.Width
	}
	return out
}

// Document is the whole email being edited.
type Document struct {
	Items           []*Block     `json:"items"`
	GlobalStyles    GlobalStyles `json:"globalStyles"`
	SelectedBlockID string       `json:"selectedBlockId,omitempty"`
	Subject         string       `json:"subject"`
}

// NewDocument returns an empty document with default global styles.
func NewDocument() *Document {
	return &Document{
		Items:        []*Block{},
		GlobalStyles: DefaultGlobalStyles(),
	}
}

// Clone returns a deep copy of the block, preserving ids.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	out := &Block{
		ID:      b.ID,
		Type:    b.Type,
		Content: b.Content.clone(),
		Style:   b.Style,
	}
	if b.Content.Columns != nil {
		out.Content.Columns = make([]*Column, 0, len(b.Content.Columns))
		for _, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			out.Content.Columns = append(out.Content.Columns, col.clone())
		}
	}
	return out
}

func (c *Column) clone() *Column {
	out := &Column{ID: c.ID, Flex: c.Flex, Items: make([]*Block, 0, len(c.Items))}
	for _, item := range c.Items {
		if item == nil {
			continue
		}
		out.Items = append(out.Items, item.Clone())
	}
	return out
}

// cloneWithNewIDs deep-copies a block and assigns fresh ids to every block
// and column of the copy.
func cloneWithNewIDs(b *Block, ids IDGenerator) *Block {
	out := b.Clone()
	reassignIDs(out, ids)
	return out
}

func reassignIDs(b *Block, ids IDGenerator) {
	b.ID = ids.NewID()
	for _, col := range b.Content.Columns {
		col.ID = ids.NewID()
		for _, item := range col.Items {
			reassignIDs(item, ids)
		}
	}
}

// walk visits every block of the subtree rooted at items, depth first.
func walk(items []*Block, fn func(b *Block, columnDepth int), columnDepth int) {
	for _, b := range items {
		if b == nil {
			continue
		}
		fn(b, columnDepth)
		for _, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			walk(col.Items, fn, columnDepth+1)
		}
	}
}

// subtreeIDs returns every block and column id within b, b included.
func subtreeIDs(b *Block) map[string]bool {
	ids := map[string]bool{}
	walk([]*Block{b}, func(n *Block, _ int) {
		ids[n.ID] = true
		for _, col := range n.Content.Columns {
			if col != nil {
				ids[col.ID] = true
			}
		}
	}, 0)
	return ids
}

// nestingHeight is the number of column levels a block introduces below
// the container it sits in.
func nestingHeight(b *Block) int {
	if b == nil || len(b.Content.Columns) == 0 {
		if b != nil && b.Type.IsContainer() {
			return 1
		}
		return 0
	}
	deepest := 0
	for _, col := range b.Content.Columns {
		if col == nil {
			continue
		}
		for _, item := range col.Items {
			if h := nestingHeight(item); h > deepest {
				deepest = h
			}
		}
	}
	return deepest + 1
}
