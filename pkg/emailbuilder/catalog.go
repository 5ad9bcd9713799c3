package emailbuilder

import (
	"github.com/google/uuid"
)

// IDGenerator produces the ids of new blocks and columns.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string {
	return f()
}

// UUIDGenerator generates random UUIDv4 ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// CatalogEntry is a block prototype offered by the toolbar.
type CatalogEntry struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Label   string    `json:"label"`
	Content Content   `json:"content"`
	Style   Style     `json:"style"`
}

// Catalog is the fixed set of block prototypes. It is read-only after
// construction.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// NewCatalog builds a catalog from entries. Later entries with a duplicate
// id are ignored.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, exists := c.index[e.ID]; exists {
			continue
		}
		c.index[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// DefaultCatalog returns the standard set of nine block prototypes.
func DefaultCatalog() *Catalog {
	return NewCatalog([]CatalogEntry{
		{
			ID:    string(BlockTypeHeader),
			Type:  BlockTypeHeader,
			Label: "Header",
			Content: Content{
				HTML: String("<h1>Your headline here</h1>"),
			},
			Style: Style{
				FontSize:   Num(28),
				FontWeight: Num(700),
				LineHeight: Num(1.25),
				TextAlign:  Str("center"),
				PaddingX:   Num(24),
				PaddingY:   Num(16),
			},
		},
		{
			ID:    string(BlockTypeText),
			Type:  BlockTypeText,
			Label: "Text",
			Content: Content{
				HTML: String("<p>Start writing your message. Select this block to change its style.</p>"),
			},
			Style: Style{
				FontSize:   Num(16),
				LineHeight: Num(1.5),
				PaddingX:   Num(24),
				PaddingY:   Num(8),
			},
		},
		{
			ID:    string(BlockTypeImage),
			Type:  BlockTypeImage,
			Label: "Image",
			Content: Content{
				Src:    String(PlaceholderImageSrc),
				Alt:    String(""),
				Width:  Str("auto"),
				Height: Str("auto"),
			},
			Style: Style{
				TextAlign:     Str("center"),
				VerticalAlign: Str("middle"),
				PaddingX:      Num(24),
				PaddingY:      Num(8),
			},
		},
		{
			ID:    string(BlockTypeButton),
			Type:  BlockTypeButton,
			Label: "Button",
			Content: Content{
				Text:  String("Click here"),
				Href:  String("https://example.com"),
				Width: Str(ButtonWidthAuto),
			},
			Style: Style{
				BackgroundColor: Str("#2563eb"),
				Color:           Str("#ffffff"),
				FontSize:        Num(16),
				FontWeight:      Num(600),
				TextAlign:       Str("center"),
				BorderRadius:    Num(6),
				PaddingX:        Num(24),
				PaddingY:        Num(12),
			},
		},
		{
			ID:    string(BlockTypeSpacer),
			Type:  BlockTypeSpacer,
			Label: "Spacer",
			Content: Content{
				Height: Num(24),
			},
			Style: Style{
				BackgroundColor: Str("transparent"),
			},
		},
		{
			ID:    string(BlockTypeDivider),
			Type:  BlockTypeDivider,
			Label: "Divider",
			Style: Style{
				BorderWidth: Num(1),
				BorderStyle: Str("solid"),
				BorderColor: Str("#e5e7eb"),
				PaddingX:    Num(24),
				PaddingY:    Num(16),
			},
		},
		{
			ID:    string(BlockTypeColumns),
			Type:  BlockTypeColumns,
			Label: "Columns",
			Style: Style{
				VerticalAlign: Str("top"),
				PaddingY:      Num(8),
			},
		},
		{
			ID:    string(BlockTypeProduct),
			Type:  BlockTypeProduct,
			Label: "Product",
			Style: Style{
				VerticalAlign: Str("middle"),
				PaddingX:      Num(12),
				PaddingY:      Num(12),
			},
		},
		{
			ID:    string(BlockTypeFooter),
			Type:  BlockTypeFooter,
			Label: "Footer",
			Content: Content{
				HTML: String("<p>You are receiving this email because you subscribed to our newsletter.</p>"),
			},
			Style: Style{
				Color:     Str("#6b7280"),
				FontSize:  Num(12),
				TextAlign: Str("center"),
				PaddingX:  Num(24),
				PaddingY:  Num(16),
			},
		},
	})
}

// Entries returns a copy of every entry in toolbar order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e
		out[i].Content = e.Content.clone()
	}
	return out
}

// Entry looks up an entry by id.
func (c *Catalog) Entry(id string) (CatalogEntry, bool) {
	i, ok := c.index[id]
	if !ok {
		return CatalogEntry{}, false
	}
	e := c.entries[i]
	e.Content = e.Content.clone()
	return e, true
}

// Instantiate creates a fresh block from the entry with a new id and
// deep-copied defaults. The Product entry expands into its starter layout.
func (c *Catalog) Instantiate(entryID string, ids IDGenerator) (*Block, bool) {
	e, ok := c.Entry(entryID)
	if !ok {
		return nil, false
	}
	b := &Block{
		ID:      ids.NewID(),
		Type:    e.Type,
		Content: e.Content,
		Style:   e.Style,
	}
	if e.Type == BlockTypeProduct {
		b.Content.Columns = c.productColumns(ids)
	}
	return b, true
}

func (c *Catalog) productColumns(ids IDGenerator) []*Column {
	child := func(entryID string, patch Content) *Block {
		b, ok := c.Instantiate(entryID, ids)
		if !ok {
			return nil
		}
		b.Content = b.Content.Merge(patch)
		return b
	}
	media, details := []*Block{}, []*Block{}
	for _, b := range []*Block{child(string(BlockTypeImage), Content{})} {
		if b != nil {
			media = append(media, b)
		}
	}
	for _, b := range []*Block{
		child(string(BlockTypeHeader), Content{HTML: String("<h2>Product name</h2>")}),
		child(string(BlockTypeText), Content{HTML: String("<p>A short description of the product.</p>")}),
		child(string(BlockTypeText), Content{HTML: String("<p><strong>$49.00</strong></p>")}),
		child(string(BlockTypeButton), Content{Text: String("Buy now")}),
	} {
		if b != nil {
			details = append(details, b)
		}
	}
	return []*Column{
		{ID: ids.NewID(), Flex: 1, Items: media},
		{ID: ids.NewID(), Flex: 1, Items: details},
	}
}
