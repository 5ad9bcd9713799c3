package emailbuilder

import (
	"sync"
)

// Builder owns the document of one editor session. Every gesture goes
// through the engine; subscribers are notified after each change. A Builder
// is safe for concurrent use.
type Builder struct {
	mu        sync.Mutex
	doc       *Document
	catalog   *Catalog
	ids       IDGenerator
	drag      *DragController
	listeners []func(*Document)
	saving    bool
	version   int
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	doc                *Document
	catalog            *Catalog
	ids                IDGenerator
	activationDistance *float64
}

// WithDocument starts the session from an existing document.
func WithDocument(doc *Document) BuilderOption {
	return func(c *builderConfig) {
		c.doc = doc
	}
}

// WithCatalog replaces the default catalog.
func WithCatalog(catalog *Catalog) BuilderOption {
	return func(c *builderConfig) {
		c.catalog = catalog
	}
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(ids IDGenerator) BuilderOption {
	return func(c *builderConfig) {
		c.ids = ids
	}
}

// WithDragActivationDistance overrides the drag activation distance.
func WithDragActivationDistance(distance float64) BuilderOption {
	return func(c *builderConfig) {
		c.activationDistance = &distance
	}
}

// NewBuilder creates a session over an empty document unless WithDocument
// is given.
func NewBuilder(opts ...BuilderOption) *Builder {
	cfg := builderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.doc == nil {
		cfg.doc = NewDocument()
	}
	if cfg.catalog == nil {
		cfg.catalog = DefaultCatalog()
	}
	if cfg.ids == nil {
		cfg.ids = UUIDGenerator{}
	}
	var dragOpts []DragOption
	if cfg.activationDistance != nil {
		dragOpts = append(dragOpts, WithActivationDistance(*cfg.activationDistance))
	}
	return &Builder{
		doc:     cfg.doc,
		catalog: cfg.catalog,
		ids:     cfg.ids,
		drag:    NewDragController(cfg.catalog, cfg.ids, dragOpts...),
	}
}

// Document returns the current document. It must be treated as read-only.
func (b *Builder) Document() *Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// Version increases with every change of the document.
func (b *Builder) Version() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

func (b *Builder) Catalog() *Catalog {
	return b.catalog
}

// Subscribe registers fn to be called with the new document after every
// change. fn runs outside the builder's lock.
func (b *Builder) Subscribe(fn func(*Document)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// update applies fn to the current document and notifies subscribers when
// the document changed.
func (b *Builder) update(fn func(doc *Document) *Document) bool {
	b.mu.Lock()
	next := fn(b.doc)
	if next == nil || next == b.doc {
		b.mu.Unlock()
		return false
	}
	b.doc = next
	b.version++
	listeners := append(([]func(*Document))(nil), b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return true
}

// Replace swaps the whole document, e.g. after an import.
func (b *Builder) Replace(doc *Document) bool {
	return b.update(func(*Document) *Document {
		return doc
	})
}

func (b *Builder) Insert(containerID string, index int, block *Block) bool {
	return b.update(func(doc *Document) *Document {
		return Insert(doc, containerID, index, block)
	})
}

// InsertFromCatalog instantiates a catalog entry at the given position and
// selects it. It returns the new block id.
func (b *Builder) InsertFromCatalog(entryID, containerID string, index int) (string, bool) {
	block, ok := b.catalog.Instantiate(entryID, b.ids)
	if !ok {
		return "", false
	}
	changed := b.update(func(doc *Document) *Document {
		next := Insert(doc, containerID, index, block)
		if next == doc {
			return doc
		}
		return Select(next, block.ID)
	})
	if !changed {
		return "", false
	}
	return block.ID, true
}

// Append adds a catalog block at the end of the root sequence, as a click on
// a toolbar item does.
func (b *Builder) Append(entryID string) (string, bool) {
	return b.InsertFromCatalog(entryID, RootContainerID, int(^uint(0)>>1))
}

func (b *Builder) Remove(blockID string) bool {
	return b.update(func(doc *Document) *Document {
		return Remove(doc, blockID)
	})
}

func (b *Builder) Move(blockID, targetContainerID string, targetIndex int) bool {
	return b.update(func(doc *Document) *Document {
		return Move(doc, blockID, targetContainerID, targetIndex)
	})
}

// Duplicate copies a block next to the original and returns the copy's id.
func (b *Builder) Duplicate(blockID string) (string, bool) {
	var copyID string
	changed := b.update(func(doc *Document) *Document {
		next := Duplicate(doc, blockID, b.ids)
		copyID = next.SelectedBlockID
		return next
	})
	if !changed {
		return "", false
	}
	return copyID, true
}

func (b *Builder) Select(blockID string) bool {
	return b.update(func(doc *Document) *Document {
		return Select(doc, blockID)
	})
}

func (b *Builder) SetContent(blockID string, patch Content) bool {
	return b.update(func(doc *Document) *Document {
		return SetContent(doc, blockID, patch)
	})
}

func (b *Builder) SetStyle(blockID string, patch Style) bool {
	return b.update(func(doc *Document) *Document {
		return SetStyle(doc, blockID, patch)
	})
}

func (b *Builder) SetColumns(blockID string, layout []float64) bool {
	return b.update(func(doc *Document) *Document {
		return SetColumns(doc, blockID, layout, b.ids)
	})
}

// SetLayoutPreset applies one of the LayoutPresets to an empty container.
func (b *Builder) SetLayoutPreset(blockID, preset string) bool {
	layout, ok := PresetLayout(preset)
	if !ok {
		return false
	}
	return b.SetColumns(blockID, layout)
}

func (b *Builder) SetGlobalStyles(patch GlobalStylesPatch) bool {
	return b.update(func(doc *Document) *Document {
		return SetGlobalStyles(doc, patch)
	})
}

func (b *Builder) SetSubject(subject string) bool {
	return b.update(func(doc *Document) *Document {
		return SetSubject(doc, subject)
	})
}

// CommitRichText stores the markup of a contenteditable region when it
// loses focus. The markup is sanitised and written only when it differs from
// the stored content.
func (b *Builder) CommitRichText(blockID, markup string) bool {
	clean := SanitizeRichText(markup)
	return b.update(func(doc *Document) *Document {
		loc, ok := FindContainer(doc, blockID)
		if !ok || !loc.Block.Type.IsRichText() || deref(loc.Block.Content.HTML) == clean {
			return doc
		}
		return SetContent(doc, blockID, Content{HTML: String(clean)})
	})
}

// ApplySetting validates and applies an editor input. See ApplySetting.
func (b *Builder) ApplySetting(blockID, key, raw string) (bool, error) {
	var applyErr error
	changed := b.update(func(doc *Document) *Document {
		next, err := ApplySetting(doc, blockID, key, raw)
		if err != nil {
			applyErr = err
			return doc
		}
		return next
	})
	return changed, applyErr
}

// SettingsPanel returns the panel for the current selection.
func (b *Builder) SettingsPanel() Panel {
	return SettingsPanel(b.Document())
}

// RenderCanvas renders the editor canvas of the current document.
func (b *Builder) RenderCanvas(opts RenderOptions) string {
	return RenderCanvas(b.Document(), opts)
}

// Generate renders the current document as an HTML email.
func (b *Builder) Generate() string {
	return Generate(b.Document())
}

// DragState returns the state of the drag controller.
func (b *Builder) DragState() DragState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag.State()
}

func (b *Builder) PointerDown(payload DragPayload, x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drag.PointerDown(payload, x, y)
}

func (b *Builder) PointerMove(x, y float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag.PointerMove(x, y)
}

func (b *Builder) DragOver(targetID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drag.Over(targetID)
}

func (b *Builder) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drag.Cancel()
}

// Drop completes the drag. A block inserted from the catalog is selected.
func (b *Builder) Drop() DropResult {
	var result DropResult
	b.update(func(doc *Document) *Document {
		next, res := b.drag.Drop(doc)
		result = res
		if res.Inserted {
			next = Select(next, res.BlockID)
		}
		return next
	})
	return result
}

// BeginSave marks a save as in flight. It returns false when another save
// of this session has not finished yet.
func (b *Builder) BeginSave() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saving {
		return false
	}
	b.saving = true
	return true
}

// EndSave clears the in-flight save marker.
func (b *Builder) EndSave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saving = false
}

// Saving reports whether a save is in flight.
func (b *Builder) Saving() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saving
}
