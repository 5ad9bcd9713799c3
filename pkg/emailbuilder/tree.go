package emailbuilder

import "math"

// Location identifies where a block sits: the container holding it and its
// index within that container.
type Location struct {
	ContainerID string
	Index       int
	Block       *Block
	// Level is the number of column levels enclosing the block, 0 at root.
	Level int
}

// Every operation below treats the input document as immutable. Changed
// nodes are copied along the path from the root and untouched subtrees are
// shared with the input. When an operation cannot apply it returns the input
// document itself, so callers detect a no-op by pointer comparison.

// FindContainer locates a block anywhere in the tree in a single depth-first pass.
func FindContainer(doc *Document, id string) (Location, bool) {
	if doc == nil || id == "" {
		return Location{}, false
	}
	return findIn(doc.Items, RootContainerID, id, 0)
}

func findIn(items []*Block, containerID, id string, level int) (Location, bool) {
	for i, b := range items {
		if b == nil {
			continue
		}
		if b.ID == id {
			return Location{ContainerID: containerID, Index: i, Block: b, Level: level}, true
		}
		for _, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			if loc, ok := findIn(col.Items, col.ID, id, level+1); ok {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// FindColumn locates a column by id and returns it with the column level of
// the items it holds.
func FindColumn(doc *Document, columnID string) (*Column, int, bool) {
	if doc == nil || columnID == "" {
		return nil, 0, false
	}
	return findColumnIn(doc.Items, columnID, 1)
}

func findColumnIn(items []*Block, columnID string, level int) (*Column, int, bool) {
	for _, b := range items {
		if b == nil {
			continue
		}
		for _, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			if col.ID == columnID {
				return col, level, true
			}
			if found, l, ok := findColumnIn(col.Items, columnID, level+1); ok {
				return found, l, true
			}
		}
	}
	return nil, 0, false
}

// containerLevel returns the column level of a container, 0 for the root.
func containerLevel(doc *Document, containerID string) (int, bool) {
	if containerID == RootContainerID {
		return 0, true
	}
	_, level, ok := FindColumn(doc, containerID)
	return level, ok
}

// Insert places block at index inside the container. The index is clamped
// into range. Dangling containers, nil blocks, id collisions and layouts
// deeper than MaxColumnNesting leave the document unchanged.
func Insert(doc *Document, containerID string, index int, block *Block) *Document {
	if doc == nil || block == nil || block.ID == "" {
		return doc
	}
	if !block.Type.IsContainer() && len(block.Content.Columns) > 0 {
		return doc
	}
	level, ok := containerLevel(doc, containerID)
	if !ok || level+nestingHeight(block) > MaxColumnNesting {
		return doc
	}
	if collides(doc, block) {
		return doc
	}
	clone := block.Clone()
	items, ok := updateContainer(doc.Items, containerID, func(items []*Block) []*Block {
		return insertAt(items, index, clone)
	})
	if !ok {
		return doc
	}
	return withItems(doc, items)
}

// collides reports whether any id of block's subtree already exists in doc
// or appears twice within the subtree.
func collides(doc *Document, block *Block) bool {
	existing := map[string]bool{}
	walk(doc.Items, func(b *Block, _ int) {
		existing[b.ID] = true
		for _, col := range b.Content.Columns {
			if col != nil {
				existing[col.ID] = true
			}
		}
	}, 0)
	seen := map[string]bool{}
	clash := false
	check := func(id string) {
		if id == "" || existing[id] || seen[id] {
			clash = true
		}
		seen[id] = true
	}
	walk([]*Block{block}, func(b *Block, _ int) {
		check(b.ID)
		for _, col := range b.Content.Columns {
			if col != nil {
				check(col.ID)
			}
		}
	}, 0)
	return clash
}

// Remove deletes a block and its subtree. When the selection lies within the
// removed subtree it is cleared.
func Remove(doc *Document, blockID string) *Document {
	loc, ok := FindContainer(doc, blockID)
	if !ok {
		return doc
	}
	items, ok := updateContainer(doc.Items, loc.ContainerID, func(items []*Block) []*Block {
		return removeAt(items, loc.Index)
	})
	if !ok {
		return doc
	}
	out := withItems(doc, items)
	if doc.SelectedBlockID != "" && subtreeIDs(loc.Block)[doc.SelectedBlockID] {
		out.SelectedBlockID = ""
	}
	return out
}

// Move relocates a block, with its subtree and ids intact, to targetIndex in
// the target container. The index is interpreted after the block has been
// extracted. Moving a block into one of its own columns is refused.
func Move(doc *Document, blockID, targetContainerID string, targetIndex int) *Document {
	loc, ok := FindContainer(doc, blockID)
	if !ok {
		return doc
	}
	level, ok := containerLevel(doc, targetContainerID)
	if !ok {
		return doc
	}
	if targetContainerID != RootContainerID && subtreeIDs(loc.Block)[targetContainerID] {
		return doc
	}
	if level+nestingHeight(loc.Block) > MaxColumnNesting {
		return doc
	}
	if targetContainerID == loc.ContainerID {
		siblings := containerItems(doc, loc.ContainerID)
		if clampIndex(targetIndex, len(siblings)-1) == loc.Index {
			return doc
		}
	}

	extracted, ok := updateContainer(doc.Items, loc.ContainerID, func(items []*Block) []*Block {
		return removeAt(items, loc.Index)
	})
	if !ok {
		return doc
	}
	items, ok := updateContainer(extracted, targetContainerID, func(items []*Block) []*Block {
		return insertAt(items, targetIndex, loc.Block)
	})
	if !ok {
		return doc
	}
	return withItems(doc, items)
}

// Duplicate inserts a deep copy of a block right after the original. Every
// block and column of the copy gets a fresh id, and the copy is selected.
func Duplicate(doc *Document, blockID string, ids IDGenerator) *Document {
	loc, ok := FindContainer(doc, blockID)
	if !ok || ids == nil {
		return doc
	}
	copied := cloneWithNewIDs(loc.Block, ids)
	if collides(doc, copied) {
		return doc
	}
	items, ok := updateContainer(doc.Items, loc.ContainerID, func(items []*Block) []*Block {
		return insertAt(items, loc.Index+1, copied)
	})
	if !ok {
		return doc
	}
	out := withItems(doc, items)
	out.SelectedBlockID = copied.ID
	return out
}

// SetContent merges patch into a block's content. Fields the block type does
// not support and the structural columns field are ignored.
func SetContent(doc *Document, blockID string, patch Content) *Document {
	return updateBlockByID(doc, blockID, func(b *Block) bool {
		next := b.Content.Merge(patch.restrict(b.Type))
		if contentEqual(next, b.Content) {
			return false
		}
		b.Content = next
		return true
	})
}

// SetStyle merges patch into a block's style. Keys outside the block type's
// style set are ignored.
func SetStyle(doc *Document, blockID string, patch Style) *Document {
	return updateBlockByID(doc, blockID, func(b *Block) bool {
		restricted := patch.restrict(b.Type)
		if restricted == (Style{}) {
			return false
		}
		b.Style = b.Style.Merge(restricted)
		return true
	})
}

// SetColumns replaces the columns of a Columns or Product block with fresh
// empty columns weighted by layout. It refuses while any column still holds
// items, and refuses empty layouts or non-positive weights.
func SetColumns(doc *Document, blockID string, layout []float64, ids IDGenerator) *Document {
	if len(layout) == 0 || ids == nil {
		return doc
	}
	for _, flex := range layout {
		if !(flex > 0) || math.IsInf(flex, 0) {
			return doc
		}
	}
	loc, ok := FindContainer(doc, blockID)
	if !ok || !loc.Block.Type.IsContainer() {
		return doc
	}
	if loc.Level+1 > MaxColumnNesting {
		return doc
	}
	for _, col := range loc.Block.Content.Columns {
		if col != nil && len(col.Items) > 0 {
			return doc
		}
	}
	return updateBlockByID(doc, blockID, func(b *Block) bool {
		cols := make([]*Column, len(layout))
		for i, flex := range layout {
			cols[i] = &Column{ID: ids.NewID(), Flex: flex, Items: []*Block{}}
		}
		b.Content.Columns = cols
		return true
	})
}

// Select marks a block as selected. An empty id clears the selection; ids
// not present in the tree are ignored.
func Select(doc *Document, blockID string) *Document {
	if doc == nil || doc.SelectedBlockID == blockID {
		return doc
	}
	if blockID != "" {
		if _, ok := FindContainer(doc, blockID); !ok {
			return doc
		}
	}
	out := *doc
	out.SelectedBlockID = blockID
	return &out
}

// SetGlobalStyles merges patch into the document's global styles.
func SetGlobalStyles(doc *Document, patch GlobalStylesPatch) *Document {
	if doc == nil {
		return doc
	}
	next := doc.GlobalStyles.Merge(patch)
	if next == doc.GlobalStyles {
		return doc
	}
	out := *doc
	out.GlobalStyles = next
	return &out
}

// SetSubject changes the subject embedded in generated output.
func SetSubject(doc *Document, subject string) *Document {
	if doc == nil || doc.Subject == subject {
		return doc
	}
	out := *doc
	out.Subject = subject
	return &out
}

func withItems(doc *Document, items []*Block) *Document {
	out := *doc
	out.Items = items
	return &out
}

func containerItems(doc *Document, containerID string) []*Block {
	if containerID == RootContainerID {
		return doc.Items
	}
	if col, _, ok := FindColumn(doc, containerID); ok {
		return col.Items
	}
	return nil
}

func clampIndex(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}

// insertAt returns a new slice with b placed at the clamped index.
func insertAt(items []*Block, index int, b *Block) []*Block {
	index = clampIndex(index, len(items))
	out := make([]*Block, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, b)
	return append(out, items[index:]...)
}

// removeAt returns a new slice without the element at index.
func removeAt(items []*Block, index int) []*Block {
	out := make([]*Block, 0, len(items))
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}

// updateContainer rebuilds items with fn applied to the item list of the
// container. fn must return a fresh slice.
func updateContainer(items []*Block, containerID string, fn func([]*Block) []*Block) ([]*Block, bool) {
	if containerID == RootContainerID {
		return fn(items), true
	}
	for i, b := range items {
		if b == nil {
			continue
		}
		for j, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			var next []*Block
			if col.ID == containerID {
				next = fn(col.Items)
			} else {
				updated, ok := updateContainer(col.Items, containerID, fn)
				if !ok {
					continue
				}
				next = updated
			}
			return replaceAt(items, i, withColumnItems(b, j, next)), true
		}
	}
	return items, false
}

// updateBlockByID copies the block with the given id, lets fn modify the
// copy and rebuilds the path to it. fn returns false to signal no change.
func updateBlockByID(doc *Document, blockID string, fn func(b *Block) bool) *Document {
	if doc == nil {
		return doc
	}
	items, changed := updateBlock(doc.Items, blockID, fn)
	if !changed {
		return doc
	}
	return withItems(doc, items)
}

func updateBlock(items []*Block, blockID string, fn func(b *Block) bool) ([]*Block, bool) {
	for i, b := range items {
		if b == nil {
			continue
		}
		if b.ID == blockID {
			copied := *b
			if !fn(&copied) {
				return items, false
			}
			return replaceAt(items, i, &copied), true
		}
		for j, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			if updated, ok := updateBlock(col.Items, blockID, fn); ok {
				return replaceAt(items, i, withColumnItems(b, j, updated)), true
			}
		}
	}
	return items, false
}

func replaceAt(items []*Block, index int, b *Block) []*Block {
	out := make([]*Block, len(items))
	copy(out, items)
	out[index] = b
	return out
}

// withColumnItems returns a copy of b whose j-th column holds items.
func withColumnItems(b *Block, j int, items []*Block) *Block {
	copied := *b
	cols := make([]*Column, len(b.Content.Columns))
	copy(cols, b.Content.Columns)
	col := *cols[j]
	col.Items = items
	cols[j] = &col
	copied.Content.Columns = cols
	return &copied
}

func contentEqual(a, b Content) bool {
	for _, key := range []string{"html", "src", "alt", "href", "text", "width", "height"} {
		av, bv := a.Get(key), b.Get(key)
		if (av == nil) != (bv == nil) {
			return false
		}
		if av != nil && (av.IsNumber() != bv.IsNumber() || av.String() != bv.String()) {
			return false
		}
	}
	return true
}
