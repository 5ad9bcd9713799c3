package emailbuilder

import (
	"fmt"
	"sort"
)

type sequentialIDs struct {
	prefix string
	n      int
}

func newSequentialIDs(prefix string) *sequentialIDs {
	return &sequentialIDs{prefix: prefix}
}

func (s *sequentialIDs) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

func textBlock(id, html string) *Block {
	return &Block{ID: id, Type: BlockTypeText, Content: Content{HTML: String(html)}}
}

func column(id string, flex float64, items ...*Block) *Column {
	if items == nil {
		items = []*Block{}
	}
	return &Column{ID: id, Flex: flex, Items: items}
}

func columnsBlock(id string, cols ...*Column) *Block {
	return &Block{ID: id, Type: BlockTypeColumns, Content: Content{Columns: cols}}
}

func docWith(items ...*Block) *Document {
	doc := NewDocument()
	doc.Items = items
	return doc
}

// allIDs returns every block and column id of the document, sorted.
func allIDs(doc *Document) []string {
	var ids []string
	walk(doc.Items, func(b *Block, _ int) {
		ids = append(ids, b.ID)
		for _, col := range b.Content.Columns {
			ids = append(ids, col.ID)
		}
	}, 0)
	sort.Strings(ids)
	return ids
}

func blockIDs(items []*Block) []string {
	ids := make([]string, 0, len(items))
	for _, b := range items {
		ids = append(ids, b.ID)
	}
	return ids
}

func hasDuplicates(ids []string) bool {
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func mustExportJSON(doc *Document) string {
	out, err := ExportJSON(doc)
	if err != nil {
		panic(err)
	}
	return string(out)
}

// nested builds a chain of Columns blocks, each holding the next in its
// single column, depth levels deep.
func nested(prefix string, depth int, leaf *Block) *Block {
	inner := leaf
	for i := depth; i >= 1; i-- {
		var items []*Block
		if inner != nil {
			items = []*Block{inner}
		}
		inner = columnsBlock(fmt.Sprintf("%s-b%d", prefix, i), column(fmt.Sprintf("%s-c%d", prefix, i), 1, items...))
	}
	return inner
}
