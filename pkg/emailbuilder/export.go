package emailbuilder

import (
	"encoding/json"
	"fmt"
	"html"
	"math"

	"github.com/gosimple/slug"
)

// ExportFile is a downloadable artifact.
type ExportFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}

// exportedDocument is the persisted shape of a document. The selection is
// editor state and is not exported.
type exportedDocument struct {
	GlobalStyles GlobalStyles `json:"globalStyles"`
	Items        []*Block     `json:"items"`
	Subject      string       `json:"subject"`
}

type importedDocument struct {
	GlobalStyles *GlobalStyles `json:"globalStyles"`
	Items        []*Block      `json:"items"`
	Subject      string        `json:"subject"`
}

// ExportJSON serialises the document as {globalStyles, items, subject}.
func ExportJSON(doc *Document) ([]byte, error) {
	if doc == nil {
		doc = NewDocument()
	}
	items := doc.Items
	if items == nil {
		items = []*Block{}
	}
	out, err := json.MarshalIndent(exportedDocument{
		GlobalStyles: doc.GlobalStyles,
		Items:        items,
		Subject:      doc.Subject,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return out, nil
}

// ImportJSON parses a document produced by ExportJSON. Documents that break
// the tree invariants are rejected.
func ImportJSON(data []byte) (*Document, error) {
	var in importedDocument
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}
	doc := NewDocument()
	if in.GlobalStyles != nil {
		doc.GlobalStyles = *in.GlobalStyles
	}
	doc.Subject = in.Subject
	if in.Items != nil {
		doc.Items = in.Items
	}
	normalize(doc.Items)
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func normalize(items []*Block) {
	for _, b := range items {
		if b == nil {
			continue
		}
		for _, col := range b.Content.Columns {
			if col == nil {
				continue
			}
			if col.Items == nil {
				col.Items = []*Block{}
			}
			normalize(col.Items)
		}
	}
}

// Validate checks the structural invariants of a document: non-empty unique
// ids, columns only on Columns and Product blocks, positive column weights,
// nesting within MaxColumnNesting and a selection that references a block.
func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	seen := map[string]bool{}
	var err error
	claim := func(kind, id string) {
		if err != nil {
			return
		}
		if id == "" {
			err = fmt.Errorf("%s without id", kind)
			return
		}
		if seen[id] {
			err = fmt.Errorf("duplicate id %q", id)
			return
		}
		seen[id] = true
	}
	var check func(items []*Block, level int)
	check = func(items []*Block, level int) {
		for _, b := range items {
			if err != nil {
				return
			}
			if b == nil {
				err = fmt.Errorf("null block")
				return
			}
			claim("block", b.ID)
			if len(b.Content.Columns) == 0 {
				continue
			}
			if !b.Type.IsContainer() {
				err = fmt.Errorf("block %q of type %s cannot have columns", b.ID, b.Type)
				return
			}
			if level+1 > MaxColumnNesting {
				err = fmt.Errorf("block %q exceeds the maximum column nesting of %d", b.ID, MaxColumnNesting)
				return
			}
			for _, col := range b.Content.Columns {
				if col == nil {
					err = fmt.Errorf("null column in block %q", b.ID)
					return
				}
				claim("column", col.ID)
				if !(col.Flex > 0) || math.IsInf(col.Flex, 0) {
					err = fmt.Errorf("column %q must have a positive flex", col.ID)
					return
				}
				check(col.Items, level+1)
			}
		}
	}
	check(doc.Items, 0)
	if err != nil {
		return err
	}
	if doc.SelectedBlockID != "" {
		if _, ok := FindContainer(doc, doc.SelectedBlockID); !ok {
			return fmt.Errorf("selected block %q does not exist", doc.SelectedBlockID)
		}
	}
	return nil
}

// ExportHTMLFile returns the generated email as a downloadable file.
func ExportHTMLFile(doc *Document) ExportFile {
	return ExportFile{
		Name:        exportFileName(doc, "html"),
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(Generate(doc)),
	}
}

// ExportJSONFile returns the serialised document as a downloadable file.
func ExportJSONFile(doc *Document) (ExportFile, error) {
	body, err := ExportJSON(doc)
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Name:        exportFileName(doc, "json"),
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func exportFileName(doc *Document, ext string) string {
	name := ""
	if doc != nil {
		name = slug.Make(doc.Subject)
	}
	if name == "" {
		name = "email-template"
	}
	return name + "." + ext
}

// PreviewDocument wraps the generated email in a sandboxed iframe so that
// its markup and scripts cannot reach the hosting page.
func PreviewDocument(doc *Document) string {
	return PreviewFrame(Generate(doc))
}

// PreviewFrame wraps already generated email HTML, e.g. a personalised
// rendering, in the sandboxed preview iframe.
func PreviewFrame(emailHTML string) string {
	return `<iframe title="Email preview" sandbox="" style="width:100%;height:100%;border:0" srcdoc="` +
		html.EscapeString(emailHTML) + `"></iframe>`
}
