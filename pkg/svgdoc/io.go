package svgdoc

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

const xmlDecl = `version="1.0" encoding="UTF-8"`

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	// Inkscape output is UTF-8 but hand written inputs are not always.
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	return doc
}

// Load parses the SVG file at path.
func Load(path string) (*etree.Document, error) {
	doc := newDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse %s: no root element", path)
	}
	return doc, nil
}

// Parse parses an in-memory SVG document.
func Parse(data []byte) (*etree.Document, error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse svg: no root element")
	}
	return doc, nil
}

// Save writes doc to path as UTF-8 with a leading XML declaration.
func Save(doc *etree.Document, path string) error {
	ensureDeclaration(doc)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Bytes serializes doc the same way Save does.
func Bytes(doc *etree.Document) ([]byte, error) {
	ensureDeclaration(doc)
	return doc.WriteToBytes()
}

func ensureDeclaration(doc *etree.Document) {
	for _, t := range doc.Child {
		if p, ok := t.(*etree.ProcInst); ok && p.Target == "xml" {
			p.Inst = xmlDecl
			return
		}
	}
	doc.InsertChildAt(0, etree.NewProcInst("xml", xmlDecl))
}

// Exists reports whether path names a readable regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
