package model

import (
	"strings"
	"time"
)

// Document represents a complete document as an ordered flow of elements.
type Document struct {
	Metadata Metadata
	Elements []Element
}

// Metadata contains document-level information.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Created time.Time
}

// NewDocument creates a new empty document.
func NewDocument() *Document {
	return &Document{
		Elements: make([]Element, 0),
	}
}

// AddElement appends an element to the document flow.
func (d *Document) AddElement(e Element) {
	d.Elements = append(d.Elements, e)
}

// AddHeading appends a heading. Level 0 is the document title style,
// levels 1 and up are section headings.
func (d *Document) AddHeading(text string, level int) *Heading {
	h := &Heading{Text: text, Level: level}
	d.AddElement(h)
	return h
}

// AddParagraph appends a paragraph with the default body style
// (11pt, justified). The returned paragraph can be adjusted fluently:
//
//	doc.AddParagraph("Date: March 3").Bold().Size(12)
func (d *Document) AddParagraph(text string) *Paragraph {
	p := &Paragraph{
		Text:      text,
		FontSize:  DefaultBodySize,
		Alignment: AlignJustify,
	}
	d.AddElement(p)
	return p
}

// AddTable appends a table built from a header row and data rows.
// Rows shorter than the header are padded with empty cells.
func (d *Document) AddTable(headers []string, rows [][]string) *Table {
	t := NewTable(headers, rows)
	d.AddElement(t)
	return t
}

// AddPageBreak appends an explicit page break.
func (d *Document) AddPageBreak() {
	d.AddElement(&PageBreak{})
}

// ElementCount returns the number of elements in the document flow.
func (d *Document) ElementCount() int {
	return len(d.Elements)
}

// PlainText returns the text content of all elements joined by newlines.
// Tables render one tab-separated line per row.
func (d *Document) PlainText() string {
	parts := make([]string, 0, len(d.Elements))
	for _, e := range d.Elements {
		if text := e.PlainText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// Headings returns all headings in flow order.
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	for _, e := range d.Elements {
		if h, ok := e.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Tables returns all tables in flow order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, e := range d.Elements {
		if t, ok := e.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// OutlineEntry is one heading in the document outline.
type OutlineEntry struct {
	Level int
	Text  string
}

// Outline returns the document headings as outline entries in flow order.
func (d *Document) Outline() []OutlineEntry {
	var outline []OutlineEntry
	for _, h := range d.Headings() {
		outline = append(outline, OutlineEntry{Level: h.Level, Text: h.Text})
	}
	return outline
}
