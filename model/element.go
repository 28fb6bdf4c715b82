package model

import "strings"

// Default run sizes in points, matching the report house style.
const (
	DefaultTitleSize   = 14.0
	DefaultHeadingSize = 12.0
	DefaultBodySize    = 11.0
)

// ElementType represents the type of document element.
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeHeading
	ElementTypeParagraph
	ElementTypeTable
	ElementTypePageBreak
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeHeading:
		return "Heading"
	case ElementTypeParagraph:
		return "Paragraph"
	case ElementTypeTable:
		return "Table"
	case ElementTypePageBreak:
		return "PageBreak"
	default:
		return "Unknown"
	}
}

// Element is the interface for all document elements.
type Element interface {
	Type() ElementType
	PlainText() string
}

// Alignment represents paragraph alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justified"
	default:
		return "left"
	}
}

// Heading represents a heading. Level 0 is the document title style;
// levels 1 and up are section headings. Headings render centered and bold.
type Heading struct {
	Text  string
	Level int
}

func (h *Heading) Type() ElementType { return ElementTypeHeading }
func (h *Heading) PlainText() string { return h.Text }

// FontSize returns the run size in points for the heading's level.
func (h *Heading) FontSize() float64 {
	if h.Level == 0 {
		return DefaultTitleSize
	}
	return DefaultHeadingSize
}

// Paragraph represents a paragraph of text. Text may contain newlines,
// which writers preserve as explicit line breaks within the paragraph.
type Paragraph struct {
	Text      string
	FontSize  float64
	FontBold  bool
	Alignment Alignment
}

func (p *Paragraph) Type() ElementType { return ElementTypeParagraph }
func (p *Paragraph) PlainText() string { return p.Text }

// Bold marks the paragraph run as bold and returns the paragraph.
func (p *Paragraph) Bold() *Paragraph {
	p.FontBold = true
	return p
}

// Size sets the run size in points and returns the paragraph.
func (p *Paragraph) Size(points float64) *Paragraph {
	p.FontSize = points
	return p
}

// Align sets the paragraph alignment and returns the paragraph.
func (p *Paragraph) Align(a Alignment) *Paragraph {
	p.Alignment = a
	return p
}

// Lines splits the paragraph text on newlines, one entry per rendered line.
func (p *Paragraph) Lines() []string {
	return strings.Split(p.Text, "\n")
}

// PageBreak represents an explicit page break.
type PageBreak struct{}

func (b *PageBreak) Type() ElementType { return ElementTypePageBreak }
func (b *PageBreak) PlainText() string { return "" }
