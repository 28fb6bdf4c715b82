// Package model provides the intermediate representation (IR) for generated
// document content.
//
// This package defines the data structures that describe a document before it
// is serialized to a concrete format. Content is assembled into these types
// (by the report package or by hand) and then handed to a writer such as the
// docx package.
//
// # Document Structure
//
// The [Document] type represents a complete document with metadata and a flow
// of elements:
//
//	doc := model.NewDocument()
//	doc.Metadata.Title = "Planning Report"
//	doc.AddHeading("Introduction", 1)
//	doc.AddParagraph("This report outlines...")
//
// # Elements
//
// All document content implements the [Element] interface. The concrete types
// are:
//
//   - [Heading] - section headings (level 0 is the document title)
//   - [Paragraph] - text paragraphs with size, weight and alignment
//   - [Table] - tables with a header row and string cells
//   - [PageBreak] - an explicit page break
//
// # Tables
//
// The [Table] type provides a header-and-rows table representation with
// export methods ToMarkdown() and ToCSV(). Ragged rows are padded to the
// header width when the table is built.
package model
