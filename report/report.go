// Package report assembles convoy route planning reports as documents.
package report

import (
	"strings"
	"time"

	"github.com/rmonterde/fieldops/model"
)

// DefaultFilename is the conventional output name for the built-in plan.
const DefaultFilename = "Military_Route_Report_Bogota_Juarez.docx"

// Segment is one leg of the planned route.
type Segment struct {
	Number   string
	Route    string
	Distance string
	Highway  string
	Duration string
	Notes    string
}

// TimelineEntry is one day of the execution timeline.
type TimelineEntry struct {
	Day      string
	Segment  string
	Distance string
	Duration string
	Notes    string
}

// Plan holds the full content of a route planning report.
type Plan struct {
	Title         string
	Date          time.Time
	Purpose       string
	Introduction  string
	RouteOverview string
	Segments      []Segment

	Security  []string
	Logistics []string

	TimelineNote   string
	Timeline       []TimelineEntry
	DrivingSummary string

	Recommendations []string
	Conclusion      string
}

// Build assembles the plan into a document ready for serialization.
func (p Plan) Build() *model.Document {
	doc := model.NewDocument()
	doc.Metadata = model.Metadata{
		Title:   p.Title,
		Author:  "fieldops",
		Subject: "Convoy route planning",
		Created: p.Date,
	}

	doc.AddHeading(p.Title, 0)
	doc.AddParagraph("\n").Size(12)
	doc.AddParagraph("Date: " + p.Date.Format("January 2, 2006")).Bold().Size(12)
	doc.AddParagraph("Purpose: " + p.Purpose).Size(12)
	doc.AddPageBreak()

	doc.AddHeading("Introduction", 1)
	doc.AddParagraph(p.Introduction)

	doc.AddHeading("Route Description", 1)
	doc.AddParagraph(p.RouteOverview)
	doc.AddTable(
		[]string{"No.", "Segment", "Distance", "Highway", "Estimated Time", "Notes"},
		segmentRows(p.Segments),
	)

	doc.AddHeading("Military Considerations", 1)
	doc.AddHeading("Security", 2)
	doc.AddParagraph(bulletList(p.Security))
	doc.AddHeading("Logistics", 2)
	doc.AddParagraph(bulletList(p.Logistics))

	doc.AddHeading("Timeline", 1)
	doc.AddParagraph(p.TimelineNote)
	doc.AddTable(
		[]string{"Day", "Segment", "Distance", "Time", "Notes"},
		timelineRows(p.Timeline),
	)
	doc.AddParagraph(p.DrivingSummary)

	doc.AddHeading("Recommendations", 1)
	doc.AddParagraph(bulletList(p.Recommendations))

	doc.AddHeading("Conclusion", 1)
	doc.AddParagraph(p.Conclusion)

	return doc
}

func segmentRows(segments []Segment) [][]string {
	rows := make([][]string, 0, len(segments))
	for _, s := range segments {
		rows = append(rows, []string{s.Number, s.Route, s.Distance, s.Highway, s.Duration, s.Notes})
	}
	return rows
}

func timelineRows(entries []TimelineEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Day, e.Segment, e.Distance, e.Duration, e.Notes})
	}
	return rows
}

// bulletList renders items as dash bullets, one per line within a single
// paragraph.
func bulletList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "- " + strings.Join(items, "\n- ")
}
