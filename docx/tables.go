package docx

import (
	"strconv"

	"github.com/rmonterde/fieldops/model"
)

// contentWidthTwips is the usable width of a US Letter page with one
// inch margins (12240 - 2*1440).
const contentWidthTwips = 9360

// buildTable renders a model table: a bold header row followed by the
// body rows, with equal column widths filling the content area.
func buildTable(t *model.Table) tableXML {
	tbl := tableXML{
		Properties: tablePropsXML{
			Style:   styleRefXML{Val: "TableGrid"},
			Width:   tableSizeXML{W: "0", Type: "auto"},
			Borders: gridBorders(),
		},
	}

	cols := t.ColCount()
	if cols == 0 {
		return tbl
	}

	widths := columnWidths(cols)
	for _, w := range widths {
		tbl.Grid.Cols = append(tbl.Grid.Cols, gridColXML{W: strconv.Itoa(w)})
	}

	if len(t.Headers) > 0 {
		tbl.Rows = append(tbl.Rows, tableRow(t.Headers, widths, true))
	}
	for _, row := range t.Rows {
		tbl.Rows = append(tbl.Rows, tableRow(row, widths, false))
	}
	return tbl
}

// columnWidths divides the content width evenly; the last column absorbs
// the rounding remainder so the widths sum to the full width.
func columnWidths(cols int) []int {
	widths := make([]int, cols)
	each := contentWidthTwips / cols
	for i := range widths {
		widths[i] = each
	}
	widths[cols-1] += contentWidthTwips - each*cols
	return widths
}

// tableRow renders one row. Header cells are bold.
func tableRow(cells []string, widths []int, header bool) tableRowXML {
	var row tableRowXML
	for i, text := range cells {
		width := 0
		if i < len(widths) {
			width = widths[i]
		}
		row.Cells = append(row.Cells, tableCellXML{
			Properties: cellPropsXML{
				Width: tableSizeXML{W: strconv.Itoa(width), Type: "dxa"},
			},
			Paragraphs: []paragraphXML{cellParagraph(text, header)},
		})
	}
	return row
}

// cellParagraph renders cell content as a single paragraph. An empty
// string still yields a paragraph; every cell must end with one.
func cellParagraph(text string, bold bool) paragraphXML {
	var props *runPropsXML
	if bold {
		props = &runPropsXML{Bold: &boolXML{}}
	}
	return paragraphXML{Runs: textRuns(text, props)}
}

// gridBorders returns single hairline borders on all six edges.
func gridBorders() tableBordersXML {
	b := borderXML{Val: "single", Sz: "4", Space: "0", Color: "auto"}
	return tableBordersXML{Top: b, Left: b, Bottom: b, Right: b, InsideH: b, InsideV: b}
}
