package model

import "strings"

// Table represents a table with a header row and string data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table from a header row and data rows. Rows shorter
// than the header are padded with empty cells; longer rows keep their
// extra cells and widen the table.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{Headers: headers}
	width := len(headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i := len(t.Headers); i < width; i++ {
		t.Headers = append(t.Headers, "")
	}
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

func (t *Table) Type() ElementType { return ElementTypeTable }

// PlainText returns the table as tab-separated lines, header first.
func (t *Table) PlainText() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}

// RowCount returns the number of data rows (excluding the header).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	return len(t.Headers)
}

// Cell returns the data cell at row, col or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ToMarkdown exports the table as a markdown table.
func (t *Table) ToMarkdown() string {
	if t.ColCount() == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("|")
	for _, h := range t.Headers {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(h, "|", "\\|"))
		sb.WriteString(" |")
	}
	sb.WriteString("\n|")
	for range t.Headers {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToCSV exports the table as CSV, header row first.
func (t *Table) ToCSV() string {
	if t.ColCount() == 0 {
		return ""
	}

	var sb strings.Builder

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(escapeCSV(cell))
		}
		sb.WriteString("\n")
	}

	writeRow(t.Headers)
	for _, row := range t.Rows {
		writeRow(row)
	}

	return sb.String()
}

// escapeCSV quotes a value when it contains commas, quotes or newlines.
func escapeCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
	}
	return value
}
