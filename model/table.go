package model

import (
	"strings"
)

// IntegratedEngine tags structures derived from the fused fragment list
// rather than reported by a single engine
const IntegratedEngine = "integrated"

// Table is a grid of cell texts reconstructed from fused fragments
type Table struct {
	Rows       [][]string `json:"data"`
	BBox       Quad       `json:"bbox"`
	Confidence float64    `json:"confidence"` // mean of member confidences
	Engine     string     `json:"engine"`
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the width of the widest row. Rows reconstructed from
// fragments are ragged, so the first row is not representative.
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Cell returns the text at row, col or "" when out of range
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// GetText returns the table as tab-separated lines
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format, padding short rows
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	cols := t.ColCount()
	var sb strings.Builder
	writeRow := func(row []string) {
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(row) {
				cell = strings.ReplaceAll(row[j], "\n", " ")
			}
			sb.WriteString("| ")
			sb.WriteString(cell)
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for j := 0; j < cols; j++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, text := range row {
			// Escape quotes and wrap in quotes if necessary
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
