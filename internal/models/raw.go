package models

import "strings"

// RawRow is one row of an inferred table. A nil cell means the column had
// no text on that row.
type RawRow []*string

// RawTable is an ordered list of rows; the first row is the header.
type RawTable []RawRow

// RawPage is what the document loader yields for one page.
type RawPage struct {
	LayoutText string
	Tables     []RawTable
}

// Cell returns the text of cell i, or "" when the cell is absent.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r) || r[i] == nil {
		return ""
	}
	return *r[i]
}

// Join concatenates the non-absent cells with sep.
func (r RawRow) Join(sep string) string {
	parts := make([]string, 0, len(r))
	for _, c := range r {
		if c != nil {
			parts = append(parts, *c)
		}
	}
	return strings.Join(parts, sep)
}

// Row builds a RawRow from plain strings; every cell is present.
func Row(cells ...string) RawRow {
	row := make(RawRow, len(cells))
	for i := range cells {
		row[i] = &cells[i]
	}
	return row
}
