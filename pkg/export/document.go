package export

import "strings"

// Document is a rendered set of timetable grids ready for an exporter.
type Document struct {
	Title   string
	Heading string
	Tables  []Table
	Summary []SummaryItem
}

// Table is one timetable grid: a time column followed by one column per day.
type Table struct {
	Title   string
	Badge   string
	Headers []string
	Rows    []Row
}

// Row is one time slot of a table.
type Row struct {
	Label string
	Cells []Cell
}

// Cell holds the display lines of a grid cell. A free period has one line.
type Cell struct {
	Lines []string
}

// Join renders the cell lines with sep.
func (c Cell) Join(sep string) string {
	return strings.Join(c.Lines, sep)
}

// SummaryItem is one figure of the summary card.
type SummaryItem struct {
	Label string
	Value string
}

// Caption is the table title with its badge.
func (t Table) Caption() string {
	if t.Badge == "" {
		return t.Title
	}
	return t.Title + " (" + t.Badge + ")"
}
