// Package table builds the cross-reference tables of a model catalog:
// for every parameter that distinguishes models, one group of tables
// listing the matching models per value.
package table

import "strings"

// Table is one data table: an optional title, the column fields and
// the data rows. Rendering is left to the document templates.
type Table struct {
	Title  string
	Fields []string
	Rows   [][]string
}

// New creates a table with the given title and column fields.
func New(title string, fields ...string) *Table {
	return &Table{Title: title, Fields: fields}
}

// AddRow appends one data row and returns the table for chaining.
// Short rows are padded with empty cells, long rows truncated to the
// field count.
func (t *Table) AddRow(cells ...string) *Table {
	row := make([]string, len(t.Fields))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return t
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.Fields) }

// ColumnSpec returns a left-aligned LaTeX column specification
// matching the field count, e.g. "lll" for three columns.
func (t *Table) ColumnSpec() string {
	return strings.Repeat("l", len(t.Fields))
}

// Group is a set of tables grouped by one parameter, e.g. "Tables
// Grouped by Width" with one table per distinct width value.
type Group struct {
	Title  string
	Tables []*Table
}

// AddTable appends a table to the group and returns the group for
// chaining.
func (g *Group) AddTable(t *Table) *Group {
	g.Tables = append(g.Tables, t)
	return g
}
