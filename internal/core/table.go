// Package core holds the domain model for the bookkeeping sheets:
// the typed view over a raw cell grid, the day/category locators, and
// the derived summary types. It knows nothing about the storage backend.
package core

import (
	"strconv"
	"strings"
)

// Table is a typed, row-oriented view over a raw 2-D grid of cells as
// returned by the storage backend. Row 0 of the grid is the header; all
// remaining rows are data. Header lookups are trimmed so that " 5 " and
// "5" resolve to the same column.
type Table struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

// DecodeGrid builds a Table from a raw grid. A grid with no rows decodes
// to an empty table rather than an error; spreadsheet content is
// user-editable and occasionally messy, so decoding degrades instead of
// failing.
func DecodeGrid(grid [][]string) Table {
	if len(grid) == 0 {
		return Table{index: map[string]int{}}
	}
	headers := make([]string, len(grid[0]))
	index := make(map[string]int, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
		// First occurrence wins for duplicate headers.
		if _, dup := index[headers[i]]; !dup {
			index[headers[i]] = i
		}
	}
	return Table{headers: headers, index: index, rows: grid[1:]}
}

// Empty reports whether the table has no header row.
func (t *Table) Empty() bool {
	return len(t.headers) == 0
}

// Headers returns the trimmed header row.
func (t *Table) Headers() []string {
	return t.headers
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Column returns the column index for a header name, matching on the
// trimmed form.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[strings.TrimSpace(name)]
	return i, ok
}

// Cell returns the trimmed cell content at (row, col), or "" when the
// address falls outside the grid. Rows in the sheet are ragged; a short
// row simply reads as blank.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) {
		return ""
	}
	r := t.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// RawCell returns the cell content without trimming, for callers that
// must preserve a value byte-for-byte on write-back.
func (t *Table) RawCell(row, col int) string {
	if row < 0 || row >= len(t.rows) {
		return ""
	}
	r := t.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Float reads the cell at (row, col) as a numeric amount. Blank or
// non-numeric content coerces to 0 rather than failing.
func (t *Table) Float(row, col int) float64 {
	return CoerceFloat(t.Cell(row, col))
}

// CoerceFloat converts heterogeneous cell content to a float64 amount.
// Decimal commas and thousands separators produced by sheet formatting
// are tolerated; anything unparseable is 0.
func CoerceFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || isGroupedComma(s) {
			// "1,234.50" and "1,234" styles: commas are grouping.
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// "12,34" style: comma is the decimal separator.
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// isGroupedComma reports whether every comma in s is followed by exactly
// three digits, the thousands-grouping shape a formatted sheet cell uses.
// Thai sheets never use a decimal comma, but hand-typed "12,34" entries
// still exist, so grouping is only assumed when the shape matches.
func isGroupedComma(s string) bool {
	parts := strings.Split(s, ",")
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// CoerceDay converts cell content to a day number, tolerating
// numeric-as-text and trailing ".0" representations. ok is false when
// the cell does not hold a positive number.
func CoerceDay(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f < 1 {
		return 0, false
	}
	return int(f), true
}

// DayColumn pairs a day number with the physical column that holds it.
type DayColumn struct {
	Day int
	Col int
}

// DayColumns enumerates the columns whose header parses as a positive
// integer, in column order. Expense sheets key amounts by these columns.
func (t *Table) DayColumns() []DayColumn {
	var out []DayColumn
	for i, h := range t.headers {
		d, err := strconv.Atoi(h)
		if err != nil || d < 1 {
			continue
		}
		out = append(out, DayColumn{Day: d, Col: i})
	}
	return out
}

// SheetRow converts a data-row index into the backend's 1-based row
// address. Row 1 is always the header, so data starts at 2.
func SheetRow(row int) int {
	return row + 2
}

// SheetCol converts a column index into the backend's 1-based column
// address.
func SheetCol(col int) int {
	return col + 1
}
