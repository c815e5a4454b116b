package core

import "strconv"

// RowForDay scans the given day-key column top to bottom and returns the
// index of the first data row whose cell equals day. Absence is not an
// error by itself; callers decide whether it means "nothing recorded"
// (reads) or "cannot upsert" (writes).
func (t *Table) RowForDay(dayCol, day int) (int, bool) {
	for i := range t.rows {
		if d, ok := CoerceDay(t.Cell(i, dayCol)); ok && d == day {
			return i, true
		}
	}
	return 0, false
}

// RowForCategory returns the index of the first data row whose first
// column equals category exactly (after trimming).
func (t *Table) RowForCategory(category string) (int, bool) {
	for i := range t.rows {
		if t.Cell(i, 0) == category {
			return i, true
		}
	}
	return 0, false
}

// ColumnForDay returns the column whose header is exactly the decimal
// form of day.
func (t *Table) ColumnForDay(day int) (int, bool) {
	return t.Column(strconv.Itoa(day))
}
