package core

import "testing"

func incomeFixture() Table {
	return DecodeGrid([][]string{
		{DayHeader, "เงินสด", "สแกน"},
		{"1", "100", ""},
		{"2.0", "50", "25"},
		{"", "0", "0"},
		{"15", "", "10"},
	})
}

func TestRowForDay(t *testing.T) {
	tbl := incomeFixture()
	dayCol, ok := tbl.Column(DayHeader)
	if !ok {
		t.Fatal("day column missing")
	}

	tests := []struct {
		day  int
		want int
		ok   bool
	}{
		{1, 0, true},
		{2, 1, true}, // "2.0" numeric-as-text
		{15, 3, true},
		{7, 0, false},
	}
	for _, tt := range tests {
		got, ok := tbl.RowForDay(dayCol, tt.day)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("RowForDay(%d) = (%d, %v), want (%d, %v)", tt.day, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRowForCategory(t *testing.T) {
	tbl := DecodeGrid([][]string{
		{CategoryHeader, "1", "2"},
		{"ค่าเช่า", "500", ""},
		{" ค่าน้ำ ", "", "80"},
		{MonthTotalLabel, "500", "80"},
	})

	if row, ok := tbl.RowForCategory("ค่าเช่า"); !ok || row != 0 {
		t.Errorf("expected ค่าเช่า at row 0, got (%d, %v)", row, ok)
	}
	// Cells are trimmed before comparison.
	if row, ok := tbl.RowForCategory("ค่าน้ำ"); !ok || row != 1 {
		t.Errorf("expected ค่าน้ำ at row 1, got (%d, %v)", row, ok)
	}
	if _, ok := tbl.RowForCategory("ไม่มี"); ok {
		t.Error("expected absent category to report not found")
	}
}

func TestColumnForDay(t *testing.T) {
	tbl := DecodeGrid([][]string{{CategoryHeader, "1", " 2 ", "3"}})
	if col, ok := tbl.ColumnForDay(2); !ok || col != 2 {
		t.Errorf("ColumnForDay(2) = (%d, %v)", col, ok)
	}
	if _, ok := tbl.ColumnForDay(9); ok {
		t.Error("expected absent day column to report not found")
	}
}
