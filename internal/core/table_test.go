package core

import "testing"

func TestDecodeGridEmpty(t *testing.T) {
	tbl := DecodeGrid(nil)
	if !tbl.Empty() {
		t.Fatal("expected empty table for nil grid")
	}
	if tbl.RowCount() != 0 {
		t.Fatalf("expected 0 rows, got %d", tbl.RowCount())
	}
}

func TestDecodeGridTrimsHeaders(t *testing.T) {
	tbl := DecodeGrid([][]string{
		{" วันที่ ", "เงินสด", " 5 "},
		{"1", "100", "20"},
	})
	if _, ok := tbl.Column("วันที่"); !ok {
		t.Error("expected trimmed day header to resolve")
	}
	if _, ok := tbl.Column("5"); !ok {
		t.Error("expected trimmed numeric header to resolve")
	}
	if col, ok := tbl.Column(" เงินสด "); !ok || col != 1 {
		t.Errorf("expected lookup to trim the queried name, got col=%d ok=%v", col, ok)
	}
}

func TestDecodeGridDuplicateHeaderFirstWins(t *testing.T) {
	tbl := DecodeGrid([][]string{{"a", "a"}, {"x", "y"}})
	col, ok := tbl.Column("a")
	if !ok || col != 0 {
		t.Fatalf("expected first duplicate column, got col=%d ok=%v", col, ok)
	}
}

func TestCellOutOfRange(t *testing.T) {
	tbl := DecodeGrid([][]string{{"a", "b"}, {"1"}})
	if got := tbl.Cell(0, 1); got != "" {
		t.Errorf("ragged row should read blank, got %q", got)
	}
	if got := tbl.Cell(5, 0); got != "" {
		t.Errorf("row out of range should read blank, got %q", got)
	}
	if got := tbl.Cell(0, -1); got != "" {
		t.Errorf("negative col should read blank, got %q", got)
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"-", 0},
		{"120", 120},
		{"120.50", 120.5},
		{" 99.9 ", 99.9},
		{"12,34", 12.34},
		{"1,234", 1234},
		{"1,234,567", 1234567},
		{"1,234.50", 1234.5},
		{"1,23", 1.23},
		{"-5", -5},
	}
	for _, tt := range tests {
		if got := CoerceFloat(tt.in); got != tt.want {
			t.Errorf("CoerceFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoerceDay(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{" 5 ", 5, true},
		{"5.0", 5, true},
		{"31", 31, true},
		{"0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceDay(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CoerceDay(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDayColumns(t *testing.T) {
	tbl := DecodeGrid([][]string{{CategoryHeader, "1", "2", "note", "31", "0"}})
	cols := tbl.DayColumns()
	if len(cols) != 3 {
		t.Fatalf("expected 3 day columns, got %v", cols)
	}
	want := []DayColumn{{1, 1}, {2, 2}, {31, 4}}
	for i, w := range want {
		if cols[i] != w {
			t.Errorf("day column %d = %+v, want %+v", i, cols[i], w)
		}
	}
}

func TestSheetAddressing(t *testing.T) {
	// Data row 0 lives on sheet row 2; column 0 is sheet column 1.
	if SheetRow(0) != 2 || SheetCol(0) != 1 {
		t.Fatalf("unexpected base addresses: row=%d col=%d", SheetRow(0), SheetCol(0))
	}
	if SheetRow(3) != 5 || SheetCol(6) != 7 {
		t.Fatalf("unexpected addresses: row=%d col=%d", SheetRow(3), SheetCol(6))
	}
}

func TestDaysInMonth(t *testing.T) {
	if d := DaysInMonth(2025, 11); d != 30 {
		t.Errorf("Nov 2025 = %d days", d)
	}
	if d := DaysInMonth(2024, 2); d != 29 {
		t.Errorf("Feb 2024 = %d days", d)
	}
	if d := DaysInMonth(2025, 2); d != 28 {
		t.Errorf("Feb 2025 = %d days", d)
	}
}
