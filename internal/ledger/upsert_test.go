package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"banchee/internal/core"
	"banchee/internal/sheets"
	"banchee/internal/sheets/memory"
)

// writeRecorder counts physical writes issued through a wrapped store.
type writeRecorder struct {
	cells  []cellWrite
	blocks []blockWrite
}

type cellWrite struct {
	title    string
	row, col int
	value    string
}

type blockWrite struct {
	title    string
	row, col int
	rows     int
}

type recStore struct {
	inner sheets.Store
	rec   *writeRecorder
}

func (s *recStore) Open(ctx context.Context, title string) (sheets.Partition, error) {
	p, err := s.inner.Open(ctx, title)
	if err != nil {
		return nil, err
	}
	return &recPartition{inner: p, rec: s.rec}, nil
}

func (s *recStore) Create(ctx context.Context, title string, rows, cols int) (sheets.Partition, error) {
	p, err := s.inner.Create(ctx, title, rows, cols)
	if err != nil {
		return nil, err
	}
	return &recPartition{inner: p, rec: s.rec}, nil
}

type recPartition struct {
	inner sheets.Partition
	rec   *writeRecorder
}

func (p *recPartition) Title() string { return p.inner.Title() }

func (p *recPartition) ReadAll(ctx context.Context) ([][]string, error) {
	return p.inner.ReadAll(ctx)
}

func (p *recPartition) WriteCell(ctx context.Context, row, col int, value string) error {
	p.rec.cells = append(p.rec.cells, cellWrite{p.inner.Title(), row, col, value})
	return p.inner.WriteCell(ctx, row, col, value)
}

func (p *recPartition) WriteBlock(ctx context.Context, row, col int, values [][]string) error {
	p.rec.blocks = append(p.rec.blocks, blockWrite{p.inner.Title(), row, col, len(values)})
	return p.inner.WriteBlock(ctx, row, col, values)
}

func readGrid(t *testing.T, store *memory.Store, title string) [][]string {
	t.Helper()
	p, err := store.Open(context.Background(), title)
	if err != nil {
		t.Fatalf("open %s: %v", title, err)
	}
	grid, err := p.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read %s: %v", title, err)
	}
	return grid
}

func TestUpsertIncomeRoundTrip(t *testing.T) {
	store := memory.New()
	s := newTestService(store)
	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)

	err := s.UpsertIncome(context.Background(), day, map[string]float64{
		"เงินสด": 10,
		"สแกน":   20,
	})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := s.DailySummary(context.Background(), 2025, 11)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, r := range rows {
		if r.Day == 5 {
			found = true
			if r.IncomeTotal != 30 {
				t.Errorf("income total = %v, want 30", r.IncomeTotal)
			}
			if r.Net != 30 {
				t.Errorf("net = %v, want 30", r.Net)
			}
		}
	}
	if !found {
		t.Fatal("expected a summary row for day 5")
	}
}

func TestUpsertIncomeIdempotent(t *testing.T) {
	store := memory.New()
	s := newTestService(store)
	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	amounts := map[string]float64{"เงินสด": 10, "Grab": 35.5}

	if err := s.UpsertIncome(context.Background(), day, amounts); err != nil {
		t.Fatal(err)
	}
	first := readGrid(t, store, "รายรับ_2025_11")

	if err := s.UpsertIncome(context.Background(), day, amounts); err != nil {
		t.Fatal(err)
	}
	second := readGrid(t, store, "รายรับ_2025_11")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second identical upsert changed the partition:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestUpsertIncomeSingleBlockWrite(t *testing.T) {
	inner := memory.New()
	inner.Seed("รายรับ_2025_11", [][]string{
		append([]string{core.DayHeader}, core.Channels...),
		{"5"},
	})
	rec := &writeRecorder{}
	s := New(&recStore{inner: inner, rec: rec}, Config{})

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10}); err != nil {
		t.Fatal(err)
	}
	if len(rec.cells) != 0 {
		t.Errorf("expected no per-cell writes, got %v", rec.cells)
	}
	if len(rec.blocks) != 1 {
		t.Fatalf("expected exactly one block write, got %v", rec.blocks)
	}
	// Day 5 is data row 0 (sheet row 2); channels start at column 2.
	if rec.blocks[0].row != 2 || rec.blocks[0].col != 2 {
		t.Errorf("block write at (%d,%d), want (2,2)", rec.blocks[0].row, rec.blocks[0].col)
	}
}

func TestUpsertIncomeDefaultsAbsentChannelsToZero(t *testing.T) {
	store := memory.New()
	store.Seed("รายรับ_2025_11", [][]string{
		{core.DayHeader, "เงินสด", "สแกน"},
		{"5", "7", "50"},
	})
	s := newTestService(store)

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10}); err != nil {
		t.Fatal(err)
	}
	grid := readGrid(t, store, "รายรับ_2025_11")
	if grid[1][1] != "10" {
		t.Errorf("เงินสด = %q, want 10", grid[1][1])
	}
	if grid[1][2] != "0" {
		t.Errorf("สแกน = %q, want 0 (channel absent from input)", grid[1][2])
	}
}

func TestUpsertIncomePreservesNonChannelColumnsInSpan(t *testing.T) {
	store := memory.New()
	store.Seed("รายรับ_2025_11", [][]string{
		{core.DayHeader, "เงินสด", "หมายเหตุ", "สแกน"},
		{"5", "1", "จดไว้", "2"},
	})
	s := newTestService(store)

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10, "สแกน": 20})
	if err != nil {
		t.Fatal(err)
	}
	grid := readGrid(t, store, "รายรับ_2025_11")
	if grid[1][2] != "จดไว้" {
		t.Errorf("note column inside the span was clobbered: %q", grid[1][2])
	}
	if grid[1][1] != "10" || grid[1][3] != "20" {
		t.Errorf("channel cells not written: %v", grid[1])
	}
}

func TestUpsertIncomeSkipsChannelsAbsentFromHeader(t *testing.T) {
	store := memory.New()
	store.Seed("รายรับ_2025_11", [][]string{
		{core.DayHeader, "เงินสด"},
		{"5", ""},
	})
	s := newTestService(store)

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10, "Grab": 99})
	if err != nil {
		t.Fatal(err)
	}
	grid := readGrid(t, store, "รายรับ_2025_11")
	if len(grid[1]) > 2 {
		for _, c := range grid[1][2:] {
			if c != "" {
				t.Errorf("reduced channel set partition gained extra cells: %v", grid[1])
			}
		}
	}
	if grid[1][1] != "10" {
		t.Errorf("เงินสด = %q, want 10", grid[1][1])
	}
}

func TestUpsertIncomeDayRowNotFound(t *testing.T) {
	store := memory.New()
	// Hand-edited partition that lacks the day skeleton.
	store.Seed("รายรับ_2025_11", [][]string{
		append([]string{core.DayHeader}, core.Channels...),
	})
	s := newTestService(store)

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10})
	if !errors.Is(err, core.ErrDayRowNotFound) {
		t.Fatalf("expected ErrDayRowNotFound, got %v", err)
	}
}

func TestUpsertIncomeEmptyPartitionIsMalformed(t *testing.T) {
	inner := memory.New()
	// Partition exists but a hand edit wiped every row, header included.
	inner.Seed("รายรับ_2025_11", [][]string{})
	rec := &writeRecorder{}
	s := New(&recStore{inner: inner, rec: rec}, Config{})

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10})
	if !errors.Is(err, core.ErrMalformedGrid) {
		t.Fatalf("expected ErrMalformedGrid, got %v", err)
	}
	if len(rec.cells) != 0 || len(rec.blocks) != 0 {
		t.Errorf("malformed grid must not write, got cells=%v blocks=%v", rec.cells, rec.blocks)
	}
}

func TestUpsertIncomeMissingDayHeaderIsMalformed(t *testing.T) {
	inner := memory.New()
	inner.Seed("รายรับ_2025_11", [][]string{
		{"วัน", "เงินสด", "สแกน"},
		{"5", "", ""},
	})
	rec := &writeRecorder{}
	s := New(&recStore{inner: inner, rec: rec}, Config{})

	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertIncome(context.Background(), day, map[string]float64{"เงินสด": 10})
	if !errors.Is(err, core.ErrMalformedGrid) {
		t.Fatalf("expected ErrMalformedGrid, got %v", err)
	}
	if len(rec.cells) != 0 || len(rec.blocks) != 0 {
		t.Errorf("malformed grid must not write, got cells=%v blocks=%v", rec.cells, rec.blocks)
	}
}

func TestUpsertExpenseWriteAddressing(t *testing.T) {
	inner := memory.New()
	// ค่าเช่า is the 2nd data row (sheet row 3); "5" is the 6th column.
	inner.Seed("รายจ่าย_2025_11", [][]string{
		{core.CategoryHeader, "1", "2", "3", "4", "5"},
		{"ค่าน้ำ", "", "", "", "", ""},
		{"ค่าเช่า", "", "", "", "", ""},
	})
	rec := &writeRecorder{}
	s := New(&recStore{inner: inner, rec: rec}, Config{})

	ref := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertExpense(context.Background(), ref, 5, "ค่าเช่า", 500); err != nil {
		t.Fatal(err)
	}
	if len(rec.blocks) != 0 {
		t.Errorf("expected no block writes, got %v", rec.blocks)
	}
	if len(rec.cells) != 1 {
		t.Fatalf("expected exactly one cell write, got %v", rec.cells)
	}
	w := rec.cells[0]
	if w.row != 3 || w.col != 6 || w.value != "500" {
		t.Errorf("cell write = (%d,%d)=%q, want (3,6)=500", w.row, w.col, w.value)
	}
}

func TestUpsertExpenseCategoryNotFound(t *testing.T) {
	inner := memory.New()
	inner.Seed("รายจ่าย_2025_11", [][]string{
		{core.CategoryHeader, "1", "5"},
		{"ค่าเช่า", "", ""},
	})
	rec := &writeRecorder{}
	s := New(&recStore{inner: inner, rec: rec}, Config{})

	ref := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertExpense(context.Background(), ref, 5, "ค่าไฟ", 90)
	if !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if len(rec.cells) != 0 {
		t.Errorf("addressing failure must not write, got %v", rec.cells)
	}
}

func TestUpsertExpenseDayColumnNotFound(t *testing.T) {
	inner := memory.New()
	inner.Seed("รายจ่าย_2025_11", [][]string{
		{core.CategoryHeader, "1", "2"},
		{"ค่าเช่า", "", ""},
	})
	rec := &writeRecorder{}
	s := New(&recStore{inner: inner, rec: rec}, Config{})

	ref := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	err := s.UpsertExpense(context.Background(), ref, 9, "ค่าเช่า", 90)
	if !errors.Is(err, core.ErrDayColumnNotFound) {
		t.Fatalf("expected ErrDayColumnNotFound, got %v", err)
	}
	if len(rec.cells) != 0 {
		t.Errorf("addressing failure must not write, got %v", rec.cells)
	}
}

func TestUpsertExpenseCreatesMonthlyFromTemplate(t *testing.T) {
	store := memory.New()
	store.Seed("รายจ่าย", [][]string{
		{core.CategoryHeader, "1", "2", "3", "4", "5"},
		{"ค่าเช่า", "999", "", "", "", ""},
	})
	s := newTestService(store)

	ref := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertExpense(context.Background(), ref, 3, "ค่าเช่า", 120); err != nil {
		t.Fatal(err)
	}
	grid := readGrid(t, store, "รายจ่าย_2025_11")
	if grid[1][3] != "120" {
		t.Errorf("expected 120 at day 3, got %v", grid[1])
	}
	// Template data beyond the first column must not leak into the new month.
	if grid[1][1] != "" {
		t.Errorf("template amounts leaked into monthly partition: %v", grid[1])
	}
}
