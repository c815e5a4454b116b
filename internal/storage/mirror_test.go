package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"banchee/internal/core"
)

func newTestStore(t *testing.T) *MirrorStore {
	t.Helper()
	store, err := NewMirrorStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("NewMirrorStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func day(year, month, d int, income, expense float64) core.DailySummary {
	return core.DailySummary{
		Date:         time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC),
		Day:          d,
		IncomeTotal:  income,
		ExpenseTotal: expense,
		Net:          income - expense,
	}
}

func TestUpsertAndListMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertDailySummary(ctx, day(2025, 11, 5, 100, 40)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertDailySummary(ctx, day(2025, 11, 2, 50, 0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ListMonth(ctx, 2025, 11)
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].Day != 2 || got[1].Day != 5 {
		t.Errorf("summaries not ordered by day: %d, %d", got[0].Day, got[1].Day)
	}
	if got[1].IncomeTotal != 100 || got[1].ExpenseTotal != 40 || got[1].Net != 60 {
		t.Errorf("day 5 = %+v", got[1])
	}
}

func TestUpsertOverwritesDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertDailySummary(ctx, day(2025, 11, 5, 100, 40)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := store.UpsertDailySummary(ctx, day(2025, 11, 5, 120, 40)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := store.ListMonth(ctx, 2025, 11)
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d summaries, want 1", len(got))
	}
	if got[0].IncomeTotal != 120 || got[0].Net != 80 {
		t.Errorf("overwrite not applied: %+v", got[0])
	}
}

func TestListMonthScopedToMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, s := range []core.DailySummary{
		day(2025, 11, 5, 100, 0),
		day(2025, 12, 5, 999, 0),
		day(2024, 11, 5, 999, 0),
	} {
		if err := store.UpsertDailySummary(ctx, s); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	got, err := store.ListMonth(ctx, 2025, 11)
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(got) != 1 || got[0].IncomeTotal != 100 {
		t.Errorf("month scoping failed: %+v", got)
	}
}

func TestListMonthEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ListMonth(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no summaries, got %d", len(got))
	}
}

func TestDeleteDailySummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertDailySummary(ctx, day(2025, 11, 5, 100, 40)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.DeleteDailySummary(ctx, 2025, 11, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := store.ListMonth(ctx, 2025, 11)
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("summary not deleted: %+v", got)
	}
}
