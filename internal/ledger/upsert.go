package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"banchee/internal/core"
)

// UpsertIncome sets the channel amounts for the calendar day of date,
// creating the month's income partition if absent. Channels missing from
// amounts are written as 0; channels whose header is absent from the
// partition are skipped. The write is a single ranged block covering the
// contiguous span of channel columns, so a failed upsert leaves the row
// untouched rather than partially updated. Calling it twice with the
// same amounts leaves the partition in the same state as calling it
// once.
func (s *Service) UpsertIncome(ctx context.Context, date time.Time, amounts map[string]float64) error {
	year, month, day := date.Year(), int(date.Month()), date.Day()

	p, err := s.resolve(ctx, core.KindIncome, year, month, true)
	if err != nil {
		return err
	}
	grid, err := p.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("upsert income %q day %d: %w", p.Title(), day, err)
	}
	t := core.DecodeGrid(grid)
	if t.Empty() {
		return fmt.Errorf("upsert income %q: no header row: %w", p.Title(), core.ErrMalformedGrid)
	}

	dayCol, ok := t.Column(core.DayHeader)
	if !ok {
		return fmt.Errorf("upsert income %q: header %q missing: %w", p.Title(), core.DayHeader, core.ErrMalformedGrid)
	}
	row, ok := t.RowForDay(dayCol, day)
	if !ok {
		return fmt.Errorf("upsert income %q: day %d: %w", p.Title(), day, core.ErrDayRowNotFound)
	}

	// Contiguous span of channel columns present in this partition.
	minCol, maxCol := -1, -1
	for _, ch := range core.Channels {
		col, ok := t.Column(ch)
		if !ok {
			continue
		}
		if minCol == -1 || col < minCol {
			minCol = col
		}
		if col > maxCol {
			maxCol = col
		}
	}
	if minCol == -1 {
		// Partition carries none of the channel headers; nothing to write.
		slog.WarnContext(ctx, "Income partition has no channel columns", "title", p.Title())
		return nil
	}

	headers := t.Headers()
	segment := make([]string, maxCol-minCol+1)
	for col := minCol; col <= maxCol; col++ {
		if core.IsChannel(headers[col]) {
			segment[col-minCol] = formatAmount(amounts[headers[col]])
		} else {
			// Non-channel column inside the span keeps its current value.
			segment[col-minCol] = t.RawCell(row, col)
		}
	}

	if err := p.WriteBlock(ctx, core.SheetRow(row), core.SheetCol(minCol), [][]string{segment}); err != nil {
		return fmt.Errorf("upsert income %q day %d: %w", p.Title(), day, err)
	}
	slog.InfoContext(ctx, "Income upserted",
		"title", p.Title(), "day", day, "channels", maxCol-minCol+1)
	return nil
}

// UpsertExpense sets one cell: the amount for (day, category) in the
// expense partition of ref's month. Neither day columns nor category
// rows are provisioned by a write; a missing column or row fails the
// upsert so that a typo cannot silently create a miscategorized entry.
// No write is performed on an addressing failure.
func (s *Service) UpsertExpense(ctx context.Context, ref time.Time, day int, category string, amount float64) error {
	year, month := ref.Year(), int(ref.Month())

	p, err := s.resolve(ctx, core.KindExpense, year, month, true)
	if err != nil {
		return err
	}
	grid, err := p.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("upsert expense %q: %w", p.Title(), err)
	}
	t := core.DecodeGrid(grid)
	if t.Empty() {
		return fmt.Errorf("upsert expense %q: no header row: %w", p.Title(), core.ErrMalformedGrid)
	}

	col, ok := t.ColumnForDay(day)
	if !ok {
		return fmt.Errorf("upsert expense %q: day column %d: %w", p.Title(), day, core.ErrDayColumnNotFound)
	}
	row, ok := t.RowForCategory(category)
	if !ok {
		return fmt.Errorf("upsert expense %q: category %q: %w", p.Title(), category, core.ErrCategoryNotFound)
	}

	if err := p.WriteCell(ctx, core.SheetRow(row), core.SheetCol(col), formatAmount(amount)); err != nil {
		return fmt.Errorf("upsert expense %q day %d category %q: %w", p.Title(), day, category, err)
	}
	slog.InfoContext(ctx, "Expense upserted",
		"title", p.Title(), "day", day, "category", category)
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
