package ledger

import (
	"context"
	"sort"
	"time"

	"banchee/internal/core"

	"golang.org/x/sync/errgroup"
)

// DailySummary loads both datasets for the month, reconciles them on the
// day axis with a full outer join, and returns one row per calendar day
// present in either dataset, sorted ascending. Missing sides fill with
// zero; per-day income totals are always recomputed from the channel
// columns, never read from a stored total. A month with no income rows
// and no expense day-columns yields an empty slice.
func (s *Service) DailySummary(ctx context.Context, year, month int) ([]core.DailySummary, error) {
	var incomeTbl, expenseTbl core.Table

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.loadTable(gctx, core.KindIncome, year, month)
		if err != nil {
			return err
		}
		incomeTbl = t
		return nil
	})
	g.Go(func() error {
		t, err := s.loadTable(gctx, core.KindExpense, year, month)
		if err != nil {
			return err
		}
		expenseTbl = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	incomeByDay := incomeTotals(&incomeTbl)
	expenseByDay := expenseTotals(&expenseTbl)

	lastDay := core.DaysInMonth(year, month)
	days := make(map[int]struct{}, len(incomeByDay)+len(expenseByDay))
	for d := range incomeByDay {
		days[d] = struct{}{}
	}
	for d := range expenseByDay {
		days[d] = struct{}{}
	}

	out := make([]core.DailySummary, 0, len(days))
	for d := range days {
		// Day columns like "31" can exist in months that lack the day;
		// they are not calendar days of this month and are skipped.
		if d < 1 || d > lastDay {
			continue
		}
		inc := incomeByDay[d]
		exp := expenseByDay[d]
		out = append(out, core.DailySummary{
			Date:         time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC),
			Day:          d,
			IncomeTotal:  inc,
			ExpenseTotal: exp,
			Net:          inc - exp,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// incomeTotals projects (day, recomputed daily total) from an income
// table. Rows without a parseable day key are skipped.
func incomeTotals(t *core.Table) map[int]float64 {
	out := map[int]float64{}
	if t.Empty() {
		return out
	}
	dayCol, ok := t.Column(core.DayHeader)
	if !ok {
		return out
	}
	channelCols := make([]int, 0, len(core.Channels))
	for _, ch := range core.Channels {
		if col, ok := t.Column(ch); ok {
			channelCols = append(channelCols, col)
		}
	}
	for i := 0; i < t.RowCount(); i++ {
		day, ok := core.CoerceDay(t.Cell(i, dayCol))
		if !ok {
			continue
		}
		var total float64
		for _, col := range channelCols {
			total += t.Float(i, col)
		}
		out[day] += total
	}
	return out
}

// expenseTotals sums each day column across all category rows, excluding
// the month-total sentinel row.
func expenseTotals(t *core.Table) map[int]float64 {
	out := map[int]float64{}
	if t.Empty() {
		return out
	}
	dayCols := t.DayColumns()
	if len(dayCols) == 0 {
		return out
	}
	for _, dc := range dayCols {
		var total float64
		for i := 0; i < t.RowCount(); i++ {
			if t.Cell(i, 0) == core.MonthTotalLabel {
				continue
			}
			total += t.Float(i, dc.Col)
		}
		out[dc.Day] = total
	}
	return out
}

// CategoryBreakdown sums amounts per label (income channel or expense
// category) over the calendar days of [start, end] that fall inside the
// reference month; days outside that month contribute nothing. Labels
// whose sum is zero are excluded, so downstream pie charts never render
// a zero slice.
func (s *Service) CategoryBreakdown(ctx context.Context, kind core.Kind, start, end time.Time, year, month int) ([]core.LabelTotal, error) {
	days := daysInRange(start, end, year, month)

	t, err := s.loadTable(ctx, kind, year, month)
	if err != nil {
		return nil, err
	}

	var totals []core.LabelTotal
	if kind == core.KindIncome {
		totals = incomeBreakdown(&t, days)
	} else {
		totals = expenseBreakdown(&t, days)
	}

	out := totals[:0]
	for _, lt := range totals {
		if lt.Total != 0 {
			out = append(out, lt)
		}
	}
	return out, nil
}

// daysInRange enumerates the day numbers of [start, end] that belong to
// the reference month. A range spanning a month boundary only
// contributes its in-month days.
func daysInRange(start, end time.Time, year, month int) map[int]struct{} {
	out := map[int]struct{}{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Year() == year && int(d.Month()) == month {
			out[d.Day()] = struct{}{}
		}
	}
	return out
}

func incomeBreakdown(t *core.Table, days map[int]struct{}) []core.LabelTotal {
	if t.Empty() {
		return nil
	}
	dayCol, ok := t.Column(core.DayHeader)
	if !ok {
		return nil
	}
	var out []core.LabelTotal
	for _, ch := range core.Channels {
		col, ok := t.Column(ch)
		if !ok {
			continue
		}
		var total float64
		for i := 0; i < t.RowCount(); i++ {
			day, ok := core.CoerceDay(t.Cell(i, dayCol))
			if !ok {
				continue
			}
			if _, in := days[day]; !in {
				continue
			}
			total += t.Float(i, col)
		}
		out = append(out, core.LabelTotal{Label: ch, Total: total})
	}
	return out
}

func expenseBreakdown(t *core.Table, days map[int]struct{}) []core.LabelTotal {
	if t.Empty() {
		return nil
	}
	cols := make([]int, 0, len(days))
	for _, dc := range t.DayColumns() {
		if _, in := days[dc.Day]; in {
			cols = append(cols, dc.Col)
		}
	}

	// Duplicate labels would violate the uniqueness invariant; fold them
	// into the first occurrence instead of failing.
	byLabel := map[string]int{}
	var out []core.LabelTotal
	for i := 0; i < t.RowCount(); i++ {
		label := t.Cell(i, 0)
		if label == "" || label == core.MonthTotalLabel {
			continue
		}
		var total float64
		for _, col := range cols {
			total += t.Float(i, col)
		}
		if idx, seen := byLabel[label]; seen {
			out[idx].Total += total
			continue
		}
		byLabel[label] = len(out)
		out = append(out, core.LabelTotal{Label: label, Total: total})
	}
	return out
}

// ExpenseCategories lists the month's expense category labels in row
// order, excluding the month-total sentinel. Used to constrain entry
// forms to categories that already exist.
func (s *Service) ExpenseCategories(ctx context.Context, year, month int) ([]string, error) {
	t, err := s.loadTable(ctx, core.KindExpense, year, month)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := map[string]struct{}{}
	for i := 0; i < t.RowCount(); i++ {
		label := t.Cell(i, 0)
		if label == "" || label == core.MonthTotalLabel {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out, nil
}
