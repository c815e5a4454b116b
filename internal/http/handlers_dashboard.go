package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"banchee/internal/core"
)

type summaryRow struct {
	Day      int
	Date     string
	Income   string
	Expense  string
	Net      string
	Negative bool
}

type summaryView struct {
	Year         int
	Month        int
	Rows         []summaryRow
	TotalIncome  string
	TotalExpense string
	TotalNet     string
}

func buildSummaryView(year, month int, summaries []core.DailySummary) summaryView {
	view := summaryView{Year: year, Month: month}

	var income, expense float64
	for _, s := range summaries {
		income += s.IncomeTotal
		expense += s.ExpenseTotal
		view.Rows = append(view.Rows, summaryRow{
			Day:      s.Day,
			Date:     s.Date.Format("2006-01-02"),
			Income:   formatBaht(s.IncomeTotal),
			Expense:  formatBaht(s.ExpenseTotal),
			Net:      formatBaht(s.Net),
			Negative: s.Net < 0,
		})
	}
	view.TotalIncome = formatBaht(income)
	view.TotalExpense = formatBaht(expense)
	view.TotalNet = formatBaht(income - expense)

	return view
}

// handleDailySummary renders the daily income/expense/net table partial.
func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	year, month := parseYearMonth(r)

	summaries, err := s.getSummaries(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily summary error", "error", err, "year", year, "month", month)
		_, _ = w.Write([]byte(`<section id="daily-summary"><div class="placeholder">Could not load the month</div></section>`))
		return
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "summary_table.html", buildSummaryView(year, month, summaries)); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary_table.html")
		_, _ = w.Write([]byte(`<section id="daily-summary"><div class="placeholder">Rendering failed</div></section>`))
	}
}

type breakdownRow struct {
	Label  string
	Amount string
	Width  int
}

type breakdownView struct {
	Kind  string
	Year  int
	Month int
	Start string
	End   string
	Rows  []breakdownRow
	Total string
}

func buildBreakdownView(kind core.Kind, year, month int, start, end time.Time, totals []core.LabelTotal) breakdownView {
	view := breakdownView{
		Kind:  string(kind),
		Year:  year,
		Month: month,
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}

	var max, sum float64
	for _, t := range totals {
		if t.Total > max {
			max = t.Total
		}
		sum += t.Total
	}
	for _, t := range totals {
		width := 0
		if max > 0 {
			width = int(t.Total/max*100 + 0.5)
			if width > 0 && width < 2 { // keep tiny slices visible
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		view.Rows = append(view.Rows, breakdownRow{
			Label:  t.Label,
			Amount: formatBaht(t.Total),
			Width:  width,
		})
	}
	view.Total = formatBaht(sum)

	return view
}

// parseBreakdownRange reads start/end query params, defaulting to the
// whole month.
func parseBreakdownRange(r *http.Request, year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
		if d, err := parseDate(v); err == nil {
			start = d
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
		if d, err := parseDate(v); err == nil {
			end = d
		}
	}

	return start, end
}

// handleBreakdown renders the per-channel or per-category totals partial.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	year, month := parseYearMonth(r)

	kind := core.KindExpense
	if strings.TrimSpace(r.URL.Query().Get("kind")) == "income" {
		kind = core.KindIncome
	}
	start, end := parseBreakdownRange(r, year, month)

	totals, err := s.getBreakdown(r.Context(), kind, start, end, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Breakdown error", "error", err, "kind", kind, "year", year, "month", month)
		_, _ = w.Write([]byte(`<section id="breakdown"><div class="placeholder">Could not load the breakdown</div></section>`))
		return
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "breakdown.html", buildBreakdownView(kind, year, month, start, end, totals)); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "breakdown.html")
		_, _ = w.Write([]byte(`<section id="breakdown"><div class="placeholder">Rendering failed</div></section>`))
	}
}

// handleReport renders the printable month report: the summary table
// plus both breakdowns on one page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	year, month := parseYearMonth(r)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	summaries, err := s.getSummaries(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report summary error", "error", err, "year", year, "month", month)
		http.Error(w, "could not load the month", http.StatusBadGateway)
		return
	}

	incomeTotals, err := s.getBreakdown(r.Context(), core.KindIncome, start, end, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report income breakdown error", "error", err, "year", year, "month", month)
		http.Error(w, "could not load the income breakdown", http.StatusBadGateway)
		return
	}

	expenseTotals, err := s.getBreakdown(r.Context(), core.KindExpense, start, end, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report expense breakdown error", "error", err, "year", year, "month", month)
		http.Error(w, "could not load the expense breakdown", http.StatusBadGateway)
		return
	}

	data := struct {
		Year    int
		Month   int
		Summary summaryView
		Income  breakdownView
		Expense breakdownView
	}{
		Year:    year,
		Month:   month,
		Summary: buildSummaryView(year, month, summaries),
		Income:  buildBreakdownView(core.KindIncome, year, month, start, end, incomeTotals),
		Expense: buildBreakdownView(core.KindExpense, year, month, start, end, expenseTotals),
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "report.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "report.html")
		http.Error(w, "rendering failed", http.StatusInternalServerError)
	}
}
