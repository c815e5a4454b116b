package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"banchee/internal/core"
)

// incomeFields maps form field names to the sheet's channel headers.
var incomeFields = []struct {
	Field   string
	Channel string
}{
	{"cash", "เงินสด"},
	{"scan", "สแกน"},
	{"halfhalf", "คนละครึ่ง"},
	{"grab", "Grab"},
	{"shopee", "Shopee"},
	{"lineman", "LINE Man"},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	year, month := parseYearMonth(r)

	categories, err := s.getCategories(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense categories error", "error", err, "year", year, "month", month)
	}

	data := struct {
		Today      string
		Year       int
		Month      int
		Channels   []struct{ Field, Channel string }
		Categories []string
	}{
		Today:      now.Format("2006-01-02"),
		Year:       year,
		Month:      month,
		Channels:   incomeFields,
		Categories: categories,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// invalidateMonth drops every cached view of a month after a write.
func (s *Server) invalidateMonth(year, month int) {
	key := monthKey(year, month)
	s.summaryCache.DeletePrefix("summary:" + key)
	s.breakdownCache.DeletePrefix("breakdown:income:" + key)
	s.breakdownCache.DeletePrefix("breakdown:expense:" + key)
	s.categoriesCache.DeletePrefix("categories:" + key)
}

func (s *Server) getSummaries(ctx context.Context, year, month int) ([]core.DailySummary, error) {
	key := "summary:" + monthKey(year, month)
	if data, found := s.summaryCache.Get(key); found {
		slog.DebugContext(ctx, "Summary cache hit", "year", year, "month", month)
		// Return a copy to prevent external mutation
		result := make([]core.DailySummary, len(data))
		copy(result, data)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	data, err := s.ledger.DailySummary(cctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("daily summary (year=%d, month=%d): %w", year, month, err)
	}

	// Cache a copy so the caller cannot mutate the cached slice.
	cached := make([]core.DailySummary, len(data))
	copy(cached, data)
	s.summaryCache.Set(key, cached)
	return data, nil
}

func (s *Server) getBreakdown(ctx context.Context, kind core.Kind, start, end time.Time, year, month int) ([]core.LabelTotal, error) {
	key := fmt.Sprintf("breakdown:%s:%s:%s:%s", kind, monthKey(year, month),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if data, found := s.breakdownCache.Get(key); found {
		slog.DebugContext(ctx, "Breakdown cache hit", "kind", kind, "year", year, "month", month)
		// Return a copy to prevent external mutation
		result := make([]core.LabelTotal, len(data))
		copy(result, data)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	data, err := s.ledger.CategoryBreakdown(cctx, kind, start, end, year, month)
	if err != nil {
		return nil, fmt.Errorf("category breakdown (kind=%s, year=%d, month=%d): %w", kind, year, month, err)
	}

	cached := make([]core.LabelTotal, len(data))
	copy(cached, data)
	s.breakdownCache.Set(key, cached)
	return data, nil
}

func (s *Server) getCategories(ctx context.Context, year, month int) ([]string, error) {
	key := "categories:" + monthKey(year, month)
	if data, found := s.categoriesCache.Get(key); found {
		// Return a copy to prevent external mutation
		result := make([]string, len(data))
		copy(result, data)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	data, err := s.ledger.ExpenseCategories(cctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("expense categories (year=%d, month=%d): %w", year, month, err)
	}

	cached := make([]string, len(data))
	copy(cached, data)
	s.categoriesCache.Set(key, cached)
	return data, nil
}

// notifySaved invalidates caches, pings the mirror worker, and sets the
// HTMX refresh trigger. Publish failures are logged, not surfaced: the
// sheet already holds the write.
func (s *Server) notifySaved(ctx context.Context, w http.ResponseWriter, kind string, year, month, day int) {
	s.invalidateMonth(year, month)

	if s.publisher != nil {
		if err := s.publisher.PublishRecordSaved(ctx, kind, year, month, day); err != nil {
			slog.ErrorContext(ctx, "Failed to publish record saved", "error", err,
				"kind", kind, "year", year, "month", month, "day", day)
		}
	}

	w.Header().Set("HX-Trigger", `{"record:saved": {"year": `+strconv.Itoa(year)+`, "month": `+strconv.Itoa(month)+`}}`)
}

// writeLedgerError maps ledger failures to an HTMX error snippet.
func writeLedgerError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, core.ErrDayRowNotFound):
		status, msg = http.StatusUnprocessableEntity, "No row for that day in the sheet"
	case errors.Is(err, core.ErrDayColumnNotFound):
		status, msg = http.StatusUnprocessableEntity, "No column for that day in the sheet"
	case errors.Is(err, core.ErrCategoryNotFound):
		status, msg = http.StatusUnprocessableEntity, "Unknown expense category"
	case errors.Is(err, core.ErrPartitionNotFound):
		status, msg = http.StatusUnprocessableEntity, "No sheet for that month"
	case errors.Is(err, core.ErrMalformedGrid):
		status, msg = http.StatusUnprocessableEntity, "Sheet layout is malformed"
	case errors.Is(err, core.ErrBackendUnavailable):
		status, msg = http.StatusBadGateway, "Spreadsheet backend unavailable"
	default:
		status, msg = http.StatusInternalServerError, "Saving failed"
	}

	slog.ErrorContext(ctx, "Ledger operation failed", "error", err, "status", status)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}
