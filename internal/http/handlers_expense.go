package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// handleCreateExpense commits one expense cell: a category's amount for
// one day of the month. The category must already exist in the sheet.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	date, err := parseDate(r.Form.Get("date"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid date, expected YYYY-MM-DD</div>`))
		return
	}

	category := sanitizeInput(r.Form.Get("category"))
	if category == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Category is required</div>`))
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount < 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	if err := s.ledger.UpsertExpense(r.Context(), date, date.Day(), category, amount); err != nil {
		writeLedgerError(r.Context(), w, err)
		return
	}

	s.notifySaved(r.Context(), w, "expense", date.Year(), int(date.Month()), date.Day())

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Expense saved: ` +
		template.HTMLEscapeString(category) +
		` ` + template.HTMLEscapeString(formatBaht(amount)) +
		` on ` + template.HTMLEscapeString(date.Format("2006-01-02")) + `</div>`))
}
