package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// handleCreateIncome commits the day's takings across all channels.
// Blank fields mean zero: the day's row is rewritten as submitted.
func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
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

	amounts := make(map[string]float64, len(incomeFields))
	var total float64
	for _, f := range incomeFields {
		v := strings.TrimSpace(r.Form.Get(f.Field))
		if v == "" {
			continue
		}
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil || amount < 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid amount for ` + template.HTMLEscapeString(f.Channel) + `</div>`))
			return
		}
		amounts[f.Channel] = amount
		total += amount
	}

	if err := s.ledger.UpsertIncome(r.Context(), date, amounts); err != nil {
		writeLedgerError(r.Context(), w, err)
		return
	}

	s.notifySaved(r.Context(), w, "income", date.Year(), int(date.Month()), date.Day())

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Income saved for ` +
		template.HTMLEscapeString(date.Format("2006-01-02")) +
		`: ` + template.HTMLEscapeString(formatBaht(total)) + `</div>`))
}
