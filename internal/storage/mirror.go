// Package storage keeps a local SQLite mirror of daily totals. The
// spreadsheet stays the source of truth; the mirror serves reporting
// queries without spending Sheets API quota.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"banchee/internal/core"

	_ "modernc.org/sqlite"
)

type MirrorStore struct {
	db *sql.DB
}

func NewMirrorStore(dbPath string) (*MirrorStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &MirrorStore{db: db}, nil
}

func (s *MirrorStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// UpsertDailySummary stores the recomputed figures for one day.
func (s *MirrorStore) UpsertDailySummary(ctx context.Context, summary core.DailySummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (year, month, day, income_total, expense_total, net, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (year, month, day) DO UPDATE SET
			income_total  = excluded.income_total,
			expense_total = excluded.expense_total,
			net           = excluded.net,
			updated_at    = excluded.updated_at`,
		summary.Date.Year(), int(summary.Date.Month()), summary.Day,
		summary.IncomeTotal, summary.ExpenseTotal, summary.Net,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert daily summary: %w", err)
	}

	slog.InfoContext(ctx, "Daily summary mirrored to SQLite",
		"year", summary.Date.Year(),
		"month", int(summary.Date.Month()),
		"day", summary.Day,
		"income", summary.IncomeTotal,
		"expense", summary.ExpenseTotal)

	return nil
}

// DeleteDailySummary removes a mirrored day, used when a day no longer
// appears in the sheet.
func (s *MirrorStore) DeleteDailySummary(ctx context.Context, year, month, day int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_summaries WHERE year = ? AND month = ? AND day = ?`,
		year, month, day)
	if err != nil {
		return fmt.Errorf("delete daily summary: %w", err)
	}
	return nil
}

// ListMonth returns the mirrored summaries for a month ordered by day.
func (s *MirrorStore) ListMonth(ctx context.Context, year, month int) ([]core.DailySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, income_total, expense_total, net
		FROM daily_summaries
		WHERE year = ? AND month = ?
		ORDER BY day`,
		year, month)
	if err != nil {
		return nil, fmt.Errorf("list month summaries: %w", err)
	}
	defer rows.Close()

	var summaries []core.DailySummary
	for rows.Next() {
		var s core.DailySummary
		if err := rows.Scan(&s.Day, &s.IncomeTotal, &s.ExpenseTotal, &s.Net); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		s.Date = time.Date(year, time.Month(month), s.Day, 0, 0, 0, 0, time.UTC)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily summaries: %w", err)
	}

	return summaries, nil
}
