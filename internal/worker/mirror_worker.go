package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"banchee/internal/amqp"
	"banchee/internal/core"
	"banchee/internal/storage"
)

// Summarizer is the slice of the ledger service the worker needs.
type Summarizer interface {
	DailySummary(ctx context.Context, year int, month int) ([]core.DailySummary, error)
}

// MirrorWorker keeps the SQLite mirror in step with the spreadsheet.
// Messages carry only coordinates; the worker recomputes the affected
// day from the sheet itself, so replays and duplicates converge.
type MirrorWorker struct {
	ledger Summarizer
	store  *storage.MirrorStore
}

func NewMirrorWorker(ledger Summarizer, store *storage.MirrorStore) *MirrorWorker {
	return &MirrorWorker{
		ledger: ledger,
		store:  store,
	}
}

// HandleRecordSaved processes a single record-saved message from AMQP
func (w *MirrorWorker) HandleRecordSaved(ctx context.Context, msg *amqp.RecordSavedMessage) error {
	slog.InfoContext(ctx, "Processing record saved message",
		"kind", msg.Kind,
		"year", msg.Year,
		"month", msg.Month,
		"day", msg.Day)

	summaries, err := w.ledger.DailySummary(ctx, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("recompute daily summary: %w", err)
	}

	for _, s := range summaries {
		if s.Day == msg.Day {
			if err := w.store.UpsertDailySummary(ctx, s); err != nil {
				return fmt.Errorf("mirror day %d: %w", msg.Day, err)
			}
			return nil
		}
	}

	// The day no longer carries any figures; drop a stale mirror row if
	// one exists.
	if err := w.store.DeleteDailySummary(ctx, msg.Year, msg.Month, msg.Day); err != nil {
		return fmt.Errorf("remove mirrored day %d: %w", msg.Day, err)
	}

	slog.InfoContext(ctx, "Day has no figures, mirror row cleared",
		"year", msg.Year, "month", msg.Month, "day", msg.Day)

	return nil
}

// ResyncMonth recomputes and mirrors every day of a month. Used at
// startup to recover from missed messages or worker downtime.
func (w *MirrorWorker) ResyncMonth(ctx context.Context, year, month int) error {
	summaries, err := w.ledger.DailySummary(ctx, year, month)
	if err != nil {
		return fmt.Errorf("load month %04d-%02d: %w", year, month, err)
	}

	for _, s := range summaries {
		if err := w.store.UpsertDailySummary(ctx, s); err != nil {
			return fmt.Errorf("mirror day %d: %w", s.Day, err)
		}
	}

	slog.InfoContext(ctx, "Month resynced to mirror",
		"year", year, "month", month, "days", len(summaries))

	return nil
}

// StartupResync mirrors the current month once at worker startup.
func (w *MirrorWorker) StartupResync(ctx context.Context) error {
	now := time.Now()
	return w.ResyncMonth(ctx, now.Year(), int(now.Month()))
}
