// Package ledger implements the bookkeeping core: resolving monthly
// partitions, upserting day-keyed records, and aggregating the income
// and expense datasets into daily summaries and breakdowns.
package ledger

import (
	"strings"

	"banchee/internal/core"
	"banchee/internal/sheets"
)

const (
	// DefaultIncomeBase and DefaultExpenseBase are the undecorated base
	// partition titles; monthly partitions append _YYYY_MM.
	DefaultIncomeBase  = "รายรับ"
	DefaultExpenseBase = "รายจ่าย"
)

// Config carries the base partition titles.
type Config struct {
	IncomeBase  string
	ExpenseBase string
}

// Service orchestrates the resolver, codec, locator and aggregator over
// a partition store. It holds no persistent state of its own; every call
// is a fresh read-aggregate-return or read-modify-write against current
// partition contents.
type Service struct {
	store sheets.Store
	cfg   Config
}

func New(store sheets.Store, cfg Config) *Service {
	if strings.TrimSpace(cfg.IncomeBase) == "" {
		cfg.IncomeBase = DefaultIncomeBase
	}
	if strings.TrimSpace(cfg.ExpenseBase) == "" {
		cfg.ExpenseBase = DefaultExpenseBase
	}
	return &Service{store: store, cfg: cfg}
}

func (s *Service) base(kind core.Kind) string {
	if kind == core.KindExpense {
		return s.cfg.ExpenseBase
	}
	return s.cfg.IncomeBase
}
