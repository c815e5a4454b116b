package core

import "time"

// DailySummary is the derived per-day aggregate for one calendar day.
// It is produced fresh on every aggregation request and never persisted
// by the core itself.
type DailySummary struct {
	Date         time.Time
	Day          int
	IncomeTotal  float64
	ExpenseTotal float64
	Net          float64
}

// LabelTotal is an amount aggregated under a channel or category label.
type LabelTotal struct {
	Label string
	Total float64
}
