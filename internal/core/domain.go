package core

import (
	"errors"
	"time"
)

// Kind selects one of the two monthly datasets.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Sheet layout conventions shared with the workbook.
const (
	// DayHeader is the income sheet's day-key column header.
	DayHeader = "วันที่"
	// CategoryHeader is the expense sheet's first-column header.
	CategoryHeader = "รายการรายจ่าย/วันที่"
	// MonthTotalLabel marks the expense row that holds a hand-maintained
	// month total. It never participates in aggregation.
	MonthTotalLabel = "รวมทั้งเดือน"
)

// Channels is the fixed set of income channels, in sheet column order.
var Channels = []string{"เงินสด", "สแกน", "คนละครึ่ง", "Grab", "Shopee", "LINE Man"}

// IsChannel reports whether name (already trimmed) is a known income channel.
func IsChannel(name string) bool {
	for _, c := range Channels {
		if c == name {
			return true
		}
	}
	return false
}

var (
	ErrPartitionNotFound  = errors.New("partition not found")
	ErrDayRowNotFound     = errors.New("day row not found")
	ErrDayColumnNotFound  = errors.New("day column not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrMalformedGrid      = errors.New("malformed grid")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

func (k Kind) String() string {
	return string(k)
}

// IsValid returns true for the two supported dataset kinds.
func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
