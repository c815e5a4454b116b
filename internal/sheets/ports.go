// Package sheets defines the storage capability consumed by the ledger:
// named partitions inside a workbook, each a 2-D grid of string cells.
package sheets

import "context"

type (
	// Partition is one named grid inside the backing workbook. Cell
	// addresses are 1-based; row 1 is the header row.
	Partition interface {
		Title() string
		// ReadAll returns every cell as strings, row-major, row 0 = header.
		ReadAll(ctx context.Context) ([][]string, error)
		// WriteCell sets a single cell.
		WriteCell(ctx context.Context, row, col int, value string) error
		// WriteBlock sets a rectangular block whose top-left corner is
		// (row, col).
		WriteBlock(ctx context.Context, row, col int, values [][]string) error
	}

	// Store opens and creates partitions by title. Open returns an error
	// wrapping core.ErrPartitionNotFound when no partition has the title.
	Store interface {
		Open(ctx context.Context, title string) (Partition, error)
		Create(ctx context.Context, title string, rows, cols int) (Partition, error)
	}
)
