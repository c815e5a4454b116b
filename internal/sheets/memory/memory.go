// Package memory implements the sheets capability in process memory.
// It backs local development and tests with the same partition semantics
// as the Google adapter.
package memory

import (
	"context"
	"fmt"
	"sync"

	"banchee/internal/core"
	"banchee/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	grids map[string][][]string
}

var _ sheets.Store = (*Store)(nil)

func New() *Store {
	return &Store{grids: make(map[string][][]string)}
}

// Seed installs a grid under title, replacing any existing one. Intended
// for tests and local fixtures.
func (s *Store) Seed(title string, grid [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]string, len(grid))
	for i, row := range grid {
		cp[i] = append([]string(nil), row...)
	}
	s.grids[title] = cp
}

// Titles returns the titles of all partitions, for tests.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.grids))
	for t := range s.grids {
		out = append(out, t)
	}
	return out
}

func (s *Store) Open(_ context.Context, title string) (sheets.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grids[title]; !ok {
		return nil, fmt.Errorf("open %q: %w", title, core.ErrPartitionNotFound)
	}
	return &partition{store: s, title: title}, nil
}

func (s *Store) Create(_ context.Context, title string, rows, cols int) (sheets.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grids[title]; ok {
		return nil, fmt.Errorf("create %q: partition already exists", title)
	}
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
	}
	s.grids[title] = grid
	return &partition{store: s, title: title}, nil
}

type partition struct {
	store *Store
	title string
}

func (p *partition) Title() string {
	return p.title
}

func (p *partition) ReadAll(_ context.Context) ([][]string, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	grid := p.store.grids[p.title]
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return trimTrailing(out), nil
}

func (p *partition) WriteCell(_ context.Context, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("write cell %s (%d,%d): address is 1-based", p.title, row, col)
	}
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	grid := p.store.grids[p.title]
	grid = growTo(grid, row, col)
	grid[row-1][col-1] = value
	p.store.grids[p.title] = grid
	return nil
}

func (p *partition) WriteBlock(_ context.Context, row, col int, values [][]string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("write block %s (%d,%d): address is 1-based", p.title, row, col)
	}
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	grid := p.store.grids[p.title]
	for i, vrow := range values {
		grid = growTo(grid, row+i, col+len(vrow)-1)
		copy(grid[row+i-1][col-1:], vrow)
	}
	p.store.grids[p.title] = grid
	return nil
}

// growTo extends the grid so that (row, col), 1-based, is addressable.
func growTo(grid [][]string, row, col int) [][]string {
	for len(grid) < row {
		grid = append(grid, []string{})
	}
	for i := range grid {
		for len(grid[i]) < col {
			grid[i] = append(grid[i], "")
		}
	}
	return grid
}

// trimTrailing drops fully blank trailing rows so reads look like the
// Values API, which omits unused cells.
func trimTrailing(grid [][]string) [][]string {
	end := len(grid)
	for end > 0 && blankRow(grid[end-1]) {
		end--
	}
	return grid[:end]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
