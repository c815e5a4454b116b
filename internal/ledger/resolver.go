package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"banchee/internal/core"
	"banchee/internal/sheets"
)

// skeletonSlack is the extra room added beyond template dimensions when a
// monthly partition is created from a template.
const skeletonSlack = 5

// PartitionTitle computes the monthly partition title for a base name:
// {base}_{YYYY}_{MM}.
func PartitionTitle(base string, year, month int) string {
	return fmt.Sprintf("%s_%04d_%02d", base, year, month)
}

// resolution is one step of the ordered fallback chain tried by resolve.
type resolution struct {
	name string
	open func(ctx context.Context) (sheets.Partition, bool, error)
}

// resolve maps a dataset kind and month to a partition. The monthly
// partition is always tried first. On the read path a missing monthly
// partition falls back to the undecorated base partition; when both are
// absent the error wraps core.ErrPartitionNotFound and names both
// attempted titles. On the write path (createIfMissing) a missing monthly
// partition is created from the base template, or from a synthesized
// default skeleton when no template exists. An existing monthly partition
// is never overwritten.
func (s *Service) resolve(ctx context.Context, kind core.Kind, year, month int, createIfMissing bool) (sheets.Partition, error) {
	base := s.base(kind)
	title := PartitionTitle(base, year, month)

	chain := []resolution{
		{name: "monthly", open: func(ctx context.Context) (sheets.Partition, bool, error) {
			return s.openExisting(ctx, title)
		}},
	}
	if createIfMissing {
		chain = append(chain,
			resolution{name: "template-copy", open: func(ctx context.Context) (sheets.Partition, bool, error) {
				return s.createFromTemplate(ctx, kind, base, title)
			}},
			resolution{name: "default-skeleton", open: func(ctx context.Context) (sheets.Partition, bool, error) {
				p, err := s.createDefault(ctx, kind, title)
				return p, err == nil, err
			}},
		)
	} else {
		chain = append(chain, resolution{name: "legacy-base", open: func(ctx context.Context) (sheets.Partition, bool, error) {
			return s.openExisting(ctx, base)
		}})
	}

	for _, step := range chain {
		p, ok, err := step.open(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve %s %d-%02d (%s): %w", kind, year, month, step.name, err)
		}
		if ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("resolve %s %d-%02d: tried %q and %q: %w", kind, year, month, title, base, core.ErrPartitionNotFound)
}

// openExisting opens a partition, translating "not found" into a
// definite miss so the chain can continue.
func (s *Service) openExisting(ctx context.Context, title string) (sheets.Partition, bool, error) {
	p, err := s.store.Open(ctx, title)
	if err != nil {
		if errors.Is(err, core.ErrPartitionNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

// createFromTemplate seeds a new monthly partition from the base
// partition's header and first-column skeleton. It reports a miss when
// the base is absent or empty, so the chain can synthesize a default.
func (s *Service) createFromTemplate(ctx context.Context, kind core.Kind, base, title string) (sheets.Partition, bool, error) {
	tmpl, ok, err := s.openExisting(ctx, base)
	if err != nil || !ok {
		return nil, false, err
	}
	grid, err := tmpl.ReadAll(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(grid) == 0 {
		return nil, false, nil
	}

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	p, err := s.store.Create(ctx, title, len(grid)+skeletonSlack, width+skeletonSlack)
	if err != nil {
		return nil, false, err
	}

	// Header row verbatim; data rows keep only the first column value.
	skeleton := make([][]string, len(grid))
	skeleton[0] = append([]string(nil), grid[0]...)
	for i := 1; i < len(grid); i++ {
		row := make([]string, 1)
		if len(grid[i]) > 0 {
			row[0] = grid[i][0]
		}
		skeleton[i] = row
	}
	if err := p.WriteBlock(ctx, 1, 1, skeleton); err != nil {
		return nil, false, fmt.Errorf("seed %q from template: %w", title, err)
	}
	slog.InfoContext(ctx, "Created monthly partition from template",
		"kind", kind, "title", title, "template_rows", len(grid))
	return p, true, nil
}

// createDefault synthesizes a partition skeleton when no template
// exists: income gets a day column pre-filled 1..31 plus the channel
// headers, expense gets a category column plus day columns 1..31.
func (s *Service) createDefault(ctx context.Context, kind core.Kind, title string) (sheets.Partition, error) {
	var skeleton [][]string
	switch kind {
	case core.KindIncome:
		header := append([]string{core.DayHeader}, core.Channels...)
		skeleton = append(skeleton, header)
		for d := 1; d <= 31; d++ {
			skeleton = append(skeleton, []string{strconv.Itoa(d)})
		}
	default:
		header := make([]string, 0, 32)
		header = append(header, core.CategoryHeader)
		for d := 1; d <= 31; d++ {
			header = append(header, strconv.Itoa(d))
		}
		skeleton = append(skeleton, header)
	}

	p, err := s.store.Create(ctx, title, len(skeleton)+skeletonSlack, len(skeleton[0])+skeletonSlack)
	if err != nil {
		return nil, err
	}
	if err := p.WriteBlock(ctx, 1, 1, skeleton); err != nil {
		return nil, fmt.Errorf("seed %q with default skeleton: %w", title, err)
	}
	slog.InfoContext(ctx, "Created monthly partition with default skeleton",
		"kind", kind, "title", title)
	return p, nil
}

// loadTable resolves a partition for reading and decodes its grid. On
// the read/aggregate path absence is not an error: when neither the
// monthly nor the base partition exists the month simply has no data
// yet, and an empty table is returned.
func (s *Service) loadTable(ctx context.Context, kind core.Kind, year, month int) (core.Table, error) {
	p, err := s.resolve(ctx, kind, year, month, false)
	if err != nil {
		if errors.Is(err, core.ErrPartitionNotFound) {
			return core.DecodeGrid(nil), nil
		}
		return core.Table{}, err
	}
	grid, err := p.ReadAll(ctx)
	if err != nil {
		return core.Table{}, fmt.Errorf("load %s %d-%02d: %w", kind, year, month, err)
	}
	return core.DecodeGrid(grid), nil
}
