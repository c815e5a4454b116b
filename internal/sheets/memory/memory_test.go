package memory

import (
	"context"
	"errors"
	"testing"

	"banchee/internal/core"
)

func TestOpenMissingPartition(t *testing.T) {
	s := New()
	_, err := s.Open(context.Background(), "รายรับ_2025_11")
	if !errors.Is(err, core.ErrPartitionNotFound) {
		t.Fatalf("expected ErrPartitionNotFound, got %v", err)
	}
}

func TestCreateAndReadBack(t *testing.T) {
	s := New()
	p, err := s.Create(context.Background(), "t", 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.WriteCell(context.Background(), 1, 1, "h"); err != nil {
		t.Fatal(err)
	}
	grid, err := p.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(grid) != 1 || grid[0][0] != "h" {
		t.Fatalf("unexpected grid: %v", grid)
	}
}

func TestCreateExistingFails(t *testing.T) {
	s := New()
	if _, err := s.Create(context.Background(), "t", 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(context.Background(), "t", 1, 1); err == nil {
		t.Fatal("expected error creating duplicate partition")
	}
}

func TestWriteBlockGrowsGrid(t *testing.T) {
	s := New()
	p, err := s.Create(context.Background(), "t", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	err = p.WriteBlock(context.Background(), 2, 3, [][]string{
		{"a", "b"},
		{"c", "d"},
	})
	if err != nil {
		t.Fatal(err)
	}
	grid, _ := p.ReadAll(context.Background())
	if len(grid) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(grid))
	}
	if grid[1][2] != "a" || grid[1][3] != "b" || grid[2][2] != "c" || grid[2][3] != "d" {
		t.Fatalf("unexpected block contents: %v", grid)
	}
}

func TestWriteCellOneBased(t *testing.T) {
	s := New()
	p, _ := s.Create(context.Background(), "t", 1, 1)
	if err := p.WriteCell(context.Background(), 0, 1, "x"); err == nil {
		t.Fatal("expected error for 0-based row address")
	}
}

func TestSeedCopiesInput(t *testing.T) {
	s := New()
	grid := [][]string{{"h"}, {"v"}}
	s.Seed("t", grid)
	grid[1][0] = "mutated"

	p, err := s.Open(context.Background(), "t")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := p.ReadAll(context.Background())
	if got[1][0] != "v" {
		t.Fatalf("seed should copy the grid, got %q", got[1][0])
	}
}
