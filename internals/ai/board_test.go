package ai

import (
	"errors"
	"testing"
)

func TestSnapshotRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		grid   [][]int
		player int
		round  int
		want   error
	}{
		{"empty grid", [][]int{}, 1, 1, ErrNotSquare},
		{"ragged rows", [][]int{{0, 0}, {0}}, 1, 1, ErrNotSquare},
		{"rectangular", [][]int{{0, 0, 0}, {0, 0, 0}}, 1, 1, ErrNotSquare},
		{"negative owner", [][]int{{-1, 0}, {0, 0}}, 1, 2, ErrInvalidPlayer},
		{"player zero", [][]int{{0, 0}, {0, 0}}, 0, 1, ErrInvalidPlayer},
		{"round too low", [][]int{{1, 0}, {0, 0}}, 2, 1, ErrInconsistentSnapshot},
		{"round too high", [][]int{{1, 0}, {0, 0}}, 2, 4, ErrInconsistentSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Snapshot(tt.grid, tt.player, tt.round)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSnapshotKeepsTurnContext(t *testing.T) {
	b, err := Snapshot([][]int{{1, 2, 0}, {0, 1, 0}, {0, 0, 0}}, 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Size() != 3 || b.CurrentPlayer() != 2 || b.CurrentRound() != 4 {
		t.Fatalf("unexpected board header: size=%d player=%d round=%d", b.Size(), b.CurrentPlayer(), b.CurrentRound())
	}
	if b.At(0, 1) != 2 || b.At(1, 1) != 1 || b.At(2, 2) != Empty {
		t.Fatalf("cells not copied:\n%s", b)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(3)
	b.Place(Move{Row: 1, Col: 1}, 1)

	c := b.Clone()
	c.Place(Move{Row: 0, Col: 0}, 2)

	if b.At(0, 0) != Empty {
		t.Fatalf("placing on the clone leaked into the original")
	}
	if b.CurrentRound() != 2 || c.CurrentRound() != 3 {
		t.Fatalf("rounds should diverge, got %d and %d", b.CurrentRound(), c.CurrentRound())
	}
}

func TestPlaceRemoveRestoresClone(t *testing.T) {
	b, err := Snapshot([][]int{
		{1, 0, 2, 0},
		{0, 3, 0, 0},
		{0, 0, 1, 0},
		{2, 0, 0, 0},
	}, 3, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range b.EmptyCells() {
		c := b.Clone()
		c.Place(m, 2)
		c.Remove(m)
		if !c.Equal(b) || c.CurrentRound() != b.CurrentRound() {
			t.Fatalf("place+remove %v changed the board:\n%s\nwant\n%s", m, c, b)
		}
	}
}

func TestPlaceOnOccupiedCellPanics(t *testing.T) {
	b := NewBoard(2)
	b.Place(Move{}, 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	b.Place(Move{}, 2)
}

func TestEmptyCellsRowMajor(t *testing.T) {
	b, _ := Snapshot([][]int{{1, 0}, {0, 2}}, 1, 3)
	got := b.EmptyCells()
	want := []Move{{Row: 0, Col: 1}, {Row: 1, Col: 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
