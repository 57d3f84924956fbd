package ai

import (
	"fmt"
	"strings"
)

// PlayerID is a 1-based seat number. Zero marks an empty cell.
type PlayerID int

const Empty PlayerID = 0

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Board is the occupancy grid a search branch works on. A Board handed to a
// branch belongs to that branch alone; Place and Remove are not synchronized.
type Board struct {
	size   int
	cells  []PlayerID
	player PlayerID
	round  int
}

// NewBoard returns an empty size x size board with player 1 to move in
// round 1.
func NewBoard(size int) *Board {
	return &Board{
		size:   size,
		cells:  make([]PlayerID, size*size),
		player: 1,
		round:  1,
	}
}

// Snapshot copies a live occupancy grid. It checks shape and the
// occupied-cells == round-1 invariant; owner upper bounds depend on the
// player count and are checked by the dispatcher.
func Snapshot(occupancy [][]int, currentPlayer, currentRound int) (*Board, error) {
	size := len(occupancy)
	if size == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrNotSquare)
	}
	if currentPlayer < 1 {
		return nil, fmt.Errorf("%w: current player %d", ErrInvalidPlayer, currentPlayer)
	}
	b := NewBoard(size)
	filled := 0
	for r, row := range occupancy {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNotSquare, r, len(row), size)
		}
		for c, owner := range row {
			if owner < 0 {
				return nil, fmt.Errorf("%w: cell (%d,%d) owned by %d", ErrInvalidPlayer, r, c, owner)
			}
			if owner != 0 {
				filled++
			}
			b.cells[r*size+c] = PlayerID(owner)
		}
	}
	if filled != currentRound-1 {
		return nil, fmt.Errorf("%w: %d occupied cells in round %d", ErrInconsistentSnapshot, filled, currentRound)
	}
	b.player = PlayerID(currentPlayer)
	b.round = currentRound
	return b, nil
}

// Clone deep-copies the cell grid.
func (b *Board) Clone() *Board {
	cells := make([]PlayerID, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells, player: b.player, round: b.round}
}

func (b *Board) Size() int                { return b.size }
func (b *Board) CurrentPlayer() PlayerID  { return b.player }
func (b *Board) CurrentRound() int        { return b.round }
func (b *Board) At(row, col int) PlayerID { return b.cells[row*b.size+col] }

// Place puts p on an empty cell and advances the round counter. Placing on an
// occupied cell is a caller bug and panics.
func (b *Board) Place(m Move, p PlayerID) {
	i := m.Row*b.size + m.Col
	if b.cells[i] != Empty {
		panic(fmt.Sprintf("ai: place on occupied cell %v", m))
	}
	b.cells[i] = p
	b.round++
}

// Remove undoes a Place.
func (b *Board) Remove(m Move) {
	i := m.Row*b.size + m.Col
	if b.cells[i] == Empty {
		return
	}
	b.cells[i] = Empty
	b.round--
}

// EmptyCells lists the free cells in row-major order.
func (b *Board) EmptyCells() []Move {
	moves := make([]Move, 0, len(b.cells)-(b.round-1))
	for i, owner := range b.cells {
		if owner == Empty {
			moves = append(moves, Move{Row: i / b.size, Col: i % b.size})
		}
	}
	return moves
}

func (b *Board) full() bool {
	return b.round-1 == len(b.cells)
}

// Cells returns the grid as rows of owner ids.
func (b *Board) Cells() [][]int {
	out := make([][]int, b.size)
	for r := range out {
		out[r] = make([]int, b.size)
		for c := range out[r] {
			out[r][c] = int(b.cells[r*b.size+c])
		}
	}
	return out
}

// Equal compares the cell grids only.
func (b *Board) Equal(o *Board) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", b.cells[r*b.size+c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
