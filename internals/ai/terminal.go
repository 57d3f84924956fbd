package ai

// CheckWin reports the owner of a line spanning the whole board. Rows are
// scanned first, then columns, then the main and anti diagonal.
func CheckWin(b *Board) (PlayerID, bool) {
	n := b.size
	for r := 0; r < n; r++ {
		if p := b.lineOwner(r*n, 1); p != Empty {
			return p, true
		}
	}
	for c := 0; c < n; c++ {
		if p := b.lineOwner(c, n); p != Empty {
			return p, true
		}
	}
	if p := b.lineOwner(0, n+1); p != Empty {
		return p, true
	}
	if p := b.lineOwner(n-1, n-1); p != Empty {
		return p, true
	}
	return Empty, false
}

// IsDraw is true once every cell is taken and nobody completed a line.
func IsDraw(b *Board) bool {
	if !b.full() {
		return false
	}
	_, won := CheckWin(b)
	return !won
}

// lineOwner walks n cells from start in steps of stride and returns their
// owner when all of them belong to the same player.
func (b *Board) lineOwner(start, stride int) PlayerID {
	p := b.cells[start]
	if p == Empty {
		return Empty
	}
	for i, idx := 1, start+stride; i < b.size; i, idx = i+1, idx+stride {
		if b.cells[idx] != p {
			return Empty
		}
	}
	return p
}

// completesLine reports whether the tile on m finishes a line through m. It
// is the cheap check used for move ordering, where only lines through the
// freshly placed tile can have changed.
func (b *Board) completesLine(m Move) bool {
	n := b.size
	if b.lineOwner(m.Row*n, 1) != Empty || b.lineOwner(m.Col, n) != Empty {
		return true
	}
	if m.Row == m.Col && b.lineOwner(0, n+1) != Empty {
		return true
	}
	return m.Row+m.Col == n-1 && b.lineOwner(n-1, n-1) != Empty
}
