package ai

type lineFamily int

const (
	rowLines lineFamily = iota
	colLines
	diagonalLines
	familyCount
)

type line struct {
	start, stride int
}

// evaluator scores depth-capped positions. It keeps per-branch scratch space
// and a dead-line cache, so every search branch owns its own evaluator.
type evaluator struct {
	cfg   SearchConfig
	root  PlayerID
	size  int
	lines [familyCount][]line
	// dead marks lines holding tiles of two different players in the branch
	// root position. Moves below the root only add tiles, so those lines stay
	// dead for the whole branch; lines that turn mixed deeper are not cached
	// because backtracking can revive them.
	dead    [familyCount][]bool
	control []float64
	almost  []bool
}

func newEvaluator(cfg SearchConfig, root PlayerID, size int) *evaluator {
	e := &evaluator{
		cfg:     cfg,
		root:    root,
		size:    size,
		control: make([]float64, cfg.PlayerCount+1),
		almost:  make([]bool, cfg.PlayerCount+1),
	}
	for i := 0; i < size; i++ {
		e.lines[rowLines] = append(e.lines[rowLines], line{start: i * size, stride: 1})
		e.lines[colLines] = append(e.lines[colLines], line{start: i, stride: size})
	}
	e.lines[diagonalLines] = []line{{start: 0, stride: size + 1}, {start: size - 1, stride: size - 1}}
	for f := range e.lines {
		e.dead[f] = make([]bool, len(e.lines[f]))
	}
	return e
}

// reset rebuilds the dead-line cache for a new branch root.
func (e *evaluator) reset(b *Board) {
	for f := range e.lines {
		for i, ln := range e.lines[f] {
			_, _, mixed := e.scan(b, ln)
			e.dead[f][i] = mixed
		}
	}
}

func (e *evaluator) scan(b *Board, ln line) (owner PlayerID, count int, mixed bool) {
	for i, idx := 0, ln.start; i < e.size; i, idx = i+1, idx+ln.stride {
		p := b.cells[idx]
		if p == Empty {
			continue
		}
		if owner != Empty && p != owner {
			return Empty, 0, true
		}
		owner = p
		count++
	}
	return owner, count, false
}

// score estimates a non-terminal position. mover is the player who made the
// last move at this node. An opponent one tile short of a line when the root
// player has just moved is an imminent loss (-1). The root player one tile
// short with the turn coming back to them is an imminent win (+1). Otherwise
// each family of lines yields the summed control of all players, clamped to
// [-1, 1], and maximizing nodes take the best family while minimizing nodes
// take the worst.
func (e *evaluator) score(b *Board, mover PlayerID, maximizing bool) float64 {
	for p := range e.almost {
		e.almost[p] = false
	}

	var aggregate [familyCount]float64
	for f := range e.lines {
		for p := range e.control {
			e.control[p] = 0
		}
		for i, ln := range e.lines[f] {
			if e.dead[f][i] {
				continue
			}
			owner, count, mixed := e.scan(b, ln)
			if mixed || owner == Empty {
				continue
			}
			e.control[owner] += float64(count) / float64(e.size)
			if count == e.size-1 {
				e.almost[owner] = true
			}
		}
		sum := 0.0
		for p := 1; p < len(e.control); p++ {
			sum += e.control[p]
		}
		aggregate[f] = clamp(sum)
	}

	if mover == e.root {
		for p := 1; p < len(e.almost); p++ {
			if e.almost[p] && PlayerID(p) != e.root {
				return -1
			}
		}
	} else if e.almost[e.root] && e.cfg.next(mover) == e.root {
		return 1
	}

	best := aggregate[0]
	for _, v := range aggregate[1:] {
		if maximizing && v > best || !maximizing && v < best {
			best = v
		}
	}
	return best
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
