package ai

import (
	"fmt"
	"strings"
)

// Tracer observes one search branch. Enter is called right after a tile is
// placed and Exit right before it is removed again, with the score the
// subtree produced.
type Tracer interface {
	Enter(b *Board, m Move)
	Exit(score float64)
}

// NopTracer discards everything.
type NopTracer struct{}

func (NopTracer) Enter(*Board, Move) {}
func (NopTracer) Exit(float64)       {}

// SearchNode is one visited position in a traced branch.
type SearchNode struct {
	ID       int
	Parent   *SearchNode
	Children []*SearchNode
	Move     Move
	Cells    [][]int
	Score    float64
}

// TreeTracer records every visited position of a branch as a tree rooted at
// the position the branch started from.
type TreeTracer struct {
	root    *SearchNode
	current *SearchNode
	nextID  int
}

func NewTreeTracer(b *Board) *TreeTracer {
	root := &SearchNode{Cells: b.Cells()}
	return &TreeTracer{root: root, current: root, nextID: 1}
}

func (t *TreeTracer) Root() *SearchNode { return t.root }

func (t *TreeTracer) Enter(b *Board, m Move) {
	child := &SearchNode{ID: t.nextID, Parent: t.current, Move: m, Cells: b.Cells()}
	t.nextID++
	t.current.Children = append(t.current.Children, child)
	t.current = child
}

func (t *TreeTracer) Exit(score float64) {
	t.current.Score = score
	if t.current.Parent != nil {
		t.current = t.current.Parent
	}
}

// String renders the tree one depth level per block. Every node shows
// "id:parent", its grid and "Sc: <score>", with a trailing T on leaves.
// Siblings are grouped and groups are separated by "|".
func (t *TreeTracer) String() string {
	var levels [][]*SearchNode
	var walk func(n *SearchNode, depth int)
	walk = func(n *SearchNode, depth int) {
		if len(levels) <= depth {
			levels = append(levels, nil)
		}
		levels[depth] = append(levels[depth], n)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)

	var sb strings.Builder
	for depth := 1; depth < len(levels); depth++ {
		renderLevel(&sb, levels[depth])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderLevel(sb *strings.Builder, nodes []*SearchNode) {
	size := len(nodes[0].Cells)
	width := size*2 + 5
	cell := func(s string) {
		sb.WriteString(s)
		if pad := width - len(s); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
	}
	line := func(f func(n *SearchNode) string) {
		var parent *SearchNode
		for i, n := range nodes {
			if i == 0 || n.Parent != parent {
				sb.WriteString("| ")
			}
			parent = n.Parent
			cell(f(n))
		}
		sb.WriteByte('\n')
	}

	line(func(n *SearchNode) string {
		return fmt.Sprintf("%d:%d", n.ID, n.Parent.ID)
	})
	for r := 0; r < size; r++ {
		line(func(n *SearchNode) string {
			parts := make([]string, size)
			for c, v := range n.Cells[r] {
				parts[c] = fmt.Sprint(v)
			}
			return strings.Join(parts, " ")
		})
	}
	line(func(n *SearchNode) string {
		s := fmt.Sprintf("Sc: %.2f", n.Score)
		if len(n.Children) == 0 {
			s += "T"
		}
		return s
	})
}
