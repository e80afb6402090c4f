package engine

import "github.com/ovcore/goosecore/position"

// PVLine accumulates the principal variation as it is discovered bottom-up
// through the search tree. Its usage contract (Clear/Clone/Update/GetPVMove,
// a Moves slice indexed from the root) is the same one search.go's
// alphabeta/quiescence/rootsearch already call into.
type PVLine struct {
	Moves []position.Move
}

// Clear empties the line without releasing its backing array, so repeated
// use across sibling subtrees at the same ply doesn't reallocate.
func (p *PVLine) Clear() { p.Moves = p.Moves[:0] }

// Clone returns an independent copy, used when a PV needs to outlive the
// stack frame that produced it (e.g. the previous iteration's PV, kept
// around for move-ordering hints during the next iteration).
func (p PVLine) Clone() PVLine {
	cp := make([]position.Move, len(p.Moves))
	copy(cp, p.Moves)
	return PVLine{Moves: cp}
}

// Update prepends move to child's line and stores the result in p, the
// standard "this node's PV is [move, child's PV...]" composition.
func (p *PVLine) Update(move position.Move, child PVLine) {
	p.Moves = append(p.Moves[:0], move)
	p.Moves = append(p.Moves, child.Moves...)
}

// GetPVMove returns the line's first move, or NoMove for an empty line.
func (p PVLine) GetPVMove() position.Move {
	if len(p.Moves) == 0 {
		return position.NoMove
	}
	return p.Moves[0]
}

// StackFrame is the per-ply scratch state threaded down the recursive search,
// generalizing state_stack.go's single-purpose State{Hash, Rule50} struct
// into a fuller per-ply record: the ply, static eval, the move played from
// this ply with its piece/capture/check context, the excluded move, and the
// PV line owned by this frame. Killers live in History, not here.
type StackFrame struct {
	Ply          int
	StaticEval   Value
	CurrentMove  position.Move
	MovedPiece   position.PieceType
	IsCapture    bool
	InCheck      bool
	ExcludedMove position.Move
	PV           PVLine
}

// SearchStack is a fixed-size array of per-ply frames owned by one Worker,
// sized to MaxPly+8 so recursive search never bounds-checks against a growing
// slice (spec §9's "recursive search stack sizing" note).
type SearchStack [MaxPly + 8]StackFrame

func (s *SearchStack) At(ply int) *StackFrame { return &s[ply] }
