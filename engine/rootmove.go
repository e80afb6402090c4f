package engine

import (
	"golang.org/x/exp/slices"

	"github.com/ovcore/goosecore/position"
)

// RootMove tracks one legal move from the root position across iterative
// deepening: its current score, the previous iteration's score (used to
// detect instability for time management), and the full PV line it produced.
// Grounded on the teacher's rootsearch(), which only tracked a single best
// move/score pair; multi-PV and best-thread voting both need the full
// per-root-move record, so this generalizes it into a struct.
type RootMove struct {
	Move         position.Move
	Score        Value
	PreviousScore Value
	SelDepth     int
	PV           []position.Move
}

// NewRootMoves seeds one RootMove per legal move in the position, optionally
// restricted to a UCI "searchmoves" subset.
func NewRootMoves(b *position.Board, restrictTo []position.Move) []RootMove {
	legal := b.GenerateLegalMoves()
	moves := make([]RootMove, 0, len(legal))
	for _, m := range legal {
		if len(restrictTo) > 0 && !containsMove(restrictTo, m) {
			continue
		}
		moves = append(moves, RootMove{Move: m, Score: -ValueInfinite, PreviousScore: -ValueInfinite, PV: []position.Move{m}})
	}
	return moves
}

func containsMove(list []position.Move, m position.Move) bool {
	for _, c := range list {
		if c == m {
			return true
		}
	}
	return false
}

// SortRootMoves orders moves by score descending, stable so that ties keep
// their prior relative order (important across iterations, where an
// unchanged score shouldn't reshuffle move order). Uses x/exp/slices per
// SPEC_FULL.md's domain-stack decision to keep leaning on that dependency
// for generic slice operations, same as the teacher's root move handling.
func SortRootMoves(moves []RootMove) {
	slices.SortStableFunc(moves, func(a, b RootMove) bool {
		return a.Score > b.Score
	})
}

func findRootMove(moves []RootMove, m position.Move) *RootMove {
	idx := slices.IndexFunc(moves, func(rm RootMove) bool { return rm.Move == m })
	if idx == -1 {
		return nil
	}
	return &moves[idx]
}
