package engine

import (
	"math"
	"math/rand"

	"github.com/ovcore/goosecore/position"
)

// pawnValue is the centipawn unit spec §6's skill formula scales delta
// against; reused from eval.go's material table rather than a separate
// constant.
var pawnValue = int(pieceValueMG[position.PieceTypePawn])

// SkillLevel picks a deliberately suboptimal move from an already-sorted
// (descending by score) MultiPV root move list, per spec §6's formula. Not
// present in the teacher; grounded in its RootMove/MultiPV list machinery
// (rootmove.go), which already tracks one Score per candidate move that this
// formula reads directly.
//
// level is 0-20; callers should only invoke this when level < 20, at
// depth == 1+floor(level), with moves holding at least MultiPV candidates
// sorted best-first.
func SkillLevel(moves []RootMove, level int, rng *rand.Rand) position.Move {
	if len(moves) == 0 {
		return position.NoMove
	}
	if len(moves) == 1 {
		return moves[0].Move
	}

	weakness := 120 - 2*level
	topScore := moves[0].Score

	last := moves[len(moves)-1].Score
	delta := int(topScore - last)
	if delta > pawnValue {
		delta = pawnValue
	}

	bestIdx := 0
	bestTotal := int32(math.MinInt32)
	for i, rm := range moves {
		push := (int32(weakness)*int32(topScore-rm.Score) + int32(delta)*int32(rng.Intn(weakness+1))) / 128
		total := int32(rm.Score) + push
		if total > bestTotal {
			bestTotal = total
			bestIdx = i
		}
	}
	return moves[bestIdx].Move
}
