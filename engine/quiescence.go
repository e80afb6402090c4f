package engine

import "github.com/ovcore/goosecore/position"

// quiescenceSeeMargin and deltaMargin mirror search.go's QuiescenceSeeMargin
// and the inline delta-pruning margin used in its quiescence().
const (
	quiescenceSeeMargin = 100
	deltaMargin         = 200
)

// quiescence resolves the tactical noise at a leaf: it keeps searching
// captures (and, while in check, all evasions) until the position is quiet,
// per spec §4.4. It is grounded on search.go's quiescence(), generalized to
// use the new MovePicker/SEE/History rather than the flat moveList scorer.
func (w *Worker) quiescence(alpha, beta Value, ss *StackFrame, depth Depth) Value {
	w.nodes++

	if w.shouldCheckStop() && w.checkStop() {
		return 0
	}

	inCheck := w.b.OurKingInCheck()
	ss.PV.Clear()

	standPat := CorrectedEvaluate(w.b, w.history, w.us(), w.b.PawnKey())
	if ss.Ply >= MaxPly {
		return standPat
	}

	if !inCheck {
		if standPat >= beta {
			w.stats.QStandPatCutoffs++
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	bestScore := standPat
	if inCheck {
		bestScore = -ValueInfinite
	}

	picker := NewMovePicker(w.b, w.us(), w.history, &w.stack, ss.Ply, w.b.PawnKey(), position.NoMove, ss.CurrentMove)

	childPV := PVLine{}
	movesSearched := 0

	for {
		m, ok := picker.Next(!inCheck)
		if !ok {
			break
		}
		if !inCheck && m.CapturedPiece() == position.NoPiece && m.PromotionPieceType() == position.PieceTypeNone {
			continue
		}

		if !inCheck {
			if !seeGreaterOrEqual(w.b, m, -quiescenceSeeMargin) {
				continue
			}

			gain := int32(0)
			if m.CapturedPiece() != position.NoPiece {
				gain = pieceValueMG[m.CapturedPiece().Type()]
			}
			if promo := m.PromotionPieceType(); promo != position.PieceTypeNone {
				gain += pieceValueMG[promo] - pieceValueMG[position.PieceTypePawn]
			}
			if int32(standPat)+gain+deltaMargin < int32(alpha) {
				continue
			}
		}

		ss.CurrentMove = m
		ss.MovedPiece = m.MovedPiece().Type()
		ss.IsCapture = m.CapturedPiece() != position.NoPiece
		ss.InCheck = inCheck

		undo := w.b.Apply(m)
		movesSearched++
		child := w.stack.At(ss.Ply + 1)
		child.Ply = ss.Ply + 1

		score := -w.quiescence(-beta, -alpha, child, depth-1)
		undo()

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			w.stats.QBetaCutoffs++
			return score
		}
		if score > alpha {
			alpha = score
			ss.PV.Update(m, childPV)
		}
		childPV.Clear()
	}

	if inCheck && movesSearched == 0 {
		return MatedIn(ss.Ply)
	}

	return bestScore
}
