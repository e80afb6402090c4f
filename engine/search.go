package engine

import "github.com/ovcore/goosecore/position"

// Search margins and pruning parameters, carried over from search.go's
// FutilityMargins/RFPMargins/RazoringMargins/LateMovePruningMargins/LMR*
// tables, retyped to Value/Depth and extended where spec §4.5 names a
// mechanism the teacher didn't have (ProbCut).
var (
	futilityMargins = [9]Value{0, 120, 220, 320, 420, 520, 620, 720, 820}
	rfpMargins       = [9]Value{0, 100, 200, 300, 400, 500, 600, 700, 800}
	lateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

	probCutMargin Value = 150
	probCutDepth  Depth = 5
)

const (
	lmrDepthLimit Depth = 2
	lmrMoveLimit        = 2
	nullMoveMinDepth Depth = 2
	seePruneDepth    Depth = 8
	seePruneMargin   int32 = -20
	aspirationWindow Value = 35
	deltaPruneMargin Value = 200
	singularDepthMin Depth = 8
	iidDepthMin      Depth = 5
)

// AlphaFlag/BetaFlag/ExactFlag are readability aliases for the Bound values
// defined in tt.go (Upper/Lower/Exact), matching the teacher's flag naming.
const (
	AlphaFlag = BoundUpper
	BetaFlag  = BoundLower
	ExactFlag = BoundExact
)

// Search runs iterative deepening from the root up to limits.Depth (or until
// the shared stop flag fires / time runs out, decided by the caller's time
// manager), returning the best move found and its score. It is grounded on
// rootsearch() in search.go: aspiration windows around the previous score,
// widening on fail-high/fail-low, UCI "info" lines on every completed
// iteration, and falling back to the last fully-searched PV's first move
// when the search is interrupted mid-iteration.
func (w *Worker) Search(maxDepth int, report func(depth int, score Value, pv []position.Move, nodes uint64)) (Value, position.Move) {
	rootIndex := len(w.states) - 1
	alpha, beta := -ValueInfinite, ValueInfinite
	bestScore := -ValueInfinite
	var bestMove position.Move

	window := aspirationWindow
	prevScore := Value(0)

	var prevPV PVLine

	for depth := 1; depth <= maxDepth; depth++ {
		if prevScore != 0 {
			alpha = prevScore - window
			beta = prevScore + window
		}

		ss := w.stack.At(0)
		ss.PV.Clear()

		score := w.alphabeta(alpha, beta, Depth(depth), 0, ss, position.NoMove, false, false, position.NoMove, rootIndex)

		if w.checkStop() {
			if len(prevPV.Moves) == 0 && len(ss.PV.Moves) > 0 {
				bestScore = score
				prevPV = ss.PV.Clone()
			}
			break
		}

		if score <= alpha || score >= beta {
			if window >= ValueInfinite {
				window = ValueInfinite
			} else {
				window *= 2
			}
			alpha = clampValue(score-window, -ValueInfinite, ValueInfinite)
			beta = clampValue(score+window, -ValueInfinite, ValueInfinite)
			depth--
			continue
		}

		window = aspirationWindow
		prevScore = score
		bestScore = score
		prevPV = ss.PV.Clone()
		w.completedDepth = depth

		if report != nil {
			report(depth, score, prevPV.Moves, w.nodes)
		}

		if score > MateIn(MaxPly) || score < MatedIn(MaxPly) {
			break
		}
	}

	bestMove = prevPV.GetPVMove()
	return bestScore, bestMove
}

// alphabeta is the principal negamax search: draw detection, TT probe and
// cutoffs, reverse futility pruning, null-move pruning with verification, a
// singular-extension probe, ProbCut, internal iterative deepening, the move
// loop (late-move, futility and SEE pruning, LMR/PVS), history and
// correction-history updates, and the TT store. It has no razoring step, no
// tablebase probe and no internal iterative reduction. It is grounded on
// search.go's alphabeta(), generalized from dragontoothmg/goosemg flat
// globals to a Worker-scoped TT probe, MovePicker, and History.
func (w *Worker) alphabeta(alpha, beta Value, depth Depth, ply int, ss *StackFrame, prevMove position.Move, didNull, isExtended bool, excludedMove position.Move, rootIndex int) Value {
	w.nodes++
	ss.Ply = ply
	if ply > w.selDepth {
		w.selDepth = ply
	}
	if w.shouldCheckStop() && w.checkStop() {
		return 0
	}

	if ply >= MaxPly {
		return EvaluateRelative(w.b)
	}

	isPV := beta-alpha > 1
	isRoot := ply == 0

	// Step: draw detection by repetition / 50-move rule.
	if !isRoot {
		if w.isDraw(rootIndex) {
			return ValueDraw
		}
		if alpha < ValueDraw && w.upcomingRepetition(rootIndex) {
			alpha = ValueDraw
		}
	}

	inCheck := w.b.OurKingInCheck()
	if inCheck {
		depth++
	}

	if !inCheck && !w.b.HasLegalMoves() {
		return ValueDraw
	}

	// Step: quiescence hand-off at the search frontier.
	if depth <= 0 {
		return w.quiescence(alpha, beta, ss, DepthQSChecks)
	}

	key := w.b.ComputeZobrist()

	// Step: transposition table probe.
	entry, ttHit := w.tt.Probe(key)
	var ttMove position.Move
	if ttHit {
		ttMove = entry.move
	}

	ttUsable := ttHit && !isRoot && !isPV && Depth(entry.depth8)+DepthOffset >= depth && excludedMove.IsNone()
	if ttUsable {
		ttScore := valueFromTT(Value(entry.value), ply, w.b.HalfmoveClock())
		switch entry.bound() {
		case BoundExact:
			w.stats.TTCutoffs++
			return ttScore
		case BoundLower:
			if ttScore >= beta {
				w.stats.TTCutoffs++
				return ttScore
			}
		case BoundUpper:
			if ttScore <= alpha {
				w.stats.TTCutoffs++
				return ttScore
			}
		}
	}

	var staticScore Value
	var bestMove position.Move
	if ttHit {
		bestMove = ttMove
		if entry.eval != int16(ValueNone) {
			staticScore = Value(entry.eval)
		} else {
			staticScore = CorrectedEvaluate(w.b, w.history, w.us(), w.b.PawnKey())
		}
	} else {
		staticScore = CorrectedEvaluate(w.b, w.history, w.us(), w.b.PawnKey())
	}
	ss.StaticEval = staticScore

	improving := ply >= 2 && !inCheck && staticScore > w.stack.At(ply-2).StaticEval

	whiteBB, blackBB := w.b.WhiteBitboards(), w.b.BlackBitboards()
	sideHasMajorOrMinor := hasNonPawnMaterial(whiteBB, blackBB, w.b.SideToMove() == position.White)

	dIdx := clampDepthIdx(depth)

	// Step: reverse futility / static-null pruning.
	if !inCheck && !isPV && !isRoot && depth >= 1 && depth <= 8 && absValue(beta) < ValueMateInMaxPly {
		margin := rfpMargins[dIdx]
		if !improving {
			margin -= 50
		}
		if staticScore-margin >= beta {
			w.stats.StaticNullCutoffs++
			w.tt.Save(key, valueToTT(staticScore-margin, ply), false, BoundLower, depth, bestMove, staticScore)
			return staticScore - margin
		}
	}

	// Step: null-move pruning, with high-depth verification.
	if !inCheck && !isPV && !isRoot && !didNull && sideHasMajorOrMinor && depth >= nullMoveMinDepth {
		undo := w.applyNullMove()
		r := 3 + depth/3
		if depth > 6 {
			r++
		}
		if r > depth-1 {
			r = depth - 1
		}
		nullChild := w.stack.At(ply + 1)
		score := -w.alphabeta(-beta, -beta+1, depth-1-r, ply+1, nullChild, bestMove, true, isExtended, position.NoMove, rootIndex)
		undo()

		if score >= beta && score < ValueMateInMaxPly {
			w.stats.NullMoveCutoffs++
			w.tt.Save(key, valueToTT(score, ply), false, BoundLower, depth, bestMove, staticScore)
			if depth > 10 {
				verifyFrame := *ss
				verifyFrame.PV = PVLine{}
				verify := w.alphabeta(beta-1, beta, depth-1-r, ply, &verifyFrame, prevMove, true, isExtended, position.NoMove, rootIndex)
				if verify >= beta {
					return verify
				}
			} else {
				return score
			}
		}
	}

	// Step: singular extension probe on the TT move.
	var singular bool
	if !isPV && !isRoot && !inCheck && !didNull && !isExtended && depth >= singularDepthMin &&
		!ttMove.IsNone() && ttHit && entry.bound() == BoundLower && Depth(entry.depth8)+DepthOffset >= depth-3 {
		ttValue := valueFromTT(Value(entry.value), ply, w.b.HalfmoveClock())
		if ttValue < ValueMateInMaxPly && ttValue > ValueMatedInMaxPly {
			margin := Value(50 + 10*int(depth))
			scoreToBeat := ttValue - margin
			r := Depth(3) + depth/4
			if r > depth-1 {
				r = depth - 1
			}
			var verifyPV PVLine
			verifyFrame := *ss
			verifyFrame.PV = verifyPV
			scoreSingular := w.alphabeta(scoreToBeat-1, scoreToBeat, depth-1-r, ply, &verifyFrame, prevMove, didNull, true, ttMove, rootIndex)
			if scoreSingular < scoreToBeat {
				singular = true
			}
		}
	}

	// Step: ProbCut — a shallow search with a raised beta to skip nodes where
	// even a speculative capture already refutes beta comfortably. Spec §4.5
	// names this step; the teacher never implemented it, so it is grounded
	// only in the general shape of its neighbors (null-move/RFP) rather than
	// a specific teacher function.
	if !inCheck && !isPV && !isRoot && depth >= probCutDepth && absValue(beta) < ValueMateInMaxPly {
		probCutBeta := beta + probCutMargin
		picker := NewMovePicker(w.b, w.us(), w.history, &w.stack, ply, w.b.PawnKey(), ttMove, prevMove)
		for {
			m, ok := picker.Next(true)
			if !ok {
				break
			}
			if m.CapturedPiece() == position.NoPiece && m.PromotionPieceType() == position.PieceTypeNone {
				continue
			}
			if !seeGreaterOrEqual(w.b, m, int(probCutMargin)) {
				continue
			}
			undo := w.applyMove(m)
			child := w.stack.At(ply + 1)
			score := -w.alphabeta(-probCutBeta, -probCutBeta+1, depth-4, ply+1, child, m, false, isExtended, position.NoMove, rootIndex)
			undo()
			if score >= probCutBeta {
				w.tt.Save(key, valueToTT(score, ply), false, BoundLower, depth-3, m, staticScore)
				return score
			}
		}
	}

	// Step: internal iterative deepening when no TT move is available.
	if ttMove.IsNone() && depth >= iidDepthMin && !didNull && !isExtended {
		reduced := depth - 2
		if depth >= 8 {
			reduced = depth - depth/4
		}
		iidFrame := *ss
		iidFrame.PV = PVLine{}
		w.alphabeta(alpha, beta, reduced, ply, &iidFrame, prevMove, false, true, position.NoMove, rootIndex)
		if iidEntry, ok := w.tt.Probe(key); ok && !iidEntry.move.IsNone() {
			ttMove = iidEntry.move
			bestMove = ttMove
		}
	}

	picker := NewMovePicker(w.b, w.us(), w.history, &w.stack, ply, w.b.PawnKey(), ttMove, prevMove)

	origAlpha := alpha
	bestScore := -ValueInfinite
	ttFlag := BoundUpper
	legalMoves := 0
	var quietsTried []position.Move
	var capturesTried []position.Move
	childPV := PVLine{}

	for {
		m, ok := picker.Next(false)
		if !ok {
			break
		}
		if m == excludedMove {
			continue
		}

		isCapture := m.CapturedPiece() != position.NoPiece
		givesCheck := w.b.GivesCheck(m)
		isPromotion := m.PromotionPieceType() != position.PieceTypeNone
		tactical := isCapture || givesCheck || isPromotion
		legalMoves++

		// Step: late move pruning of quiets deep in the move list.
		if depth <= 8 && !isPV && !tactical && !isRoot && legalMoves > 1 {
			margin := lateMovePruningMargins[clampDepthIdx(depth)]
			if !improving {
				margin = margin * 2 / 3
			}
			if margin > 0 && legalMoves > margin {
				w.stats.LateMovePrunes++
				continue
			}
		}

		// Step: futility pruning of quiets that can't plausibly raise alpha.
		if depth <= 7 && depth >= 1 && !givesCheck && !isPV && !isRoot && !tactical && absValue(alpha) < ValueMateInMaxPly {
			margin := futilityMargins[dIdx]
			if !improving {
				margin -= 50
			}
			if staticScore+margin <= alpha {
				w.stats.FutilityPrunes++
				continue
			}
		}

		// Step: SEE-based pruning of losing captures at shallow depth.
		if !isPV && !isRoot && depth <= seePruneDepth && isCapture && !givesCheck {
			if !seeGreaterOrEqual(w.b, m, int(seePruneMargin)*int(depth)) {
				continue
			}
		}

		if !isCapture {
			quietsTried = append(quietsTried, m)
		} else {
			capturesTried = append(capturesTried, m)
		}

		ss.CurrentMove = m
		ss.MovedPiece = m.MovedPiece().Type()
		ss.IsCapture = isCapture
		ss.InCheck = inCheck

		undo := w.applyMove(m)

		extendMove := !isExtended && m == ttMove && singular
		nextExtended := isExtended || extendMove
		child := w.stack.At(ply + 1)

		var score Value
		if legalMoves == 1 {
			nextDepth := calcDepth(depth-1, 0, extendMove)
			score = -w.alphabeta(-beta, -alpha, nextDepth, ply+1, child, m, false, nextExtended, position.NoMove, rootIndex)
		} else {
			historyScore := int32(w.history.QuietScore(w.us(), m))
			var reduction Depth
			if depth >= lmrDepthLimit && legalMoves >= lmrMoveLimit && !givesCheck && !tactical {
				reduction = computeReduction(depth, legalMoves, isPV, historyScore, improving)
			}
			score = w.searchMoveWithPVS(m, depth-1, reduction, alpha, beta, ply, extendMove, nextExtended, rootIndex, child)
		}

		undo()

		if score > bestScore {
			bestScore = score
			bestMove = m
		}

		if score >= beta {
			w.stats.BetaCutoffs++
			ttFlag = BoundLower

			bonus := int32(depth) * int32(depth)
			if bestScore > beta+173 {
				bonus = int32(depth+1) * int32(depth+1)
			}
			malus := int32(depth) * int32(depth)

			if !isCapture {
				w.history.AddKiller(ply, m)
				w.history.SetCounterMove(w.us(), prevMove, m)
				w.history.UpdateQuietHistory(w.us(), m, bonus)
				w.history.UpdatePawnHistory(w.b.PawnKey(), ss.MovedPiece, m.To(), bonus)
				w.updateContinuationChain(ply, ss.MovedPiece, m.To(), bonus)
				for _, failed := range quietsTried {
					if failed != m {
						w.history.UpdateQuietHistory(w.us(), failed, -malus)
						w.history.UpdatePawnHistory(w.b.PawnKey(), failed.MovedPiece().Type(), failed.To(), -malus)
						w.updateContinuationChain(ply, failed.MovedPiece().Type(), failed.To(), -malus)
					}
				}
			} else {
				w.history.UpdateCaptureHistory(w.us(), m.MovedPiece().Type(), m.To(), m.CapturedPiece().Type(), bonus)
			}
			for _, failed := range capturesTried {
				if failed != m {
					w.history.UpdateCaptureHistory(w.us(), failed.MovedPiece().Type(), failed.To(), failed.CapturedPiece().Type(), -malus)
				}
			}
			break
		}

		if score > alpha {
			alpha = score
			ttFlag = BoundExact
			ss.PV.Update(m, childPV)
			if !isCapture {
				w.history.UpdateQuietHistory(w.us(), m, int32(depth)*int32(depth))
			}
		}
		childPV.Clear()
	}

	if legalMoves == 0 {
		if inCheck {
			return MatedIn(ply)
		}
		return ValueDraw
	}

	// Step: correction history. Nudge the static-eval correction table toward
	// what this node's search actually found, unless the result was a
	// fail-high/fail-low that contradicts the direction staticScore already
	// pointed in (in which case the gap isn't a reliable eval-bias signal).
	if !inCheck && (bestMove.IsNone() || bestMove.CapturedPiece() == position.NoPiece) &&
		!(bestScore >= beta && bestScore <= staticScore) &&
		!(bestScore <= origAlpha && bestScore >= staticScore) {
		bonus := int32(bestScore-staticScore) * int32(depth) / 8
		w.history.UpdateCorrection(w.us(), w.b.PawnKey(), bonus)
	}

	if !w.checkStop() {
		w.tt.Save(key, valueToTT(bestScore, ply), isPV, ttFlag, depth, bestMove, staticScore)
	}

	return bestScore
}

// updateContinuationChain spreads a history bonus/malus across the
// continuation-history tables owned by the moves played 1, 2, 3, 4 and 6
// plies before ply, weighted per spec, skipping ancestors the stack doesn't
// reach (root) or that made no move there (a null-move ply).
func (w *Worker) updateContinuationChain(ply int, piece position.PieceType, to position.Square, bonus int32) {
	for offset := 1; offset <= 6; offset++ {
		weight := contHistUpdateWeights[offset]
		if weight == 0 {
			continue
		}
		idx := ply - offset
		if idx < 0 {
			continue
		}
		prev := w.stack.At(idx)
		if prev.CurrentMove.IsNone() {
			continue
		}
		w.history.UpdateContinuationHistory(prev.InCheck, prev.IsCapture, prev.MovedPiece, prev.CurrentMove.To(), piece, to, bonus*weight/8)
	}
}

// contHistUpdateWeights mirrors spec §4.5 step 15's "{6,8,8,9,0,6}/8" weight
// set for continuation-history offsets 1..6; index 0 is unused padding.
var contHistUpdateWeights = [7]int32{0, 6, 8, 8, 9, 0, 6}

// searchMoveWithPVS replays search.go's three-stage principal variation
// search: a reduced null-window probe, a full-depth null-window re-search if
// the reduction looked too optimistic, and finally a full-window search if
// the move turned out to be within the window.
func (w *Worker) searchMoveWithPVS(m position.Move, baseDepth, reduction Depth, alpha, beta Value, ply int, extendMove, nextExtended bool, rootIndex int, child *StackFrame) Value {
	nextDepth := calcDepth(baseDepth, reduction, extendMove)
	score := -w.alphabeta(-(alpha + 1), -alpha, nextDepth, ply+1, child, position.NoMove, false, nextExtended, position.NoMove, rootIndex)

	if score > alpha && reduction > 0 {
		nextDepth = calcDepth(baseDepth, 0, extendMove)
		score = -w.alphabeta(-(alpha + 1), -alpha, nextDepth, ply+1, child, position.NoMove, false, nextExtended, position.NoMove, rootIndex)
	}

	if score > alpha && score < beta {
		nextDepth = calcDepth(baseDepth, 0, extendMove)
		score = -w.alphabeta(-beta, -alpha, nextDepth, ply+1, child, position.NoMove, false, nextExtended, position.NoMove, rootIndex)
	}

	return score
}

func calcDepth(base, reduction Depth, extend bool) Depth {
	d := base - reduction
	if extend && reduction == 0 {
		d++
	}
	return d
}

// computeReduction mirrors searchutil.go's LMR table lookup: deeper and
// later moves reduce more, with less reduction in PV nodes or when the move
// has a strong history score.
func computeReduction(depth Depth, moveIndex int, isPV bool, historyScore int32, improving bool) Depth {
	r := Depth(1)
	if depth > 6 {
		r = Depth(1 + int(depth)/6)
	}
	if moveIndex > 6 {
		r++
	}
	if isPV {
		r--
	}
	if !improving {
		r++
	}
	if historyScore > 8000 {
		r--
	} else if historyScore < -8000 {
		r++
	}
	if r < 0 {
		r = 0
	}
	if r > depth-1 {
		r = depth - 1
	}
	return r
}

func clampDepthIdx(d Depth) int {
	if d < 0 {
		return 0
	}
	if int(d) >= len(futilityMargins) {
		return len(futilityMargins) - 1
	}
	return int(d)
}

func hasNonPawnMaterial(white, black position.Bitboards, whiteToMove bool) bool {
	if whiteToMove {
		return white.Knights|white.Bishops|white.Rooks|white.Queens != 0
	}
	return black.Knights|black.Bishops|black.Rooks|black.Queens != 0
}
