package engine

import "github.com/ovcore/goosecore/position"

// mvvLva mirrors moveordering.go's victim/attacker table, reindexed to
// position.PieceType (1=Pawn .. 6=King); row is the captured piece, column
// the capturing piece.
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim knight
	{0, 34, 33, 32, 31, 30, 0}, // victim bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim rook
	{0, 54, 53, 52, 51, 50, 0}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},      // victim king, never actually captured
}

const (
	pickerTTOffset        int32 = 1 << 20
	pickerPromotionOffset int32 = 1 << 19
	pickerGoodCaptureBase int32 = 1 << 18
	pickerKillerOffset    int32 = 1 << 17
	pickerCounterOffset   int32 = 1 << 16
	pickerBadCaptureBase  int32 = -(1 << 18)
)

type scoredMove struct {
	move  position.Move
	score int32
}

type pickerStage int

const (
	stageTT pickerStage = iota
	stageGenerateCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounter
	stageGenerateQuiets
	stageQuiets
	stageBadCaptures
	stageDone
)

// MovePicker yields moves in stages per spec §4.2: the TT move first, then
// winning captures ordered by MVV-LVA/SEE, the two killers and the counter
// move, then quiets ordered by history, and finally losing captures. It
// mirrors moveordering.go's offset-based scoring scheme but separates
// captures into good/bad by static exchange evaluation, which the teacher's
// flat offset table never attempted.
type MovePicker struct {
	b       *position.Board
	us      int
	h       *History
	stack   *SearchStack
	ply     int
	ttMove  position.Move
	pawnKey Key

	killer1, killer2 position.Move
	counter          position.Move

	stage pickerStage

	captures    []scoredMove
	goodIdx     int
	badCaptures []scoredMove
	quiets      []scoredMove
	quietIdx    int

	skipQuiets bool
}

// NewMovePicker constructs a picker for the current node. prevMove is the
// move made to reach this node (used to look up the counter-move table);
// stack and pawnKey feed the continuation- and pawn-history terms of quiet
// scoring, which need to look back at the moves played at ply-1/2/4.
func NewMovePicker(b *position.Board, us int, h *History, stack *SearchStack, ply int, pawnKey Key, ttMove position.Move, prevMove position.Move) *MovePicker {
	mp := &MovePicker{b: b, us: us, h: h, stack: stack, ply: ply, pawnKey: pawnKey, ttMove: ttMove, stage: stageTT}
	mp.killer1, mp.killer2 = h.KillerMoves(ply)
	mp.counter = h.CounterMove(us, prevMove)
	return mp
}

// Next returns the next move to try, or ok=false once the picker is
// exhausted. When skipQuiets is true the picker moves straight from good
// captures to bad captures, matching the "noisy-only" request quiescence
// search and deep late-move pruning make.
func (mp *MovePicker) Next(skipQuiets bool) (position.Move, bool) {
	mp.skipQuiets = skipQuiets
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenerateCaptures
			if !mp.ttMove.IsNone() && mp.isLegal(mp.ttMove) {
				return mp.ttMove, true
			}

		case stageGenerateCaptures:
			mp.generateCaptures()
			mp.stage = stageGoodCaptures

		case stageGoodCaptures:
			if m, ok := mp.pickBestCapture(); ok {
				return m, true
			}
			if mp.skipQuiets {
				mp.stage = stageBadCaptures
			} else {
				mp.stage = stageKiller1
			}

		case stageKiller1:
			mp.stage = stageKiller2
			if mp.killerIsUsable(mp.killer1) {
				return mp.killer1, true
			}

		case stageKiller2:
			mp.stage = stageCounter
			if mp.killerIsUsable(mp.killer2) {
				return mp.killer2, true
			}

		case stageCounter:
			mp.stage = stageGenerateQuiets
			if mp.killerIsUsable(mp.counter) && mp.counter != mp.killer1 && mp.counter != mp.killer2 {
				return mp.counter, true
			}

		case stageGenerateQuiets:
			mp.generateQuiets()
			mp.stage = stageQuiets

		case stageQuiets:
			if m, ok := mp.pickBestQuiet(); ok {
				return m, true
			}
			mp.stage = stageBadCaptures

		case stageBadCaptures:
			if m, ok := mp.pickBestBadCapture(); ok {
				return m, true
			}
			mp.stage = stageDone

		case stageDone:
			return position.NoMove, false
		}
	}
}

func (mp *MovePicker) killerIsUsable(m position.Move) bool {
	if m.IsNone() || m == mp.ttMove {
		return false
	}
	return mp.isLegal(m)
}

// isLegal reports whether m, a move remembered from another node (TT move,
// killer or counter), is a legal move in the picker's position.
func (mp *MovePicker) isLegal(m position.Move) bool {
	var buf [256]position.Move
	for _, legal := range mp.b.GenerateMovesInto(buf[:0]) {
		if legal == m {
			return true
		}
	}
	return false
}

func (mp *MovePicker) generateCaptures() {
	var buf [64]position.Move
	moves := mp.b.GenerateCapturesInto(buf[:0])
	mp.captures = mp.captures[:0]
	mp.badCaptures = mp.badCaptures[:0]
	for _, m := range moves {
		if m == mp.ttMove {
			continue
		}
		mp.captures = append(mp.captures, scoredMove{move: m, score: mp.scoreCapture(m)})
	}
}

// captureHistoryDivisor scales captureHistory (saturating at historyMax)
// down to the same rough magnitude as the mvvLva offsets so it nudges
// ordering between same-MVV-LVA captures instead of overriding it.
const captureHistoryDivisor = 64

func (mp *MovePicker) scoreCapture(m position.Move) int32 {
	victim := m.CapturedPiece().Type()
	attacker := m.MovedPiece().Type()
	if promo := m.PromotionPieceType(); promo != position.PieceTypeNone {
		return pickerPromotionOffset + mvvLva[m.CapturedPiece().Type()][promo]
	}
	captureHist := int32(mp.h.CaptureScore(mp.us, attacker, m.To(), victim))
	return mvvLva[victim][attacker] + captureHist/captureHistoryDivisor
}

func (mp *MovePicker) pickBestCapture() (position.Move, bool) {
	for {
		if len(mp.captures) == 0 {
			return position.NoMove, false
		}
		idx, best := 0, mp.captures[0].score
		for i, sm := range mp.captures {
			if sm.score > best {
				idx, best = i, sm.score
			}
		}
		sm := mp.captures[idx]
		mp.captures = append(mp.captures[:idx], mp.captures[idx+1:]...)

		if seeGreaterOrEqual(mp.b, sm.move, -1) {
			return sm.move, true
		}
		mp.badCaptures = append(mp.badCaptures, sm)
	}
}

func (mp *MovePicker) pickBestBadCapture() (position.Move, bool) {
	if len(mp.badCaptures) == 0 {
		return position.NoMove, false
	}
	idx, best := 0, mp.badCaptures[0].score
	for i, sm := range mp.badCaptures {
		if sm.score > best {
			idx, best = i, sm.score
		}
	}
	sm := mp.badCaptures[idx]
	mp.badCaptures = append(mp.badCaptures[:idx], mp.badCaptures[idx+1:]...)
	return sm.move, true
}

func (mp *MovePicker) generateQuiets() {
	var buf [128]position.Move
	moves := mp.b.GenerateQuietsInto(buf[:0])
	mp.quiets = mp.quiets[:0]
	for _, m := range moves {
		if m == mp.ttMove || m == mp.killer1 || m == mp.killer2 || m == mp.counter {
			continue
		}
		mp.quiets = append(mp.quiets, scoredMove{move: m, score: mp.scoreQuiet(m)})
	}
}

// scoreQuiet implements "mainHistory + 2*continuationHistory[0] +
// continuationHistory[1] + continuationHistory[3] + pawnHistory", where
// continuationHistory[k] looks back k+1 plies (offsets 1, 2, 4).
func (mp *MovePicker) scoreQuiet(m position.Move) int32 {
	piece := m.MovedPiece().Type()
	to := m.To()
	score := int32(mp.h.QuietScore(mp.us, m))
	score += 2 * int32(mp.continuationAt(1, piece, to))
	score += int32(mp.continuationAt(2, piece, to))
	score += int32(mp.continuationAt(4, piece, to))
	score += int32(mp.h.PawnScore(mp.pawnKey, piece, to))
	return score
}

// continuationAt returns the continuation-history score owned by the move
// played `offset` plies before the current one, or 0 if the stack doesn't
// reach that far back or no move was played there (root, or a null move).
func (mp *MovePicker) continuationAt(offset int, piece position.PieceType, to position.Square) int16 {
	idx := mp.ply - offset
	if mp.stack == nil || idx < 0 {
		return 0
	}
	prev := mp.stack.At(idx)
	if prev.CurrentMove.IsNone() {
		return 0
	}
	return mp.h.ContinuationScore(prev.InCheck, prev.IsCapture, prev.MovedPiece, prev.CurrentMove.To(), piece, to)
}

func (mp *MovePicker) pickBestQuiet() (position.Move, bool) {
	if len(mp.quiets) == 0 {
		return position.NoMove, false
	}
	idx, best := 0, mp.quiets[0].score
	for i, sm := range mp.quiets {
		if sm.score > best {
			idx, best = i, sm.score
		}
	}
	sm := mp.quiets[idx]
	mp.quiets = append(mp.quiets[:idx], mp.quiets[idx+1:]...)
	return sm.move, true
}
