package engine

import "github.com/ovcore/goosecore/position"

// History tables live for the lifetime of a Worker. StartSearch creates new
// workers, each with a fresh NewHistory(), for every "go" command, so the
// tables carry move-ordering signal across the iterative-deepening
// iterations of one search but not from one search to the next. Each
// lazy-SMP thread owns its own tables rather than sharing one array.

const (
	historyMax     = 16384
	pawnHistorySize = 16384
	corrHistSize    = 16384
	corrHistMax     = 1024
)

// History bundles every move-ordering and eval-correction table a single
// search worker maintains. Continuation history is indexed by ply offset
// (1, 2, 3, 4, 6 plies back, per searchutil.go's counter-move chaining
// generalized to Stockfish's wider continuation window) then keyed by the
// moved piece and destination square of the move that made that ply.
type History struct {
	main         [2][64][64]int16
	capture      [2][7][64][7]int16
	continuation [2][2][7][64]*contHistEntry // [inCheck][isCapture][piece][to]
	pawn         [pawnHistorySize][7][64]int16
	counter      [2][64][64]position.Move
	killers      [MaxPly + 1][2]position.Move
	correction   [2][corrHistSize]int16
}

type contHistEntry struct {
	table [7][64]int16
}

// NewHistory allocates a zeroed history set, wiring up the continuation
// history's lazily-created per-(piece,square) tables.
func NewHistory() *History {
	h := &History{}
	return h
}

func (h *History) Clear() {
	*h = History{}
}

func bonusGravity(score, bonus int32) int16 {
	clamped := bonus
	if clamped > historyMax {
		clamped = historyMax
	}
	if clamped < -historyMax {
		clamped = -historyMax
	}
	v := score + clamped - score*abs32(clamped)/historyMax
	return int16(v)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// UpdateQuietHistory applies the gravity-style update from searchutil.go's
// incrementHistoryScore/decrementHistoryScore, generalized to a single signed
// bonus so failing quiets and the one beta-cutoff move share a code path.
func (h *History) UpdateQuietHistory(us int, m position.Move, bonus int32) {
	from, to := m.From(), m.To()
	cur := h.main[us][from][to]
	h.main[us][from][to] = bonusGravity(int32(cur), bonus)
}

func (h *History) QuietScore(us int, m position.Move) int16 {
	return h.main[us][m.From()][m.To()]
}

func (h *History) UpdateCaptureHistory(us int, pieceType position.PieceType, to position.Square, capturedType position.PieceType, bonus int32) {
	cur := h.capture[us][pieceType][to][capturedType]
	h.capture[us][pieceType][to][capturedType] = bonusGravity(int32(cur), bonus)
}

func (h *History) CaptureScore(us int, pieceType position.PieceType, to position.Square, capturedType position.PieceType) int16 {
	return h.capture[us][pieceType][to][capturedType]
}

// contHistSlot selects the per-(prevPiece,prevTo) table that the earlier move
// owns, then indexes that table by the *current* move's (piece,to) — the
// earlier move only picks which table to consult, it is not itself the cell.
func contHistSlot(h *History, prevInCheck bool, prevWasCapture bool, prevPiece position.PieceType, prevTo position.Square, piece position.PieceType, to position.Square) *int16 {
	ic, cap := 0, 0
	if prevInCheck {
		ic = 1
	}
	if prevWasCapture {
		cap = 1
	}
	entry := h.continuation[ic][cap][prevPiece][prevTo]
	if entry == nil {
		entry = &contHistEntry{}
		h.continuation[ic][cap][prevPiece][prevTo] = entry
	}
	return &entry.table[piece][to]
}

// UpdateContinuationHistory credits the current move (piece, to) in the table
// owned by the move made one ply (or more) earlier (prevPiece, prevTo), per
// the stack's continuation chain, so a quiet that follows a known-good setup
// move keeps scoring well.
func (h *History) UpdateContinuationHistory(prevInCheck, prevWasCapture bool, prevPiece position.PieceType, prevTo position.Square, piece position.PieceType, to position.Square, bonus int32) {
	slot := contHistSlot(h, prevInCheck, prevWasCapture, prevPiece, prevTo, piece, to)
	*slot = bonusGravity(int32(*slot), bonus)
}

func (h *History) ContinuationScore(prevInCheck, prevWasCapture bool, prevPiece position.PieceType, prevTo position.Square, piece position.PieceType, to position.Square) int16 {
	ic, cap := 0, 0
	if prevInCheck {
		ic = 1
	}
	if prevWasCapture {
		cap = 1
	}
	entry := h.continuation[ic][cap][prevPiece][prevTo]
	if entry == nil {
		return 0
	}
	return entry.table[piece][to]
}

func pawnHistoryIndex(pawnKey Key) int {
	return int(pawnKey % pawnHistorySize)
}

func (h *History) UpdatePawnHistory(pawnKey Key, piece position.PieceType, to position.Square, bonus int32) {
	idx := pawnHistoryIndex(pawnKey)
	cur := h.pawn[idx][piece][to]
	h.pawn[idx][piece][to] = bonusGravity(int32(cur), bonus)
}

func (h *History) PawnScore(pawnKey Key, piece position.PieceType, to position.Square) int16 {
	return h.pawn[pawnHistoryIndex(pawnKey)][piece][to]
}

// SetCounterMove and CounterMove replace searchutil.go's storeCounter /
// counterMove[side][from][to] table verbatim, just keyed per worker.
func (h *History) SetCounterMove(us int, prevMove, reply position.Move) {
	if prevMove.IsNone() {
		return
	}
	h.counter[us][prevMove.From()][prevMove.To()] = reply
}

func (h *History) CounterMove(us int, prevMove position.Move) position.Move {
	if prevMove.IsNone() {
		return position.NoMove
	}
	return h.counter[us][prevMove.From()][prevMove.To()]
}

// Killers holds at most two quiet refutations per ply, pushed in
// most-recent-first order exactly like a classic two-slot killer table.
func (h *History) AddKiller(ply int, m position.Move) {
	if ply > MaxPly {
		return
	}
	if h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

func (h *History) KillerMoves(ply int) (position.Move, position.Move) {
	if ply > MaxPly {
		return position.NoMove, position.NoMove
	}
	return h.killers[ply][0], h.killers[ply][1]
}

// ClearKillers drops killers for one ply, so stale refutations from an
// unrelated line stop influencing move ordering at that ply.
func (h *History) ClearKillers(ply int) {
	if ply > MaxPly {
		return
	}
	h.killers[ply][0] = position.NoMove
	h.killers[ply][1] = position.NoMove
}

func correctionIndex(key Key) int {
	return int(key % corrHistSize)
}

// CorrectionHistory tracks, per side and a coarse position hash, the running
// average gap between static eval and the search's final score, so the
// static evaluation adapter can nudge its raw output toward what search has
// been finding for similar pawn/piece structures.
func (h *History) UpdateCorrection(us int, key Key, bonus int32) {
	idx := correctionIndex(key)
	cur := int32(h.correction[us][idx])
	updated := cur + bonus - cur*abs32(bonus)/corrHistMax
	if updated > corrHistMax {
		updated = corrHistMax
	}
	if updated < -corrHistMax {
		updated = -corrHistMax
	}
	h.correction[us][idx] = int16(updated)
}

func (h *History) CorrectionValue(us int, key Key) int32 {
	return int32(h.correction[us][correctionIndex(key)])
}
