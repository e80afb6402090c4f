package engine

import "github.com/ovcore/goosecore/position"

const fiftyMoveLimit = 100

// gameState is one ply's hash/rule50 snapshot, used for draw and repetition
// detection. Grounded on state_stack.go's State{Hash, Rule50}, generalized
// from a single package-level stack to a per-Worker one since lazy-SMP runs
// one independent board copy per thread.
type gameState struct {
	hash   Key
	rule50 int
}

// Worker holds everything one search thread owns exclusively: its own board
// copy, its own history tables, its own search stack and node counter. Only
// the transposition table and the shared stop flag are shared across
// workers, per spec §5's concurrency model and SPEC_FULL.md's replacement of
// the teacher's package-level globals (TT, timeHandler, GlobalStop,
// historyMove, counterMove, killerMoveTable) with explicit per-thread state
// plus one shared *TranspositionTable and *AtomicStopFlag.
type Worker struct {
	id      int
	b       *position.Board
	history *History
	stack   SearchStack
	states  []gameState

	tt       *TranspositionTable
	stop     *AtomicStopFlag
	opts     *Options
	nodes    uint64
	selDepth int
	stats    CutStatistics

	rootMoves      []RootMove
	rootDepth      int
	completedDepth int
}

// NewWorker constructs a worker that will search from a copy of root, sharing
// tt and stop with the rest of the pool. gameHistory carries the hashes of
// positions played before the search started (for repetition detection
// across the "go" boundary).
func NewWorker(id int, root *position.Board, tt *TranspositionTable, stop *AtomicStopFlag, opts *Options, gameHistory []Key) *Worker {
	b := *root
	w := &Worker{
		id:      id,
		b:       &b,
		history: NewHistory(),
		tt:      tt,
		stop:    stop,
		opts:    opts,
	}
	for _, h := range gameHistory {
		w.states = append(w.states, gameState{hash: h, rule50: 0})
	}
	w.pushState()
	w.rootMoves = NewRootMoves(w.b, nil)
	return w
}

// ScoreRootMoves runs a shallow search of the given depth over every root
// move independently, used by the skill-limiting path (spec §6) to obtain a
// MultiPV-shaped candidate list without running the full thread pool's
// iterative deepening at MultiPV>1. Grounded in rootmove.go's RootMove list
// plus the ordinary alphabeta entry point, since a full parallel MultiPV
// implementation is out of proportion to what skill-limiting alone needs.
func (w *Worker) ScoreRootMoves(depth int) {
	w.rootMoves = NewRootMoves(w.b, nil)
	rootIndex := len(w.states) - 1
	for i := range w.rootMoves {
		undo := w.applyMove(w.rootMoves[i].Move)
		child := w.stack.At(1)
		score := -w.alphabeta(-ValueInfinite, ValueInfinite, Depth(depth), 1, child, w.rootMoves[i].Move, false, false, position.NoMove, rootIndex)
		undo()
		w.rootMoves[i].Score = score
	}
	SortRootMoves(w.rootMoves)
}

func (w *Worker) us() int {
	if w.b.SideToMove() == position.White {
		return 0
	}
	return 1
}

func (w *Worker) pushState() {
	w.states = append(w.states, gameState{hash: w.b.ComputeZobrist(), rule50: w.b.HalfmoveClock()})
}

func (w *Worker) popState() {
	if len(w.states) == 0 {
		return
	}
	w.states = w.states[:len(w.states)-1]
}

func (w *Worker) applyMove(m position.Move) func() {
	undo := w.b.Apply(m)
	w.pushState()
	return func() {
		undo()
		w.popState()
	}
}

func (w *Worker) applyNullMove() func() {
	undo := w.b.ApplyNullMove()
	w.pushState()
	return func() {
		undo()
		w.popState()
	}
}

// isDraw reports whether the current position is drawn by the 50-move rule
// or threefold repetition, counting only repetitions from rootIndex onward
// as search-discovered (earlier ones are real game history).
func (w *Worker) isDraw(rootIndex int) bool {
	if len(w.states) == 0 {
		return false
	}
	cur := w.states[len(w.states)-1]
	if cur.rule50 >= fiftyMoveLimit {
		return true
	}
	count, firstIdx := w.repetitionInfo(cur.hash, cur.rule50)
	if count >= 2 {
		return true
	}
	return count >= 1 && firstIdx >= rootIndex && firstIdx != -1
}

// upcomingRepetition reports whether a repetition draw is reachable one ply
// from now, letting alpha be clamped to the draw score early (search.go's
// same-named check).
func (w *Worker) upcomingRepetition(rootIndex int) bool {
	if len(w.states) <= 1 {
		return false
	}
	cur := w.states[len(w.states)-1]
	start := len(w.states) - 1 - cur.rule50
	if start < 0 {
		start = 0
	}
	for i := len(w.states) - 2; i >= start; i-- {
		if w.states[i].hash == cur.hash && i >= rootIndex {
			return true
		}
	}
	return false
}

func (w *Worker) repetitionInfo(hash Key, rule50 int) (count int, firstIdx int) {
	firstIdx = -1
	if len(w.states) <= 1 {
		return 0, firstIdx
	}
	start := len(w.states) - 1 - rule50
	if start < 0 {
		start = 0
	}
	end := len(w.states) - 2
	for i := start; i <= end; i++ {
		if w.states[i].hash == hash {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}
	return count, firstIdx
}

// shouldCheckStop reports whether this is one of the periodic nodes at which
// a worker should poll the shared stop flag, avoiding an atomic load on
// every single node.
func (w *Worker) shouldCheckStop() bool { return w.nodes&2047 == 0 }

func (w *Worker) checkStop() bool { return w.stop.IsSet() }
