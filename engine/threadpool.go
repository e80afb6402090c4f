package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ovcore/goosecore/position"
)

// Engine coordinates a lazy-SMP thread pool: one Worker per configured
// thread, each running independent iterative deepening over its own board
// copy, cooperating only through the shared TranspositionTable and the
// shared stop flag. Grounded on spec §4.6/§5's worker model and
// other_examples/ChizhovVadim-CounterGo's lazysmp.go/searchserviceparallel.go
// shape (plain sync/sync-atomic coordination, no third-party concurrency
// library — documented in DESIGN.md as the correct ambient choice since
// nothing in the pack uses one). Replaces the teacher's single-threaded
// rootsearch() entirely.
type Engine struct {
	opts Options
	tt   *TranspositionTable
	stop *AtomicStopFlag

	mu          sync.Mutex
	searching   bool
	gameHistory []Key
	ponder      ponderState
}

// InfoEvent is one periodic progress report emitted during search, per
// spec §6's "info" event shape.
type InfoEvent struct {
	Depth    int
	SelDepth int
	MultiPV  int
	Score    Value
	IsMate   bool
	MateIn   int
	WDL      [3]int
	Nodes    uint64
	NPS      uint64
	Hashfull int
	TBHits   uint64
	TimeMS   int64
	PV       []position.Move
}

// SearchResult is returned to the caller once the pool stops.
type SearchResult struct {
	BestMove  position.Move
	PonderMove position.Move
	Score     Value
	Stats     CutStatistics
}

// NewEngine constructs a pool around a fresh TT sized per opts.HashMB.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts: opts,
		tt:   NewTranspositionTable(opts.HashMB),
		stop: &AtomicStopFlag{},
	}
}

// SetOptions updates engine configuration; HashMB changes resize the TT.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if opts.HashMB != e.opts.HashMB {
		e.tt.Resize(opts.HashMB)
	}
	e.opts = opts
}

// SetGameHistory records the Zobrist hashes of positions played before the
// current search (used for repetition detection across the "go" boundary,
// per worker.go's gameState seeding).
func (e *Engine) SetGameHistory(history []Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gameHistory = history
}

// Stop requests that any in-progress search halt at its next poll point.
func (e *Engine) Stop() {
	e.stop.Set()
}

// IsSearching reports whether a search is currently in flight.
func (e *Engine) IsSearching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searching
}

// StartSearch clones root across opts.Threads workers, runs iterative
// deepening on each concurrently, and returns the best-thread result once
// all workers stop (by limits, by Stop(), or by exhausting maxDepth).
// report is invoked from the main worker (id 0) only, on every completed
// iteration, per spec §4.6 ("the main thread ... periodic info events").
func (e *Engine) StartSearch(root *position.Board, limits Limits, gamePly int, report func(InfoEvent)) SearchResult {
	e.mu.Lock()
	e.searching = true
	e.stop.Reset()
	threads := e.opts.Threads
	if threads < 1 {
		threads = 1
	}
	e.tt.NewSearch()
	history := e.gameHistory
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.searching = false
		e.mu.Unlock()
	}()

	workers := make([]*Worker, threads)
	for i := 0; i < threads; i++ {
		workers[i] = NewWorker(i, root, e.tt, e.stop, &e.opts, history)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	var tm TimeManager
	if limits.HasTimeLimit() || limits.MoveTime > 0 {
		tm.Init(limits, workers[0].us(), gamePly)
	}

	legalCount := len(root.GenerateLegalMoves())

	var wg sync.WaitGroup
	results := make([]SearchResult, threads)

	for i, w := range workers {
		wg.Add(1)
		go func(idx int, worker *Worker) {
			defer wg.Done()

			var lastScore Value
			var prevAvg Value
			bestMove := position.NoMove

			score, move := worker.Search(maxDepth, func(depth int, s Value, pv []position.Move, nodes uint64) {
				bestMoveChanged := false
				if len(pv) > 0 {
					bestMoveChanged = pv[0] != bestMove && bestMove != position.NoMove
					bestMove = pv[0]
				}
				if idx == 0 {
					if report != nil {
						win, draw, loss := WDL(s, depth)
						isMate := s > ValueMateInMaxPly || s < ValueMatedInMaxPly
						mateIn := 0
						if isMate {
							if s > 0 {
								mateIn = (int(ValueMate-s) + 1) / 2
							} else {
								mateIn = -(int(ValueMate+s) + 1) / 2
							}
						}
						report(InfoEvent{
							Depth:    depth,
							SelDepth: worker.selDepth,
							MultiPV:  1,
							Score:    s,
							IsMate:   isMate,
							MateIn:   mateIn,
							Nodes:    worker.nodes,
							Hashfull: e.tt.Hashfull(),
							WDL:      [3]int{win, draw, loss},
							TimeMS:   tm.Elapsed().Milliseconds(),
							PV:       pv,
						})
					}
					if tm.optimum > 0 && limits.HasTimeLimit() && !e.ponder.Active() {
						exceeded := tm.OnIterationComplete(depth, lastScore, prevAvg, s, bestMoveChanged, threads, legalCount == 1)
						if exceeded || tm.MaximumReached() {
							e.stop.Set()
						}
					}
				}
				prevAvg = lastScore
				lastScore = s
			})

			results[idx] = SearchResult{BestMove: move, Score: score, Stats: worker.stats}
		}(i, w)
	}

	if limits.HasTimeLimit() || limits.MoveTime > 0 {
		go e.watchClock(&tm)
	}
	if limits.Nodes > 0 {
		go e.watchNodes(workers, limits.Nodes)
	}

	wg.Wait()

	best := selectBestThread(workers, results)

	if e.opts.SkillLevel < 20 {
		skillDepth := 1 + e.opts.SkillLevel
		if skillDepth > workers[0].completedDepth && workers[0].completedDepth > 0 {
			skillDepth = workers[0].completedDepth
		}
		if skillDepth < 1 {
			skillDepth = 1
		}
		workers[0].ScoreRootMoves(skillDepth)
		rng := rand.New(rand.NewSource(int64(root.ComputeZobrist())))
		best.BestMove = SkillLevel(workers[0].rootMoves, e.opts.SkillLevel, rng)
	}

	return best
}

// watchClock polls elapsed time against the hard maximum and sets stop
// when exceeded, covering the case where no iteration completes in time
// (e.g. depth-1 itself runs long).
func (e *Engine) watchClock(tm *TimeManager) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for !e.stop.IsSet() {
		<-ticker.C
		if e.ponder.Active() {
			continue
		}
		if tm.MaximumReached() {
			e.stop.Set()
			return
		}
	}
}

// watchNodes polls the summed node count across workers against a node
// limit, per spec §6's "nodes" limit input.
func (e *Engine) watchNodes(workers []*Worker, limit uint64) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for !e.stop.IsSet() {
		<-ticker.C
		var total uint64
		for _, w := range workers {
			total += w.nodes
		}
		if total >= limit {
			e.stop.Set()
			return
		}
	}
}

// selectBestThread implements spec §4.6's best-thread selection: prefer
// greater completedDepth, break ties by greater score, but prefer any
// worker whose score is a mate >= ValueMateInMaxPly when its depth is at
// least the main thread's.
func selectBestThread(workers []*Worker, results []SearchResult) SearchResult {
	best := 0
	var stats CutStatistics
	for i, w := range workers {
		stats.Add(w.stats)
		if i == best {
			continue
		}
		mainDepth := workers[best].completedDepth
		candDepth := w.completedDepth

		candIsMate := results[i].Score >= ValueMateInMaxPly
		bestIsMate := results[best].Score >= ValueMateInMaxPly

		switch {
		case candIsMate && candDepth >= mainDepth && results[i].Score > results[best].Score:
			best = i
		case !bestIsMate && candDepth > mainDepth:
			best = i
		case !bestIsMate && candDepth == mainDepth && results[i].Score > results[best].Score:
			best = i
		}
	}
	out := results[best]
	out.Stats = stats
	return out
}
