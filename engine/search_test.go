package engine

import (
	"testing"
	"time"

	"github.com/ovcore/goosecore/position"
)

func newTestWorker(t *testing.T, fen string) *Worker {
	t.Helper()
	b, err := position.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN %q: %v", fen, err)
	}
	opts := DefaultOptions()
	return NewWorker(0, b, NewTranspositionTable(1), &AtomicStopFlag{}, &opts, nil)
}

func TestSearchScoreStaysWithinBounds(t *testing.T) {
	w := newTestWorker(t, position.Startpos)
	score, _ := w.Search(5, nil)
	if score <= -ValueInfinite || score >= ValueInfinite {
		t.Fatalf("score %d outside (-Infinite, Infinite)", score)
	}
}

func TestFoolsMateFindsMateInOne(t *testing.T) {
	w := newTestWorker(t, "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2")
	score, move := w.Search(4, nil)
	want, err := position.ParseUCIMove(w.b, "d8h4")
	if err != nil {
		t.Fatalf("parse expected move: %v", err)
	}
	if move != want {
		t.Fatalf("expected bestmove d8h4, got %v", move)
	}
	if score < MateIn(1) {
		t.Fatalf("expected a mate-in-1 score, got %d", score)
	}
}

func TestBackRankMateFindsMateInOne(t *testing.T) {
	w := newTestWorker(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	score, move := w.Search(4, nil)
	want, err := position.ParseUCIMove(w.b, "a1a8")
	if err != nil {
		t.Fatalf("parse expected move: %v", err)
	}
	if move != want {
		t.Fatalf("expected bestmove a1a8, got %v", move)
	}
	if score < MateIn(1) {
		t.Fatalf("expected a mate-in-1 score, got %d", score)
	}
}

func TestStalemateScoresDraw(t *testing.T) {
	w := newTestWorker(t, "7k/8/6Q1/8/8/8/8/K7 b - - 0 1")
	if !w.b.InStalemate() {
		t.Fatalf("expected position to be a stalemate")
	}
	score, move := w.Search(4, nil)
	if score != ValueDraw {
		t.Fatalf("expected ValueDraw, got %d", score)
	}
	if move != position.NoMove {
		t.Fatalf("expected no bestmove from a stalemated root, got %v", move)
	}
}

func TestQueenTakesF7TacticScoresWinning(t *testing.T) {
	w := newTestWorker(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	score, move := w.Search(6, nil)
	want, err := position.ParseUCIMove(w.b, "h5f7")
	if err != nil {
		t.Fatalf("parse expected move: %v", err)
	}
	if move != want {
		t.Fatalf("expected bestmove h5f7, got %v", move)
	}
	if score < 300 {
		t.Fatalf("expected score >= 300cp, got %d", score)
	}
}

func TestHorizonCaptureIsAnsweredByRecapture(t *testing.T) {
	// After exd5 material is level, but Black's cxd5 wins the pawn back and
	// leaves Black a pawn up: qsearch (scoring from Black's side) must walk
	// the exchange out to that value instead of standing pat at level material.
	w := newTestWorker(t, "4k3/8/2p5/3p4/4P3/8/8/4K3 w - - 0 1")
	m, err := position.ParseUCIMove(w.b, "e4d5")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}
	undo := w.b.Apply(m)
	defer undo()

	ss := w.stack.At(0)
	score := w.quiescence(-ValueInfinite, ValueInfinite, ss, DepthQSChecks)
	if score < Value(pieceValueMG[position.PieceTypePawn]/2) {
		t.Fatalf("expected qsearch to find the recapture (about a pawn up for Black) rather than stand pat at level material, got %d", score)
	}
}

func TestQuiescenceOnQuietPositionMatchesStaticEval(t *testing.T) {
	w := newTestWorker(t, position.Startpos)
	ss := w.stack.At(0)
	eval := CorrectedEvaluate(w.b, w.history, w.us(), w.b.PawnKey())
	score := w.quiescence(-ValueInfinite, ValueInfinite, ss, DepthQSChecks)
	if score != eval {
		t.Fatalf("expected qsearch on a quiet position to equal static eval %d, got %d", eval, score)
	}
}

func TestIterativeDeepeningCompletedDepthIncreasesByOne(t *testing.T) {
	w := newTestWorker(t, position.Startpos)
	lastDepth := 0
	_, _ = w.Search(4, func(depth int, score Value, pv []position.Move, nodes uint64) {
		if depth != lastDepth+1 {
			t.Fatalf("expected depth to increase by exactly 1, went from %d to %d", lastDepth, depth)
		}
		lastDepth = depth
	})
	if lastDepth != 4 {
		t.Fatalf("expected iterative deepening to complete through depth 4, got %d", lastDepth)
	}
}

func TestStopFlagHaltsSearchPromptly(t *testing.T) {
	b := position.MustParseFEN(position.Startpos)
	opts := DefaultOptions()
	stop := &AtomicStopFlag{}
	w := NewWorker(0, &b, NewTranspositionTable(1), stop, &opts, nil)
	stop.Set()

	done := make(chan struct{})
	go func() {
		w.Search(64, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("search did not honor the stop flag within a bounded number of node checks")
	}
}
