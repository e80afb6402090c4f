package engine

import (
	"testing"

	"github.com/ovcore/goosecore/position"
)

func TestSEEBishopForKnightRecapturedByQueen(t *testing.T) {
	b, err := position.ParseFEN("6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	m, err := position.ParseUCIMove(b, "c4e6")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}

	score := staticExchangeEval(b, m)
	if score != 0 {
		t.Fatalf("expected SEE score 0 (bishop for knight, recaptured by queen), got %d", score)
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	b, err := position.ParseFEN("8/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	m, err := position.ParseUCIMove(b, "e5d6")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}
	if m.Flags() != position.FlagEnPassant {
		t.Fatalf("expected en passant flag, got %d", m.Flags())
	}

	if !seeGreaterOrEqual(b, m, 0) {
		t.Fatalf("expected a free pawn capture to be SEE >= 0")
	}
}

func TestSEEWinningCaptureExceedsThreshold(t *testing.T) {
	b, err := position.ParseFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	m, err := position.ParseUCIMove(b, "e4d5")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}

	if !seeGreaterOrEqual(b, m, 400) {
		t.Fatalf("expected pawn takes undefended queen to clear a 400cp threshold")
	}
}

func TestSEELosingCaptureFailsThreshold(t *testing.T) {
	b, err := position.ParseFEN("4k3/8/4p3/3p4/4Q3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	m, err := position.ParseUCIMove(b, "e4d5")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}

	if seeGreaterOrEqual(b, m, 0) {
		t.Fatalf("expected queen takes pawn, recaptured by pawn, to lose material")
	}
}
