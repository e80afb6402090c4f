package position_test

import (
	"testing"
	"github.com/ovcore/goosecore/position"
)

func TestMoveGenerationInitial(t *testing.T) {
	board, err := position.ParseFEN(position.FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed for initial position: %v", err)
	}
	moves := board.GenerateMoves()
	if len(moves) != 20 {
		t.Errorf("Initial position: expected 20 moves, got %d", len(moves))
	}
}
