package position

import "errors"

// Startpos is the FEN string for the initial chess position.
const Startpos = FENStartPos

// MustParseFEN parses fen and panics on failure. Convenient for call sites
// (tests, the UCI front end's startup board) that already know the FEN is
// well-formed.
func MustParseFEN(fen string) Board {
    b, err := ParseFEN(fen)
    if err != nil {
        panic(err)
    }
    return *b
}

// Apply plays a move and returns an undo closure. It panics if the move is
// illegal — callers are expected to only apply moves drawn from the move
// generator or the move picker, never arbitrary UCI input.
func (b *Board) Apply(m Move) func() {
    ok, st := b.MakeMove(m)
    if !ok {
        panic("position: illegal move applied")
    }
    return func() { b.UnmakeMove(m, st) }
}

// ApplyNullMove performs a null move and returns the corresponding undo closure.
func (b *Board) ApplyNullMove() func() {
    st := b.MakeNullMove()
    return func() { b.UnmakeNullMove(st) }
}

// OurKingInCheck reports whether the side to move has its king in check.
func (b *Board) OurKingInCheck() bool { return b.InCheck(b.sideToMove) }

// ParseUCIMove resolves a UCI move string (e.g. "e2e4", "e7e8q") against the
// legal moves available in the current position, since the wire format
// carries only squares and a promotion letter while Move additionally packs
// the moved/captured piece and special-move flag.
func ParseUCIMove(b *Board, s string) (Move, error) {
    if len(s) < 4 || len(s) > 5 {
        return 0, errors.New("position: malformed move " + s)
    }
    from, err := algebraicToSquare(s[0:2])
    if err != nil {
        return 0, err
    }
    to, err := algebraicToSquare(s[2:4])
    if err != nil {
        return 0, err
    }
    var wantPromo PieceType
    if len(s) == 5 {
        switch s[4] {
        case 'q':
            wantPromo = PieceTypeQueen
        case 'r':
            wantPromo = PieceTypeRook
        case 'b':
            wantPromo = PieceTypeBishop
        case 'n':
            wantPromo = PieceTypeKnight
        default:
            return 0, errors.New("position: invalid promotion piece in " + s)
        }
    }
    for _, m := range b.GenerateLegalMoves() {
        if m.From() == from && m.To() == to && m.PromotionPieceType() == wantPromo {
            return m, nil
        }
    }
    return 0, errors.New("position: no legal move matches " + s)
}

func algebraicToSquare(alg string) (Square, error) {
    if len(alg) != 2 {
        return NoSquare, errors.New("position: invalid square " + alg)
    }
    file, rank := alg[0], alg[1]
    if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
        return NoSquare, errors.New("position: invalid square " + alg)
    }
    return Square(int(file-'a') + int(rank-'1')*8), nil
}
