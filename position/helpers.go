package position

import "math/bits"

// CastlingRights reports the current castling-rights bitmask.
func (b *Board) CastlingRights() CastlingRights { return b.castlingRights }

// Clone returns a value copy of the board. Board holds no pointers or slices,
// so a plain copy is a safe, independent snapshot — used to hand each search
// worker its own root position.
func (b *Board) Clone() Board { return *b }

// NonPawnMaterialCount returns the number of knights, bishops, rooks and
// queens belonging to the given side. Used by null-move pruning's zugzwang
// guard (a side with no such pieces left is skipped).
func (b *Board) NonPawnMaterialCount(c Color) int {
    idx := int(c)
    return bits.OnesCount64(b.knights[idx] | b.bishops[idx] | b.rooks[idx] | b.queens[idx])
}

// PieceCount returns the total number of pieces of both colors on the board,
// used to gate tablebase-cardinality checks.
func (b *Board) PieceCount() int {
    return bits.OnesCount64(b.occupancy[White] | b.occupancy[Black])
}

// PawnKey returns a small hash over pawn placement, used to index the
// pawn-structure and correction history tables.
func (b *Board) PawnKey() uint64 {
    return zobristPawnKey(b.pawns[White], b.pawns[Black])
}

// IsCapture reports whether m captures a piece (including en passant) on b.
func IsCapture(m Move, b *Board) bool {
    if m.CapturedPiece() != NoPiece {
        return true
    }
    return m.Flags() == FlagEnPassant
}

// IsPromotion reports whether m promotes a pawn.
func IsPromotion(m Move) bool { return m.PromotionPiece() != NoPiece }
