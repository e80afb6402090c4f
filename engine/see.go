package engine

import (
	"math/bits"

	"github.com/ovcore/goosecore/position"
)

// squareBB/knightAttackBB/kingAttackBB are local to the engine package rather
// than imported from position: position keeps its own attack tables
// unexported (knightMoves, kingMoves, pawnAttacks in movegen.go), and the
// teacher's own see.go already defined its own local KingMoves table rather
// than reaching into goosemg, so this follows the same precedent.
var squareBB [65]uint64
var knightAttackBB [64]uint64
var kingAttackBB [64]uint64

func init() {
	for sq := 0; sq < 65; sq++ {
		if sq < 64 {
			squareBB[sq] = uint64(1) << uint(sq)
		}
	}
	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas := [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for sq := 0; sq < 64; sq++ {
		f, r := sq%8, sq/8
		for _, d := range knightDeltas {
			nf, nr := f+d[0], r+d[1]
			if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				knightAttackBB[sq] |= squareBB[nr*8+nf]
			}
		}
		for _, d := range kingDeltas {
			nf, nr := f+d[0], r+d[1]
			if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				kingAttackBB[sq] |= squareBB[nr*8+nf]
			}
		}
	}
}

// pawnCaptureTargets returns the two single-bit attack targets (east, west
// from the mover's perspective) for a pawn sitting on bb, for the given color.
func pawnCaptureTargets(bb uint64, white bool) (east, west uint64) {
	const fileA = 0x0101010101010101
	const fileH = 0x8080808080808080
	if white {
		east = (bb &^ fileH) << 9
		west = (bb &^ fileA) << 7
	} else {
		east = (bb &^ fileA) >> 9
		west = (bb &^ fileH) >> 7
	}
	return
}

// seePieceValue mirrors the teacher's SeePieceValue table, reindexed to
// position.PieceType (Pawn=1 .. King=6).
var seePieceValue = [7]int{
	position.PieceTypeNone: 0,
	position.PieceTypePawn:   100,
	position.PieceTypeKnight: 300,
	position.PieceTypeBishop: 300,
	position.PieceTypeRook:   500,
	position.PieceTypeQueen:  900,
	position.PieceTypeKing:   5000,
}

// staticExchangeEval runs the classic gain-array swap-off for a capture (or
// promotion-capture) move and returns the net material result from the
// mover's point of view, exactly the algorithm in the teacher's see(), just
// driven by position.Board.Bitboards instead of dragontoothmg.Board.
func staticExchangeEval(b *position.Board, m position.Move) int {
	var gain [32]int
	depth := 0

	from, to := m.From(), m.To()
	white := m.MovedPiece().Color() == position.White

	whiteBB := b.WhiteBitboards()
	blackBB := b.BlackBitboards()

	var usBB, themBB position.Bitboards
	if white {
		usBB, themBB = whiteBB, blackBB
	} else {
		usBB, themBB = blackBB, whiteBB
	}

	attackers := attackersOf(to, usBB, themBB, white) | attackersOf(to, themBB, usBB, !white)

	targetType := m.CapturedPiece().Type()
	if targetType == position.PieceTypeNone {
		// en passant: the captured pawn isn't on the destination square.
		targetType = position.PieceTypePawn
	}
	attackerType := m.MovedPiece().Type()

	gain[depth] = seePieceValue[targetType]
	attackers &^= squareBB[from]

	sideToMove := !white
	attackerBB := squareBB[from]

	for attackerBB != 0 {
		depth++
		gain[depth] = seePieceValue[attackerType] - gain[depth-1]

		if maxInt(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attackers &^= attackerBB

		var bb uint64
		bb, attackerType = closestAttacker(b, attackers, to, sideToMove)
		attackerBB = bb
		sideToMove = !sideToMove
	}

	for x := depth - 1; x > 0; x-- {
		gain[x-1] = -maxInt(-gain[x-1], gain[x])
	}

	return gain[0]
}

func attackersOf(target position.Square, usBB, themBB position.Bitboards, white bool) uint64 {
	occAll := usBB.All | themBB.All

	rookXray := position.CalculateRookMoveBitboard(uint8(target), (usBB.All&^(usBB.Rooks|usBB.Queens))|(themBB.All&^(themBB.Rooks|themBB.Queens)))
	rookXray &^= usBB.All &^ (usBB.Rooks | usBB.Queens | themBB.Rooks | themBB.Queens)

	var pawnHits uint64
	for p := usBB.Pawns; p != 0; p &= p - 1 {
		sq := bits.TrailingZeros64(p)
		east, west := pawnCaptureTargets(squareBB[sq], white)
		if (east|west)&squareBB[target] != 0 {
			pawnHits |= squareBB[sq]
		}
	}

	bishopXray := position.CalculateBishopMoveBitboard(uint8(target), (usBB.All&^(usBB.Bishops|usBB.Queens|pawnHits))|themBB.All)
	bishopXray &^= usBB.All &^ (usBB.Bishops | usBB.Queens)

	hits := pawnHits
	hits |= rookXray & (usBB.Rooks | usBB.Queens)
	hits |= bishopXray & (usBB.Bishops | usBB.Queens)
	hits |= knightAttackBB[target] & usBB.Knights
	hits |= kingAttackBB[target] & usBB.Kings
	_ = occAll
	return hits
}

func closestAttacker(b *position.Board, attackers uint64, target position.Square, sideToMove bool) (uint64, position.PieceType) {
	whiteBB := b.WhiteBitboards()
	blackBB := b.BlackBitboards()
	var usBB position.Bitboards
	if sideToMove {
		usBB = whiteBB
	} else {
		usBB = blackBB
	}

	diag := position.CalculateBishopMoveBitboard(uint8(target), attackers) &^ (usBB.All &^ (usBB.Bishops | usBB.Queens))
	diag &= attackers

	orth := position.CalculateRookMoveBitboard(uint8(target), attackers) &^ (usBB.All &^ (usBB.Rooks | usBB.Queens))
	orth &= attackers

	east, west := pawnCaptureTargets(squareBB[target], !sideToMove)
	hits := ((east | west) | diag | orth | (knightAttackBB[target] & usBB.Knights)) & attackers

	return minAttacker(hits, usBB)
}

func minAttacker(attackers uint64, bb position.Bitboards) (uint64, position.PieceType) {
	switch {
	case attackers&bb.Pawns != 0:
		sub := attackers & bb.Pawns
		return squareBB[bits.TrailingZeros64(sub)], position.PieceTypePawn
	case attackers&bb.Knights != 0:
		sub := attackers & bb.Knights
		return squareBB[bits.TrailingZeros64(sub)], position.PieceTypeKnight
	case attackers&bb.Bishops != 0:
		sub := attackers & bb.Bishops
		return squareBB[bits.TrailingZeros64(sub)], position.PieceTypeBishop
	case attackers&bb.Rooks != 0:
		sub := attackers & bb.Rooks
		return squareBB[bits.TrailingZeros64(sub)], position.PieceTypeRook
	case attackers&bb.Queens != 0:
		sub := attackers & bb.Queens
		return squareBB[bits.TrailingZeros64(sub)], position.PieceTypeQueen
	case attackers&bb.Kings != 0:
		sub := attackers & bb.Kings
		return squareBB[bits.TrailingZeros64(sub)], position.PieceTypeKing
	}
	return 0, position.PieceTypeNone
}

// seeGreaterOrEqual reports whether the capture's static exchange result is
// at least threshold, used by the move picker and quiescence search's SEE
// pruning. It always computes the full exchange via staticExchangeEval.
func seeGreaterOrEqual(b *position.Board, m position.Move, threshold int) bool {
	return staticExchangeEval(b, m) >= threshold
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
