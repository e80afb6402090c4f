package engine

import (
	"testing"

	"github.com/ovcore/goosecore/position"
)

func TestTTRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := Key(0x1234567890abcdef)
	move := position.NewMove(position.Square(12), position.Square(28), position.WhitePawn, position.NoPiece, position.NoPiece, 0)

	tt.Save(key, Value(137), true, BoundExact, Depth(6), move, Value(100))

	entry, found := tt.Probe(key)
	if !found {
		t.Fatalf("expected probe to find the just-stored entry")
	}
	if entry.move != move {
		t.Fatalf("move mismatch: got %v want %v", entry.move, move)
	}
	if Value(entry.value) != 137 {
		t.Fatalf("value mismatch: got %d want 137", entry.value)
	}
	if entry.bound() != BoundExact {
		t.Fatalf("bound mismatch: got %v want BoundExact", entry.bound())
	}
}

func TestMateScoreRoundTrip(t *testing.T) {
	ply := 5
	// Mate scores count plies from the root, so a node at ply 5 only ever
	// holds mates at least 5 plies away.
	for _, v := range []Value{0, 100, -250, MateIn(5), MateIn(7), MatedIn(5), MatedIn(7)} {
		packed := valueToTT(v, ply)
		back := valueFromTT(packed, ply, 0)
		if back != v {
			t.Fatalf("round trip failed for v=%d: got back %d", v, back)
		}
	}
}

func TestTTClusterReplacementPrefersDeeperEntry(t *testing.T) {
	tt := NewTranspositionTable(1)

	var key Key = 0xabc
	idx := tt.clusterIndex(key)

	// Collect clusterSize distinct keys colliding on the same cluster index so
	// the cluster fills up and a later save must pick a replacement victim.
	keys := make([]Key, 0, clusterSize)
	for k := Key(1); len(keys) < clusterSize; k++ {
		if tt.clusterIndex(k) == idx {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		tt.Save(k, Value(0), false, BoundExact, Depth(1), position.NoMove, Value(0))
	}

	// A new key on the same cluster with a much higher depth should displace
	// the shallowest occupant rather than be silently dropped.
	var extra Key
	for k := keys[len(keys)-1] + 1; ; k++ {
		if tt.clusterIndex(k) == idx {
			extra = k
			break
		}
	}
	tt.Save(extra, Value(50), false, BoundExact, Depth(20), position.NoMove, Value(0))

	entry, found := tt.Probe(extra)
	if !found {
		t.Fatalf("expected the high-depth entry to be retrievable")
	}
	if Value(entry.value) != 50 {
		t.Fatalf("expected value 50, got %d", entry.value)
	}
}

func TestHashfullStartsEmpty(t *testing.T) {
	tt := NewTranspositionTable(1)
	if h := tt.Hashfull(); h != 0 {
		t.Fatalf("expected empty table hashfull 0, got %d", h)
	}
}
