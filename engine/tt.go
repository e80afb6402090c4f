package engine

import (
	"math/bits"
	"sync/atomic"

	"github.com/ovcore/goosecore/position"
)

// Bound classifies how a stored value relates to the search window that produced it.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundUpper
	BoundLower
	BoundExact
)

const (
	clusterSize        = 3
	generationDelta     = 8
	generationCycle     = 255 + generationDelta
	generationMask      = 255 &^ (generationDelta - 1)
)

// ttEntry is the packed record stored per slot. The teacher's TTEntry carried a
// full gm.Move and int16 score in an unpacked Go struct rather than the
// reference's literal 10 bytes; we keep that shape (clarity over byte-packing
// in a language where struct padding, not manual bit-packing, is idiomatic)
// but add the key fragment, generation/bound/pv byte, and eval16 the teacher's
// version didn't carry.
type ttEntry struct {
	keyFragment uint16
	move        position.Move
	value       int16
	eval        int16
	depth8      int8
	genBound8   uint8
}

func (e *ttEntry) bound() Bound   { return Bound(e.genBound8 & 0x3) }
func (e *ttEntry) isPV() bool     { return e.genBound8&0x4 != 0 }
func (e *ttEntry) generation() uint8 { return e.genBound8 &^ 0x7 }

// TranspositionTable is a contiguous array of fixed-size clusters shared by every
// search worker. Entries are read and written without locks: torn reads are
// tolerated because the key fragment acts as a checksum and a corrupted entry
// at worst causes a spurious re-search, exactly per spec §4.1/§5.
type TranspositionTable struct {
	clusters     []ttCluster
	clusterCount uint64
	generation   uint8
}

type ttCluster [clusterSize]ttEntry

// NewTranspositionTable allocates a table sized to hold approximately mb megabytes.
func NewTranspositionTable(mb int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(mb)
	return tt
}

// Resize frees and reallocates the table. The caller must guarantee no search
// is in progress, matching the reference's resize(mbSize) contract.
func (tt *TranspositionTable) Resize(mb int) {
	if mb < 1 {
		mb = 1
	}
	bytesTotal := uint64(mb) * 1024 * 1024
	clusterBytes := uint64(clusterSize) * 16 // approx entry footprint, cache-line-ish
	count := bytesTotal / clusterBytes
	if count == 0 {
		count = 1
	}
	tt.clusterCount = count
	tt.clusters = make([]ttCluster, count)
	tt.generation = 0
}

// Clear zeroes every entry without changing the allocation.
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		tt.clusters[i] = ttCluster{}
	}
	tt.generation = 0
}

// NewSearch bumps the generation counter, per spec's GENERATION_DELTA = 8 (mod 256).
func (tt *TranspositionTable) NewSearch() {
	tt.generation = (tt.generation + generationDelta) & 0xFF
}

func (tt *TranspositionTable) clusterIndex(key Key) uint64 {
	hi, _ := bits.Mul64(key, tt.clusterCount)
	return hi
}

func keyFragment(key Key) uint16 { return uint16(key) }

// Probe scans the key's cluster for a matching fragment. When no entry matches,
// it returns the replacement victim: the entry minimizing
// depth - ((GENERATION_CYCLE + generation - stored_generation) & GENERATION_MASK) * 2,
// ties broken by the first slot.
func (tt *TranspositionTable) Probe(key Key) (entry *ttEntry, found bool) {
	if len(tt.clusters) == 0 {
		return nil, false
	}
	cluster := &tt.clusters[tt.clusterIndex(key)]
	frag := keyFragment(key)

	victim := &cluster[0]
	victimScore := replacementScore(&cluster[0], tt.generation)
	for i := range cluster {
		e := &cluster[i]
		if e.keyFragment == frag && e.genBound8 != 0 {
			return e, true
		}
		if i > 0 {
			if s := replacementScore(e, tt.generation); s < victimScore {
				victimScore = s
				victim = e
			}
		}
	}
	return victim, false
}

func replacementScore(e *ttEntry, generation uint8) int {
	age := (generationCycle + int(generation) - int(e.generation())) & generationMask
	return int(e.depth8) - age*2
}

// Save writes (or refreshes) an entry for key. It overwrites the victim slot
// returned by a prior Probe unless the existing entry is a better keeper: the
// reference's rule is "overwrite iff bound is EXACT, the fragment differs (a
// collision slot, i.e. nothing useful to lose), or depth+2*pv+4 exceeds the
// stored depth minus twice its relative age". An existing best move survives
// a move-less save against the same key.
func (tt *TranspositionTable) Save(key Key, value Value, isPV bool, bound Bound, depth Depth, move position.Move, eval Value) {
	if len(tt.clusters) == 0 {
		return
	}
	entry, found := tt.Probe(key)
	frag := keyFragment(key)

	if found && move.IsNone() {
		move = entry.move
	}
	if found && bound != BoundExact {
		relAge := (generationCycle + int(tt.generation) - int(entry.generation())) & generationMask
		pvBonus := 0
		if isPV {
			pvBonus = 2
		}
		if int(depth-DepthOffset)+pvBonus+4 <= int(entry.depth8)-relAge*2 {
			return
		}
	}

	d8 := int8(depth - DepthOffset)
	pvBit := uint8(0)
	if isPV {
		pvBit = 0x4
	}

	entry.keyFragment = frag
	entry.move = move
	entry.value = int16(value)
	entry.eval = int16(eval)
	entry.depth8 = d8
	entry.genBound8 = tt.generation | pvBit | uint8(bound)
}

// Hashfull samples the first 1000 clusters' first entries and reports, in
// per-mille, how many carry the current generation and a non-NONE bound.
func (tt *TranspositionTable) Hashfull() int {
	if len(tt.clusters) == 0 {
		return 0
	}
	sample := 1000
	if uint64(sample) > tt.clusterCount {
		sample = int(tt.clusterCount)
	}
	full := 0
	for i := 0; i < sample; i++ {
		e := &tt.clusters[i][0]
		if e.generation() == tt.generation && e.bound() != BoundNone {
			full++
		}
	}
	if sample == 0 {
		return 0
	}
	return full * 1000 / sample
}

// valueToTT adjusts a mate/TB score to be ply-independent before storing.
func valueToTT(v Value, ply int) Value {
	if v >= ValueTBWinInMaxPly {
		return v + Value(ply)
	}
	if v <= ValueTBLossInMaxPly {
		return v - Value(ply)
	}
	return v
}

// valueFromTT inverts valueToTT on retrieval, downgrading a mate score to the
// TB-win-in-max-ply boundary when the 50-move counter is close enough to 100
// that the reported mate would be a lie.
func valueFromTT(v Value, ply int, rule50 int) Value {
	if v == ValueNone {
		return ValueNone
	}
	if v >= ValueTBWinInMaxPly {
		if v >= ValueMateInMaxPly && ValueMate-v > Value(100-rule50) {
			return ValueTBWinInMaxPly - 1
		}
		return v - Value(ply)
	}
	if v <= ValueTBLossInMaxPly {
		if v <= ValueMatedInMaxPly && ValueMate+v > Value(100-rule50) {
			return -ValueTBWinInMaxPly + 1
		}
		return v + Value(ply)
	}
	return v
}

// AtomicStopFlag is the shared "abandon ship" signal every worker polls. It is
// read with relaxed ordering inside the hot loop (an ordinary atomic load on
// most architectures Go targets) and set with release semantics by Stop().
type AtomicStopFlag struct {
	flag atomic.Bool
}

func (s *AtomicStopFlag) Set()         { s.flag.Store(true) }
func (s *AtomicStopFlag) Reset()       { s.flag.Store(false) }
func (s *AtomicStopFlag) IsSet() bool  { return s.flag.Load() }
