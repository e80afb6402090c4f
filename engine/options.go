package engine

import "github.com/ovcore/goosecore/position"

// Options holds everything the UCI front end can configure, replacing the
// package-level globals (TT, timeHandler, GlobalStop) the teacher used. It is
// constructed once by cmd/uci and passed into NewEngine explicitly, so tests
// can run several independent engines in the same process.
type Options struct {
	Threads int
	HashMB  int
	MultiPV int

	SyzygyProbeLimit int
	SyzygyProbeDepth int
	Syzygy50MoveRule bool

	SkillLevel       int // 0-20; 20 disables throttling
	UCILimitStrength bool
	UCIElo           int

	// TablebaseProbe is an external collaborator hook; spec §1 excludes TB
	// probing from the core, so this defaults to a no-op that always misses.
	TablebaseProbe func(pos *position.Board, rule50 int) (wdl int, ok bool)
}

// DefaultOptions returns the option set a freshly started engine runs with.
func DefaultOptions() Options {
	return Options{
		Threads:          1,
		HashMB:           16,
		MultiPV:          1,
		SyzygyProbeLimit: 0,
		SyzygyProbeDepth: 1,
		Syzygy50MoveRule: true,
		SkillLevel:       20,
		UCILimitStrength: false,
		UCIElo:           1320,
		TablebaseProbe:   func(*position.Board, int) (int, bool) { return 0, false },
	}
}

// Limits carries one search request's stopping conditions, mirroring the
// UCI "go" command's token set (spec §6 Inputs).
type Limits struct {
	Time       [2]int // milliseconds remaining, indexed by Color
	Inc        [2]int
	MovesToGo  int
	Depth      int
	Nodes      uint64
	MoveTime   int // fixed time for this move, milliseconds
	Mate       int // search for mate in N
	Perft      int
	Infinite   bool
	SearchMoves []position.Move
	StartTime  int64 // unix millis, stamped by the caller
}

// HasTimeLimit reports whether the search is bound by the game clock
// (remaining time and increment). It is false whenever infinite, movetime,
// depth, nodes or mate is given.
func (l Limits) HasTimeLimit() bool {
	return !l.Infinite && l.MoveTime == 0 && l.Depth == 0 && l.Nodes == 0 && l.Mate == 0
}
