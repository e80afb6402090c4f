package engine

import "fmt"

// CutStatistics collects counts for each pruning/cutoff mechanism for one
// worker's search. Kept from the teacher's cutstats.go almost verbatim (same
// field set, same names), but no longer a package-level global: each Worker
// owns its own instance (worker.go's stats field), consistent with
// SPEC_FULL.md's removal of package-level search state.
type CutStatistics struct {
	TTCutoffs         uint64
	NullMoveCutoffs   uint64
	StaticNullCutoffs uint64
	RazoringCutoffs   uint64
	FutilityPrunes    uint64
	LateMovePrunes    uint64
	BetaCutoffs       uint64
	QStandPatCutoffs  uint64
	QBetaCutoffs      uint64
}

// Add folds another worker's counters into this one, used to aggregate
// cut statistics across the whole thread pool for reporting.
func (c *CutStatistics) Add(other CutStatistics) {
	c.TTCutoffs += other.TTCutoffs
	c.NullMoveCutoffs += other.NullMoveCutoffs
	c.StaticNullCutoffs += other.StaticNullCutoffs
	c.RazoringCutoffs += other.RazoringCutoffs
	c.FutilityPrunes += other.FutilityPrunes
	c.LateMovePrunes += other.LateMovePrunes
	c.BetaCutoffs += other.BetaCutoffs
	c.QStandPatCutoffs += other.QStandPatCutoffs
	c.QBetaCutoffs += other.QBetaCutoffs
}

// Dump prints the counters as a series of UCI "info string" lines, the same
// shape as the teacher's dumpCutStats, now operating on an explicit value
// instead of a package-level global.
func (c CutStatistics) Dump() {
	fmt.Println("info string Cut statistics:")
	fmt.Printf("info string   TT cutoffs: %d\n", c.TTCutoffs)
	fmt.Printf("info string   Null-move cutoffs: %d\n", c.NullMoveCutoffs)
	fmt.Printf("info string   Static null cutoffs: %d\n", c.StaticNullCutoffs)
	fmt.Printf("info string   Razoring cutoffs: %d\n", c.RazoringCutoffs)
	fmt.Printf("info string   Futility prunes: %d\n", c.FutilityPrunes)
	fmt.Printf("info string   Late move prunes: %d\n", c.LateMovePrunes)
	fmt.Printf("info string   Beta cutoffs: %d\n", c.BetaCutoffs)
	fmt.Printf("info string   QStandPat cutoffs: %d\n", c.QStandPatCutoffs)
	fmt.Printf("info string   QBeta cutoffs: %d\n", c.QBetaCutoffs)
}
