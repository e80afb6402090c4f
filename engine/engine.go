package engine

import "sync/atomic"

// ponderState tracks whether the current search was started in ponder mode; a
// "ponderhit" from the UCI front end clears it without touching the stop
// flag, per spec §6 ("ponderhit() clears pondering flag without stopping").
type ponderState struct {
	active atomic.Bool
}

func (p *ponderState) Set()    { p.active.Store(true) }
func (p *ponderState) Clear()  { p.active.Store(false) }
func (p *ponderState) Active() bool { return p.active.Load() }

// Ponderhit clears the pondering flag. It never sets the stop flag: the
// in-flight search keeps running exactly as if it had been a normal search
// from the start, per spec §6.
func (e *Engine) Ponderhit() {
	e.ponder.Clear()
}

// StartPondering marks the in-flight (or about-to-start) search as a ponder
// search, deferring the caller's time budget until Ponderhit/Stop.
func (e *Engine) StartPondering() {
	e.ponder.Set()
}

// IsPondering reports whether the engine is currently in ponder mode.
func (e *Engine) IsPondering() bool {
	return e.ponder.Active()
}

// NewGame resets all engine state carried across searches (the TT and
// per-game history), per the UCI "ucinewgame" command.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
	e.gameHistory = nil
}
