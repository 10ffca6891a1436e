package rules

import "strings"

// Sequencer tracks whose turn it is, counts consecutive passes, and
// decides when a round has run out of plays. The turn order is fixed for
// the whole match; eliminated players stay listed and are skipped.
type Sequencer struct {
	order    []string
	current  int
	passes   int
	lastCall bool
}

// NewSequencer creates a sequencer over the fixed turn order, starting on
// the given player. An unknown first player falls back to the head of the
// order.
func NewSequencer(order []string, first string) *Sequencer {
	s := &Sequencer{order: append([]string(nil), order...)}
	s.SetCurrent(first)
	return s
}

// Order returns a copy of the fixed turn order.
func (s *Sequencer) Order() []string {
	return append([]string(nil), s.order...)
}

// Current returns the player whose turn it is.
func (s *Sequencer) Current() string {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[s.current]
}

// SetCurrent moves the turn to the named player. Returns false when the
// player is not in the order.
func (s *Sequencer) SetCurrent(id string) bool {
	id = strings.TrimSpace(id)
	for i, p := range s.order {
		if p == id {
			s.current = i
			return true
		}
	}
	return false
}

// ConsecutivePasses returns the current global pass count.
func (s *Sequencer) ConsecutivePasses() int {
	return s.passes
}

// RecordPlay resets the pass count: a card hit the table, so everyone gets
// a fresh chance to react.
func (s *Sequencer) RecordPlay() {
	s.passes = 0
}

// RecordPass counts one more turn that ended without a play.
func (s *Sequencer) RecordPass() {
	s.passes++
}

// StartRound resets per-round counters and seats the round leader.
func (s *Sequencer) StartRound(leader string) {
	s.passes = 0
	s.lastCall = false
	s.SetCurrent(leader)
}

// Advance is the outcome of one sequencing step.
type Advance struct {
	RoundOver bool
	Forced    bool // fail-safe: no active player found
	LastCall  bool // one-time notice that the closing lap has begun
	Next      string
}

// Advance finds the next actor or declares the round over.
//
// Passes are counted globally, not per-player-once: the round closes only
// after a full extra lap of passes (2x the active player count), so every
// player gets a chance to react to late plays before the round ends.
func (s *Sequencer) Advance(eliminated func(string) bool) Advance {
	active := 0
	for _, id := range s.order {
		if !eliminated(id) {
			active++
		}
	}
	if active == 0 {
		// Fail-safe: nobody left to act. Force the round closed rather
		// than hang; game-end checks should have caught this earlier.
		return Advance{RoundOver: true, Forced: true}
	}
	if s.passes >= active*2 {
		return Advance{RoundOver: true}
	}

	var adv Advance
	if s.passes == active && !s.lastCall {
		s.lastCall = true
		adv.LastCall = true
	}

	idx := s.current
	for i := 0; i < 2*len(s.order); i++ {
		idx = (idx + 1) % len(s.order)
		if !eliminated(s.order[idx]) {
			s.current = idx
			adv.Next = s.order[idx]
			return adv
		}
	}

	// No active player found; should be unreachable given the game-end
	// checks, so force the round closed rather than hang.
	return Advance{RoundOver: true, Forced: true}
}
