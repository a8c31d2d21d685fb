package session

import "sync/atomic"

// Clock issues the sequence numbers that order a session's actions.
//
// Numbers are strictly increasing and never reused, even after an undo, so a
// seq names one action for the life of the session. A restored session
// resumes its clock from the highest persisted seq.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at start; the next seq is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued seq.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
