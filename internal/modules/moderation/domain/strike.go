package domain

import (
	"time"
)

// Strike is one recorded offense.
type Strike struct {
	At    time.Time
	Level int
}

// Expired reports whether the strike no longer counts at now.
func (s Strike) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(s.At) >= window
}

// History is a user's strikes in the order they were recorded.
// It is not safe for concurrent use; callers serialize access per user.
type History struct {
	strikes []Strike
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Prune drops strikes that expired at now and returns how many were dropped.
func (h *History) Prune(now time.Time, window time.Duration) int {
	kept := h.strikes[:0]
	for _, s := range h.strikes {
		if !s.Expired(now, window) {
			kept = append(kept, s)
		}
	}
	removed := len(h.strikes) - len(kept)
	clear(h.strikes[len(kept):])
	h.strikes = kept
	return removed
}

// Append records a strike.
func (h *History) Append(s Strike) {
	h.strikes = append(h.strikes, s)
}

// Len returns the number of recorded strikes.
func (h *History) Len() int {
	return len(h.strikes)
}

// IsEmpty reports whether no strikes are recorded.
func (h *History) IsEmpty() bool {
	return len(h.strikes) == 0
}

// Strikes returns a copy of the recorded strikes.
func (h *History) Strikes() []Strike {
	return append([]Strike(nil), h.strikes...)
}

// Last returns the most recent strike.
func (h *History) Last() (Strike, bool) {
	if len(h.strikes) == 0 {
		return Strike{}, false
	}
	return h.strikes[len(h.strikes)-1], true
}
