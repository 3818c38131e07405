package domain

import (
	"errors"
	"fmt"
	"time"
)

// Ladder is the sequence of timeout durations handed out for successive
// strikes inside the expiration window. Offenses beyond its length repeat
// the last entry.
type Ladder []time.Duration

// DefaultLadder escalates from thirty seconds to one hour.
var DefaultLadder = Ladder{
	30 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	time.Hour,
}

// ErrEmptyLadder is returned when a ladder has no steps.
var ErrEmptyLadder = errors.New("ladder must have at least one step")

// NewLadder validates durations and returns them as a Ladder.
// Steps must be positive and must never decrease.
func NewLadder(durations []time.Duration) (Ladder, error) {
	if len(durations) == 0 {
		return nil, ErrEmptyLadder
	}

	for i, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("ladder step %d must be positive, got %s", i+1, d)
		}
		if i > 0 && d < durations[i-1] {
			return nil, fmt.Errorf("ladder step %d (%s) is shorter than step %d (%s)",
				i+1, d, i, durations[i-1])
		}
	}

	return append(Ladder(nil), durations...), nil
}

// Level returns the ladder index for an offense with prior active strikes.
func (l Ladder) Level(prior int) int {
	return min(max(prior, 0), len(l)-1)
}

// Duration returns the timeout for a ladder level.
func (l Ladder) Duration(level int) time.Duration {
	return l[l.Level(level)]
}
