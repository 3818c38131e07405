package domain

// Phase is the playback state of a guild's player.
type Phase int

const (
	PhaseIdle    Phase = iota // Connected, nothing playing
	PhasePlaying              // A track is being played
	PhasePaused               // A track is loaded but paused
	PhaseStopped              // Torn down by stop; terminal for the session
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// HasActivePlayback reports whether the phase owns an audio player handle.
func (p Phase) HasActivePlayback() bool {
	return p == PhasePlaying || p == PhasePaused
}
