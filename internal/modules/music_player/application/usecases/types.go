package usecases

import (
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Track is an alias for domain.Track.
type Track = domain.Track

// Phase is an alias for domain.Phase.
type Phase = domain.Phase

// PlayerStateRepository is an alias for domain.PlayerStateRepository.
type PlayerStateRepository = domain.PlayerStateRepository

// Phases shown by the presentation layer.
const (
	PhaseIdle    = domain.PhaseIdle
	PhasePlaying = domain.PhasePlaying
	PhasePaused  = domain.PhasePaused
)
