package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerStateRepository owns the per-guild player states.
// It does not serialize work on a state; callers hold the guild's lock.
type PlayerStateRepository interface {
	// Get returns the PlayerState for the given guild, or nil if not exists.
	Get(guildID snowflake.ID) *PlayerState

	// Save stores the PlayerState.
	Save(state *PlayerState)

	// Delete removes the PlayerState for the given guild.
	Delete(guildID snowflake.ID)

	// Reset removes the PlayerState and bumps the guild's stop generation.
	Reset(guildID snowflake.ID)

	// Generation returns how many times the guild has been reset.
	Generation(guildID snowflake.ID) uint64
}
