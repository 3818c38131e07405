package infrastructure

import (
	"sync"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// MemoryRepository is an in-memory implementation of PlayerStateRepository.
// Generations outlive the states they guard so a stop is never forgotten.
type MemoryRepository struct {
	mu          sync.RWMutex
	states      map[snowflake.ID]*domain.PlayerState
	generations map[snowflake.ID]uint64
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		states:      make(map[snowflake.ID]*domain.PlayerState),
		generations: make(map[snowflake.ID]uint64),
	}
}

// Get returns the PlayerState for the given guild, or nil if not exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.states[guildID]
}

// Save stores the PlayerState.
func (r *MemoryRepository) Save(state *domain.PlayerState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state.GetGuildID()] = state
}

// Delete removes the PlayerState for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, guildID)
}

// Reset removes the PlayerState and bumps the guild's generation.
func (r *MemoryRepository) Reset(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, guildID)
	r.generations[guildID]++
}

// Generation returns how many times the guild has been reset.
func (r *MemoryRepository) Generation(guildID snowflake.ID) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.generations[guildID]
}

// Count returns the number of player states (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.states)
}

// Ensure MemoryRepository implements PlayerStateRepository.
var _ domain.PlayerStateRepository = (*MemoryRepository)(nil)
