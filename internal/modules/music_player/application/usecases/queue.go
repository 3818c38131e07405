package usecases

import (
	"context"

	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// QueueListInput contains the input for the QueueList use case.
type QueueListInput struct {
	GuildID snowflake.ID
}

// QueueEntry is one pending track and its 1-indexed position.
type QueueEntry struct {
	Position int
	Track    *domain.Track
}

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	CurrentTrack *domain.Track // nil if nothing is playing
	Phase        domain.Phase
	Entries      []QueueEntry
}

// IsEmpty reports whether no tracks are pending.
func (o *QueueListOutput) IsEmpty() bool {
	return len(o.Entries) == 0
}

// QueueService handles read-only queue operations.
type QueueService struct {
	repo  domain.PlayerStateRepository
	locks *keylock.Locker[snowflake.ID]
}

// NewQueueService creates a new QueueService.
func NewQueueService(
	repo domain.PlayerStateRepository,
	locks *keylock.Locker[snowflake.ID],
) *QueueService {
	return &QueueService{
		repo:  repo,
		locks: locks,
	}
}

// List returns the pending tracks in play order.
// A guild without a player yields an empty result, not an error.
func (q *QueueService) List(_ context.Context, input QueueListInput) (*QueueListOutput, error) {
	unlock := q.locks.Lock(input.GuildID)
	defer unlock()

	state := q.repo.Get(input.GuildID)
	if state == nil {
		return &QueueListOutput{Phase: domain.PhaseIdle}, nil
	}

	tracks := state.Queue.List()
	entries := make([]QueueEntry, len(tracks))
	for i, track := range tracks {
		entries[i] = QueueEntry{Position: i + 1, Track: track}
	}

	return &QueueListOutput{
		CurrentTrack: state.CurrentTrack(),
		Phase:        state.Phase(),
		Entries:      entries,
	}, nil
}
