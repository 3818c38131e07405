package ports

import (
	"context"
	"errors"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
)

// ErrTrackNotFound is returned by a TrackResolver when a query has no results.
var ErrTrackNotFound = errors.New("no track matched the query")

// TrackResolver turns a user query into a playable track.
// Resolve may block for seconds; callers must not hold a guild lock while calling it.
type TrackResolver interface {
	// Resolve returns the best match for the query, ErrTrackNotFound, or a lookup error.
	Resolve(ctx context.Context, query domain.SearchQuery) (*domain.Track, error)
}
