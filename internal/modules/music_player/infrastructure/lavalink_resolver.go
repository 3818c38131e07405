package infrastructure

import (
	"context"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/disgolink/v3/lavalink"
)

// lavalinkSearchPrefix makes Lavalink return YouTube search hits, best first.
const lavalinkSearchPrefix = "ytsearch"

// LavalinkResolver resolves queries through the Lavalink node's track loader.
type LavalinkResolver struct {
	adapter *LavalinkAdapter
}

// NewLavalinkResolver creates a resolver sharing the adapter's node connection.
func NewLavalinkResolver(adapter *LavalinkAdapter) *LavalinkResolver {
	return &LavalinkResolver{adapter: adapter}
}

// Resolve loads the query and returns the track it designates.
func (r *LavalinkResolver) Resolve(ctx context.Context, query domain.SearchQuery) (*domain.Track, error) {
	result, err := r.adapter.loadTracks(ctx, query.Target(lavalinkSearchPrefix))
	if err != nil {
		return nil, err
	}

	track, err := firstTrack(result)
	if err != nil {
		return nil, err
	}
	return convertTrack(track), nil
}

// convertTrack converts a Lavalink track to a domain track.
func convertTrack(track *lavalink.Track) *domain.Track {
	info := track.Info

	uri := info.Identifier
	if info.URI != nil && *info.URI != "" {
		uri = *info.URI
	}

	return &domain.Track{
		Title:      info.Title,
		Artist:     info.Author,
		SourceURI:  uri,
		Encoded:    track.Encoded,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}

var _ ports.TrackResolver = (*LavalinkResolver)(nil)
