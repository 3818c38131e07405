package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// ytdlpSearchPrefix asks yt-dlp for the single best YouTube hit.
const ytdlpSearchPrefix = "ytsearch1"

// ytdlpAudioFormat prefers formats Lavalink can pass through without transcoding.
const ytdlpAudioFormat = "ba[acodec^=opus]/ba[ext=m4a]/bestaudio/best"

type ytdlpRunner func(ctx context.Context, target string) ([]*ytdlp.ExtractedInfo, error)

// YtdlpResolver resolves queries by running yt-dlp.
type YtdlpResolver struct {
	run         ytdlpRunner
	installOnce sync.Once
	logger      *zap.Logger
}

// NewYtdlpResolver creates a resolver backed by the yt-dlp binary.
// The binary is downloaded on first use if it is not on PATH.
func NewYtdlpResolver(logger *zap.Logger) *YtdlpResolver {
	r := &YtdlpResolver{logger: logger}
	r.run = r.dumpJSON
	return r
}

// Resolve returns the first item yt-dlp extracts for the query.
func (r *YtdlpResolver) Resolve(ctx context.Context, query domain.SearchQuery) (*domain.Track, error) {
	infos, err := r.run(ctx, query.Target(ytdlpSearchPrefix))
	if err != nil {
		return nil, err
	}

	info := pickEntry(infos)
	if info == nil {
		return nil, ports.ErrTrackNotFound
	}

	track := trackFromInfo(info)
	if !track.IsValid() {
		return nil, fmt.Errorf("yt-dlp returned an incomplete entry for %q", query.Query)
	}
	return track, nil
}

func (r *YtdlpResolver) dumpJSON(ctx context.Context, target string) ([]*ytdlp.ExtractedInfo, error) {
	r.installOnce.Do(func() {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			r.logger.Warn("failed to install yt-dlp, relying on PATH", zap.Error(err))
		}
	})

	res, err := ytdlp.New().
		Format(ytdlpAudioFormat).
		NoCheckCertificates().
		NoWarnings().
		DumpJSON().
		Run(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp run: %w", err)
	}

	infos, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse yt-dlp json: %w", err)
	}
	return infos, nil
}

// pickEntry returns the first playable item, descending into search and
// playlist containers.
func pickEntry(infos []*ytdlp.ExtractedInfo) *ytdlp.ExtractedInfo {
	for _, info := range infos {
		if info == nil {
			continue
		}
		if len(info.Entries) > 0 {
			if entry := pickEntry(info.Entries); entry != nil {
				return entry
			}
			continue
		}
		if deref(info.WebpageURL) == "" && deref(info.URL) == "" {
			continue
		}
		return info
	}
	return nil
}

func trackFromInfo(info *ytdlp.ExtractedInfo) *domain.Track {
	uri := deref(info.WebpageURL)
	if uri == "" {
		uri = deref(info.URL)
	}

	var duration time.Duration
	if info.Duration != nil {
		duration = time.Duration(*info.Duration * float64(time.Second))
	}

	return &domain.Track{
		Title:      strings.TrimSpace(deref(info.Title)),
		Artist:     deref(info.Uploader),
		SourceURI:  uri,
		Duration:   duration,
		SourceName: string(domain.SourceFromURL(uri)),
		IsStream:   info.IsLive != nil && *info.IsLive,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

var _ ports.TrackResolver = (*YtdlpResolver)(nil)
