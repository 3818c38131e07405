package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ThrottleConfig bounds how hard lookups hit the backend.
type ThrottleConfig struct {
	RatePerSecond float64
	Burst         int
	Concurrency   int64
	Timeout       time.Duration // per lookup, 0 for none
}

// ThrottledResolver rate limits and caps concurrent lookups of another resolver.
// Waiting callers give up when their context ends.
type ThrottledResolver struct {
	next    ports.TrackResolver
	limiter *rate.Limiter
	slots   *semaphore.Weighted
	timeout time.Duration
	logger  *zap.Logger
}

// NewThrottledResolver wraps next with the given limits.
func NewThrottledResolver(
	next ports.TrackResolver,
	config ThrottleConfig,
	logger *zap.Logger,
) *ThrottledResolver {
	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}
	burst := max(config.Burst, 1)
	concurrency := max(config.Concurrency, 1)

	return &ThrottledResolver{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		slots:   semaphore.NewWeighted(concurrency),
		timeout: config.Timeout,
		logger:  logger,
	}
}

// Resolve waits for a rate token and a free slot, then delegates.
func (r *ThrottledResolver) Resolve(ctx context.Context, query domain.SearchQuery) (*domain.Track, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for lookup rate limit: %w", err)
	}
	if err := r.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for lookup slot: %w", err)
	}
	defer r.slots.Release(1)

	start := time.Now()
	track, err := r.next.Resolve(ctx, query)
	r.logger.Debug("resolved query",
		zap.String("query", query.Query),
		zap.Duration("took", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	return track, err
}

var _ ports.TrackResolver = (*ThrottledResolver)(nil)
