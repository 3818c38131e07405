package application

import (
	"context"
	"sync"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// EngineConfig tunes the escalation engine.
type EngineConfig struct {
	Ladder         domain.Ladder
	Window         time.Duration // how long a strike counts
	SweepInterval  time.Duration
	LogMatchedTerm bool
}

// StrikeStatus describes a user's standing at a point in time.
type StrikeStatus struct {
	Active       int
	NextDuration time.Duration // timeout the next offense would earn
	ClearsAt     time.Time     // zero when Active is 0
}

// Engine keeps one strike history per user and turns offenses into timeouts.
// Work on a user is serialized on that user's lock; only SweepExpired
// removes a user's history.
type Engine struct {
	config   EngineConfig
	enforcer Enforcer
	clock    clockwork.Clock
	logger   *zap.Logger
	locks    *keylock.Locker[snowflake.ID]

	mu        sync.Mutex
	histories map[snowflake.ID]*domain.History
}

// NewEngine creates an Engine. An empty ladder falls back to DefaultLadder.
func NewEngine(
	config EngineConfig,
	enforcer Enforcer,
	clk clockwork.Clock,
	logger *zap.Logger,
) *Engine {
	if len(config.Ladder) == 0 {
		config.Ladder = domain.DefaultLadder
	}
	return &Engine{
		config:    config,
		enforcer:  enforcer,
		clock:     clk,
		logger:    logger,
		locks:     keylock.New[snowflake.ID](),
		histories: make(map[snowflake.ID]*domain.History),
	}
}

// RecordOffense adds a strike for the offense at now and applies the matching timeout.
// A failed timeout is logged; the strike stays recorded either way.
func (e *Engine) RecordOffense(
	ctx context.Context,
	offense domain.Offense,
	now time.Time,
) domain.Sanction {
	unlock := e.locks.Lock(offense.UserID)
	defer unlock()

	history := e.history(offense.UserID)
	history.Prune(now, e.config.Window)

	prior := history.Len()
	level := e.config.Ladder.Level(prior)
	sanction := domain.Sanction{
		Offense:  offense,
		Ordinal:  prior + 1,
		Level:    level,
		Duration: e.config.Ladder.Duration(level),
		At:       now,
	}
	history.Append(domain.Strike{At: now, Level: level})

	// Still under the user's lock: timeouts land in strike order.
	err := e.enforcer.Timeout(
		ctx,
		offense.GuildID,
		offense.UserID,
		sanction.Until(),
		sanction.AuditReason(),
	)
	if err != nil {
		e.logger.Warn("failed to apply timeout",
			zap.Stringer("guild", offense.GuildID),
			zap.Stringer("user", offense.UserID),
			zap.Int("strike", sanction.Ordinal),
			zap.Error(err),
		)
	}

	e.audit(sanction)
	return sanction
}

// audit writes the structured record of a sanction.
func (e *Engine) audit(sanction domain.Sanction) {
	fields := []zap.Field{
		zap.Stringer("guild", sanction.Offense.GuildID),
		zap.Stringer("user", sanction.Offense.UserID),
		zap.String("content", sanction.Offense.Content),
		zap.Int("strike", sanction.Ordinal),
		zap.Duration("duration", sanction.Duration),
		zap.String("duration_text", domain.FormatDuration(sanction.Duration)),
	}
	if e.config.LogMatchedTerm {
		fields = append(fields, zap.String("term", sanction.Offense.Term))
	}
	e.logger.Info("applied sanction", fields...)
}

// Strikes returns the user's standing at now. Expired strikes are pruned
// but the history itself is left for the sweep to remove.
func (e *Engine) Strikes(userID snowflake.ID, now time.Time) StrikeStatus {
	unlock := e.locks.Lock(userID)
	defer unlock()

	status := StrikeStatus{NextDuration: e.config.Ladder.Duration(0)}

	e.mu.Lock()
	history, ok := e.histories[userID]
	e.mu.Unlock()
	if !ok {
		return status
	}

	history.Prune(now, e.config.Window)
	status.Active = history.Len()
	status.NextDuration = e.config.Ladder.Duration(e.config.Ladder.Level(status.Active))
	if last, ok := history.Last(); ok {
		status.ClearsAt = last.At.Add(e.config.Window)
	}
	return status
}

// SweepExpired prunes every history at now and forgets users left with
// none. It returns the number of users forgotten.
func (e *Engine) SweepExpired(now time.Time) int {
	e.mu.Lock()
	users := make([]snowflake.ID, 0, len(e.histories))
	for userID := range e.histories {
		users = append(users, userID)
	}
	e.mu.Unlock()

	removed := 0
	for _, userID := range users {
		e.locks.Do(userID, func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			history, ok := e.histories[userID]
			if !ok {
				return
			}
			history.Prune(now, e.config.Window)
			if history.IsEmpty() {
				delete(e.histories, userID)
				removed++
			}
		})
	}

	if removed > 0 {
		e.logger.Debug("swept expired strikes",
			zap.Int("removed_users", removed),
			zap.Int("tracked_users", e.TrackedUsers()),
		)
	}
	return removed
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	if e.config.SweepInterval <= 0 {
		return
	}

	ticker := e.clock.NewTicker(e.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			e.SweepExpired(e.clock.Now())
		}
	}
}

// TrackedUsers returns the number of users with a history.
func (e *Engine) TrackedUsers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.histories)
}

// history returns the user's history, creating it if needed.
// The caller holds the user's lock.
func (e *Engine) history(userID snowflake.ID) *domain.History {
	e.mu.Lock()
	defer e.mu.Unlock()

	history, ok := e.histories[userID]
	if !ok {
		history = domain.NewHistory()
		e.histories[userID] = history
	}
	return history
}
