package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Event is implemented by everything published on the module's event bus.
type Event interface {
	EventGuildID() snowflake.ID
}

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load or errored mid-playback.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped (skip).
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the player was torn down.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
// A replaced track already has a successor, so it never advances.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r != TrackEndReplaced
}

// TrackEndedEvent is published exactly once per playback attempt, whether the
// track finished, failed or was stopped.
type TrackEndedEvent struct {
	GuildID    snowflake.ID
	PlaybackID PlaybackID
	Reason     TrackEndReason
	Err        error // set when the player reported a failure
}

// PlaybackStartedEvent is published when a track starts playing.
type PlaybackStartedEvent struct {
	GuildID               snowflake.ID
	Track                 *Track
	NotificationChannelID snowflake.ID
}

// QueueDrainedEvent is published when the last track ended and the bot left voice.
type QueueDrainedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

func (e TrackEndedEvent) EventGuildID() snowflake.ID      { return e.GuildID }
func (e PlaybackStartedEvent) EventGuildID() snowflake.ID { return e.GuildID }
func (e QueueDrainedEvent) EventGuildID() snowflake.ID    { return e.GuildID }
