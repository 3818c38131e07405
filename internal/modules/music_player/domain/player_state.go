package domain

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// PlaybackID identifies one playback attempt. The audio player tags its
// track-ended notification with it so stale notifications can be told apart.
type PlaybackID string

// NewPlaybackID returns a fresh, unique PlaybackID.
func NewPlaybackID() PlaybackID {
	return PlaybackID(uuid.NewString())
}

// PlayerState represents the playback state of a guild.
// A current track and playback ID are present iff the phase is Playing or Paused.
// Callers must serialize access per guild.
type PlayerState struct {
	guildID               snowflake.ID
	voiceChannelID        snowflake.ID // Voice channel the bot is connected to
	notificationChannelID snowflake.ID // Text channel for notifications
	phase                 Phase
	current               *Track
	playbackID            PlaybackID
	Queue                 Queue
}

// NewPlayerState creates an idle PlayerState for the given guild and channels.
func NewPlayerState(guildID, voiceChannelID, notificationChannelID snowflake.ID) *PlayerState {
	return &PlayerState{
		guildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		phase:                 PhaseIdle,
		Queue:                 NewQueue(),
	}
}

// GetGuildID returns the guild ID.
func (p *PlayerState) GetGuildID() snowflake.ID {
	return p.guildID
}

// GetVoiceChannelID returns the current voice channel ID.
func (p *PlayerState) GetVoiceChannelID() snowflake.ID {
	return p.voiceChannelID
}

// SetVoiceChannelID updates the voice channel ID.
func (p *PlayerState) SetVoiceChannelID(channelID snowflake.ID) {
	p.voiceChannelID = channelID
}

// GetNotificationChannelID returns the text channel used for notifications.
func (p *PlayerState) GetNotificationChannelID() snowflake.ID {
	return p.notificationChannelID
}

// SetNotificationChannelID updates the notification channel ID.
func (p *PlayerState) SetNotificationChannelID(channelID snowflake.ID) {
	p.notificationChannelID = channelID
}

// Phase returns the current playback phase.
func (p *PlayerState) Phase() Phase {
	return p.phase
}

// IsIdle returns true if nothing is loaded in the player.
func (p *PlayerState) IsIdle() bool {
	return p.phase == PhaseIdle
}

// CurrentTrack returns the track being played, or nil.
func (p *PlayerState) CurrentTrack() *Track {
	return p.current
}

// PlaybackID returns the active playback attempt, or "" when none is active.
func (p *PlayerState) PlaybackID() PlaybackID {
	return p.playbackID
}

// IsCurrentPlayback reports whether id is the active playback attempt.
func (p *PlayerState) IsCurrentPlayback(id PlaybackID) bool {
	return p.phase.HasActivePlayback() && id != "" && p.playbackID == id
}

// StartPlayback records that track is now playing under id.
// It is a no-op once the state has been stopped.
func (p *PlayerState) StartPlayback(track *Track, id PlaybackID) {
	if p.phase == PhaseStopped {
		return
	}
	p.phase = PhasePlaying
	p.current = track
	p.playbackID = id
}

// FinishPlayback drops the current track and returns to Idle.
// It returns the track that was playing, or nil.
func (p *PlayerState) FinishPlayback() *Track {
	if p.phase == PhaseStopped {
		return nil
	}
	finished := p.current
	p.phase = PhaseIdle
	p.current = nil
	p.playbackID = ""
	return finished
}

// Pause moves Playing to Paused. It returns false from any other phase.
func (p *PlayerState) Pause() bool {
	if p.phase != PhasePlaying {
		return false
	}
	p.phase = PhasePaused
	return true
}

// Resume moves Paused to Playing. It returns false from any other phase.
func (p *PlayerState) Resume() bool {
	if p.phase != PhasePaused {
		return false
	}
	p.phase = PhasePlaying
	return true
}

// Stop clears everything and moves to the terminal Stopped phase.
// It returns the number of pending tracks that were discarded.
func (p *PlayerState) Stop() int {
	cleared := p.Queue.Clear()
	p.phase = PhaseStopped
	p.current = nil
	p.playbackID = ""
	return cleared
}
