package domain

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func newTestState() *PlayerState {
	return NewPlayerState(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))
}

// assertHandleInvariant checks that a playback ID and current track exist iff
// the phase owns an active playback.
func assertHandleInvariant(t *testing.T, s *PlayerState) {
	t.Helper()

	hasHandle := s.PlaybackID() != ""
	hasTrack := s.CurrentTrack() != nil
	active := s.Phase().HasActivePlayback()

	if hasHandle != active || hasTrack != active {
		t.Errorf("invariant violated: phase=%s handle=%v track=%v", s.Phase(), hasHandle, hasTrack)
	}
}

func TestNewPlayerState(t *testing.T) {
	s := newTestState()

	if s.GetGuildID() != 1 {
		t.Errorf("expected guild 1, got %d", s.GetGuildID())
	}
	if s.GetVoiceChannelID() != 2 {
		t.Errorf("expected voice channel 2, got %d", s.GetVoiceChannelID())
	}
	if s.GetNotificationChannelID() != 3 {
		t.Errorf("expected notification channel 3, got %d", s.GetNotificationChannelID())
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("expected idle, got %s", s.Phase())
	}
	assertHandleInvariant(t, s)
}

func TestPlayerState_Transitions(t *testing.T) {
	track := &Track{Title: "Song", SourceURI: "uri"}

	tests := []struct {
		name      string
		setup     func(s *PlayerState)
		action    func(s *PlayerState) bool
		wantOK    bool
		wantPhase Phase
	}{
		{
			name:      "pause while playing",
			setup:     func(s *PlayerState) { s.StartPlayback(track, "p1") },
			action:    (*PlayerState).Pause,
			wantOK:    true,
			wantPhase: PhasePaused,
		},
		{
			name:      "pause while idle",
			setup:     func(s *PlayerState) {},
			action:    (*PlayerState).Pause,
			wantOK:    false,
			wantPhase: PhaseIdle,
		},
		{
			name: "pause while paused",
			setup: func(s *PlayerState) {
				s.StartPlayback(track, "p1")
				s.Pause()
			},
			action:    (*PlayerState).Pause,
			wantOK:    false,
			wantPhase: PhasePaused,
		},
		{
			name: "resume while paused",
			setup: func(s *PlayerState) {
				s.StartPlayback(track, "p1")
				s.Pause()
			},
			action:    (*PlayerState).Resume,
			wantOK:    true,
			wantPhase: PhasePlaying,
		},
		{
			name:      "resume while playing",
			setup:     func(s *PlayerState) { s.StartPlayback(track, "p1") },
			action:    (*PlayerState).Resume,
			wantOK:    false,
			wantPhase: PhasePlaying,
		},
		{
			name:      "resume while idle",
			setup:     func(s *PlayerState) {},
			action:    (*PlayerState).Resume,
			wantOK:    false,
			wantPhase: PhaseIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState()
			tt.setup(s)

			if ok := tt.action(s); ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if s.Phase() != tt.wantPhase {
				t.Errorf("expected phase %s, got %s", tt.wantPhase, s.Phase())
			}
			assertHandleInvariant(t, s)
		})
	}
}

func TestPlayerState_PauseResumeKeepsTrackAndQueue(t *testing.T) {
	s := newTestState()
	current := &Track{Title: "Current", SourceURI: "uri-c"}
	s.StartPlayback(current, "p1")
	s.Queue.Push(&Track{Title: "Next", SourceURI: "uri-n"})

	s.Pause()
	s.Resume()

	if s.CurrentTrack() != current {
		t.Errorf("expected current track to be unchanged, got %v", s.CurrentTrack())
	}
	if s.PlaybackID() != "p1" {
		t.Errorf("expected playback ID p1, got %q", s.PlaybackID())
	}
	if s.Queue.Len() != 1 {
		t.Errorf("expected queue length 1, got %d", s.Queue.Len())
	}
}

func TestPlayerState_FinishPlayback(t *testing.T) {
	s := newTestState()
	track := &Track{Title: "Song", SourceURI: "uri"}
	s.StartPlayback(track, "p1")

	if got := s.FinishPlayback(); got != track {
		t.Errorf("expected finished track, got %v", got)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("expected idle, got %s", s.Phase())
	}
	assertHandleInvariant(t, s)
}

func TestPlayerState_IsCurrentPlayback(t *testing.T) {
	s := newTestState()

	if s.IsCurrentPlayback("") {
		t.Error("expected empty ID never to match")
	}

	s.StartPlayback(&Track{Title: "A"}, "p1")
	if !s.IsCurrentPlayback("p1") {
		t.Error("expected p1 to be current")
	}

	s.FinishPlayback()
	s.StartPlayback(&Track{Title: "B"}, "p2")
	if s.IsCurrentPlayback("p1") {
		t.Error("expected p1 to be stale after p2 started")
	}
}

func TestPlayerState_Stop(t *testing.T) {
	s := newTestState()
	s.StartPlayback(&Track{Title: "A"}, "p1")
	s.Queue.Push(&Track{Title: "B"})
	s.Queue.Push(&Track{Title: "C"})

	if n := s.Stop(); n != 2 {
		t.Errorf("expected 2 cleared tracks, got %d", n)
	}
	if s.Phase() != PhaseStopped {
		t.Errorf("expected stopped, got %s", s.Phase())
	}
	if !s.Queue.IsEmpty() {
		t.Error("expected empty queue after stop")
	}
	assertHandleInvariant(t, s)

	// Stopped is terminal for the session.
	s.StartPlayback(&Track{Title: "D"}, "p2")
	if s.Phase() != PhaseStopped {
		t.Errorf("expected StartPlayback to be ignored after stop, got %s", s.Phase())
	}
	assertHandleInvariant(t, s)
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "idle"},
		{PhasePlaying, "playing"},
		{PhasePaused, "paused"},
		{PhaseStopped, "stopped"},
		{Phase(99), "idle"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestNewPlaybackID_Unique(t *testing.T) {
	a := NewPlaybackID()
	b := NewPlaybackID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty playback IDs")
	}
	if a == b {
		t.Errorf("expected distinct playback IDs, got %q twice", a)
	}
}
