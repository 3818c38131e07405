package usecases

import (
	"context"
	"testing"

	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

func TestQueueService_List(t *testing.T) {
	tests := []struct {
		name        string
		setupRepo   func(*mockRepository)
		wantCurrent string
		wantPhase   domain.Phase
		wantTitles  []string
	}{
		{
			name:      "no player",
			wantPhase: domain.PhaseIdle,
		},
		{
			name: "idle player",
			setupRepo: func(m *mockRepository) {
				m.createConnectedState()
			},
			wantPhase: domain.PhaseIdle,
		},
		{
			name: "playing with pending tracks",
			setupRepo: func(m *mockRepository) {
				m.createPlayingState(mockTrack("a"), mockTrack("b"), mockTrack("c"))
			},
			wantCurrent: "a",
			wantPhase:   domain.PhasePlaying,
			wantTitles:  []string{"b", "c"},
		},
		{
			name: "paused without pending tracks",
			setupRepo: func(m *mockRepository) {
				m.createPlayingState(mockTrack("a")).Pause()
			},
			wantCurrent: "a",
			wantPhase:   domain.PhasePaused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			service := NewQueueService(repo, keylock.New[snowflake.ID]())

			out, err := service.List(context.Background(), QueueListInput{GuildID: testGuildID})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			gotCurrent := ""
			if out.CurrentTrack != nil {
				gotCurrent = out.CurrentTrack.Title
			}
			if gotCurrent != tt.wantCurrent {
				t.Errorf("expected current %q, got %q", tt.wantCurrent, gotCurrent)
			}
			if out.Phase != tt.wantPhase {
				t.Errorf("expected phase %s, got %s", tt.wantPhase, out.Phase)
			}
			if out.IsEmpty() != (len(tt.wantTitles) == 0) {
				t.Errorf("IsEmpty() = %v with %d entries", out.IsEmpty(), len(out.Entries))
			}
			if len(out.Entries) != len(tt.wantTitles) {
				t.Fatalf("expected %d entries, got %d", len(tt.wantTitles), len(out.Entries))
			}
			for i, entry := range out.Entries {
				if entry.Position != i+1 {
					t.Errorf("entry %d: expected position %d, got %d", i, i+1, entry.Position)
				}
				if entry.Track.Title != tt.wantTitles[i] {
					t.Errorf("entry %d: expected %q, got %q", i, tt.wantTitles[i], entry.Track.Title)
				}
			}
		})
	}
}

func TestQueueService_ListIsASnapshot(t *testing.T) {
	repo := newMockRepository()
	state := repo.createPlayingState(mockTrack("a"), mockTrack("b"))
	service := NewQueueService(repo, keylock.New[snowflake.ID]())

	out, err := service.List(context.Background(), QueueListInput{GuildID: testGuildID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state.Queue.Push(mockTrack("c"))

	if len(out.Entries) != 1 {
		t.Errorf("expected listing to be unaffected by later pushes, got %d entries", len(out.Entries))
	}
}
