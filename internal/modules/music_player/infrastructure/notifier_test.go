package infrastructure

import (
	"strings"
	"testing"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/bwmarrin/discordgo"
)

type recordingSender struct {
	channelIDs []string
	embeds     []*discordgo.MessageEmbed
}

func (r *recordingSender) ChannelMessageSendEmbed(
	channelID string,
	embed *discordgo.MessageEmbed,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	r.channelIDs = append(r.channelIDs, channelID)
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{ID: "1"}, nil
}

func TestNotifier_SendNowPlaying(t *testing.T) {
	tests := []struct {
		name          string
		info          ports.NowPlayingInfo
		wantFields    int
		wantThumbnail string
		wantFooter    bool
	}{
		{
			name: "youtube track",
			info: ports.NowPlayingInfo{
				Title:         "Song",
				Artist:        "Artist",
				Duration:      "03:30",
				URI:           "https://www.youtube.com/watch?v=abc123",
				SourceName:    "youtube",
				RequesterName: "alice",
				EnqueuedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			wantFields:    2,
			wantThumbnail: "https://img.youtube.com/vi/abc123/hqdefault.jpg",
			wantFooter:    true,
		},
		{
			name: "short youtube link",
			info: ports.NowPlayingInfo{
				Title:      "Song",
				URI:        "https://youtu.be/xyz",
				SourceName: "youtube",
			},
			wantFields:    2,
			wantThumbnail: "https://img.youtube.com/vi/xyz/hqdefault.jpg",
		},
		{
			name: "live stream",
			info: ports.NowPlayingInfo{
				Title:      "Stream",
				URI:        "https://www.twitch.tv/someone",
				SourceName: "twitch",
				IsStream:   true,
			},
			wantFields: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			n := NewNotifier(sender)

			if err := n.SendNowPlaying(42, &tt.info); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(sender.embeds) != 1 || sender.channelIDs[0] != "42" {
				t.Fatalf("expected one embed to channel 42, got %v", sender.channelIDs)
			}
			embed := sender.embeds[0]
			if embed.Title != tt.info.Title || embed.URL != tt.info.URI {
				t.Errorf("unexpected title/url: %q %q", embed.Title, embed.URL)
			}
			if len(embed.Fields) != tt.wantFields {
				t.Errorf("expected %d fields, got %d", tt.wantFields, len(embed.Fields))
			}
			gotThumbnail := ""
			if embed.Thumbnail != nil {
				gotThumbnail = embed.Thumbnail.URL
			}
			if gotThumbnail != tt.wantThumbnail {
				t.Errorf("expected thumbnail %q, got %q", tt.wantThumbnail, gotThumbnail)
			}
			if (embed.Footer != nil) != tt.wantFooter {
				t.Errorf("expected footer present = %v", tt.wantFooter)
			}
		})
	}
}

func TestNotifier_SendQueueDrained(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender)

	if err := n.SendQueueDrained(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.embeds) != 1 || sender.channelIDs[0] != "7" {
		t.Fatalf("expected one embed to channel 7, got %v", sender.channelIDs)
	}
	if !strings.Contains(sender.embeds[0].Description, "Queue finished") {
		t.Errorf("unexpected description %q", sender.embeds[0].Description)
	}
}
