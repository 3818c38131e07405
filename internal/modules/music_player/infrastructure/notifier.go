package infrastructure

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

const colorDrained = 0x95A5A6

// MessageSender is the part of a Discord session the Notifier uses.
type MessageSender interface {
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// Notifier sends playback notifications to Discord channels.
type Notifier struct {
	sender MessageSender
}

// NewNotifier creates a new Notifier.
func NewNotifier(sender MessageSender) *Notifier {
	return &Notifier{sender: sender}
}

// SendNowPlaying sends a "Now playing" embed to the channel.
func (n *Notifier) SendNowPlaying(channelID snowflake.ID, info *ports.NowPlayingInfo) error {
	_, err := n.sender.ChannelMessageSendEmbed(channelID.String(), buildNowPlayingEmbed(info))
	return err
}

// SendQueueDrained tells the channel that the queue is done and the bot left voice.
func (n *Notifier) SendQueueDrained(channelID snowflake.ID) error {
	_, err := n.sender.ChannelMessageSendEmbed(channelID.String(), &discordgo.MessageEmbed{
		Description: "Queue finished, leaving the voice channel.",
		Color:       colorDrained,
	})
	return err
}

func buildNowPlayingEmbed(info *ports.NowPlayingInfo) *discordgo.MessageEmbed {
	source := domain.ParseTrackSource(info.SourceName)

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now playing",
		},
		Title: info.Title,
		URL:   info.URI,
		Color: source.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  orUnknown(info.Artist),
				Inline: true,
			},
		},
	}

	// Streams have no meaningful length.
	if !info.IsStream {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  info.Duration,
			Inline: true,
		})
	}

	if !info.EnqueuedAt.IsZero() {
		embed.Timestamp = info.EnqueuedAt.UTC().Format(time.RFC3339)
	}

	if info.RequesterName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Requested by %s", info.RequesterName),
			IconURL: info.RequesterAvatarURL,
		}
	}

	if source == domain.TrackSourceYouTube {
		if id := youTubeVideoID(info.URI); id != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{
				URL: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id),
			}
		}
	}

	return embed
}

// youTubeVideoID extracts the video ID from watch and short links.
func youTubeVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if strings.EqualFold(u.Hostname(), "youtu.be") {
		return strings.TrimPrefix(u.Path, "/")
	}
	return u.Query().Get("v")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// Ensure Notifier implements ports.NotificationSender.
var _ ports.NotificationSender = (*Notifier)(nil)
