package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

const (
	colorSanction = 0xE74C3C

	// maxFieldLength is Discord's limit for an embed field value.
	maxFieldLength = 1024
)

// MessageSession is the part of a Discord session the Messenger uses.
type MessageSession interface {
	ChannelMessageSend(
		channelID, content string,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

// Messenger posts moderation messages to Discord.
type Messenger struct {
	session       MessageSession
	state         *discordgo.State
	modLogChannel string
}

// NewMessenger creates a Messenger that sends moderation logs to the guild
// text channel named modLogChannel. state may be nil.
func NewMessenger(session MessageSession, state *discordgo.State, modLogChannel string) *Messenger {
	return &Messenger{
		session:       session,
		state:         state,
		modLogChannel: modLogChannel,
	}
}

// Send posts content to a channel.
func (m *Messenger) Send(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := m.session.ChannelMessageSend(channelID.String(), content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Delete removes a message.
func (m *Messenger) Delete(ctx context.Context, channelID, messageID snowflake.ID) error {
	err := m.session.ChannelMessageDelete(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendModLog posts the sanction summary to the moderation log channel.
func (m *Messenger) SendModLog(ctx context.Context, sanction domain.Sanction) error {
	if m.modLogChannel == "" {
		return application.ErrModLogChannelNotFound
	}

	channelID, err := m.findModLogChannel(ctx, sanction.Offense.GuildID)
	if err != nil {
		return err
	}

	_, err = m.session.ChannelMessageSendEmbed(
		channelID,
		buildSanctionEmbed(sanction),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to send moderation log: %w", err)
	}
	return nil
}

// findModLogChannel looks the channel up in the state cache, then over REST.
func (m *Messenger) findModLogChannel(ctx context.Context, guildID snowflake.ID) (string, error) {
	if m.state != nil {
		guild, err := m.state.Guild(guildID.String())
		switch {
		case err == nil:
			if id, ok := textChannelNamed(guild.Channels, m.modLogChannel); ok {
				return id, nil
			}
			return "", application.ErrModLogChannelNotFound
		case !errors.Is(err, discordgo.ErrStateNotFound):
			return "", fmt.Errorf("failed to read guild from state: %w", err)
		}
	}

	channels, err := m.session.GuildChannels(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}
	if id, ok := textChannelNamed(channels, m.modLogChannel); ok {
		return id, nil
	}
	return "", application.ErrModLogChannelNotFound
}

func textChannelNamed(channels []*discordgo.Channel, name string) (string, bool) {
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(channel.Name, name) {
			return channel.ID, true
		}
	}
	return "", false
}

func buildSanctionEmbed(sanction domain.Sanction) *discordgo.MessageEmbed {
	offense := sanction.Offense
	return &discordgo.MessageEmbed{
		Title:       "🔝 Sanction appliquée",
		Description: fmt.Sprintf("<@%s> a été sanctionné", offense.UserID),
		Color:       colorSanction,
		Timestamp:   sanction.At.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Contenu du message",
				Value: truncate(offense.Content, maxFieldLength),
			},
			{
				Name:   "Strike #",
				Value:  fmt.Sprint(sanction.Ordinal),
				Inline: true,
			},
			{
				Name:   "Durée",
				Value:  domain.FormatDuration(sanction.Duration),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Utilisateur ID: " + offense.UserID.String(),
		},
	}
}

// truncate shortens s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

var _ application.Messenger = (*Messenger)(nil)
