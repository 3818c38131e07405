package discord

import (
	"errors"
	"fmt"

	"github.com/Tyr597972/DiscordBot/internal/bot"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorWarning = 0xF59E0B
	colorError   = 0xE74C3C
)

// StrikeReader reports a user's standing.
type StrikeReader interface {
	Strikes(userID snowflake.ID) application.StrikeStatus
}

// CommandHandlers holds the moderation command handlers.
type CommandHandlers struct {
	strikes StrikeReader
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(strikes StrikeReader) *CommandHandlers {
	return &CommandHandlers{strikes: strikes}
}

// HandleStrikes handles the /strikes command. The reply is only visible to
// the caller.
func (h *CommandHandlers) HandleStrikes(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	userID, err := targetUser(i)
	if err != nil {
		return respondEphemeral(r, &discordgo.MessageEmbed{
			Description: "Could not read the user to look up.",
			Color:       colorError,
		})
	}

	status := h.strikes.Strikes(userID)
	return respondEphemeral(r, buildStrikesEmbed(userID, status))
}

// targetUser returns the "user" option, or the caller when it is absent.
func targetUser(i *discordgo.InteractionCreate) (snowflake.ID, error) {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			return snowflake.Parse(opt.UserValue(nil).ID)
		}
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		return snowflake.Parse(i.Member.User.ID)
	case i.User != nil:
		return snowflake.Parse(i.User.ID)
	default:
		return 0, errors.New("interaction has no user")
	}
}

func buildStrikesEmbed(userID snowflake.ID, status application.StrikeStatus) *discordgo.MessageEmbed {
	if status.Active == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Strikes",
			Description: fmt.Sprintf("<@%s> has no active strikes.", userID),
			Color:       colorSuccess,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Next timeout",
					Value:  domain.FormatDuration(status.NextDuration),
					Inline: true,
				},
			},
		}
	}

	plural := "s"
	if status.Active == 1 {
		plural = ""
	}

	return &discordgo.MessageEmbed{
		Title:       "Strikes",
		Description: fmt.Sprintf("<@%s> has %d active strike%s.", userID, status.Active, plural),
		Color:       colorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Next timeout",
				Value:  domain.FormatDuration(status.NextDuration),
				Inline: true,
			},
			{
				Name:   "Clears",
				Value:  fmt.Sprintf("<t:%d:R>", status.ClearsAt.Unix()),
				Inline: true,
			},
		},
	}
}

func respondEphemeral(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
