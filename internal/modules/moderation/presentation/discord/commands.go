package discord

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the moderation module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "strikes",
			Description: "Show how many active strikes a user has",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up (defaults to you)",
					Required:    false,
				},
			},
		},
	}
}
