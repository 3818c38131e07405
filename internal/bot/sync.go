package bot

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const syncCommandName = "sync"

// ErrSyncOutsideGuild is returned when a guild-scoped sync is requested from a DM.
var ErrSyncOutsideGuild = errors.New("sync must be run inside a server")

// commandRegistrar replaces an application's command set, globally when
// guildID is empty.
type commandRegistrar interface {
	ApplicationCommandBulkOverwrite(
		appID, guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
}

var _ commandRegistrar = (*discordgo.Session)(nil)

var syncPermissions int64 = discordgo.PermissionManageGuild

// syncCommand is the bot's own command for re-registering slash commands.
func syncCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     syncCommandName,
		Description:              "Re-register the bot's slash commands",
		DefaultMemberPermissions: &syncPermissions,
	}
}

// allCommands returns module commands plus the bot's own.
func (b *Bot) allCommands() []*discordgo.ApplicationCommand {
	return append(b.collectCommands(), syncCommand())
}

// syncCommands overwrites the command set for guildID, or the global set
// when guildID is empty, and returns how many commands Discord now holds.
func (b *Bot) syncCommands(guildID string) (int, error) {
	registered, err := b.registrar.ApplicationCommandBulkOverwrite(
		b.appID,
		guildID,
		b.allCommands(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to overwrite commands: %w", err)
	}
	return len(registered), nil
}

// registerCommands registers commands globally, or per guild when
// GuildCommands is set. A failing guild is logged and skipped.
func (b *Bot) registerCommands(guildIDs []string) error {
	if !b.config.GuildCommands {
		n, err := b.syncCommands("")
		if err != nil {
			return err
		}
		b.logger.Info("registered global commands", zap.Int("commands", n))
		return nil
	}

	synced := 0
	for _, guildID := range guildIDs {
		n, err := b.syncCommands(guildID)
		if err != nil {
			b.logger.Warn("failed to register guild commands",
				zap.String("guild_id", guildID),
				zap.Error(err),
			)
			continue
		}
		b.logger.Debug("registered guild commands",
			zap.String("guild_id", guildID),
			zap.Int("commands", n),
		)
		synced++
	}
	b.logger.Info("registered guild commands", zap.Int("guilds", synced))

	return nil
}

// handleSync re-registers commands for the invoking guild, or globally
// when guild-scoped registration is off.
func (b *Bot) handleSync(_ *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
	guildID := ""
	if b.config.GuildCommands {
		if i.GuildID == "" {
			return ErrSyncOutsideGuild
		}
		guildID = i.GuildID
	}

	n, err := b.syncCommands(guildID)
	if err != nil {
		return err
	}

	b.logger.Info("synchronized commands",
		zap.String("guild_id", guildID),
		zap.Int("commands", n),
	)

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Synchronized %d slash command(s).", n),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// stateGuildIDs lists the guilds known from the READY payload.
func stateGuildIDs(state *discordgo.State) []string {
	if state == nil {
		return nil
	}
	state.RLock()
	defer state.RUnlock()

	ids := make([]string, 0, len(state.Guilds))
	for _, g := range state.Guilds {
		ids = append(ids, g.ID)
	}
	return ids
}
