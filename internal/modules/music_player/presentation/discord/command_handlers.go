package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Tyr597972/DiscordBot/internal/bot"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// queuePageSize is the number of pending tracks shown per /list page.
const queuePageSize = 10

const genericErrorMessage = "An error occurred while processing your command."

// PlaybackController is the subset of the playback use cases the commands drive.
type PlaybackController interface {
	Enqueue(ctx context.Context, input usecases.EnqueueInput) (*usecases.EnqueueOutput, error)
	Pause(ctx context.Context, input usecases.PauseInput) error
	Resume(ctx context.Context, input usecases.ResumeInput) error
	Skip(ctx context.Context, input usecases.SkipInput) (*usecases.SkipOutput, error)
	Stop(ctx context.Context, input usecases.StopInput) (*usecases.StopOutput, error)
}

// QueueLister lists a guild's pending tracks.
type QueueLister interface {
	List(ctx context.Context, input usecases.QueueListInput) (*usecases.QueueListOutput, error)
}

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	playback PlaybackController
	queue    QueueLister
	logger   *zap.Logger
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	playback PlaybackController,
	queue QueueLister,
	logger *zap.Logger,
) *CommandHandlers {
	return &CommandHandlers{
		playback: playback,
		queue:    queue,
		logger:   logger,
	}
}

// HandlePlay handles the /play command.
// The lookup can outlast Discord's three second window, so the response is
// deferred and edited once the track is queued.
func (h *CommandHandlers) HandlePlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, sentence(err))
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	output, err := h.playback.Enqueue(context.Background(), usecases.EnqueueInput{
		GuildID:               ids.guildID,
		UserID:                ids.userID,
		NotificationChannelID: ids.channelID,
		Query:                 query,
	})
	if err != nil {
		h.logFailure("play", ids.guildID, err)
		return editEmbed(r, errorEmbed(userMessage(err)))
	}

	var description string
	if output.NowPlaying {
		description = "Now playing " + trackLink(output.Track) + "."
	} else {
		description = fmt.Sprintf("Queued %s at position %d.", trackLink(output.Track), output.Position)
	}

	return editEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, sentence(err))
	}

	err = h.playback.Pause(context.Background(), usecases.PauseInput{
		GuildID:               ids.guildID,
		NotificationChannelID: ids.channelID,
	})
	if err != nil {
		h.logFailure("pause", ids.guildID, err)
		return respondError(r, userMessage(err))
	}

	return respondSuccess(r, "Paused playback.")
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, sentence(err))
	}

	err = h.playback.Resume(context.Background(), usecases.ResumeInput{
		GuildID:               ids.guildID,
		NotificationChannelID: ids.channelID,
	})
	if err != nil {
		h.logFailure("resume", ids.guildID, err)
		return respondError(r, userMessage(err))
	}

	return respondSuccess(r, "Resumed playback.")
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, sentence(err))
	}

	output, err := h.playback.Skip(context.Background(), usecases.SkipInput{
		GuildID:               ids.guildID,
		NotificationChannelID: ids.channelID,
	})
	if err != nil {
		h.logFailure("skip", ids.guildID, err)
		return respondError(r, userMessage(err))
	}

	// "Now playing" for the next track is announced by the notification handler.
	description := "Skipped."
	if output.SkippedTrack != nil {
		description = "Skipped " + trackLink(output.SkippedTrack) + "."
	}
	if output.NextTrack == nil {
		description += " The queue is now empty."
	}

	return respondSuccess(r, description)
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, sentence(err))
	}

	output, err := h.playback.Stop(context.Background(), usecases.StopInput{GuildID: ids.guildID})
	if err != nil {
		h.logFailure("stop", ids.guildID, err)
		return respondError(r, userMessage(err))
	}

	description := "Stopped playback and disconnected."
	switch output.ClearedTracks {
	case 0:
	case 1:
		description += " Cleared 1 queued track."
	default:
		description += fmt.Sprintf(" Cleared %d queued tracks.", output.ClearedTracks)
	}

	return respondSuccess(r, description)
}

// HandleList handles the /list command.
func (h *CommandHandlers) HandleList(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, sentence(err))
	}

	page := 1
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	output, err := h.queue.List(context.Background(), usecases.QueueListInput{GuildID: ids.guildID})
	if err != nil {
		h.logFailure("list", ids.guildID, err)
		return respondError(r, userMessage(err))
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildQueueEmbed(output, page)},
		},
	})
}

// buildQueueEmbed renders one page of the pending queue.
// Out-of-range pages are clamped.
func buildQueueEmbed(output *usecases.QueueListOutput, page int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Queue"}

	var sb strings.Builder
	if output.CurrentTrack != nil {
		sb.WriteString("### Now Playing\n")
		if output.Phase == usecases.PhasePaused {
			sb.WriteString("⏸ ")
		}
		sb.WriteString(trackLink(output.CurrentTrack))
		sb.WriteString("\n")
	}

	if output.IsEmpty() {
		sb.WriteString("The queue is empty.")
		embed.Description = sb.String()
		return embed
	}

	totalPages := (len(output.Entries) + queuePageSize - 1) / queuePageSize
	page = min(max(page, 1), totalPages)
	start := (page - 1) * queuePageSize
	end := min(start+queuePageSize, len(output.Entries))

	sb.WriteString("### Up Next\n")
	for _, entry := range output.Entries[start:end] {
		writeTrackLine(&sb, entry)
	}

	embed.Description = sb.String()
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d • %d queued", page, totalPages, len(output.Entries)),
	}
	return embed
}

// interactionIDs are the snowflakes every music command needs.
type interactionIDs struct {
	guildID   snowflake.ID
	userID    snowflake.ID
	channelID snowflake.ID
}

var errGuildOnly = errors.New("this command can only be used in a server")

func parseInteraction(i *discordgo.InteractionCreate) (interactionIDs, error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return interactionIDs{}, errGuildOnly
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return interactionIDs{}, errors.New("invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return interactionIDs{}, errors.New("invalid user")
	}

	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return interactionIDs{}, errors.New("invalid channel")
	}

	return interactionIDs{guildID: guildID, userID: userID, channelID: channelID}, nil
}

// userMessage maps a use case error to the text shown to the user.
// Wrapped details stay in the logs.
func userMessage(err error) string {
	for _, target := range []error{
		usecases.ErrNotConnected,
		usecases.ErrUserNotInVoice,
		usecases.ErrNothingPlaying,
		usecases.ErrNothingPaused,
		usecases.ErrNothingToSkip,
		usecases.ErrEmptyQuery,
		usecases.ErrNoResults,
		usecases.ErrPlayCancelled,
		usecases.ErrResolutionFailed,
		usecases.ErrPlaybackFailed,
	} {
		if errors.Is(err, target) {
			return sentence(target)
		}
	}
	return genericErrorMessage
}

func (h *CommandHandlers) logFailure(command string, guildID snowflake.ID, err error) {
	if usecases.IsUserError(err) {
		return
	}
	h.logger.Error("failed to handle music command",
		zap.String("command", command),
		zap.Stringer("guild", guildID),
		zap.Error(err),
	)
}

// sentence renders an error message as a capitalized sentence.
func sentence(err error) string {
	s := err.Error()
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:] + "."
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{errorEmbed(message)},
		},
	})
}

func respondSuccess(r bot.Responder, description string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: description,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func editEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.EditResponse(&discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

func trackLink(track *usecases.Track) string {
	if strings.HasPrefix(track.SourceURI, "http") {
		return fmt.Sprintf("[%s](%s)", track.Title, track.SourceURI)
	}
	return "**" + track.Title + "**"
}

// writeTrackLine writes a single track line to the string builder.
// Escapes period to prevent Discord markdown list formatting.
func writeTrackLine(sb *strings.Builder, entry usecases.QueueEntry) {
	fmt.Fprintf(sb, "%d\\. %s", entry.Position, trackLink(entry.Track))
	if entry.Track.Artist != "" {
		fmt.Fprintf(sb, " - %s", entry.Track.Artist)
	}
	fmt.Fprintf(sb, " `%s`\n", entry.Track.FormattedDuration())
}
