package discord

import (
	"context"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
)

const (
	testGuildID   = "1"
	testUserID    = "2"
	testChannelID = "3"
)

func newInteraction(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Member:    &discordgo.Member{User: &discordgo.User{ID: testUserID}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func testTrack(title string) *usecases.Track {
	return &usecases.Track{
		Title:     title,
		Artist:    "Artist",
		SourceURI: "https://www.youtube.com/watch?v=" + title,
		Duration:  3*time.Minute + 5*time.Second,
	}
}

type mockPlayback struct {
	enqueueInput usecases.EnqueueInput
	enqueueOut   *usecases.EnqueueOutput
	skipOut      *usecases.SkipOutput
	stopOut      *usecases.StopOutput
	err          error
	calls        []string
}

func (m *mockPlayback) Enqueue(
	_ context.Context,
	input usecases.EnqueueInput,
) (*usecases.EnqueueOutput, error) {
	m.calls = append(m.calls, "enqueue")
	m.enqueueInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.enqueueOut, nil
}

func (m *mockPlayback) Pause(_ context.Context, _ usecases.PauseInput) error {
	m.calls = append(m.calls, "pause")
	return m.err
}

func (m *mockPlayback) Resume(_ context.Context, _ usecases.ResumeInput) error {
	m.calls = append(m.calls, "resume")
	return m.err
}

func (m *mockPlayback) Skip(_ context.Context, _ usecases.SkipInput) (*usecases.SkipOutput, error) {
	m.calls = append(m.calls, "skip")
	if m.err != nil {
		return nil, m.err
	}
	return m.skipOut, nil
}

func (m *mockPlayback) Stop(_ context.Context, _ usecases.StopInput) (*usecases.StopOutput, error) {
	m.calls = append(m.calls, "stop")
	if m.err != nil {
		return nil, m.err
	}
	return m.stopOut, nil
}

type mockQueue struct {
	out *usecases.QueueListOutput
	err error
}

func (m *mockQueue) List(
	_ context.Context,
	_ usecases.QueueListInput,
) (*usecases.QueueListOutput, error) {
	return m.out, m.err
}

var (
	_ PlaybackController = (*mockPlayback)(nil)
	_ QueueLister        = (*mockQueue)(nil)
)
