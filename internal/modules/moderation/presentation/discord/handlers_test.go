package discord

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/bot"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

type stubStrikeReader struct {
	status  application.StrikeStatus
	queried []snowflake.ID
}

func (s *stubStrikeReader) Strikes(userID snowflake.ID) application.StrikeStatus {
	s.queried = append(s.queried, userID)
	return s.status
}

type recordingScreener struct {
	inputs []application.MessageInput
}

func (r *recordingScreener) HandleMessage(
	_ context.Context,
	input application.MessageInput,
) *domain.Sanction {
	r.inputs = append(r.inputs, input)
	return nil
}

func strikesInteraction(options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "1",
			ChannelID: "3",
			Member:    &discordgo.Member{User: &discordgo.User{ID: "2"}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    "strikes",
				Options: options,
			},
		},
	}
}

func TestHandleStrikes(t *testing.T) {
	clearsAt := time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		interaction *discordgo.InteractionCreate
		status      application.StrikeStatus
		wantUser    snowflake.ID
		wantText    string
		wantFields  int
	}{
		{
			name:        "caller without strikes",
			interaction: strikesInteraction(),
			status:      application.StrikeStatus{NextDuration: 30 * time.Second},
			wantUser:    2,
			wantText:    "<@2> has no active strikes.",
			wantFields:  1,
		},
		{
			name: "named user",
			interaction: strikesInteraction(&discordgo.ApplicationCommandInteractionDataOption{
				Name:  "user",
				Type:  discordgo.ApplicationCommandOptionUser,
				Value: "7",
			}),
			status:     application.StrikeStatus{Active: 2, NextDuration: 5 * time.Minute, ClearsAt: clearsAt},
			wantUser:   7,
			wantText:   "<@7> has 2 active strikes.",
			wantFields: 2,
		},
		{
			name: "direct message",
			interaction: &discordgo.InteractionCreate{
				Interaction: &discordgo.Interaction{
					Type: discordgo.InteractionApplicationCommand,
					User: &discordgo.User{ID: "5"},
					Data: discordgo.ApplicationCommandInteractionData{Name: "strikes"},
				},
			},
			status:     application.StrikeStatus{Active: 1, NextDuration: 2 * time.Minute, ClearsAt: clearsAt},
			wantUser:   5,
			wantText:   "<@5> has 1 active strike.",
			wantFields: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &stubStrikeReader{status: tt.status}
			handlers := NewCommandHandlers(reader)
			responder := &bot.MockResponder{}

			if err := handlers.HandleStrikes(nil, tt.interaction, responder); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(reader.queried) != 1 || reader.queried[0] != tt.wantUser {
				t.Fatalf("expected lookup of %s, got %v", tt.wantUser, reader.queried)
			}

			data := responder.LastResponse.Data
			if data.Flags&discordgo.MessageFlagsEphemeral == 0 {
				t.Error("expected an ephemeral response")
			}
			embed := data.Embeds[0]
			if embed.Description != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, embed.Description)
			}
			if len(embed.Fields) != tt.wantFields {
				t.Errorf("expected %d fields, got %d", tt.wantFields, len(embed.Fields))
			}
			if embed.Fields[0].Value != domain.FormatDuration(tt.status.NextDuration) {
				t.Errorf("unexpected next timeout %q", embed.Fields[0].Value)
			}
		})
	}
}

func TestBuildStrikesEmbed_ClearsAt(t *testing.T) {
	clearsAt := time.Unix(1700000000, 0)
	embed := buildStrikesEmbed(2, application.StrikeStatus{
		Active:       3,
		NextDuration: 10 * time.Minute,
		ClearsAt:     clearsAt,
	})

	if got := embed.Fields[1].Value; got != "<t:1700000000:R>" {
		t.Errorf("unexpected clears field %q", got)
	}
}

func TestHandleMessageCreate(t *testing.T) {
	tests := []struct {
		name    string
		message *discordgo.Message
		want    *application.MessageInput
	}{
		{
			name: "guild message",
			message: &discordgo.Message{
				ID:        "10",
				GuildID:   "1",
				ChannelID: "3",
				Author:    &discordgo.User{ID: "2"},
				Content:   "GG jgl diff",
			},
			want: &application.MessageInput{
				GuildID:   1,
				ChannelID: 3,
				MessageID: 10,
				AuthorID:  2,
				Content:   "GG jgl diff",
			},
		},
		{
			name: "direct message",
			message: &discordgo.Message{
				ID:        "10",
				ChannelID: "3",
				Author:    &discordgo.User{ID: "2"},
				Content:   "jgl diff",
			},
		},
		{
			name: "no author",
			message: &discordgo.Message{
				ID:        "10",
				GuildID:   "1",
				ChannelID: "3",
			},
		},
		{
			name: "malformed author",
			message: &discordgo.Message{
				ID:        "10",
				GuildID:   "1",
				ChannelID: "3",
				Author:    &discordgo.User{ID: "someone"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screener := &recordingScreener{}
			handlers := NewEventHandlers(context.Background(), screener, zap.NewNop())

			handlers.HandleMessageCreate(nil, &discordgo.MessageCreate{Message: tt.message})

			if tt.want == nil {
				if len(screener.inputs) != 0 {
					t.Errorf("expected message to be ignored, got %+v", screener.inputs)
				}
				return
			}
			if len(screener.inputs) != 1 || screener.inputs[0] != *tt.want {
				t.Errorf("expected %+v, got %+v", *tt.want, screener.inputs)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	commands := Commands()
	if len(commands) != 1 || commands[0].Name != "strikes" {
		t.Fatalf("unexpected commands %+v", commands)
	}
	if !strings.Contains(commands[0].Description, "strikes") {
		t.Errorf("unexpected description %q", commands[0].Description)
	}
}
