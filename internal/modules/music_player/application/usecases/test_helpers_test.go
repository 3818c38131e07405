package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	testGuildID        = snowflake.ID(1)
	testUserID         = snowflake.ID(2)
	testTextChannelID  = snowflake.ID(3)
	testVoiceChannelID = snowflake.ID(4)
	testBotID          = snowflake.ID(99)
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func mockTrack(title string) *domain.Track {
	return &domain.Track{
		Title:       title,
		Artist:      "Artist",
		SourceURI:   "https://example.com/" + title,
		Duration:    3 * time.Minute,
		RequesterID: testUserID,
	}
}

type mockRepository struct {
	mu          sync.Mutex
	states      map[snowflake.ID]*domain.PlayerState
	generations map[snowflake.ID]uint64
	deleted     []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		states:      make(map[snowflake.ID]*domain.PlayerState),
		generations: make(map[snowflake.ID]uint64),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[guildID]
}

func (m *mockRepository) Save(state *domain.PlayerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.GetGuildID()] = state
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, guildID)
	delete(m.states, guildID)
}

func (m *mockRepository) Reset(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, guildID)
	m.generations[guildID]++
}

func (m *mockRepository) Generation(guildID snowflake.ID) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[guildID]
}

// createConnectedState creates an idle PlayerState in the test guild and saves it.
func (m *mockRepository) createConnectedState() *domain.PlayerState {
	state := domain.NewPlayerState(testGuildID, testVoiceChannelID, testTextChannelID)
	m.Save(state)
	return state
}

// createPlayingState creates a state playing current with the given tracks queued.
func (m *mockRepository) createPlayingState(
	current *domain.Track,
	queued ...*domain.Track,
) *domain.PlayerState {
	state := m.createConnectedState()
	state.StartPlayback(current, domain.NewPlaybackID())
	for _, track := range queued {
		state.Queue.Push(track)
	}
	return state
}

type playCall struct {
	guildID    snowflake.ID
	playbackID domain.PlaybackID
	track      *domain.Track
}

type mockAudioPlayer struct {
	mu        sync.Mutex
	plays     []playCall
	stops     int
	pauses    int
	resumes   int
	playErrs  map[string]error // keyed by track title
	stopErr   error
	pauseErr  error
	resumeErr error
}

func (m *mockAudioPlayer) Play(
	_ context.Context,
	guildID snowflake.ID,
	playbackID domain.PlaybackID,
	track *domain.Track,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playErrs[track.Title]; err != nil {
		return err
	}
	m.plays = append(m.plays, playCall{guildID: guildID, playbackID: playbackID, track: track})
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return m.stopErr
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	return m.pauseErr
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
	return m.resumeErr
}

func (m *mockAudioPlayer) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}

func (m *mockAudioPlayer) lastPlay() playCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.plays) == 0 {
		return playCall{}
	}
	return m.plays[len(m.plays)-1]
}

type mockVoiceConnection struct {
	mu       sync.Mutex
	joins    []snowflake.ID // channel IDs joined, in order
	leaves   int
	joinErr  error
	leaveErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joins = append(m.joins, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	return m.leaveErr
}

func (m *mockVoiceConnection) leaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaves
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(
	_, userID snowflake.ID,
) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

// mockTrackResolver returns a track titled after the query unless told otherwise.
type mockTrackResolver struct {
	err     error
	started chan struct{} // closed on first Resolve, if set
	release chan struct{} // Resolve blocks until closed, if set
	once    sync.Once
}

func (m *mockTrackResolver) Resolve(
	ctx context.Context,
	query domain.SearchQuery,
) (*domain.Track, error) {
	if m.started != nil {
		m.once.Do(func() { close(m.started) })
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return mockTrack(query.Query), nil
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *mockEventPublisher) Publish(event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) playbackStarted() []domain.PlaybackStartedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PlaybackStartedEvent
	for _, e := range m.events {
		if started, ok := e.(domain.PlaybackStartedEvent); ok {
			out = append(out, started)
		}
	}
	return out
}

func (m *mockEventPublisher) queueDrained() []domain.QueueDrainedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.QueueDrainedEvent
	for _, e := range m.events {
		if drained, ok := e.(domain.QueueDrainedEvent); ok {
			out = append(out, drained)
		}
	}
	return out
}

// playbackFixture bundles a PlaybackService with its collaborators.
type playbackFixture struct {
	repo       *mockRepository
	locks      *keylock.Locker[snowflake.ID]
	player     *mockAudioPlayer
	voice      *mockVoiceConnection
	voiceState *mockVoiceStateProvider
	resolver   *mockTrackResolver
	publisher  *mockEventPublisher
	clock      *clockwork.FakeClock
	service    *PlaybackService
	queue      *QueueService
}

func newPlaybackFixture() *playbackFixture {
	f := &playbackFixture{
		repo:   newMockRepository(),
		locks:  keylock.New[snowflake.ID](),
		player: &mockAudioPlayer{playErrs: make(map[string]error)},
		voice:  &mockVoiceConnection{},
		voiceState: &mockVoiceStateProvider{
			channels: map[snowflake.ID]snowflake.ID{testUserID: testVoiceChannelID},
		},
		resolver:  &mockTrackResolver{},
		publisher: &mockEventPublisher{},
		clock:     clockwork.NewFakeClockAt(testEpoch),
	}
	f.service = NewPlaybackService(
		f.repo,
		f.locks,
		f.player,
		f.voice,
		f.voiceState,
		f.resolver,
		f.publisher,
		f.clock,
		zap.NewNop(),
	)
	f.queue = NewQueueService(f.repo, f.locks)
	return f
}

func (f *playbackFixture) enqueue(query string) (*EnqueueOutput, error) {
	return f.service.Enqueue(context.Background(), EnqueueInput{
		GuildID:               testGuildID,
		UserID:                testUserID,
		NotificationChannelID: testTextChannelID,
		Query:                 query,
	})
}

// endCurrent simulates the audio player reporting the end of the active attempt.
func (f *playbackFixture) endCurrent(reason domain.TrackEndReason) {
	var playbackID domain.PlaybackID
	if state := f.repo.Get(testGuildID); state != nil {
		playbackID = state.PlaybackID()
	}
	f.service.HandleTrackEnded(context.Background(), domain.TrackEndedEvent{
		GuildID:    testGuildID,
		PlaybackID: playbackID,
		Reason:     reason,
	})
}

var _ ports.TrackResolver = (*mockTrackResolver)(nil)
