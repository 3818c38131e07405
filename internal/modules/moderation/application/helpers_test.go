package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	testGuildID   = snowflake.ID(1)
	testUserID    = snowflake.ID(2)
	testChannelID = snowflake.ID(3)
	testMessageID = snowflake.ID(4)
	testBotID     = snowflake.ID(99)

	testWindow = 4 * time.Hour
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type timeoutCall struct {
	guildID snowflake.ID
	userID  snowflake.ID
	until   time.Time
	reason  string
}

type mockEnforcer struct {
	mu    sync.Mutex
	calls []timeoutCall
	err   error
}

func (m *mockEnforcer) Timeout(
	_ context.Context,
	guildID, userID snowflake.ID,
	until time.Time,
	reason string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, timeoutCall{guildID: guildID, userID: userID, until: until, reason: reason})
	return m.err
}

func (m *mockEnforcer) timeouts() []timeoutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]timeoutCall(nil), m.calls...)
}

type mockMessenger struct {
	mu        sync.Mutex
	sent      []string
	deleted   []snowflake.ID
	modLogs   []domain.Sanction
	sendErr   error
	deleteErr error
	modLogErr error
}

func (m *mockMessenger) Send(_ context.Context, _ snowflake.ID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, content)
	return m.sendErr
}

func (m *mockMessenger) Delete(_ context.Context, _, messageID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return m.deleteErr
}

func (m *mockMessenger) SendModLog(_ context.Context, sanction domain.Sanction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modLogs = append(m.modLogs, sanction)
	return m.modLogErr
}

func (m *mockMessenger) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func newTestEngine(enforcer Enforcer, clk clockwork.Clock) *Engine {
	return NewEngine(EngineConfig{
		Ladder:        domain.DefaultLadder,
		Window:        testWindow,
		SweepInterval: 10 * time.Minute,
	}, enforcer, clk, zap.NewNop())
}

func offenseBy(userID snowflake.ID) domain.Offense {
	return domain.Offense{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		MessageID: testMessageID,
		UserID:    userID,
		Content:   "jgl diff",
		Term:      "jgl diff",
	}
}

// waitForWaiters blocks until exactly n timers or tickers wait on the clock.
func waitForWaiters(t *testing.T, what string, fake *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fake.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("timed out waiting for %s", what)
	}
}

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
