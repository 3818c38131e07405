package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// voiceHandshake collects the two gateway events Lavalink needs to open a
// voice connection. They arrive in either order; forwarding only one of
// them yields "Partial Lavalink voice state" errors.
type voiceHandshake struct {
	mu sync.Mutex

	// From VoiceStateUpdate
	hasState  bool
	channelID *snowflake.ID
	sessionID string

	// From VoiceServerUpdate
	hasServer bool
	token     string
	endpoint  string

	// closed once a complete pair has been forwarded
	ready chan struct{}
}

func newVoiceHandshake() *voiceHandshake {
	return &voiceHandshake{ready: make(chan struct{})}
}

type voiceCredentials struct {
	channelID *snowflake.ID
	sessionID string
	token     string
	endpoint  string
}

// setState records the state half. It returns the full credentials once
// both halves are present.
func (h *voiceHandshake) setState(channelID *snowflake.ID, sessionID string) (voiceCredentials, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hasState = true
	h.channelID = channelID
	h.sessionID = sessionID

	return h.completeLocked()
}

// setServer records the server half. It returns the full credentials once
// both halves are present.
func (h *voiceHandshake) setServer(token, endpoint string) (voiceCredentials, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hasServer = true
	h.token = token
	h.endpoint = endpoint

	return h.completeLocked()
}

// completeLocked hands out the pair and starts collecting a new one.
func (h *voiceHandshake) completeLocked() (voiceCredentials, bool) {
	if !h.hasState || !h.hasServer {
		return voiceCredentials{}, false
	}

	creds := voiceCredentials{
		channelID: h.channelID,
		sessionID: h.sessionID,
		token:     h.token,
		endpoint:  h.endpoint,
	}
	h.hasState, h.hasServer = false, false
	h.channelID, h.sessionID = nil, ""
	h.token, h.endpoint = "", ""

	select {
	case <-h.ready:
	default:
		close(h.ready)
	}

	return creds, true
}

// done is closed after the first complete pair.
func (h *voiceHandshake) done() <-chan struct{} {
	return h.ready
}
