package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/types"
)

// State is the session's turn-taking state. Transitions are
// idle → awaiting-reply → (awaiting-tool-result →) idle, and any state can
// move to complete once a profile has been committed.
type State string

// Session states.
const (
	StateIdle               State = "idle"
	StateAwaitingReply      State = "awaiting-reply"
	StateAwaitingToolResult State = "awaiting-tool-result"
	StateComplete           State = "complete"
)

// Turn-taking errors.
var (
	// ErrTurnInFlight is returned when a send overlaps an outstanding turn.
	// Each turn's request body depends on the complete prior history, so
	// overlapping sends on one session are rejected rather than queued.
	ErrTurnInFlight = errors.New("a turn is already in flight for this session")
	// ErrSessionComplete is returned when sending into a finished interview.
	ErrSessionComplete = errors.New("session is complete")
	// ErrSessionReset is returned when a reply arrives for a session that
	// was reset while the request was in flight. The reply is discarded.
	ErrSessionReset = errors.New("session was reset while the turn was in flight")
	// ErrNoOpenToolCall is returned when resolving a tool call the session
	// is not waiting on.
	ErrNoOpenToolCall = errors.New("session has no open tool call")
)

// DefaultOpening is the synthetic user utterance that starts the interview.
const DefaultOpening = "Hi! I'd like to set up my speaker profile."

// Session owns one interview conversation: the session id (generated once,
// reused for every turn), the append-only message log and the turn state.
// A Session is safe for concurrent use, but only one turn can be in flight
// at a time.
type Session struct {
	client  *Client
	log     *zap.Logger
	now     func() time.Time
	opening string

	mu       sync.Mutex
	id       string
	epoch    int
	state    State
	complete bool
	messages []types.Message
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithSessionLogger attaches a logger to the session.
func WithSessionLogger(log *zap.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// WithOpening overrides the synthetic opening utterance.
func WithOpening(text string) SessionOption {
	return func(s *Session) { s.opening = text }
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session bound to the given client.
func NewSession(client *Client, opts ...SessionOption) *Session {
	s := &Session{
		client:  client,
		log:     zap.NewNop(),
		now:     time.Now,
		opening: DefaultOpening,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start lazily creates the session id and sends the synthetic opening
// utterance, returning the first assistant reply.
func (s *Session) Start(ctx context.Context) (*Reply, error) {
	s.mu.Lock()
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.mu.Unlock()
	return s.Send(ctx, s.opening)
}

// Send appends a user message, performs one round-trip carrying the full
// message log, appends the assistant reply and returns it. On transport
// failure the user message is retained, so a retry re-sends the same history
// plus a fresh attempt.
func (s *Session) Send(ctx context.Context, text string) (*Reply, error) {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		return nil, ErrSessionComplete
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.state = StateAwaitingReply
	s.appendLocked(types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleUser,
		Parts:     []string{text},
		CreatedAt: s.now(),
	})
	sessionID, epoch, history := s.id, s.epoch, s.snapshotLocked()
	s.mu.Unlock()

	reply, err := s.client.Send(ctx, sessionID, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// The session was reset mid-flight; this reply belongs to a
		// conversation that no longer exists.
		return nil, ErrSessionReset
	}
	if err != nil {
		s.state = StateIdle
		return nil, fmt.Errorf("turn failed: %w", err)
	}

	s.appendLocked(assistantMessage(reply, s.now()))
	if hasOpenToolCall(reply) {
		s.state = StateAwaitingToolResult
	} else {
		s.state = StateIdle
	}
	return reply, nil
}

// ResolveTool resolves an open tool call: it appends a tool-result message
// whose content is the JSON-encoded payload, round-trips the full history
// (original assistant tool invocations intact) and appends the follow-up
// assistant reply, which becomes the newest message.
func (s *Session) ResolveTool(ctx context.Context, toolCallID string, payload any) (*Reply, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}

	s.mu.Lock()
	if s.state != StateAwaitingToolResult {
		s.mu.Unlock()
		return nil, ErrNoOpenToolCall
	}
	s.state = StateAwaitingReply
	s.appendLocked(types.Message{
		ID:         uuid.NewString(),
		Role:       types.RoleTool,
		ToolCallID: toolCallID,
		Content:    string(content),
		CreatedAt:  s.now(),
	})
	sessionID, epoch, history := s.id, s.epoch, s.snapshotLocked()
	s.mu.Unlock()

	reply, err := s.client.Send(ctx, sessionID, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, ErrSessionReset
	}
	if err != nil {
		s.state = StateIdle
		return nil, fmt.Errorf("tool resolution turn failed: %w", err)
	}

	s.appendLocked(assistantMessage(reply, s.now()))
	if hasOpenToolCall(reply) {
		s.state = StateAwaitingToolResult
	} else {
		s.state = StateIdle
	}
	return reply, nil
}

// MarkComplete flags the interview as finished. Further sends fail with
// ErrSessionComplete.
func (s *Session) MarkComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete = true
	s.state = StateComplete
}

// Reset clears the session id and log. It does not cancel an in-flight
// request; a stale reply is discarded when it lands (see epoch check above).
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.id = ""
	s.messages = nil
	s.complete = false
	s.state = StateIdle
	s.log.Debug("session reset", zap.Int("epoch", s.epoch))
}

// ID returns the session id, empty until the first turn.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the current turn state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsComplete reports whether the interview has committed a profile.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// History returns a copy of the ordered message log.
func (s *Session) History() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Conversation returns a snapshot of the session as a Conversation value.
func (s *Session) Conversation() types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.Conversation{
		SessionID:  s.id,
		Messages:   s.snapshotLocked(),
		IsComplete: s.complete,
	}
}

func (s *Session) appendLocked(m types.Message) {
	s.messages = append(s.messages, m)
}

func (s *Session) snapshotLocked() []types.Message {
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func assistantMessage(reply *Reply, at time.Time) types.Message {
	return types.Message{
		ID:              uuid.NewString(),
		Role:            types.RoleAssistant,
		Parts:           []string{reply.Text},
		ToolInvocations: reply.ToolInvocations,
		CreatedAt:       at,
	}
}

func hasOpenToolCall(reply *Reply) bool {
	for _, inv := range reply.ToolInvocations {
		if inv.State == types.ToolStateCall {
			return true
		}
	}
	return false
}
