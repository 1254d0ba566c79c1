package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cfp-scout/internal/types"
)

// scriptedAgent serves queued JSON response bodies in order and records every
// request it receives.
type scriptedAgent struct {
	mu        sync.Mutex
	responses []string
	requests  []chatRequest
	srv       *httptest.Server
}

func newScriptedAgent(t *testing.T, responses ...string) *scriptedAgent {
	t.Helper()
	a := &scriptedAgent{responses: responses}
	a.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		a.requests = append(a.requests, req)
		if len(a.responses) == 0 {
			http.Error(w, "script exhausted", http.StatusInternalServerError)
			return
		}
		body := a.responses[0]
		a.responses = a.responses[1:]
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(a.srv.Close)
	return a
}

func (a *scriptedAgent) request(i int) chatRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[i]
}

func (a *scriptedAgent) requestCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

const toolCallReply = `{
	"text": "Let me save that.",
	"tool_invocations": [{
		"tool_call_id": "call_1",
		"tool_name": "commit_profile",
		"state": "call",
		"args": {"role": "SRE"}
	}]
}`

func TestSessionStart_GeneratesIDOnceAndSendsOpening(t *testing.T) {
	fake := newScriptedAgent(t, `{"text":"Welcome! What's your role?"}`, `{"text":"Nice."}`)
	session := NewSession(NewClient(fake.srv.URL))

	reply, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome! What's your role?", reply.Text)

	id := session.ID()
	require.NotEmpty(t, id)

	_, err = session.Send(context.Background(), "I'm an SRE")
	require.NoError(t, err)

	// The id is generated lazily once, then reused for every turn.
	assert.Equal(t, id, session.ID())
	assert.Equal(t, id, fake.request(0).ID)
	assert.Equal(t, id, fake.request(1).ID)

	history := session.History()
	require.Len(t, history, 4)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, DefaultOpening, history[0].Text())
	assert.Equal(t, types.RoleAssistant, history[1].Role)
}

func TestSessionSend_AppendsUserAndAssistant(t *testing.T) {
	fake := newScriptedAgent(t, `{"text":"Got it."}`)
	session := NewSession(NewClient(fake.srv.URL))

	reply, err := session.Send(context.Background(), "I build data pipelines")
	require.NoError(t, err)
	assert.Equal(t, "Got it.", reply.Text)

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, "I build data pipelines", history[0].Text())
	assert.Equal(t, "Got it.", history[1].Text())
	assert.Equal(t, StateIdle, session.State())
}

func TestSessionSend_TransportFailureKeepsUserMessage(t *testing.T) {
	fake := newScriptedAgent(t) // empty script -> 500
	session := NewSession(NewClient(fake.srv.URL))

	_, err := session.Send(context.Background(), "hello?")
	require.Error(t, err)

	// The appended user message is not rolled back; a retry re-sends the
	// same history plus a fresh attempt.
	history := session.History()
	require.Len(t, history, 1)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, StateIdle, session.State())
}

func TestSessionSend_RejectsOverlappingTurns(t *testing.T) {
	fake := newScriptedAgent(t, `{"text":"ok"}`)
	session := NewSession(NewClient(fake.srv.URL))
	session.state = StateAwaitingReply

	_, err := session.Send(context.Background(), "second turn")
	assert.ErrorIs(t, err, ErrTurnInFlight)
}

func TestSessionSend_CompleteSessionRejectsSends(t *testing.T) {
	fake := newScriptedAgent(t)
	session := NewSession(NewClient(fake.srv.URL))
	session.MarkComplete()

	_, err := session.Send(context.Background(), "one more thing")
	assert.ErrorIs(t, err, ErrSessionComplete)
	assert.Equal(t, 0, fake.requestCount())
}

func TestSessionSend_ToolCallMovesToAwaitingToolResult(t *testing.T) {
	fake := newScriptedAgent(t, toolCallReply)
	session := NewSession(NewClient(fake.srv.URL))

	reply, err := session.Send(context.Background(), "ready to save")
	require.NoError(t, err)
	require.Len(t, reply.ToolInvocations, 1)
	assert.Equal(t, StateAwaitingToolResult, session.State())
}

func TestSessionResolveTool_ReplaysHistoryWithToolResult(t *testing.T) {
	fake := newScriptedAgent(t, toolCallReply, `{"text":"Your profile is saved."}`)
	session := NewSession(NewClient(fake.srv.URL))

	_, err := session.Send(context.Background(), "ready to save")
	require.NoError(t, err)

	// The log grows by exactly two messages for the tool turn: the
	// assistant message carrying the call, then the tool result.
	require.Len(t, session.History(), 3)

	followUp, err := session.ResolveTool(context.Background(), "call_1", map[string]any{"success": true})
	require.NoError(t, err)
	assert.Equal(t, "Your profile is saved.", followUp.Text)

	history := session.History()
	require.Len(t, history, 4)
	assert.Equal(t, types.RoleAssistant, history[3].Role)
	assert.Equal(t, "Your profile is saved.", history[3].Text())

	// The resolve round-trip replays the full history: the original
	// assistant message keeps its tool invocations and the tool-result
	// message references the call id.
	replay := fake.request(1)
	require.Len(t, replay.Messages, 3)
	assert.Equal(t, "assistant", replay.Messages[1].Role)
	require.Len(t, replay.Messages[1].ToolInvocations, 1)
	assert.Equal(t, "call_1", replay.Messages[1].ToolInvocations[0].ToolCallID)
	assert.Equal(t, "tool", replay.Messages[2].Role)
	assert.Equal(t, "call_1", replay.Messages[2].ToolCallID)
	assert.JSONEq(t, `{"success":true}`, replay.Messages[2].Content)
}

func TestSessionResolveTool_WithoutOpenCall(t *testing.T) {
	fake := newScriptedAgent(t)
	session := NewSession(NewClient(fake.srv.URL))

	_, err := session.ResolveTool(context.Background(), "call_1", map[string]any{"success": true})
	assert.ErrorIs(t, err, ErrNoOpenToolCall)
}

func TestSessionReset_DiscardsStaleReply(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"text":"too late"}`))
	}))
	defer srv.Close()

	session := NewSession(NewClient(srv.URL))

	errCh := make(chan error, 1)
	go func() {
		_, err := session.Send(context.Background(), "hello")
		errCh <- err
	}()

	// Wait for the turn to be in flight, then abandon the session.
	for session.State() != StateAwaitingReply {
		time.Sleep(time.Millisecond)
	}
	session.Reset()
	close(release)

	err := <-errCh
	assert.ErrorIs(t, err, ErrSessionReset)
	assert.Empty(t, session.History())
	assert.Empty(t, session.ID())
}

func TestSessionReset_ClearsState(t *testing.T) {
	fake := newScriptedAgent(t, `{"text":"hi"}`)
	session := NewSession(NewClient(fake.srv.URL))

	_, err := session.Send(context.Background(), "hello")
	require.NoError(t, err)
	session.MarkComplete()

	session.Reset()

	assert.Empty(t, session.ID())
	assert.Empty(t, session.History())
	assert.False(t, session.IsComplete())
	assert.Equal(t, StateIdle, session.State())
}
