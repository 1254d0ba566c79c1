// Package agent implements the conversational interview protocol against the
// remote agent service: session ownership, turn round-trips and the wire
// format the service expects.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/types"
)

// DefaultTimeout is the default HTTP request timeout for one turn.
const DefaultTimeout = 60 * time.Second

// TransportError represents a failed turn round-trip. The message log is
// never rolled back on a transport error; callers retry by sending again.
type TransportError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("agent transport error: %s: %v", e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("agent transport error: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("agent transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Reply is the assistant's answer to one turn.
type Reply struct {
	Text            string
	ToolInvocations []types.ToolInvocation
}

// wirePart is one content part of a wire message.
type wirePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// wireMessage is the agent service's message shape.
type wireMessage struct {
	ID              string                 `json:"id"`
	Role            string                 `json:"role"`
	Parts           []wirePart             `json:"parts,omitempty"`
	ToolInvocations []types.ToolInvocation `json:"tool_invocations,omitempty"`
	ToolCallID      string                 `json:"tool_call_id,omitempty"`
	Content         string                 `json:"content,omitempty"`
}

// chatRequest is the request body for one turn. The agent service is
// stateless per request, so every turn carries the complete message log.
type chatRequest struct {
	ID       string        `json:"id"`
	Messages []wireMessage `json:"messages"`
}

// chatResponse is the agent service's reply. Text arrives either as a flat
// field or as a parts array whose text entries must be concatenated.
type chatResponse struct {
	Text            string                 `json:"text,omitempty"`
	Parts           []wirePart             `json:"parts,omitempty"`
	ToolInvocations []types.ToolInvocation `json:"tool_invocations,omitempty"`
}

// Client talks to the remote agent service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger to the client.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the agent service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs one turn round-trip carrying the full message log and
// returns the assistant reply.
func (c *Client) Send(ctx context.Context, sessionID string, messages []types.Message) (*Reply, error) {
	body, err := json.Marshal(chatRequest{
		ID:       sessionID,
		Messages: toWire(messages),
	})
	if err != nil {
		return nil, &TransportError{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending turn",
		zap.String("session_id", sessionID),
		zap.Int("message_count", len(messages)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    "agent service returned non-success status",
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &TransportError{Message: "failed to decode response", Cause: err}
	}

	return &Reply{
		Text:            parsed.text(),
		ToolInvocations: parsed.ToolInvocations,
	}, nil
}

// text returns the flat text field when present, otherwise the concatenation
// of all text parts.
func (r *chatResponse) text() string {
	if r.Text != "" {
		return r.Text
	}
	var buf bytes.Buffer
	for _, p := range r.Parts {
		if p.Type == "text" {
			buf.WriteString(p.Text)
		}
	}
	return buf.String()
}

// toWire converts the domain message log into the service's wire shape.
func toWire(messages []types.Message) []wireMessage {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wm := wireMessage{
			ID:              m.ID,
			Role:            string(m.Role),
			ToolInvocations: m.ToolInvocations,
			ToolCallID:      m.ToolCallID,
			Content:         m.Content,
		}
		for _, part := range m.Parts {
			wm.Parts = append(wm.Parts, wirePart{Type: "text", Text: part})
		}
		wire = append(wire, wm)
	}
	return wire
}
