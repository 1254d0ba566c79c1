// Package types provides type definitions for structured data used throughout the cfp-scout system.
package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

// Message roles understood by the remote agent service.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// ToolInvocationState tracks whether an invocation is an open call or a resolved result.
type ToolInvocationState string

// Tool invocation states.
const (
	ToolStateCall   ToolInvocationState = "call"
	ToolStateResult ToolInvocationState = "result"
)

// ToolInvocation is a structured, named request embedded in an agent reply.
// A result invocation must reference the call it resolves via ToolCallID.
type ToolInvocation struct {
	ToolCallID string              `json:"tool_call_id"`
	ToolName   string              `json:"tool_name"`
	Args       json.RawMessage     `json:"args,omitempty"`
	State      ToolInvocationState `json:"state"`
	Result     json.RawMessage     `json:"result,omitempty"`
}

// Message represents a single turn entry in a conversation log.
// Messages are append-only and their order within a session is significant.
type Message struct {
	ID              string           `json:"id"`
	Role            Role             `json:"role"`
	Parts           []string         `json:"parts"`
	ToolInvocations []ToolInvocation `json:"tool_invocations,omitempty"`
	// ToolCallID and Content are set only on tool-result messages.
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Text returns the concatenated text parts of the message.
func (m *Message) Text() string {
	return strings.Join(m.Parts, "")
}

// Conversation holds one session's ordered message log.
type Conversation struct {
	SessionID  string    `json:"session_id"`
	Messages   []Message `json:"messages"`
	IsComplete bool      `json:"is_complete"`
}
