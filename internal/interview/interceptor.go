package interview

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/agent"
	"github.com/jonathan/cfp-scout/internal/types"
)

// CommitProfileTool is the tool name the agent uses to commit a profile.
const CommitProfileTool = "commit_profile"

// Result messages sent back to the agent when resolving the tool call.
const (
	savedMessage    = "Profile saved successfully!"
	rejectedMessage = "Validation failed"
)

// toolReply is the JSON payload carried by the tool-result message.
type toolReply struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Outcome describes what the interceptor did with one assistant reply.
type Outcome struct {
	// Handled is true when a commit-profile call was found and resolved.
	Handled bool
	// Profile is the canonical profile, set only when validation succeeded.
	Profile *types.InterviewProfile
	// Errors holds the validation errors sent back to the agent, if any.
	Errors []string
	// FollowUp is the assistant reply to the tool resolution; it is the
	// newest message in the session once set.
	FollowUp *agent.Reply
}

// Interceptor inspects assistant replies for commit-profile tool calls,
// validates their arguments locally and resolves the call back into the
// conversation with a second round-trip.
type Interceptor struct {
	session *agent.Session
	log     *zap.Logger
}

// NewInterceptor creates an interceptor bound to a session.
func NewInterceptor(session *agent.Session, log *zap.Logger) *Interceptor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interceptor{session: session, log: log}
}

// HandleReply resolves the first commit-profile call found in the reply.
// On validation success the interview is marked complete and the canonical
// profile returned. On failure a structured rejection is replayed into the
// conversation so the agent can re-prompt; the interview stays open with no
// retry limit. Replies without a commit-profile call are returned unhandled.
func (i *Interceptor) HandleReply(ctx context.Context, reply *agent.Reply) (*Outcome, error) {
	call := findCommitCall(reply)
	if call == nil {
		return &Outcome{}, nil
	}

	result := ValidateRaw(call.Args)
	if !result.Success {
		i.log.Info("profile rejected",
			zap.String("session_id", i.session.ID()),
			zap.Strings("errors", result.Errors))

		followUp, err := i.session.ResolveTool(ctx, call.ToolCallID, toolReply{
			Success: false,
			Message: rejectedMessage,
			Errors:  result.Errors,
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{Handled: true, Errors: result.Errors, FollowUp: followUp}, nil
	}

	followUp, err := i.session.ResolveTool(ctx, call.ToolCallID, toolReply{
		Success: true,
		Message: savedMessage,
	})
	if err != nil {
		return nil, err
	}

	i.session.MarkComplete()
	i.log.Info("profile committed", zap.String("session_id", i.session.ID()))

	return &Outcome{Handled: true, Profile: result.Profile, FollowUp: followUp}, nil
}

// findCommitCall returns the first commit-profile invocation still in call
// state, or nil.
func findCommitCall(reply *agent.Reply) *types.ToolInvocation {
	for idx := range reply.ToolInvocations {
		inv := &reply.ToolInvocations[idx]
		if inv.ToolName == CommitProfileTool && inv.State == types.ToolStateCall {
			return inv
		}
	}
	return nil
}
