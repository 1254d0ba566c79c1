package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/agent"
	"github.com/jonathan/cfp-scout/internal/interview"
	"github.com/jonathan/cfp-scout/internal/matching"
	"github.com/jonathan/cfp-scout/internal/prompts"
	"github.com/jonathan/cfp-scout/internal/server/middleware"
	"github.com/jonathan/cfp-scout/internal/suggest"
	"github.com/jonathan/cfp-scout/internal/types"
)

var validate = validator.New()

// sessionResponse is returned for session creation and message turns.
type sessionResponse struct {
	SessionID        string                  `json:"session_id"`
	Token            string                  `json:"token,omitempty"`
	Text             string                  `json:"text"`
	QuickReplies     []string                `json:"quick_replies,omitempty"`
	Complete         bool                    `json:"complete"`
	Profile          *types.InterviewProfile `json:"profile,omitempty"`
	ValidationErrors []string                `json:"validation_errors,omitempty"`
}

// handleCreateSession opens an interview session and returns a bearer token
// scoped to it. When a service token hash is configured, the caller must
// present the matching token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.tokenHash != "" {
		if s.tokenConfig == nil || !s.tokenConfig.VerifyToken(bearerToken(r), s.tokenHash) {
			s.errorResponse(w, http.StatusUnauthorized, "invalid service token")
			return
		}
	}

	session := agent.NewSession(s.agentClient,
		agent.WithSessionLogger(s.log),
		agent.WithOpening(prompts.Opening()))
	reply, err := session.Start(r.Context())
	if err != nil {
		s.log.Error("failed to start session", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "agent unavailable")
		return
	}

	entry := &sessionEntry{
		session:     session,
		interceptor: interview.NewInterceptor(session, s.log),
	}
	s.putSession(session.ID(), entry)

	token, err := s.jwtService.GenerateToken(session.ID())
	if err != nil {
		s.log.Error("failed to generate session token", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.jsonResponse(w, http.StatusCreated, sessionResponse{
		SessionID:    session.ID(),
		Token:        token,
		Text:         reply.Text,
		QuickReplies: suggest.QuickReplies(reply.Text),
	})
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// handleSendMessage forwards one user turn through the session, running the
// tool-call interceptor on the reply.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := entry.session.Send(r.Context(), req.Message)
	switch {
	case errors.Is(err, agent.ErrTurnInFlight):
		s.errorResponse(w, http.StatusConflict, "a turn is already in flight")
		return
	case errors.Is(err, agent.ErrSessionComplete):
		s.errorResponse(w, http.StatusConflict, "interview is complete")
		return
	case errors.Is(err, agent.ErrSessionReset):
		s.errorResponse(w, http.StatusConflict, "session was reset")
		return
	case err != nil:
		s.log.Error("send failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "agent unavailable")
		return
	}

	outcome, err := entry.interceptor.HandleReply(r.Context(), reply)
	if err != nil {
		s.log.Error("tool handling failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "agent unavailable")
		return
	}

	resp := sessionResponse{
		SessionID: entry.session.ID(),
		Text:      reply.Text,
		Complete:  entry.session.IsComplete(),
	}
	if outcome.Handled {
		if outcome.FollowUp != nil {
			resp.Text = outcome.FollowUp.Text
		}
		resp.ValidationErrors = outcome.Errors
		if outcome.Profile != nil {
			resp.Profile = outcome.Profile
			s.persistProfile(r, outcome.Profile)
		}
	}
	resp.QuickReplies = suggest.QuickReplies(resp.Text)

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetSession reports the session transcript and state.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, entry.session.Conversation())
}

type scoreRequest struct {
	Profile    *types.InterviewProfile `json:"profile"`
	Topics     []string                `json:"topics"`
	Candidates []types.CandidateRecord `json:"candidates" validate:"required,min=1"`
}

type scoredCandidate struct {
	Candidate types.CandidateRecord `json:"candidate"`
	Score     int                   `json:"score"`
	Reasons   []string              `json:"reasons"`
}

// handleScore ranks the submitted candidates against a profile, or against a
// bare topic list when no profile is given.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "at least one candidate is required")
		return
	}

	var (
		ranked []matching.RankedCandidate
		err    error
	)
	if req.Profile != nil {
		ranked, err = matching.RankAll(r.Context(), req.Candidates, req.Profile)
	} else {
		ranked, err = matching.RankAllTopics(r.Context(), req.Candidates, req.Topics)
	}
	if err != nil {
		s.log.Error("ranking failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "ranking failed")
		return
	}

	out := make([]scoredCandidate, len(ranked))
	for i, rc := range ranked {
		out[i] = scoredCandidate{
			Candidate: rc.Candidate,
			Score:     rc.Result.Score,
			Reasons:   rc.Result.Reasons,
		}
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// authorizedSession resolves the path session and checks it matches the
// token's session claim.
func (s *Server) authorizedSession(w http.ResponseWriter, r *http.Request) (*sessionEntry, bool) {
	pathID := r.PathValue("id")
	tokenID, err := middleware.GetSessionID(r)
	if err != nil || tokenID != pathID {
		s.errorResponse(w, http.StatusForbidden, "token does not match session")
		return nil, false
	}

	entry, ok := s.getSession(pathID)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return entry, true
}

// persistProfile saves a committed profile to the configured store.
func (s *Server) persistProfile(r *http.Request, profile *types.InterviewProfile) {
	if s.store == nil {
		return
	}
	stored, err := s.store.Load(r.Context())
	if err != nil {
		s.log.Error("failed to load stored profile", zap.Error(err))
		return
	}
	stored.Interview = profile
	if err := s.store.Save(r.Context(), stored); err != nil {
		s.log.Error("failed to save profile", zap.Error(err))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
