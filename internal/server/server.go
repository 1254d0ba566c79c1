// Package server exposes the interview and matching engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/agent"
	"github.com/jonathan/cfp-scout/internal/config"
	"github.com/jonathan/cfp-scout/internal/interview"
	"github.com/jonathan/cfp-scout/internal/profilestore"
	"github.com/jonathan/cfp-scout/internal/server/middleware"
	"github.com/jonathan/cfp-scout/internal/server/ratelimit"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AgentURL string
	// Store persists committed profiles; nil disables persistence.
	Store profilestore.Store
	// TokenHash, when set, is the bcrypt hash of the service token required
	// to open sessions.
	TokenHash   string
	TokenConfig *config.TokenConfig
	JWTConfig   *config.JWTConfig
	Logger      *zap.Logger
}

// sessionEntry pairs a live session with its tool-call interceptor.
type sessionEntry struct {
	session     *agent.Session
	interceptor *interview.Interceptor
}

// Server is the HTTP front for interview sessions and match scoring.
type Server struct {
	httpServer  *http.Server
	agentClient *agent.Client
	store       profilestore.Store
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	tokenHash   string
	tokenConfig *config.TokenConfig
	log         *zap.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// New creates a server instance.
func New(cfg Config) (*Server, error) {
	if cfg.AgentURL == "" {
		return nil, fmt.Errorf("agent URL is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	jwtCfg := cfg.JWTConfig
	if jwtCfg == nil {
		parsed, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		jwtCfg = parsed
	}

	tokenCfg := cfg.TokenConfig
	if tokenCfg == nil && cfg.TokenHash != "" {
		parsed, err := config.NewTokenConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create token config: %w", err)
		}
		tokenCfg = parsed
	}

	s := &Server{
		agentClient: agent.NewClient(cfg.AgentURL, agent.WithLogger(log)),
		store:       cfg.Store,
		jwtService:  NewJWTService(jwtCfg),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		tokenHash:   cfg.TokenHash,
		tokenConfig: tokenCfg,
		log:         log,
		sessions:    make(map[string]*sessionEntry),
	}

	auth := middleware.Auth(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.Handle("POST /sessions/{id}/messages", auth(http.HandlerFunc(s.handleSendMessage)))
	mux.Handle("GET /sessions/{id}", auth(http.HandlerFunc(s.handleGetSession)))
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler exposes the configured handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens for requests until an interrupt arrives, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) getSession(id string) (*sessionEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	return entry, ok
}

func (s *Server) putSession(id string, entry *sessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry
}
