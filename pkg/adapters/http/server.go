// Package http exposes a TurnEngine as a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ticketchat"
	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
	"github.com/aretw0/ticketchat/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Server implements ServerInterface over a TurnEngine.
type Server struct {
	Engine ports.TurnEngine
	Logger *slog.Logger
	// Sessions serves turns that name a session_id. Nil disables them.
	Sessions ports.SessionTurner
}

var _ ServerInterface = (*Server)(nil)

type handlerConfig struct {
	logger     *slog.Logger
	sessions   ports.SessionTurner
	metrics    http.Handler
	validation bool
}

// Option configures NewHandler.
type Option func(*handlerConfig)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *handlerConfig) {
		c.metrics = h
	}
}

// WithSessions enables server-side conversations keyed by session_id.
func WithSessions(sessions ports.SessionTurner) Option {
	return func(c *handlerConfig) {
		c.sessions = sessions
	}
}

// WithValidation toggles request validation against the embedded API description (on by default).
func WithValidation(enabled bool) Option {
	return func(c *handlerConfig) {
		c.validation = enabled
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.TurnEngine, opts ...Option) (http.Handler, error) {
	cfg := handlerConfig{logger: logging.NewNop(), validation: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	server := &Server{Engine: engine, Logger: cfg.logger, Sessions: cfg.sessions}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog(cfg.logger))
	r.Use(enableCORS)

	if cfg.validation {
		doc, err := GetSwagger()
		if err != nil {
			return nil, err
		}
		validator, err := requestValidator(doc)
		if err != nil {
			return nil, err
		}
		r.Use(validator)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics)
	}

	return HandlerFromMux(server, r), nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", ww.Header().Get(RequestIDHeader),
			)
		})
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostTurn handles POST /v1/turn.
func (s *Server) PostTurn(w http.ResponseWriter, r *http.Request) {
	var body TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PostTurn: invalid request body", "err", err)
		return
	}

	msg, err := runner.SanitizeInput(body.Message)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("PostTurn: input rejected", "err", err, "size", len(body.Message))
		return
	}
	for i, m := range body.History {
		if !m.Role.Valid() {
			http.Error(w, fmt.Sprintf("Invalid role %q at history[%d]", m.Role, i), http.StatusBadRequest)
			return
		}
	}

	var prior, next *domain.DialogueState
	if body.SessionID != "" {
		if s.Sessions == nil {
			http.Error(w, "Sessions are not enabled", http.StatusServiceUnavailable)
			return
		}
		if len(body.History) > 0 {
			http.Error(w, "history and session_id are mutually exclusive", http.StatusConflict)
			return
		}
		prior, next, err = s.Sessions.Turn(r.Context(), s.Engine, body.SessionID, msg)
	} else {
		if len(body.History) > 0 {
			prior = &domain.DialogueState{History: body.History}
		}
		next, err = s.Engine.Turn(r.Context(), prior, msg)
	}
	if err != nil {
		s.fail(w, "PostTurn", err)
		return
	}

	replies := domain.AssistantReplies(domain.NewMessages(prior, next))
	if replies == nil {
		replies = []domain.Message{}
	}
	s.writeJSON(w, TurnResponse{History: next.History, Replies: replies, Path: next.Path})
}

// PostClassify handles POST /v1/classify.
func (s *Server) PostClassify(w http.ResponseWriter, r *http.Request) {
	var body ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in, err := s.Engine.Classify(r.Context(), body.Message)
	if err != nil {
		s.fail(w, "PostClassify", err)
		return
	}
	s.writeJSON(w, IntentResponse{Intent: in, Label: in.String()})
}

// GetStatuses handles GET /v1/statuses.
func (s *Server) GetStatuses(w http.ResponseWriter, r *http.Request) {
	src, ok := s.tickets(w)
	if !ok {
		return
	}
	statuses, err := src.ListStatuses(r.Context())
	if err != nil {
		s.fail(w, "GetStatuses", err)
		return
	}
	if statuses == nil {
		statuses = []string{}
	}
	s.writeJSON(w, StatusList{Statuses: statuses})
}

// GetTickets handles GET /v1/tickets.
func (s *Server) GetTickets(w http.ResponseWriter, r *http.Request, params GetTicketsParams) {
	src, ok := s.tickets(w)
	if !ok {
		return
	}
	status := ""
	if params.Status != nil {
		status = strings.TrimSpace(*params.Status)
	}
	text, err := src.ListTickets(r.Context(), status)
	if err != nil {
		s.fail(w, "GetTickets", err)
		return
	}
	s.writeJSON(w, TextResponse{Text: text})
}

// GetTicketSummary handles GET /v1/tickets/{key}/summary.
func (s *Server) GetTicketSummary(w http.ResponseWriter, r *http.Request, key string) {
	src, ok := s.tickets(w)
	if !ok {
		return
	}
	text, err := src.SummarizeTicket(r.Context(), key)
	if err != nil {
		s.fail(w, "GetTicketSummary", err)
		return
	}
	s.writeJSON(w, TextResponse{Text: text})
}

// GetGraph handles GET /v1/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Engine.Graph())
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, map[string]string{
		"app":         "ticketchat-http",
		"version":     strings.TrimSpace(ticketchat.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) tickets(w http.ResponseWriter) (ports.TicketSource, bool) {
	src := s.Engine.Tickets()
	if src == nil {
		http.Error(w, "Ticket source not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	return src, true
}

// fail maps engine errors to status codes: a missing collaborator is 503,
// a bad session ID 400, any other failure 502.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, domain.ErrNoCollaborator):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidSessionID):
		status = http.StatusBadRequest
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
	s.Logger.Error(op+" failed", "err", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
