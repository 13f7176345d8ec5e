// Package mcp exposes a TurnEngine as Model Context Protocol tools.
package mcp

import (
	"context"
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
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const graphURI = "ticketchat://graph"

// TurnArgs are the arguments of the chat_turn tool.
// With SessionID set, the server keeps the history and History must be empty.
type TurnArgs struct {
	Message   string           `json:"message"`
	History   []domain.Message `json:"history,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
}

// ClassifyArgs are the arguments of the classify tool.
type ClassifyArgs struct {
	Message string `json:"message"`
}

// TurnResult is returned by chat_turn. The caller sends History back on the next call.
type TurnResult struct {
	History []domain.Message `json:"history" jsonschema_description:"Full conversation after the turn"`
	Replies []domain.Message `json:"replies" jsonschema_description:"Assistant messages produced by this turn"`
	Path    []domain.Step    `json:"path" jsonschema_description:"Controller steps visited"`
}

// IntentResult is returned by classify.
type IntentResult struct {
	Kind      domain.IntentKind `json:"kind"`
	Status    string            `json:"status,omitempty"`
	TicketKey string            `json:"ticket_key,omitempty"`
	Label     string            `json:"label"`
}

// Server wraps a TurnEngine and exposes it as an MCP server.
type Server struct {
	engine    ports.TurnEngine
	sessions  ports.SessionTurner
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessions lets chat_turn callers pass a session_id instead of the history.
func WithSessions(sessions ports.SessionTurner) Option {
	return func(s *Server) {
		s.sessions = sessions
	}
}

// NewServer creates an MCP server for engine.
func NewServer(engine ports.TurnEngine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("ticketchat-mcp", strings.TrimSpace(ticketchat.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	messageSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role":    map[string]any{"type": "string", "enum": []string{"human", "assistant"}},
			"content": map[string]any{"type": "string"},
		},
		"required": []string{"role", "content"},
	}

	// TOOL: chat_turn
	s.mcpServer.AddTool(mcp.NewTool("chat_turn",
		mcp.WithDescription("Run one conversation turn with the ticket assistant. Pass back the returned history on the next call."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithArray("history", mcp.Description("Conversation so far, as returned by the previous call"), mcp.Items(messageSchema)),
		mcp.WithString("session_id", mcp.Description("Keep the conversation on the server under this ID instead of passing history (optional)")),
		mcp.WithOutputSchema[TurnResult](),
	), mcp.NewStructuredToolHandler(s.handleTurn))

	// TOOL: classify
	s.mcpServer.AddTool(mcp.NewTool("classify",
		mcp.WithDescription("Show which intent a message would be routed to, without running it."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The message to classify")),
		mcp.WithOutputSchema[IntentResult](),
	), mcp.NewStructuredToolHandler(s.handleClassify))

	// TOOL: list_statuses
	s.mcpServer.AddTool(mcp.NewTool("list_statuses",
		mcp.WithDescription("List the ticket statuses known to the tracker."),
	), s.handleListStatuses)

	// TOOL: list_tickets
	s.mcpServer.AddTool(mcp.NewTool("list_tickets",
		mcp.WithDescription("List the current user's tickets, optionally filtered by status."),
		mcp.WithString("status", mcp.Description("Status name to filter by (optional)")),
	), s.handleListTickets)

	// TOOL: summarize_ticket
	s.mcpServer.AddTool(mcp.NewTool("summarize_ticket",
		mcp.WithDescription("Summarize one ticket by key, e.g. PROJ-123."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Ticket key")),
	), s.handleSummarize)
}

func (s *Server) handleTurn(ctx context.Context, request mcp.CallToolRequest, args TurnArgs) (TurnResult, error) {
	clean, err := runner.SanitizeInput(args.Message)
	if err != nil {
		s.logger.Warn("MCP chat_turn: input rejected", "err", err, "size", len(args.Message))
		return TurnResult{}, fmt.Errorf("input rejected: %w", err)
	}
	for i, m := range args.History {
		if !m.Role.Valid() {
			return TurnResult{}, fmt.Errorf("invalid role %q at history[%d]", m.Role, i)
		}
	}

	var prior, next *domain.DialogueState
	if args.SessionID != "" {
		if s.sessions == nil {
			return TurnResult{}, errors.New("sessions are not enabled on this server")
		}
		if len(args.History) > 0 {
			return TurnResult{}, errors.New("history and session_id are mutually exclusive")
		}
		prior, next, err = s.sessions.Turn(ctx, s.engine, args.SessionID, clean)
	} else {
		if len(args.History) > 0 {
			prior = &domain.DialogueState{History: args.History}
		}
		next, err = s.engine.Turn(ctx, prior, clean)
	}
	if err != nil {
		s.logger.Error("MCP chat_turn failed", "err", err)
		return TurnResult{}, fmt.Errorf("turn failed: %w", err)
	}

	replies := domain.AssistantReplies(domain.NewMessages(prior, next))
	if replies == nil {
		replies = []domain.Message{}
	}
	return TurnResult{History: next.History, Replies: replies, Path: next.Path}, nil
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest, args ClassifyArgs) (IntentResult, error) {
	in, err := s.engine.Classify(ctx, args.Message)
	if err != nil {
		return IntentResult{}, fmt.Errorf("classify failed: %w", err)
	}
	return IntentResult{Kind: in.Kind, Status: in.Status, TicketKey: in.TicketKey, Label: in.String()}, nil
}

func (s *Server) handleListStatuses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src := s.engine.Tickets()
	if src == nil {
		return mcp.NewToolResultError(domain.ErrNoCollaborator.Error()), nil
	}
	statuses, err := src.ListStatuses(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list statuses failed: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.Join(statuses, "\n")), nil
}

func (s *Server) handleListTickets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src := s.engine.Tickets()
	if src == nil {
		return mcp.NewToolResultError(domain.ErrNoCollaborator.Error()), nil
	}
	text, err := src.ListTickets(ctx, strings.TrimSpace(request.GetString("status", "")))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list tickets failed: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	src := s.engine.Tickets()
	if src == nil {
		return mcp.NewToolResultError(domain.ErrNoCollaborator.Error()), nil
	}
	text, err := src.SummarizeTicket(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summarize failed: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Controller state machine",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Graph())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
