// Package jira implements ports.TicketSource against the Jira REST API.
package jira

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backend "github.com/andygrunwald/go-jira"
	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/tickets"
)

// DefaultPageSize is the number of issues requested per search page.
const DefaultPageSize = 50

var listFields = []string{"summary", "status", "updated"}

// Config holds the connection settings for a Jira instance.
type Config struct {
	BaseURL  string
	Username string
	// Token is a personal access token or API token. With an empty Username
	// it is sent as a bearer token, otherwise as the basic-auth password.
	Token string
}

// Source implements ports.TicketSource using Jira.
type Source struct {
	client     *backend.Client
	pageSize   int
	maxTickets int
	summarizer *tickets.Summarizer
	logger     *slog.Logger
	transport  http.RoundTripper
	timeout    time.Duration
}

// Option configures the Source.
type Option func(*Source)

// WithPageSize sets the number of issues requested per search call.
func WithPageSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMaxTickets caps how many tickets a listing returns. Zero means no cap.
func WithMaxTickets(n int) Option {
	return func(s *Source) {
		s.maxTickets = n
	}
}

// WithSummarizer sets the summarizer used by SummarizeTicket.
func WithSummarizer(sum *tickets.Summarizer) Option {
	return func(s *Source) {
		s.summarizer = sum
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// WithTransport overrides the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Source) {
		s.transport = rt
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// New creates a Jira-backed Source.
func New(cfg Config, opts ...Option) (*Source, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("jira base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("jira token is required")
	}

	s := &Source{
		pageSize: DefaultPageSize,
		logger:   logging.NewNop(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	var httpClient *http.Client
	if cfg.Username != "" {
		tp := backend.BasicAuthTransport{Username: cfg.Username, Password: cfg.Token, Transport: s.transport}
		httpClient = tp.Client()
	} else {
		tp := backend.BearerAuthTransport{Token: cfg.Token, Transport: s.transport}
		httpClient = tp.Client()
	}
	httpClient.Timeout = s.timeout

	client, err := backend.NewClient(httpClient, strings.TrimRight(cfg.BaseURL, "/")+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}
	s.client = client
	return s, nil
}

// ListStatuses returns the status names known to the instance, in API order, without duplicates.
func (s *Source) ListStatuses(ctx context.Context) ([]string, error) {
	statuses, _, err := s.client.Status.GetAllStatusesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("jira: list statuses: %w", err)
	}

	seen := make(map[string]bool, len(statuses))
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		key := strings.ToLower(st.Name)
		if st.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, st.Name)
	}
	return names, nil
}

// ListTickets searches the current user's tickets, following pagination until exhausted.
func (s *Source) ListTickets(ctx context.Context, status string) (string, error) {
	jql := tickets.JQL(status)
	s.logger.Debug("jira search", "jql", jql)

	var found []domain.Ticket
	startAt := 0
	for {
		issues, resp, err := s.client.Issue.SearchWithContext(ctx, jql, &backend.SearchOptions{
			StartAt:    startAt,
			MaxResults: s.pageSize,
			Fields:     listFields,
		})
		if err != nil {
			return "", fmt.Errorf("jira: search %q: %w", jql, err)
		}

		for i := range issues {
			found = append(found, toTicket(&issues[i]))
		}
		startAt += len(issues)

		if s.maxTickets > 0 && len(found) >= s.maxTickets {
			found = found[:s.maxTickets]
			break
		}
		if len(issues) == 0 || resp == nil || startAt >= resp.Total {
			break
		}
	}
	return tickets.FormatList(found, status), nil
}

// SummarizeTicket fetches one issue and summarizes it.
// Failures are reported as text so the conversation can continue.
func (s *Source) SummarizeTicket(ctx context.Context, key string) (string, error) {
	issue, _, err := s.client.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		s.logger.Warn("jira issue fetch failed", "ticket", key, "err", err)
		return tickets.FailureText(key, err), nil
	}
	return s.summarizer.Summarize(ctx, toTicket(issue)), nil
}

func toTicket(issue *backend.Issue) domain.Ticket {
	t := domain.Ticket{Key: issue.Key}
	f := issue.Fields
	if f == nil {
		return t
	}

	t.Summary = f.Summary
	t.Description = f.Description
	t.Updated = time.Time(f.Updated)
	if f.Status != nil {
		t.Status = f.Status.Name
	}
	if f.Assignee != nil {
		t.Assignee = f.Assignee.DisplayName
	}
	if f.Priority != nil {
		t.Priority = f.Priority.Name
	}
	if f.Comments != nil {
		for _, c := range f.Comments.Comments {
			if c == nil {
				continue
			}
			t.Comments = append(t.Comments, domain.Comment{Author: c.Author.DisplayName, Body: c.Body})
		}
	}
	return t
}
