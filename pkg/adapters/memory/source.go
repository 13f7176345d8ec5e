package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/tickets"
	"gopkg.in/yaml.v3"
)

// Source implements ports.TicketSource over an in-memory ticket list.
// It backs offline mode and tests.
type Source struct {
	mu         sync.RWMutex
	statuses   []string
	tickets    []domain.Ticket
	summarizer *tickets.Summarizer
}

// Option configures the Source.
type Option func(*Source)

// WithSummarizer sets the summarizer used by SummarizeTicket.
func WithSummarizer(s *tickets.Summarizer) Option {
	return func(src *Source) {
		src.summarizer = s
	}
}

// NewSource creates a Source. The statuses order is preserved as given.
func NewSource(statuses []string, list []domain.Ticket, opts ...Option) *Source {
	s := &Source{
		statuses: append([]string(nil), statuses...),
		tickets:  append([]domain.Ticket(nil), list...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fixtures is the YAML layout accepted by LoadFixtures.
type Fixtures struct {
	Statuses []string        `yaml:"statuses"`
	Tickets  []domain.Ticket `yaml:"tickets"`
}

// LoadFixtures reads a YAML fixtures file into a Source.
// When the file lists no statuses they are derived from the tickets, in first-seen order.
func LoadFixtures(path string, opts ...Option) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures %s: %w", path, err)
	}

	if len(fx.Statuses) == 0 {
		seen := make(map[string]bool)
		for _, t := range fx.Tickets {
			if t.Status != "" && !seen[t.Status] {
				seen[t.Status] = true
				fx.Statuses = append(fx.Statuses, t.Status)
			}
		}
	}
	return NewSource(fx.Statuses, fx.Tickets, opts...), nil
}

// Add inserts or replaces a ticket by key.
func (s *Source) Add(t domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].Key == t.Key {
			s.tickets[i] = t
			return
		}
	}
	s.tickets = append(s.tickets, t)
}

// ListStatuses returns the configured statuses.
func (s *Source) ListStatuses(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.statuses...), nil
}

// ListTickets returns the tickets matching status (case-insensitive), most recently updated first.
func (s *Source) ListTickets(ctx context.Context, status string) (string, error) {
	s.mu.RLock()
	matched := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if status == "" || strings.EqualFold(t.Status, status) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Updated.After(matched[j].Updated)
	})
	return tickets.FormatList(matched, status), nil
}

// SummarizeTicket summarizes the ticket with the given key.
func (s *Source) SummarizeTicket(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	var (
		found domain.Ticket
		ok    bool
	)
	for _, t := range s.tickets {
		if strings.EqualFold(t.Key, key) {
			found, ok = t, true
			break
		}
	}
	s.mu.RUnlock()

	if !ok {
		return tickets.FailureText(key, domain.ErrTicketNotFound), nil
	}
	return s.summarizer.Summarize(ctx, found), nil
}
