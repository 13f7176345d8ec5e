package tickets

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatList(t *testing.T) {
	list := []domain.Ticket{
		{Key: "PROJ-1", Summary: "Fix login", Status: "Open"},
		{Key: "PROJ-2", Summary: "Write docs", Status: "In Progress"},
	}

	assert.Equal(t,
		"1. [PROJ-1] Fix login (Status: Open)\n2. [PROJ-2] Write docs (Status: In Progress)",
		FormatList(list, ""))
}

func TestFormatList_Sentinels(t *testing.T) {
	assert.Equal(t, "No tickets assigned.", FormatList(nil, ""))
	assert.Equal(t, "No tickets found for status 'closed'.", FormatList(nil, "closed"))
}

func TestJQL(t *testing.T) {
	assert.Equal(t, "assignee = currentUser() ORDER BY updated DESC", JQL(""))
	assert.Equal(t, "assignee = currentUser() AND status = 'in progress' ORDER BY updated DESC", JQL("in progress"))
	assert.Equal(t, `assignee = currentUser() AND status = 'won\'t fix' ORDER BY updated DESC`, JQL("won't fix"))
}

func TestDigest(t *testing.T) {
	ticket := domain.Ticket{
		Key:         "OPS-7",
		Summary:     "Rotate certificates",
		Status:      "Open",
		Priority:    "High",
		Updated:     time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		Description: "Certs expire next week.",
		Comments: []domain.Comment{
			{Author: "a", Body: "one"},
			{Author: "b", Body: "two"},
			{Author: "c", Body: "three"},
			{Author: "d", Body: "four"},
		},
	}

	d := Digest(ticket)
	assert.True(t, strings.HasPrefix(d, "[OPS-7] Rotate certificates\n"))
	assert.Contains(t, d, "Status: Open | Priority: High | Assignee: none | Updated: 2026-03-04")
	assert.Contains(t, d, "Certs expire next week.")
	assert.NotContains(t, d, "a: one", "only the last comments are kept")
	assert.Contains(t, d, "- d: four")
}

func TestDigest_TruncatesDescription(t *testing.T) {
	d := Digest(domain.Ticket{Key: "A-1", Description: strings.Repeat("x", maxDescription+10)})
	assert.Contains(t, d, strings.Repeat("x", maxDescription)+"...")
}

func TestSummarizer(t *testing.T) {
	ticket := domain.Ticket{Key: "A-1", Summary: "Thing", Status: "Open"}
	ctx := context.Background()

	t.Run("no model returns digest", func(t *testing.T) {
		assert.Equal(t, Digest(ticket), NewSummarizer(nil, nil).Summarize(ctx, ticket))
	})

	t.Run("model summary", func(t *testing.T) {
		var prompt string
		model := ports.LanguageModelFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
			require.Len(t, msgs, 1)
			prompt = msgs[0].Content
			return domain.AssistantMessage("  It is open.  "), nil
		})
		out := NewSummarizer(model, nil).Summarize(ctx, ticket)
		assert.Equal(t, "[A-1] Thing\n\nIt is open.", out)
		assert.Contains(t, prompt, "[A-1] Thing")
	})

	t.Run("model failure falls back", func(t *testing.T) {
		model := ports.LanguageModelFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
			return domain.Message{}, errors.New("quota")
		})
		assert.Equal(t, Digest(ticket), NewSummarizer(model, nil).Summarize(ctx, ticket))
	})
}

func TestFailureText(t *testing.T) {
	assert.Equal(t, "Could not summarize ticket X-1: boom", FailureText("X-1", errors.New("boom")))
}
