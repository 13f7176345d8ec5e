package intent_test

import (
	"strings"
	"testing"

	"github.com/aretw0/ticketchat/internal/intent"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/stretchr/testify/assert"
)

var statuses = []string{"Open", "Closed", "In Progress"}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		statuses []string
		want     domain.Intent
	}{
		{"empty", "", statuses, domain.Noop()},
		{"whitespace", "   ", statuses, domain.Noop()},
		{"tabs and newlines", "\t\n", statuses, domain.Noop()},
		{"list all", "Show me my tickets", statuses, domain.ListAll()},
		{"list all wins over status", "show me my tickets that are closed", statuses, domain.ListAll()},
		{"list all wins over summarize", "SHOW ME MY TICKETS and summarize ticket A-1", statuses, domain.ListAll()},
		{"status", "show me closed", statuses, domain.ListByStatus("closed")},
		{"multi-word status", "what is in progress?", statuses, domain.ListByStatus("in progress")},
		{"status wins over summarize", "summarize ticket ABC-1 if open", statuses, domain.ListByStatus("open")},
		{"summarize", "summarize ticket ABC-123 please", statuses, domain.Summarize("ABC-123")},
		{"summarize keeps original case", "Summarize Ticket proj-42", statuses, domain.Summarize("proj-42")},
		{"summarize first hyphen token", "summarize ticket re-run X-9", statuses, domain.Summarize("re-run")},
		{"summarize without key is chat", "summarize ticket please", statuses, domain.Chat()},
		{"chat", "hello there", statuses, domain.Chat()},
		{"no statuses", "show me closed", nil, domain.Chat()},
		{"blank status skipped", "hello", []string{"", "  "}, domain.Chat()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intent.Classify(tt.text, tt.statuses))
		})
	}
}

func TestClassify_StatusOrderTieBreak(t *testing.T) {
	// "Done" is a substring of "Not Done"; the collaborator order decides.
	msg := "list everything not done"

	got := intent.Classify(msg, []string{"Done", "Not Done"})
	assert.Equal(t, domain.ListByStatus("done"), got)

	got = intent.Classify(msg, []string{"Not Done", "Done"})
	assert.Equal(t, domain.ListByStatus("not done"), got)
}

func TestClassify_ListAllAnyCase(t *testing.T) {
	variants := []string{"show me my tickets", "SHOW ME MY TICKETS", "Hi! Show Me My Tickets, thanks", "sHoW mE mY tIcKeTs closed"}
	for _, v := range variants {
		assert.Equal(t, domain.ListAll(), intent.Classify(v, statuses), v)
	}
}

func TestClassify_EveryKnownStatus(t *testing.T) {
	for _, s := range statuses {
		msg := "anything " + strings.ToUpper(s) + " here"
		got := intent.Classify(msg, statuses)
		assert.Equal(t, domain.IntentListByStatus, got.Kind, msg)
		assert.Equal(t, strings.ToLower(s), got.Status, msg)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for _, msg := range []string{"summarize ticket X-1", "show me open", "hey"} {
		assert.Equal(t, intent.Classify(msg, statuses), intent.Classify(msg, statuses))
	}
}

func TestTicketKey(t *testing.T) {
	key, ok := intent.TicketKey("please summarize ticket OPS-7 now")
	assert.True(t, ok)
	assert.Equal(t, "OPS-7", key)

	_, ok = intent.TicketKey("no key here")
	assert.False(t, ok)
}
