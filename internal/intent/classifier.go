// Package intent maps a user utterance to the action the turn controller should take.
package intent

import (
	"strings"

	"github.com/aretw0/ticketchat/pkg/domain"
)

const (
	// PhraseListAll requests every ticket assigned to the user.
	PhraseListAll = "show me my tickets"
	// PhraseSummarize requests a summary of the ticket whose key follows.
	PhraseSummarize = "summarize ticket"
)

// Classify returns the intent of text given the known status vocabulary.
//
// Matching is case-insensitive substring containment and the first rule that
// matches wins: empty input, the list-all phrase, any status (in the order
// given), the summarize phrase. Statuses are reported lower-cased.
// A summarize request without a hyphenated token degrades to chat.
func Classify(text string, statuses []string) domain.Intent {
	if strings.TrimSpace(text) == "" {
		return domain.Noop()
	}

	lower := strings.ToLower(text)

	if strings.Contains(lower, PhraseListAll) {
		return domain.ListAll()
	}

	for _, status := range statuses {
		s := strings.ToLower(strings.TrimSpace(status))
		if s == "" {
			continue
		}
		if strings.Contains(lower, s) {
			return domain.ListByStatus(s)
		}
	}

	if strings.Contains(lower, PhraseSummarize) {
		if key, ok := TicketKey(text); ok {
			return domain.Summarize(key)
		}
	}

	return domain.Chat()
}

// TicketKey returns the first whitespace-separated token of text containing a hyphen.
func TicketKey(text string) (string, bool) {
	for _, tok := range strings.Fields(text) {
		if strings.Contains(tok, "-") {
			return tok, true
		}
	}
	return "", false
}
