package domain

import "fmt"

// IntentKind is the tag of an Intent.
type IntentKind string

const (
	IntentNoop         IntentKind = "NOOP"
	IntentListAll      IntentKind = "LIST_ALL"
	IntentListByStatus IntentKind = "LIST_BY_STATUS"
	IntentSummarize    IntentKind = "SUMMARIZE"
	IntentChat         IntentKind = "CHAT"
)

// Intent is the classification of the latest user utterance.
// Status is set only for IntentListByStatus, TicketKey only for IntentSummarize.
type Intent struct {
	Kind      IntentKind `json:"kind"`
	Status    string     `json:"status,omitempty"`
	TicketKey string     `json:"ticket_key,omitempty"`
}

func Noop() Intent    { return Intent{Kind: IntentNoop} }
func ListAll() Intent { return Intent{Kind: IntentListAll} }
func Chat() Intent    { return Intent{Kind: IntentChat} }

// ListByStatus creates a status-filtered listing intent.
func ListByStatus(status string) Intent {
	return Intent{Kind: IntentListByStatus, Status: status}
}

// Summarize creates a ticket summarization intent.
func Summarize(key string) Intent {
	return Intent{Kind: IntentSummarize, TicketKey: key}
}

func (i Intent) String() string {
	switch i.Kind {
	case IntentListByStatus:
		return fmt.Sprintf("%s(%s)", i.Kind, i.Status)
	case IntentSummarize:
		return fmt.Sprintf("%s(%s)", i.Kind, i.TicketKey)
	default:
		return string(i.Kind)
	}
}
