package domain

// NewMessages returns the messages appended to next since prior.
// If prior is nil, the whole history of next is returned.
// History is append-only, so the delta is the tail beyond the prior length.
func NewMessages(prior, next *DialogueState) []Message {
	if next == nil {
		return nil
	}
	start := 0
	if prior != nil {
		start = len(prior.History)
	}
	if start >= len(next.History) {
		return nil
	}
	return next.History[start:]
}

// AssistantReplies filters msgs to the Assistant-authored entries.
func AssistantReplies(msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Role == RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}
