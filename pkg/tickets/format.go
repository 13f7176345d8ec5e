package tickets

import (
	"fmt"
	"strings"

	"github.com/aretw0/ticketchat/pkg/domain"
)

const (
	// NoTicketsAssigned is returned by an unfiltered listing with no results.
	NoTicketsAssigned = "No tickets assigned."

	maxDescription = 1500
	maxComments    = 3
)

// NoTicketsForStatus is returned by a filtered listing with no results.
func NoTicketsForStatus(status string) string {
	return fmt.Sprintf("No tickets found for status '%s'.", status)
}

// FormatList renders tickets as a numbered, newline-joined list.
func FormatList(list []domain.Ticket, status string) string {
	if len(list) == 0 {
		if status != "" {
			return NoTicketsForStatus(status)
		}
		return NoTicketsAssigned
	}

	lines := make([]string, 0, len(list))
	for i, t := range list {
		lines = append(lines, fmt.Sprintf("%d. [%s] %s (Status: %s)", i+1, t.Key, t.Summary, t.Status))
	}
	return strings.Join(lines, "\n")
}

// Digest renders the fields of a ticket that matter for a summary.
func Digest(t domain.Ticket) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s\n", t.Key, t.Summary)

	meta := []string{"Status: " + orNone(t.Status)}
	if t.Priority != "" {
		meta = append(meta, "Priority: "+t.Priority)
	}
	meta = append(meta, "Assignee: "+orNone(t.Assignee))
	if !t.Updated.IsZero() {
		meta = append(meta, "Updated: "+t.Updated.Format("2006-01-02"))
	}
	sb.WriteString(strings.Join(meta, " | "))
	sb.WriteString("\n")

	if desc := strings.TrimSpace(t.Description); desc != "" {
		sb.WriteString("\n")
		sb.WriteString(truncate(desc, maxDescription))
		sb.WriteString("\n")
	}

	comments := t.Comments
	if len(comments) > maxComments {
		comments = comments[len(comments)-maxComments:]
	}
	if len(comments) > 0 {
		sb.WriteString("\nRecent comments:\n")
		for _, c := range comments {
			fmt.Fprintf(&sb, "- %s: %s\n", orNone(c.Author), truncate(strings.TrimSpace(c.Body), 300))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FailureText is the diagnostic returned in place of a summary when the upstream call fails.
func FailureText(key string, err error) string {
	return fmt.Sprintf("Could not summarize ticket %s: %v", key, err)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
