package tickets

import "strings"

// JQL builds the search for the current user's tickets, newest first.
func JQL(status string) string {
	q := "assignee = currentUser()"
	if status != "" {
		q += " AND status = '" + escapeJQL(status) + "'"
	}
	return q + " ORDER BY updated DESC"
}

func escapeJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
