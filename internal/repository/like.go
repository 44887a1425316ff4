package repository

import "strings"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lower-cased LIKE pattern for a substring match.
// Use with "LIKE ? ESCAPE '!'", which both MySQL and SQLite accept.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
