package services

import (
	"strings"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// matchText returns every session whose name or summary contains the query,
// case-insensitively, preserving the input order (newest-first, since the
// collection is stored that way).
func matchText(query string, sessions []domain.Session) []domain.Session {
	needle := strings.ToLower(query)

	var matches []domain.Session
	for _, s := range sessions {
		haystack := strings.ToLower(s.Name + " " + s.Context)
		if strings.Contains(haystack, needle) {
			matches = append(matches, s)
		}
	}

	return matches
}
