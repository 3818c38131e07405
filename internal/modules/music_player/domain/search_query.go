package domain

import (
	"strings"
)

// SearchQuery represents a user's play request.
type SearchQuery struct {
	Query string // The search term or URL
	IsURL bool   // Whether the query is a direct URL
}

// NewSearchQuery creates a SearchQuery from user input.
func NewSearchQuery(input string) SearchQuery {
	input = strings.TrimSpace(input)

	return SearchQuery{
		Query: input,
		IsURL: isURL(input),
	}
}

// IsValid returns true if the query is not empty.
func (q SearchQuery) IsValid() bool {
	return q.Query != ""
}

// Target returns the string handed to a backend: URLs pass through untouched,
// search terms get the backend's search prefix (e.g. "ytsearch1").
func (q SearchQuery) Target(searchPrefix string) string {
	if q.IsURL || searchPrefix == "" {
		return q.Query
	}
	return searchPrefix + ":" + q.Query
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
