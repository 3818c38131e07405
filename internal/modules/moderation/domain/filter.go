package domain

import (
	"slices"
	"strings"
)

// Filter finds banned terms in message content, ignoring case.
type Filter struct {
	terms []string
}

// NewFilter builds a filter from terms. Blank and duplicate terms are dropped.
func NewFilter(terms []string) Filter {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || slices.Contains(normalized, term) {
			continue
		}
		normalized = append(normalized, term)
	}
	return Filter{terms: normalized}
}

// Match returns the first banned term contained in content.
func (f Filter) Match(content string) (string, bool) {
	if content == "" {
		return "", false
	}
	content = strings.ToLower(content)
	for _, term := range f.terms {
		if strings.Contains(content, term) {
			return term, true
		}
	}
	return "", false
}

// Terms returns the normalized banned terms.
func (f Filter) Terms() []string {
	return slices.Clone(f.terms)
}
