package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchText reports whether every rune of query appears in text, in order,
// ignoring case. It is the predicate handed to plugins through the host context.
func MatchText(query, text string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return len(fuzzy.Find(query, []string{strings.ToLower(text)})) > 0
}

// searchable adapts a slice and a text accessor to fuzzy.Source
type searchable[T any] struct {
	items []T
	text  func(T) string
}

// String returns the searchable string for item i
func (s searchable[T]) String(i int) string {
	return strings.ToLower(s.text(s.items[i]))
}

// Len returns the number of items
func (s searchable[T]) Len() int {
	return len(s.items)
}

// Filter returns the items whose text fuzzy-matches query, best match first.
// An empty query keeps every item in its original order.
func Filter[T any](query string, items []T, text func(T) string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	matches := fuzzy.FindFrom(query, searchable[T]{items: items, text: text})

	// fuzzy sorts by score (descending) and keeps index order for ties
	results := make([]T, 0, len(matches))
	for _, match := range matches {
		results = append(results, items[match.Index])
	}
	return results
}
