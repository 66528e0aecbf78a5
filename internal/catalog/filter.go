package catalog

import (
	"strings"

	"github.com/tempohub/tempohub-service/internal/models"
)

// CategoryAll disables category filtering.
const CategoryAll = "All"

var categories = []string{CategoryAll, "Techno", "Jazz", "Electronic", "Rock", "Indie", "Classical", "Hip Hop", "Ambient"}

// Categories returns the browsable categories in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Filter selects events by free-text query and category.
type Filter struct {
	Query    string
	Category string
}

// MatchesSearch reports whether query is a case-insensitive substring of
// the event's title or description. An empty query matches everything.
func MatchesSearch(e models.Event, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// MatchesCategory reports whether the category is All or equals one of the
// event's tags, ignoring case.
func MatchesCategory(e models.Event, category string) bool {
	if category == CategoryAll {
		return true
	}
	for _, tag := range e.Tags {
		if strings.EqualFold(tag, category) {
			return true
		}
	}
	return false
}

// Matches reports whether e satisfies both predicates of f.
func (f Filter) Matches(e models.Event) bool {
	return MatchesSearch(e, f.Query) && MatchesCategory(e, f.Category)
}

// Apply returns the events matching f, preserving their order. The result is
// never nil.
func (f Filter) Apply(events []models.Event) []models.Event {
	matched := make([]models.Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched
}
