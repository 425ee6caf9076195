// Package filter implements the pure card filtering predicate combining a
// free-text query with a tag selection.
package filter

import (
	"strings"

	"github.com/arcanahq/arcana/internal/models"
)

// Cards returns the subset of cards matching both the query and the tag
// selection, preserving the original relative order. It has no side effects
// and is safe to call on every render: an empty query matches everything,
// as does an empty tag selection.
func Cards(cards []models.Card, query string, selectedTags []string) []models.Card {
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		if matchesQuery(&card, query) && matchesTags(&card, selectedTags) {
			result = append(result, card)
		}
	}
	return result
}

// matchesQuery reports whether the lowercased query is a substring of the
// title, content, language label or any tag.
func matchesQuery(card *models.Card, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(card.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(card.Content), query) {
		return true
	}
	if strings.Contains(strings.ToLower(card.Language), query) {
		return true
	}
	for _, tag := range card.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// matchesTags reports whether the card carries at least one selected tag.
func matchesTags(card *models.Card, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range selected {
		if card.HasTag(tag) {
			return true
		}
	}
	return false
}
