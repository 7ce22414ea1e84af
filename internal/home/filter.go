package home

import (
	"strings"

	"github.com/surplusmkt/surplus/internal/model"
)

// Filter derives the display list from a snapshot.
//
// An item is kept iff its name contains nameQuery, its location contains
// locationQuery (both case-insensitive; an empty query matches everything) and,
// when scopeToSelf is set, it is owned by identityID. The snapshot is never
// mutated; the result is recomputed from scratch on every call.
func Filter(items []*model.Item, nameQuery, locationQuery string, scopeToSelf bool, identityID string) []*model.Item {
	nameQuery = strings.ToLower(nameQuery)
	locationQuery = strings.ToLower(locationQuery)

	filtered := make([]*model.Item, 0, len(items))
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Name), nameQuery) {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Location), locationQuery) {
			continue
		}
		if scopeToSelf && item.UserID != identityID {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
