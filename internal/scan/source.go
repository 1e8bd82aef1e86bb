package scan

import (
	"context"

	"blackspot/internal/services/plex"
	"blackspot/internal/suspect"
)

// PlexSource adapts the plex client to the runner's ItemSource contract.
type PlexSource struct {
	Client *plex.Client
}

// NewPlexSource wraps a plex client as an item source.
func NewPlexSource(client *plex.Client) *PlexSource {
	return &PlexSource{Client: client}
}

func (s *PlexSource) LibraryItems(ctx context.Context, libraryID string) ([]suspect.CatalogItem, error) {
	entries, err := s.Client.LibraryItems(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	items := make([]suspect.CatalogItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, suspect.CatalogItem{
			Key:       entry.RatingKey,
			Title:     entry.Title,
			AddedAt:   entry.AddedAt,
			UpdatedAt: entry.UpdatedAt,
			Thumb:     entry.Thumb,
		})
	}
	return items, nil
}
