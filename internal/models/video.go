package models

import "fmt"

// VideoRecord is the normalized per-video metadata produced by the fetcher.
// Immutable once created; identity is ID. When the extractor supplies no id,
// one is synthesized from the entry's ordinal so the record stays addressable.
type VideoRecord struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PlaylistIndex int    `json:"playlist_index,omitempty"`
}

// SyntheticVideoID builds a stable identifier for a record the extractor
// returned without an id. Ordinals are 1-based.
func SyntheticVideoID(ordinal int) string {
	return fmt.Sprintf("video_%d", ordinal)
}

// UntitledVideoTitle is the default title for a record without one.
func UntitledVideoTitle(ordinal int) string {
	return fmt.Sprintf("Untitled Video %d", ordinal)
}

type FetchInput struct {
	URL string `json:"url" validate:"required,url"`
}
