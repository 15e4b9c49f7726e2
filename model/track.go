package model

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Track represents an audio track in the playlist.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration float64 `json:"duration"` // Seconds, 0 until the media metadata is known
	Cover    *string `json:"cover"`    // nil when the track has no album art
	File     string  `json:"file"`     // Playable media URL or path, may be empty
}

// CoverURL returns the cover or "" when unset.
func (t *Track) CoverURL() string {
	if t == nil || t.Cover == nil {
		return ""
	}
	return *t.Cover
}

// NewUploadedTrack builds a track for an uploaded mp3 file. The title is the file
// name without its .mp3 extension.
func NewUploadedTrack(fileName, fileURL string, cover string) Track {
	title := strings.TrimSuffix(filepath.Base(fileName), ".mp3")
	t := Track{
		ID:     "track-" + uuid.NewString(),
		Title:  title,
		Artist: UnknownArtist,
		Album:  UnknownAlbum,
		File:   fileURL,
	}
	if cover != "" {
		t.Cover = &cover
	}
	return t
}

// StringPtr is a helper for optional string fields.
func StringPtr(s string) *string {
	return &s
}
