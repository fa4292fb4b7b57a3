// Package track provides the Track domain entity.
package track

import "github.com/cockroachdb/errors"

// ErrMissingVideoID is returned when a track carries no video ID.
var ErrMissingVideoID = errors.New("track has no video id")

// Track represents a playable media item.
// Carries display metadata alongside the external media ID.
// Immutable once constructed; two tracks are the same track iff their
// VideoID matches.
type Track struct {
	VideoID      string `json:"videoId" mapstructure:"videoId"`     // External media ID (unique)
	Title        string `json:"title" mapstructure:"title"`         // Track title
	Artist       string `json:"artist" mapstructure:"artist"`       // Artist name
	ThumbnailURL string `json:"thumbnail" mapstructure:"thumbnail"` // Thumbnail image URL
}

// Validate checks that the track carries a video ID.
func (t *Track) Validate() error {
	if t.VideoID == "" {
		return ErrMissingVideoID
	}
	return nil
}

// Same reports whether two tracks refer to the same media item.
// Display metadata is ignored.
func (t *Track) Same(other Track) bool {
	return t.VideoID == other.VideoID
}

// IndexOf returns the index of the track with the given video ID in the
// sequence, or -1 if absent.
func IndexOf(tracks []Track, videoID string) int {
	for i, t := range tracks {
		if t.VideoID == videoID {
			return i
		}
	}
	return -1
}

// Contains reports whether the sequence contains a track with the given
// video ID.
func Contains(tracks []Track, videoID string) bool {
	return IndexOf(tracks, videoID) >= 0
}
