// Package history provides the recently-played insertion policy.
package history

import (
	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// Limit is the maximum number of entries the recently-played history keeps.
const Limit = 10

// Record inserts a track at the front of the history, deduplicating by
// video ID and truncating to Limit entries. The input slice is never
// mutated; a fresh slice is returned.
//
// A track without a video ID is rejected with track.ErrMissingVideoID and
// the original history is returned unchanged.
func Record(history []track.Track, t track.Track) ([]track.Track, error) {
	if err := t.Validate(); err != nil {
		return history, err
	}

	next := make([]track.Track, 0, len(history)+1)
	next = append(next, t)
	for _, h := range history {
		if h.Same(t) {
			continue
		}
		next = append(next, h)
	}

	if len(next) > Limit {
		next = next[:Limit]
	}
	return next, nil
}
