// Package liked provides the liked-songs membership and ordering policy.
package liked

import (
	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// Toggle adds or removes a track from the liked list. The caller supplies
// the membership flag it observed; the flag is validated against the actual
// list membership and a mismatch is treated as a no-op update rather than
// trusted blindly. The input slice is never mutated.
//
// Unliking removes every entry matching the track's video ID. Liking
// prepends the track.
func Toggle(liked []track.Track, t track.Track, isCurrentlyLiked bool) []track.Track {
	actual := track.Contains(liked, t.VideoID)
	if isCurrentlyLiked != actual {
		// Caller and list disagree about membership. Leave the list as is.
		return copyOf(liked)
	}

	if isCurrentlyLiked {
		next := make([]track.Track, 0, len(liked))
		for _, l := range liked {
			if l.Same(t) {
				continue
			}
			next = append(next, l)
		}
		return next
	}

	next := make([]track.Track, 0, len(liked)+1)
	next = append(next, t)
	next = append(next, liked...)
	return next
}

// Reorder moves the element at fromIndex to toIndex, shifting the elements
// in between. An out-of-bounds index on either side makes the operation a
// silent no-op returning the original order. The input slice is never
// mutated.
func Reorder(liked []track.Track, fromIndex, toIndex int) []track.Track {
	if toIndex < 0 || toIndex >= len(liked) {
		return copyOf(liked)
	}
	if fromIndex < 0 || fromIndex >= len(liked) {
		return copyOf(liked)
	}

	next := make([]track.Track, 0, len(liked))
	next = append(next, liked[:fromIndex]...)
	next = append(next, liked[fromIndex+1:]...)

	moved := liked[fromIndex]
	next = append(next[:toIndex], append([]track.Track{moved}, next[toIndex:]...)...)
	return next
}

func copyOf(tracks []track.Track) []track.Track {
	out := make([]track.Track, len(tracks))
	copy(out, tracks)
	return out
}
