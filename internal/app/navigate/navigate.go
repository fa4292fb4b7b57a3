// Package navigate resolves previous/next adjacency within the liked list.
//
// Browsing navigation is only defined over the liked-songs sequence; the
// recently-played history has no stable adjacency ordering for this purpose.
package navigate

import (
	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// Prev returns the track preceding current in the liked list. The second
// return value is false when current is absent from the list or already at
// the front, in which case the caller keeps its current track.
func Prev(liked []track.Track, current *track.Track) (track.Track, bool) {
	idx := indexOfCurrent(liked, current)
	if idx <= 0 {
		return track.Track{}, false
	}
	return liked[idx-1], true
}

// Next returns the track following current in the liked list. The second
// return value is false when current is absent from the list or already at
// the end.
func Next(liked []track.Track, current *track.Track) (track.Track, bool) {
	idx := indexOfCurrent(liked, current)
	if idx < 0 || idx >= len(liked)-1 {
		return track.Track{}, false
	}
	return liked[idx+1], true
}

func indexOfCurrent(liked []track.Track, current *track.Track) int {
	if current == nil {
		return -1
	}
	return track.IndexOf(liked, current.VideoID)
}
