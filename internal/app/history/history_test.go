package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tunedeck/tunedeck/internal/domain/track"
)

func mk(ids ...string) []track.Track {
	tracks := make([]track.Track, len(ids))
	for i, id := range ids {
		tracks[i] = track.Track{VideoID: id, Title: "Track " + id}
	}
	return tracks
}

func ids(tracks []track.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.VideoID
	}
	return out
}

func TestRecord(t *testing.T) {
	tests := []struct {
		name    string
		history []track.Track
		play    track.Track
		want    []string
	}{
		{
			name:    "prepend to empty history",
			history: nil,
			play:    track.Track{VideoID: "a"},
			want:    []string{"a"},
		},
		{
			name:    "most recent first",
			history: mk("a", "b"),
			play:    track.Track{VideoID: "c"},
			want:    []string{"c", "a", "b"},
		},
		{
			name:    "replay moves to front instead of duplicating",
			history: mk("a", "b", "c"),
			play:    track.Track{VideoID: "b"},
			want:    []string{"b", "a", "c"},
		},
		{
			name:    "replay of front entry is stable",
			history: mk("a", "b"),
			play:    track.Track{VideoID: "a"},
			want:    []string{"a", "b"},
		},
		{
			name:    "oldest entry evicted at capacity",
			history: mk("j", "i", "h", "g", "f", "e", "d", "c", "b", "a"),
			play:    track.Track{VideoID: "k"},
			want:    []string{"k", "j", "i", "h", "g", "f", "e", "d", "c", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Record(tt.history, tt.play)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			assert.LessOrEqual(t, len(got), Limit)
		})
	}
}

func TestRecord_MissingVideoID(t *testing.T) {
	original := mk("a", "b")

	got, err := Record(original, track.Track{Title: "No ID"})
	assert.ErrorIs(t, err, track.ErrMissingVideoID)
	assert.Equal(t, original, got)
}

func TestRecord_DoesNotMutateInput(t *testing.T) {
	original := mk("a", "b", "c")

	got, err := Record(original, track.Track{VideoID: "z"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(original))
	assert.Equal(t, []string{"z", "a", "b", "c"}, ids(got))
}

func TestRecord_ElevenDistinctTracks(t *testing.T) {
	var history []track.Track
	var err error

	// Play tracks 1..11 in order; track 1 must be evicted.
	for i := 1; i <= 11; i++ {
		history, err = Record(history, track.Track{VideoID: fmt.Sprintf("t%02d", i)})
		assert.NoError(t, err)
	}

	assert.Len(t, history, Limit)
	assert.Equal(t, "t11", history[0].VideoID)
	assert.Equal(t, "t02", history[Limit-1].VideoID)
	assert.False(t, track.Contains(history, "t01"))

	// No duplicates
	seen := make(map[string]bool)
	for _, tr := range history {
		assert.False(t, seen[tr.VideoID])
		seen[tr.VideoID] = true
	}
}
