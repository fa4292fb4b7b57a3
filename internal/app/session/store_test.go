package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tunedeck/tunedeck/internal/domain/identity"
	"github.com/tunedeck/tunedeck/internal/domain/track"
)

func TestStore_StartsEmpty(t *testing.T) {
	s := NewStore()

	assert.Nil(t, s.Identity())
	assert.Nil(t, s.CurrentTrack())
	assert.Empty(t, s.RecentlyPlayed())
	assert.Empty(t, s.LikedSongs())
}

func TestStore_Identity(t *testing.T) {
	s := NewStore()

	id := identity.New("u1", "Alice")
	s.SetIdentity(id)
	assert.Equal(t, "u1", s.Identity().UserID)

	s.SetIdentity(nil)
	assert.Nil(t, s.Identity())
}

func TestStore_CurrentTrackIsCopied(t *testing.T) {
	s := NewStore()

	original := track.Track{VideoID: "a", Title: "Song"}
	s.SetCurrentTrack(&original)
	original.Title = "mutated"

	got := s.CurrentTrack()
	assert.Equal(t, "Song", got.Title)

	// The returned pointer is detached from internal state too
	got.Title = "mutated again"
	assert.Equal(t, "Song", s.CurrentTrack().Title)
}

func TestStore_ListsAreCopied(t *testing.T) {
	s := NewStore()

	input := []track.Track{{VideoID: "a"}, {VideoID: "b"}}
	s.ReplaceLikedSongs(input)
	input[0].VideoID = "mutated"
	assert.Equal(t, "a", s.LikedSongs()[0].VideoID)

	out := s.LikedSongs()
	out[1].VideoID = "mutated"
	assert.Equal(t, "b", s.LikedSongs()[1].VideoID)
}

func TestStore_IsLiked(t *testing.T) {
	s := NewStore()
	s.ReplaceLikedSongs([]track.Track{{VideoID: "a"}})

	assert.True(t, s.IsLiked("a"))
	assert.False(t, s.IsLiked("b"))
}

func TestStore_ClearListsKeepsCurrentTrack(t *testing.T) {
	s := NewStore()
	s.SetCurrentTrack(&track.Track{VideoID: "a"})
	s.ReplaceLikedSongs([]track.Track{{VideoID: "a"}})
	s.ReplaceRecentlyPlayed([]track.Track{{VideoID: "b"}})

	s.ClearLists()

	assert.Empty(t, s.LikedSongs())
	assert.Empty(t, s.RecentlyPlayed())
	assert.NotNil(t, s.CurrentTrack())
}
