// Package session provides the in-memory playback session aggregate.
package session

import (
	"sync"

	"github.com/tunedeck/tunedeck/internal/domain/identity"
	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// Store holds the session aggregate with thread-safe access: the signed-in
// identity, the current track, and the two track lists. Mutations install
// fresh slices so observers can detect change by identity comparison; no
// operation performs I/O.
type Store struct {
	mu sync.RWMutex

	identity       *identity.Identity
	currentTrack   *track.Track
	recentlyPlayed []track.Track
	likedSongs     []track.Track
}

// NewStore creates an empty session store for an anonymous session.
func NewStore() *Store {
	return &Store{
		recentlyPlayed: make([]track.Track, 0),
		likedSongs:     make([]track.Track, 0),
	}
}

// Identity returns the signed-in identity, or nil for anonymous sessions.
func (s *Store) Identity() *identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SetIdentity sets the signed-in identity. Pass nil on sign-out.
func (s *Store) SetIdentity(id *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}

// CurrentTrack returns the currently playing track, or nil.
func (s *Store) CurrentTrack() *track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentTrack == nil {
		return nil
	}
	t := *s.currentTrack
	return &t
}

// SetCurrentTrack sets the currently playing track. Pass nil to clear.
func (s *Store) SetCurrentTrack(t *track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == nil {
		s.currentTrack = nil
		return
	}
	cp := *t
	s.currentTrack = &cp
}

// RecentlyPlayed returns a copy of the recently-played sequence,
// most-recent-first.
func (s *Store) RecentlyPlayed() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]track.Track, len(s.recentlyPlayed))
	copy(out, s.recentlyPlayed)
	return out
}

// ReplaceRecentlyPlayed installs a new recently-played sequence.
func (s *Store) ReplaceRecentlyPlayed(tracks []track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]track.Track, len(tracks))
	copy(next, tracks)
	s.recentlyPlayed = next
}

// LikedSongs returns a copy of the liked-songs sequence in user order.
func (s *Store) LikedSongs() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]track.Track, len(s.likedSongs))
	copy(out, s.likedSongs)
	return out
}

// ReplaceLikedSongs installs a new liked-songs sequence.
func (s *Store) ReplaceLikedSongs(tracks []track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]track.Track, len(tracks))
	copy(next, tracks)
	s.likedSongs = next
}

// IsLiked reports whether the given video ID is in the liked list.
func (s *Store) IsLiked(videoID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return track.Contains(s.likedSongs, videoID)
}

// ClearLists resets both track lists to empty. The current track is left
// untouched; playback does not stop on sign-out.
func (s *Store) ClearLists() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentlyPlayed = make([]track.Track, 0)
	s.likedSongs = make([]track.Track, 0)
}
