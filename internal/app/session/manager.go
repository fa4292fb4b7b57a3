package session

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunedeck/tunedeck/internal/app/history"
	"github.com/tunedeck/tunedeck/internal/app/liked"
	"github.com/tunedeck/tunedeck/internal/app/navigate"
	"github.com/tunedeck/tunedeck/internal/app/notification"
	"github.com/tunedeck/tunedeck/internal/domain/track"
	"github.com/tunedeck/tunedeck/internal/infra/store"
)

// Manager applies user actions to the session store through the policy
// packages. Local-first mutations (select, like, reorder) apply
// synchronously and are never awaited against remote confirmation; the
// synchronizer flushes them on the next lifecycle trigger. Per-entry
// history deletion is the one remote-first operation.
type Manager struct {
	store    *Store
	storage  store.Storage
	notifier notification.Sink
}

// NewManager creates a session manager.
func NewManager(s *Store, storage store.Storage, notifier notification.Sink) *Manager {
	return &Manager{
		store:    s,
		storage:  storage,
		notifier: notifier,
	}
}

// Store returns the underlying session store.
func (m *Manager) Store() *Store {
	return m.store
}

// Select makes the track current and records it in the recently-played
// history. Selection and history recording are one atomic user-facing
// operation: a track without a video ID is rejected before either takes
// effect.
func (m *Manager) Select(t track.Track) error {
	next, err := history.Record(m.store.RecentlyPlayed(), t)
	if err != nil {
		m.notifier.Notify(notification.LevelError, "This track cannot be played: it has no video id.")
		return errors.Wrap(err, "failed to record play")
	}

	m.store.ReplaceRecentlyPlayed(next)
	m.store.SetCurrentTrack(&t)
	zlog.Debug().Msgf("track selected: video_id=%s title=%s", t.VideoID, t.Title)
	return nil
}

// ToggleLike adds or removes the track from the liked list. The caller
// supplies the membership flag it observed when rendering.
func (m *Manager) ToggleLike(t track.Track, isCurrentlyLiked bool) {
	next := liked.Toggle(m.store.LikedSongs(), t, isCurrentlyLiked)
	m.store.ReplaceLikedSongs(next)
}

// Reorder moves a liked song from one position to another. Out-of-bounds
// indices leave the order unchanged.
func (m *Manager) Reorder(fromIndex, toIndex int) {
	next := liked.Reorder(m.store.LikedSongs(), fromIndex, toIndex)
	m.store.ReplaceLikedSongs(next)
}

// Prev moves playback to the liked song preceding the current track.
// Returns false when navigation yields no change.
func (m *Manager) Prev() (track.Track, bool) {
	t, ok := navigate.Prev(m.store.LikedSongs(), m.store.CurrentTrack())
	if !ok {
		return track.Track{}, false
	}
	m.store.SetCurrentTrack(&t)
	return t, true
}

// Next moves playback to the liked song following the current track.
// Returns false when navigation yields no change.
func (m *Manager) Next() (track.Track, bool) {
	t, ok := navigate.Next(m.store.LikedSongs(), m.store.CurrentTrack())
	if !ok {
		return track.Track{}, false
	}
	m.store.SetCurrentTrack(&t)
	return t, true
}

// DeleteRecentlyPlayed removes one entry from the recently-played history.
// For signed-in sessions the remote delete is attempted first and the local
// list is only updated once the remote confirms; on failure the local state
// is left untouched and an error is surfaced. Anonymous sessions have no
// remote document and delete locally.
func (m *Manager) DeleteRecentlyPlayed(ctx context.Context, videoID string) error {
	if id := m.store.Identity(); id != nil {
		if err := m.storage.DeleteRecentlyPlayedEntry(ctx, id.UserID, videoID); err != nil {
			zlog.Error().Msgf("failed to delete recently played entry: video_id=%s error=%v", videoID, err)
			m.notifier.Notify(notification.LevelError, "Could not remove the track from your history. Please try again.")
			return errors.Wrap(err, "failed to delete recently played entry")
		}
	}

	current := m.store.RecentlyPlayed()
	next := make([]track.Track, 0, len(current))
	for _, t := range current {
		if t.VideoID == videoID {
			continue
		}
		next = append(next, t)
	}
	m.store.ReplaceRecentlyPlayed(next)
	return nil
}
