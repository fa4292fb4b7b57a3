// Package persist synchronizes session state with the remote store across
// identity transitions.
package persist

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/tunedeck/tunedeck/internal/app/notification"
	"github.com/tunedeck/tunedeck/internal/app/session"
	"github.com/tunedeck/tunedeck/internal/domain/identity"
	"github.com/tunedeck/tunedeck/internal/infra/store"
)

// IdentityStream delivers the current identity on every change. The channel
// fires once on subscription with the initial state; the returned cancel
// function tears the subscription down.
type IdentityStream interface {
	Subscribe() (<-chan *identity.Identity, func())
}

// Synchronizer drives persistence from identity transitions. Sign-in loads
// the per-user documents into the session, sign-out flushes them and clears
// local state, and Shutdown performs the best-effort process-end flush.
// Anonymous sessions are never written remotely.
type Synchronizer struct {
	store    *session.Store
	storage  store.Storage
	notifier notification.Sink
}

// NewSynchronizer creates a synchronizer.
func NewSynchronizer(s *session.Store, storage store.Storage, notifier notification.Sink) *Synchronizer {
	return &Synchronizer{
		store:    s,
		storage:  storage,
		notifier: notifier,
	}
}

// Run consumes the identity stream until the context is cancelled. Each
// delivered identity is applied as a transition against the session's
// current identity.
func (s *Synchronizer) Run(ctx context.Context, ids IdentityStream) error {
	ch, cancel := ids.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-ch:
			if !ok {
				return nil
			}
			s.Apply(ctx, id)
		}
	}
}

// Apply performs one identity transition. A repeated delivery of the same
// identity is ignored. A direct switch between two users is handled as a
// flush of the outgoing user followed by a load of the incoming one;
// transitions are applied strictly in delivery order, so a rapid
// sign-in/sign-out toggle degenerates to flush-then-load.
func (s *Synchronizer) Apply(ctx context.Context, next *identity.Identity) {
	prev := s.store.Identity()
	if identity.Same(prev, next) {
		return
	}

	if prev != nil {
		s.signOut(ctx, prev)
	}
	if next != nil {
		s.signIn(ctx, next)
	}
}

// Shutdown performs the process-end flush for the current identity, if one
// is set. Failures are logged only; no UI channel is reliably available at
// this point. The save is best-effort, not durable-guaranteed.
func (s *Synchronizer) Shutdown(ctx context.Context) {
	id := s.store.Identity()
	if id == nil {
		return
	}

	zlog.Info().Msgf("flushing session state on shutdown: user_id=%s", id.UserID)
	if err := s.storage.SaveLiked(ctx, id.UserID, s.store.LikedSongs()); err != nil {
		zlog.Error().Msgf("shutdown flush of liked songs failed: user_id=%s error=%v", id.UserID, err)
	}
	if err := s.storage.SaveRecentlyPlayed(ctx, id.UserID, s.store.RecentlyPlayed()); err != nil {
		zlog.Error().Msgf("shutdown flush of recently played failed: user_id=%s error=%v", id.UserID, err)
	}
}

// signIn loads both documents for the new identity, liked songs first. Any
// load failure falls back to an empty list and surfaces a single error
// notification; stale data from a previous identity is never kept.
func (s *Synchronizer) signIn(ctx context.Context, id *identity.Identity) {
	s.store.SetIdentity(id)

	var failed bool

	likedSongs, err := s.storage.LoadLiked(ctx, id.UserID)
	if err != nil {
		zlog.Error().Msgf("failed to load liked songs: user_id=%s error=%v", id.UserID, err)
		likedSongs = nil
		failed = true
	}
	s.store.ReplaceLikedSongs(likedSongs)

	recentlyPlayed, err := s.storage.LoadRecentlyPlayed(ctx, id.UserID)
	if err != nil {
		zlog.Error().Msgf("failed to load recently played: user_id=%s error=%v", id.UserID, err)
		recentlyPlayed = nil
		failed = true
	}
	s.store.ReplaceRecentlyPlayed(recentlyPlayed)

	if failed {
		s.notifier.Notify(notification.LevelError, "Could not load your library from the server.")
		return
	}
	zlog.Info().Msgf("session loaded: user_id=%s liked=%d recent=%d", id.UserID, len(likedSongs), len(recentlyPlayed))
}

// signOut flushes both documents for the outgoing identity, then clears the
// identity and both lists. A flush failure surfaces an error notification
// but never blocks the sign-out.
func (s *Synchronizer) signOut(ctx context.Context, id *identity.Identity) {
	var failed bool

	if err := s.storage.SaveLiked(ctx, id.UserID, s.store.LikedSongs()); err != nil {
		zlog.Error().Msgf("failed to save liked songs: user_id=%s error=%v", id.UserID, err)
		failed = true
	}
	if err := s.storage.SaveRecentlyPlayed(ctx, id.UserID, s.store.RecentlyPlayed()); err != nil {
		zlog.Error().Msgf("failed to save recently played: user_id=%s error=%v", id.UserID, err)
		failed = true
	}

	if failed {
		s.notifier.Notify(notification.LevelError, "Could not save your library to the server.")
	}

	s.store.SetIdentity(nil)
	s.store.ClearLists()
}
