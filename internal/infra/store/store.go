// Package store provides the remote per-user document store backends.
package store

import (
	"context"

	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// Storage is the per-user document key-value API the session state is
// flushed to and loaded from. Implementations own the persistence schema;
// callers treat documents as opaque track sequences.
type Storage interface {
	// LoadLiked returns the liked-songs sequence for the user, in the
	// persisted user order.
	LoadLiked(ctx context.Context, userID string) ([]track.Track, error)
	// SaveLiked replaces the liked-songs document for the user.
	SaveLiked(ctx context.Context, userID string, tracks []track.Track) error
	// LoadRecentlyPlayed returns the recently-played sequence for the user,
	// most-recent-first.
	LoadRecentlyPlayed(ctx context.Context, userID string) ([]track.Track, error)
	// SaveRecentlyPlayed replaces the recently-played document for the user.
	SaveRecentlyPlayed(ctx context.Context, userID string, tracks []track.Track) error
	// DeleteRecentlyPlayedEntry removes a single entry from the user's
	// recently-played document.
	DeleteRecentlyPlayedEntry(ctx context.Context, userID, videoID string) error
	// Close releases backend resources.
	Close() error
}
