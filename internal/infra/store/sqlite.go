package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// SQLiteStore persists per-user list documents in a local SQLite database.
// Both lists are stored positionally so the user-significant order survives
// a round trip unchanged.
type SQLiteStore struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS liked_songs (
	user_id   TEXT NOT NULL,
	position  INTEGER NOT NULL,
	video_id  TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	artist    TEXT NOT NULL DEFAULT '',
	thumbnail TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, video_id)
);
CREATE TABLE IF NOT EXISTS recently_played (
	user_id   TEXT NOT NULL,
	position  INTEGER NOT NULL,
	video_id  TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	artist    TEXT NOT NULL DEFAULT '',
	thumbnail TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, video_id)
);
`

// NewSQLiteStore opens (and bootstraps) a SQLite-backed store at the given
// path. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &SQLiteStore{db: db}, nil
}

// LoadLiked returns the liked-songs sequence for the user.
func (s *SQLiteStore) LoadLiked(ctx context.Context, userID string) ([]track.Track, error) {
	return s.loadList(ctx, "liked_songs", userID)
}

// SaveLiked replaces the liked-songs sequence for the user.
func (s *SQLiteStore) SaveLiked(ctx context.Context, userID string, tracks []track.Track) error {
	return s.saveList(ctx, "liked_songs", userID, tracks)
}

// LoadRecentlyPlayed returns the recently-played sequence for the user.
func (s *SQLiteStore) LoadRecentlyPlayed(ctx context.Context, userID string) ([]track.Track, error) {
	return s.loadList(ctx, "recently_played", userID)
}

// SaveRecentlyPlayed replaces the recently-played sequence for the user.
func (s *SQLiteStore) SaveRecentlyPlayed(ctx context.Context, userID string, tracks []track.Track) error {
	return s.saveList(ctx, "recently_played", userID, tracks)
}

// DeleteRecentlyPlayedEntry removes a single entry. Deleting an entry that
// is already gone is a success.
func (s *SQLiteStore) DeleteRecentlyPlayedEntry(ctx context.Context, userID, videoID string) error {
	if userID == "" || videoID == "" {
		return errors.New("user id and video id are required")
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM recently_played WHERE user_id = ? AND video_id = ?`,
		userID, videoID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete recently played entry")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadList(ctx context.Context, table, userID string) ([]track.Track, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, title, artist, thumbnail FROM `+table+` WHERE user_id = ? ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query %s", table)
	}
	defer rows.Close()

	tracks := make([]track.Track, 0)
	for rows.Next() {
		var t track.Track
		if err := rows.Scan(&t.VideoID, &t.Title, &t.Artist, &t.ThumbnailURL); err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s row", table)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate %s rows", table)
	}
	return tracks, nil
}

// saveList replaces the user's rows in one transaction so a failed save
// never leaves a partially written list behind.
func (s *SQLiteStore) saveList(ctx context.Context, table, userID string, tracks []track.Track) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
		return errors.Wrapf(err, "failed to clear %s", table)
	}

	for i, t := range tracks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (user_id, position, video_id, title, artist, thumbnail) VALUES (?, ?, ?, ?, ?, ?)`,
			userID, i, t.VideoID, t.Title, t.Artist, t.ThumbnailURL,
		)
		if err != nil {
			return errors.Wrapf(err, "failed to insert into %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit %s", table)
	}
	return nil
}
