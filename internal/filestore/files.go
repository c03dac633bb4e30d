package filestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reelpost/internal/release"
)

// ErrDuplicate is returned by SaveFile when the file was already stored.
var ErrDuplicate = errors.New("file already stored")

// Record is one stored upload.
type Record struct {
	ID           int64
	FileUniqueID string
	FileID       string
	FileName     string
	Caption      string
	MimeType     string
	SizeBytes    int64
	ReleaseKey   release.Key
	SourceChat   int64
	MessageID    int64
	CreatedAt    time.Time
}

const offsetStateName = "updates_offset"

// SaveFile stores rec. A record whose FileUniqueID already exists is left
// untouched and ErrDuplicate is returned.
func (s *Store) SaveFile(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.FileUniqueID) == "" {
		return errors.New("file unique id required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	res, err := s.execWithRetry(ctx, `INSERT INTO files (
			file_unique_id, file_id, file_name, caption, mime_type, size_bytes,
			release_key, source_chat, message_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_unique_id) DO NOTHING`,
		rec.FileUniqueID, rec.FileID, rec.FileName, rec.Caption, rec.MimeType, rec.SizeBytes,
		rec.ReleaseKey.String(), rec.SourceChat, rec.MessageID, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert file %s: %w", rec.FileUniqueID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert file %s: rows affected: %w", rec.FileUniqueID, err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

// CountByKey returns the number of stored files for key.
func (s *Store) CountByKey(ctx context.Context, key release.Key) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM files WHERE release_key = ?", key.String()).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count files for %q: %w", key, err)
	}
	return count, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, file_unique_id, file_id, file_name, caption, mime_type,
			size_bytes, release_key, source_chat, message_id, created_at
		FROM files ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent files: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			key     string
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.FileUniqueID, &rec.FileID, &rec.FileName, &rec.Caption, &rec.MimeType,
			&rec.SizeBytes, &key, &rec.SourceChat, &rec.MessageID, &created); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		rec.ReleaseKey = release.Key(key)
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return records, nil
}

// Stats reports stored file and distinct key counts.
func (s *Store) Stats(ctx context.Context) (files, keys int, err error) {
	ctx = ensureContext(ctx)
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(1), COUNT(DISTINCT release_key) FROM files").Scan(&files, &keys)
	if err != nil {
		return 0, 0, fmt.Errorf("file stats: %w", err)
	}
	return files, keys, nil
}

// Offset returns the stored long-poll offset, or zero when none was saved.
func (s *Store) Offset(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM state WHERE name = ?", offsetStateName).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read offset: %w", err)
	}
	offset, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse offset %q: %w", value, err)
	}
	return offset, nil
}

// SetOffset stores the next long-poll offset.
func (s *Store) SetOffset(ctx context.Context, offset int64) error {
	_, err := s.execWithRetry(ctx, `INSERT INTO state (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		offsetStateName, strconv.FormatInt(offset, 10))
	if err != nil {
		return fmt.Errorf("store offset: %w", err)
	}
	return nil
}
