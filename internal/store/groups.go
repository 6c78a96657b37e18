package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"qshare/internal/models"
)

const fileMetaColumns = "id, group_id, filename, mime_type, size_bytes, created_at"
const fileColumns = fileMetaColumns + ", content"

// CreateGroup persists a batch of incoming files as one atomic group
// and returns the new group id. Either every record becomes visible or
// none does. All records share a single creation timestamp, which is
// the group's retention epoch.
func (s *Store) CreateGroup(ctx context.Context, incoming []models.IncomingFile) (_ string, err error) {
	if len(incoming) == 0 {
		return "", models.NewValidationError("batch", "at least one file is required")
	}
	if s.maxFilesPerGroup > 0 && len(incoming) > s.maxFilesPerGroup {
		return "", models.NewValidationError("max_files_per_group", "%d files exceeds limit of %d", len(incoming), s.maxFilesPerGroup)
	}
	for _, in := range incoming {
		if s.maxBytesPerFile > 0 && int64(len(in.Content)) > s.maxBytesPerFile {
			return "", models.NewValidationError("max_bytes_per_file", "file %q is %d bytes, limit is %d", in.Filename, len(in.Content), s.maxBytesPerFile)
		}
	}

	groupID := NewGroupID()
	createdAt := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &models.StorageError{Op: "begin create group", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for seq, in := range incoming {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO files (id, group_id, seq, filename, mime_type, size_bytes, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, NewFileID(), groupID, seq, in.Filename, in.MimeType, int64(len(in.Content)), in.Content, formatTime(createdAt))
		if err != nil {
			return "", &models.StorageError{Op: "insert file", Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", &models.StorageError{Op: "commit create group", Err: err}
	}
	return groupID, nil
}

// ListGroup returns the metadata of every record in a group, in
// insertion order. Expired groups are reported as not found even
// before the reaper has physically deleted them.
func (s *Store) ListGroup(ctx context.Context, groupID string) ([]models.FileInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fileMetaColumns+` FROM files WHERE group_id = ? ORDER BY seq ASC`, groupID)
	if err != nil {
		return nil, &models.StorageError{Op: "list group", Err: err}
	}
	defer rows.Close()

	infos := []models.FileInfo{}
	for rows.Next() {
		info, err := scanFileInfo(rows)
		if err != nil {
			return nil, &models.StorageError{Op: "scan file", Err: err}
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "list group", Err: err}
	}

	if len(infos) == 0 || s.expired(infos[0].CreatedAt) {
		return nil, models.ErrNotFound
	}
	return infos, nil
}

// GetRecord returns one full record including content. A record whose
// group has passed the retention window is not found, whether or not
// it has been purged yet.
func (s *Store) GetRecord(ctx context.Context, id string) (*models.FileRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)

	record := models.FileRecord{}
	var createdAt string
	err := row.Scan(&record.ID, &record.GroupID, &record.Filename, &record.MimeType, &record.SizeBytes, &createdAt, &record.Content)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get record", Err: err}
	}

	record.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, &models.StorageError{Op: "parse created_at", Err: err}
	}
	if s.expired(record.CreatedAt) {
		return nil, models.ErrNotFound
	}
	return &record, nil
}

// DeleteGroup removes all records of a group. Deleting a group that is
// already gone is not an error.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE group_id = ?", groupID); err != nil {
		return &models.StorageError{Op: "delete group", Err: err}
	}
	return nil
}

// ListExpiredGroups returns ids of groups whose creation epoch is older
// than the retention window. The reaper uses this for its sweep; limit
// caps the result, 0 means unlimited.
func (s *Store) ListExpiredGroups(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT group_id, MIN(created_at) FROM files GROUP BY group_id`)
	if err != nil {
		return nil, &models.StorageError{Op: "list expired groups", Err: err}
	}
	defer rows.Close()

	expired := []string{}
	for rows.Next() {
		var groupID, createdAtRaw string
		if err := rows.Scan(&groupID, &createdAtRaw); err != nil {
			return nil, &models.StorageError{Op: "scan expired group", Err: err}
		}
		createdAt, err := parseTime(createdAtRaw)
		if err != nil {
			return nil, &models.StorageError{Op: "parse created_at", Err: err}
		}
		if s.expired(createdAt) {
			expired = append(expired, groupID)
			if limit > 0 && len(expired) >= limit {
				break
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "list expired groups", Err: err}
	}
	return expired, nil
}

func (s *Store) expired(createdAt time.Time) bool {
	return s.now().Sub(createdAt) > s.retention
}

func scanFileInfo(scanner interface {
	Scan(dest ...any) error
}) (models.FileInfo, error) {
	info := models.FileInfo{}
	var createdAt string

	if err := scanner.Scan(&info.ID, &info.GroupID, &info.Filename, &info.MimeType, &info.SizeBytes, &createdAt); err != nil {
		return info, err
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return info, err
	}
	info.CreatedAt = parsed
	return info, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(time.RFC3339Nano, value)
}
