package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"qshare/internal/models"
)

func testStore(t *testing.T, opts Options) (*Store, *time.Time) {
	t.Helper()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	if opts.Now == nil {
		opts.Now = func() time.Time { return *clock }
	}

	st, err := Open(filepath.Join(t.TempDir(), "test.db"), opts)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, clock
}

func batch(names ...string) []models.IncomingFile {
	files := make([]models.IncomingFile, 0, len(names))
	for _, name := range names {
		files = append(files, models.IncomingFile{
			Filename: name,
			MimeType: "text/plain",
			Content:  []byte("content of " + name),
		})
	}
	return files
}

func TestCreateGroupAndList(t *testing.T) {
	st, _ := testStore(t, Options{})
	ctx := context.Background()

	groupID, err := st.CreateGroup(ctx, batch("a.txt", "b.txt", "c.txt"))
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	infos, err := st.ListGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("list group: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 files, got %d", len(infos))
	}

	wantNames := []string{"a.txt", "b.txt", "c.txt"}
	for i, info := range infos {
		if info.Filename != wantNames[i] {
			t.Errorf("file %d: expected %q, got %q", i, wantNames[i], info.Filename)
		}
		if info.GroupID != groupID {
			t.Errorf("file %d: group id %q, want %q", i, info.GroupID, groupID)
		}
		if info.SizeBytes != int64(len("content of "+wantNames[i])) {
			t.Errorf("file %d: size %d", i, info.SizeBytes)
		}
		if !info.CreatedAt.Equal(infos[0].CreatedAt) {
			t.Errorf("file %d: created_at differs within group", i)
		}
	}
}

func TestCreateGroupEmptyBatch(t *testing.T) {
	st, _ := testStore(t, Options{})

	_, err := st.CreateGroup(context.Background(), nil)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Limit != "batch" {
		t.Errorf("expected batch limit, got %q", verr.Limit)
	}
}

func TestCreateGroupTooManyFiles(t *testing.T) {
	st, _ := testStore(t, Options{MaxFilesPerGroup: 2})

	_, err := st.CreateGroup(context.Background(), batch("a", "b", "c"))
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Limit != "max_files_per_group" {
		t.Errorf("expected max_files_per_group limit, got %q", verr.Limit)
	}
}

func TestCreateGroupFileTooLarge(t *testing.T) {
	st, _ := testStore(t, Options{MaxBytesPerFile: 4})

	files := []models.IncomingFile{{Filename: "big.bin", MimeType: "application/octet-stream", Content: []byte("12345")}}
	_, err := st.CreateGroup(context.Background(), files)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Limit != "max_bytes_per_file" {
		t.Errorf("expected max_bytes_per_file limit, got %q", verr.Limit)
	}
}

func TestCreateGroupWriteFailureLeavesNothingVisible(t *testing.T) {
	st, _ := testStore(t, Options{})
	ctx := context.Background()

	// Make the insert of one marker record fail after earlier records
	// in the same batch have been written.
	_, err := st.db.Exec(`
		CREATE TRIGGER fail_marker_insert BEFORE INSERT ON files
		WHEN NEW.filename = 'marker.txt'
		BEGIN
			SELECT RAISE(ABORT, 'simulated write failure');
		END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	_, err = st.CreateGroup(ctx, batch("ok.txt", "marker.txt"))
	var serr *models.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected storage error, got %v", err)
	}

	// The batch must roll back whole: not even the record inserted
	// before the failure may be visible.
	var count int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&count); err != nil {
		t.Fatalf("count files: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed batch left %d records visible", count)
	}
}

func TestGetRecordRoundTrip(t *testing.T) {
	st, _ := testStore(t, Options{})
	ctx := context.Background()

	content := []byte{0x50, 0x4b, 0x03, 0x04, 0x00}
	groupID, err := st.CreateGroup(ctx, []models.IncomingFile{{Filename: "raw.bin", MimeType: "application/octet-stream", Content: content}})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	infos, err := st.ListGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("list group: %v", err)
	}

	record, err := st.GetRecord(ctx, infos[0].ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if !bytes.Equal(record.Content, content) {
		t.Errorf("content mismatch: got %v", record.Content)
	}
	if record.MimeType != "application/octet-stream" {
		t.Errorf("mime type %q", record.MimeType)
	}
	if record.SizeBytes != int64(len(content)) {
		t.Errorf("size %d, want %d", record.SizeBytes, len(content))
	}
}

func TestGetRecordNotFound(t *testing.T) {
	st, _ := testStore(t, Options{})

	_, err := st.GetRecord(context.Background(), NewFileID())
	if !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExpiredGroupIsNotFound(t *testing.T) {
	st, clock := testStore(t, Options{Retention: time.Hour})
	ctx := context.Background()

	groupID, err := st.CreateGroup(ctx, batch("a.txt"))
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	infos, err := st.ListGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("list group: %v", err)
	}
	fileID := infos[0].ID

	// Exactly at the retention boundary the group is still readable.
	*clock = clock.Add(time.Hour)
	if _, err := st.ListGroup(ctx, groupID); err != nil {
		t.Fatalf("list at boundary: %v", err)
	}

	// One tick past the boundary it is gone, purged or not.
	*clock = clock.Add(time.Second)
	if _, err := st.ListGroup(ctx, groupID); !models.IsNotFound(err) {
		t.Fatalf("expected not found after expiry, got %v", err)
	}
	if _, err := st.GetRecord(ctx, fileID); !models.IsNotFound(err) {
		t.Fatalf("expected not found record after expiry, got %v", err)
	}

	// Expired and never-existed produce the same error.
	_, expiredErr := st.ListGroup(ctx, groupID)
	_, missingErr := st.ListGroup(ctx, NewGroupID())
	if !errors.Is(expiredErr, models.ErrNotFound) || !errors.Is(missingErr, models.ErrNotFound) {
		t.Errorf("expired (%v) and missing (%v) should both be ErrNotFound", expiredErr, missingErr)
	}
}

func TestDeleteGroupIdempotent(t *testing.T) {
	st, _ := testStore(t, Options{})
	ctx := context.Background()

	groupID, err := st.CreateGroup(ctx, batch("a.txt", "b.txt"))
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if err := st.DeleteGroup(ctx, groupID); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	if _, err := st.ListGroup(ctx, groupID); !models.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := st.DeleteGroup(ctx, groupID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestListExpiredGroups(t *testing.T) {
	st, clock := testStore(t, Options{Retention: time.Hour})
	ctx := context.Background()

	oldGroup, err := st.CreateGroup(ctx, batch("old.txt"))
	if err != nil {
		t.Fatalf("create old group: %v", err)
	}

	*clock = clock.Add(45 * time.Minute)
	if _, err := st.CreateGroup(ctx, batch("fresh.txt")); err != nil {
		t.Fatalf("create fresh group: %v", err)
	}

	// 75 minutes after the first upload only the old group is past
	// the one hour window.
	*clock = clock.Add(30 * time.Minute)

	expired, err := st.ListExpiredGroups(ctx, 0)
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if len(expired) != 1 || expired[0] != oldGroup {
		t.Fatalf("expected [%s], got %v", oldGroup, expired)
	}

	*clock = clock.Add(time.Hour)
	expired, err = st.ListExpiredGroups(ctx, 1)
	if err != nil {
		t.Fatalf("list expired with limit: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("limit 1 should cap results, got %v", expired)
	}

	expired, err = st.ListExpiredGroups(ctx, 0)
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if len(expired) != 2 {
		t.Fatalf("expected both groups expired, got %v", expired)
	}
}
