package server

import (
	"context"
	"log/slog"

	"qshare/internal/models"
	"qshare/internal/store"
)

// IngestService validates incoming upload batches and commits them to
// the store as one atomic group. Validation runs before any storage
// write, so an over-limit batch leaves no partial side effects.
type IngestService struct {
	store            *store.Store
	shareBaseURL     string
	maxFilesPerGroup int
	maxBytesPerFile  int64
	maxBytesPerGroup int64
}

// IngestResult describes a successfully created group plus its share
// reference for the QR/link layer.
type IngestResult struct {
	GroupID    string
	ShareURL   string
	QRCode     string
	FilesCount int
	TotalBytes int64
}

// NewIngestService constructs an IngestService. Zero limits mean
// unlimited.
func NewIngestService(st *store.Store, shareBaseURL string, maxFiles int, maxBytesPerFile, maxBytesPerGroup int64) *IngestService {
	return &IngestService{
		store:            st,
		shareBaseURL:     shareBaseURL,
		maxFilesPerGroup: maxFiles,
		maxBytesPerFile:  maxBytesPerFile,
		maxBytesPerGroup: maxBytesPerGroup,
	}
}

// CreateGroup validates the batch and persists it atomically.
func (s *IngestService) CreateGroup(ctx context.Context, files []models.IncomingFile) (IngestResult, error) {
	var zero IngestResult

	if len(files) == 0 {
		return zero, models.NewValidationError("batch", "at least one file is required")
	}
	if s.maxFilesPerGroup > 0 && len(files) > s.maxFilesPerGroup {
		return zero, models.NewValidationError("max_files_per_group", "%d files exceeds limit of %d", len(files), s.maxFilesPerGroup)
	}

	var total int64
	for _, f := range files {
		size := int64(len(f.Content))
		if s.maxBytesPerFile > 0 && size > s.maxBytesPerFile {
			return zero, models.NewValidationError("max_bytes_per_file", "file %q is %d bytes, limit is %d", f.Filename, size, s.maxBytesPerFile)
		}
		total += size
	}
	if s.maxBytesPerGroup > 0 && total > s.maxBytesPerGroup {
		return zero, models.NewValidationError("max_bytes_per_group", "batch is %d bytes, limit is %d", total, s.maxBytesPerGroup)
	}

	groupID, err := s.store.CreateGroup(ctx, files)
	if err != nil {
		return zero, err
	}

	shareURL := BuildShareURL(s.shareBaseURL, groupID)
	qrCode, err := QRCodeDataURL(shareURL)
	if err != nil {
		// The share link still works without its QR rendering.
		slog.Default().Warn("encode share qr code", "group_id", groupID, "error", err)
		qrCode = ""
	}

	return IngestResult{
		GroupID:    groupID,
		ShareURL:   shareURL,
		QRCode:     qrCode,
		FilesCount: len(files),
		TotalBytes: total,
	}, nil
}
