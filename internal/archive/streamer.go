package archive

import (
	"archive/zip"
	"context"
	"io"

	"github.com/klauspost/compress/flate"

	"qshare/internal/models"
)

// DefaultCompressionLevel balances CPU cost against ratio for mixed
// uploads. The level is a tunable, not a correctness parameter.
const DefaultCompressionLevel = 6

// GroupReader is the slice of the store the streamer reads from.
type GroupReader interface {
	ListGroup(ctx context.Context, groupID string) ([]models.FileInfo, error)
	GetRecord(ctx context.Context, id string) (*models.FileRecord, error)
}

// Streamer writes ZIP archives of whole groups to an output sink. It
// fetches one record at a time and flushes each entry before fetching
// the next, so memory stays bounded by the largest single file and
// backpressure from a slow sink propagates to the store reads.
type Streamer struct {
	store GroupReader
	level int
}

// New constructs a Streamer with the given deflate level. Levels
// outside the valid flate range fall back to the default.
func New(store GroupReader, level int) *Streamer {
	if level < flate.NoCompression || level > flate.BestCompression {
		level = DefaultCompressionLevel
	}
	return &Streamer{store: store, level: level}
}

// StreamGroup streams one ZIP archive of the group to w. Existence is
// confirmed before the first byte is written, so a missing or expired
// group surfaces as ErrNotFound with a clean sink. Records are written
// in insertion order; duplicate filenames produce duplicate entries,
// which the ZIP format permits and clients resolve.
//
// On any failure after writing has begun the stream is abandoned as-is:
// the central directory is never written for a partial archive.
func (s *Streamer) StreamGroup(ctx context.Context, groupID string, w io.Writer) error {
	infos, err := s.store.ListGroup(ctx, groupID)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, s.level)
	})

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return &models.StreamError{Err: err}
		}

		record, err := s.store.GetRecord(ctx, info.ID)
		if err != nil {
			// Lost a race with expiry or purge mid-stream; abort.
			return err
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     record.Filename,
			Method:   zip.Deflate,
			Modified: record.CreatedAt,
		})
		if err != nil {
			return &models.StreamError{Err: err}
		}
		if _, err := entry.Write(record.Content); err != nil {
			return &models.StreamError{Err: err}
		}
		// Push the finished entry to the sink before reading the next
		// record, so a dead consumer is detected promptly.
		if err := zw.Flush(); err != nil {
			return &models.StreamError{Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &models.StreamError{Err: err}
	}
	return nil
}
