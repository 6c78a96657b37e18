package models

import "time"

// FileRecord is one stored file: immutable content bytes plus metadata,
// owned by a group. Records are created once by the ingestion path and
// never updated; only group expiry (or an admin purge) removes them.
type FileRecord struct {
	ID        string    `json:"file_id"`
	GroupID   string    `json:"group_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Content   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Thumbnail returns the bytes served for thumbnail requests. By policy
// this is the original content; a real derivation step would replace
// this at ingestion time.
func (f *FileRecord) Thumbnail() []byte {
	return f.Content
}

// Info returns the metadata view of the record, without content.
func (f *FileRecord) Info() FileInfo {
	return FileInfo{
		ID:        f.ID,
		GroupID:   f.GroupID,
		Filename:  f.Filename,
		MimeType:  f.MimeType,
		SizeBytes: f.SizeBytes,
		CreatedAt: f.CreatedAt,
	}
}

// FileInfo is the content-free metadata view of a FileRecord, as
// returned by group listings.
type FileInfo struct {
	ID        string    `json:"file_id"`
	GroupID   string    `json:"group_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// IncomingFile is one validated upload buffer handed to the ingestion
// path by the transport layer.
type IncomingFile struct {
	Filename string
	MimeType string
	Content  []byte
}
