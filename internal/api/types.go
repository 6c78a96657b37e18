package api

import "qshare/internal/models"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// UploadResponse is returned after a successful group creation.
type UploadResponse struct {
	GroupID    string `json:"group_id"`
	ShareURL   string `json:"share_url"`
	QRCode     string `json:"qr_code,omitempty"`
	FilesCount int    `json:"files_count"`
	TotalBytes int64  `json:"total_bytes"`
}

// GroupResponse lists a group's file metadata in insertion order.
type GroupResponse struct {
	GroupID string            `json:"group_id"`
	Files   []models.FileInfo `json:"files"`
}

// InfoResponse reports service metadata and configured limits.
type InfoResponse struct {
	Version          string `json:"version"`
	RetentionSeconds int64  `json:"retention_seconds"`
	MaxFilesPerGroup int    `json:"max_files_per_group"`
	MaxBytesPerFile  int64  `json:"max_bytes_per_file"`
	MaxBytesPerGroup int64  `json:"max_bytes_per_group"`
}

// PurgeResponse acknowledges an administrative group purge.
type PurgeResponse struct {
	GroupID string `json:"group_id"`
	Purged  bool   `json:"purged"`
}
