package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"qshare/internal/api"
	"qshare/internal/models"
)

const (
	multipartMemory     = 8 << 20 // 8 MiB
	uploadOverheadBytes = 1 << 20 // multipart framing headroom
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		Version:          s.version,
		RetentionSeconds: int64(s.store.Retention().Seconds()),
		MaxFilesPerGroup: s.opts.MaxFilesPerGroup,
		MaxBytesPerFile:  s.opts.MaxBytesPerFile,
		MaxBytesPerGroup: s.opts.MaxBytesPerGroup,
	})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.uploadLimiter, w, r, "upload") {
		return
	}
	defer s.releaseLimiter(s.uploadLimiter)

	if s.opts.MaxBytesPerGroup > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBytesPerGroup+uploadOverheadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("at least one files part is required"), ErrCodeEmptyBatch))
		return
	}

	files := make([]models.IncomingFile, 0, len(parts))
	for _, header := range parts {
		part, err := header.Open()
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("open part %q: %w", header.Filename, err)))
			return
		}
		content, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("read part %q: %w", header.Filename, err)))
			return
		}

		mimeType := strings.TrimSpace(header.Header.Get("Content-Type"))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		files = append(files, models.IncomingFile{
			Filename: header.Filename,
			MimeType: mimeType,
			Content:  content,
		})
	}

	result, err := s.ingest.CreateGroup(r.Context(), files)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("group created", "group_id", result.GroupID, "files", result.FilesCount, "bytes", result.TotalBytes)
	s.writeJSON(w, http.StatusCreated, api.UploadResponse{
		GroupID:    result.GroupID,
		ShareURL:   result.ShareURL,
		QRCode:     result.QRCode,
		FilesCount: result.FilesCount,
		TotalBytes: result.TotalBytes,
	})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := requireGroupID(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	files, err := s.store.ListGroup(r.Context(), groupID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.GroupResponse{GroupID: groupID, Files: files})
}

func (s *Server) handleDownloadArchive(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.streamLimiter, w, r, "archive") {
		return
	}
	defer s.releaseLimiter(s.streamLimiter)

	groupID, err := requireGroupID(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="files-%s.zip"`, groupID))

	sink := &countingWriter{w: w}
	if err := s.streamer.StreamGroup(r.Context(), groupID, sink); err != nil {
		if sink.n == 0 {
			// Nothing sent yet; a normal error response is still possible.
			w.Header().Del("Content-Disposition")
			s.writeServiceError(w, r, err)
			return
		}
		// The response has started; a partial archive cannot be
		// repaired, so abort and leave the stream truncated.
		s.log().Error("archive stream aborted", "group_id", groupID, "bytes_written", sink.n, "error", err)
		return
	}

	s.log().Debug("archive streamed", "group_id", groupID, "bytes_written", sink.n)
}

func (s *Server) handleAdminPurge(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdminToken(r); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	groupID, err := requireGroupID(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	if err := s.store.DeleteGroup(r.Context(), groupID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("group purged by admin", "group_id", groupID)
	s.writeJSON(w, http.StatusOK, api.PurgeResponse{GroupID: groupID, Purged: true})
}

func requireGroupID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("group_id"))
	if uuid.Validate(id) != nil {
		return "", badRequestCode(fmt.Errorf("invalid group_id"), ErrCodeInvalidID)
	}
	return id, nil
}

func requireFileID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("file_id"))
	if uuid.Validate(id) != nil {
		return "", badRequestCode(fmt.Errorf("invalid file_id"), ErrCodeInvalidID)
	}
	return id, nil
}

func classifyMultipartError(err error) error {
	if err == nil {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || strings.Contains(strings.ToLower(err.Error()), "request body too large") {
		return badRequestCode(fmt.Errorf("upload exceeds the per-group size limit"), ErrCodeGroupTooLarge)
	}
	return badRequestCode(err, ErrCodeInvalidArgument)
}

// countingWriter tracks whether any archive bytes reached the client.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
