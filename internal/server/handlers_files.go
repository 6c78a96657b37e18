package server

import (
	"mime"
	"net/http"
	"strconv"

	"qshare/internal/models"
)

func (s *Server) handleFileContent(w http.ResponseWriter, r *http.Request) {
	fileID, err := requireFileID(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	record, err := s.store.GetRecord(r.Context(), fileID)
	if err != nil {
		s.writeServiceError(w, r, classifyRecordError(err))
		return
	}

	s.serveBytes(w, record.MimeType, record.Filename, record.Content)
}

func (s *Server) handleFileThumbnail(w http.ResponseWriter, r *http.Request) {
	fileID, err := requireFileID(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	record, err := s.store.GetRecord(r.Context(), fileID)
	if err != nil {
		s.writeServiceError(w, r, classifyRecordError(err))
		return
	}

	// Thumbnails re-serve the original bytes; see FileRecord.Thumbnail.
	s.serveBytes(w, record.MimeType, "thumb-"+record.Filename, record.Thumbnail())
}

// classifyRecordError narrows a not-found on a single file lookup to
// the file-specific error code before the generic classifier runs.
func classifyRecordError(err error) error {
	if models.IsNotFound(err) {
		return notFoundCode(err, ErrCodeFileNotFound)
	}
	return err
}

func (s *Server) serveBytes(w http.ResponseWriter, mimeType, filename string, content []byte) {
	// The stored mime type is served verbatim; filenames may need
	// header escaping, which FormatMediaType handles.
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if _, err := w.Write(content); err != nil {
		s.log().Debug("write file response", "error", err)
	}
}
