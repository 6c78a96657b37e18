package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Groups.
	mux.HandleFunc("POST /v1/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /v1/groups/{group_id}", s.handleGetGroup)
	mux.HandleFunc("GET /v1/groups/{group_id}/archive", s.handleDownloadArchive)

	// Individual files.
	mux.HandleFunc("GET /v1/files/{file_id}/content", s.handleFileContent)
	mux.HandleFunc("GET /v1/files/{file_id}/thumbnail", s.handleFileThumbnail)

	// Admin.
	mux.HandleFunc("DELETE /v1/admin/groups/{group_id}", s.handleAdminPurge)

	return s.withRequestLogging(mux)
}
