package server

import (
	"fmt"
	"net/http"
	"strings"

	"qshare/internal/auth"
)

const bearerPrefix = "Bearer "

// requireAdminToken authorizes administrative requests against the
// configured bcrypt token hash.
func (s *Server) requireAdminToken(r *http.Request) error {
	if s.adminTokenHash == "" {
		return forbidden(fmt.Errorf("admin endpoints are not configured"))
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, bearerPrefix) {
		return unauthorized(fmt.Errorf("admin token is required"))
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if !auth.VerifyToken(s.adminTokenHash, token) {
		return unauthorized(fmt.Errorf("invalid admin token"))
	}
	return nil
}
