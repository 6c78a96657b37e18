package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"qshare/internal/archive"
	"qshare/internal/store"
)

const (
	allowRemoteEnvKey      = "QSHARE_ALLOW_REMOTE"
	readHeaderTimeout      = 5 * time.Second
	readTimeout            = 60 * time.Second
	writeTimeout           = 10 * time.Minute
	idleTimeout            = 60 * time.Second
	uploadConcurrencyLimit = 4
	streamConcurrencyLimit = 4
)

// Options carries the server's tunables from config.
type Options struct {
	Version          string
	ShareBaseURL     string
	AdminTokenHash   string
	MaxFilesPerGroup int
	MaxBytesPerFile  int64
	MaxBytesPerGroup int64
	CompressionLevel int
}

// Server wraps HTTP handlers for the qshare API.
type Server struct {
	addr           string
	store          *store.Store
	ingest         *IngestService
	streamer       *archive.Streamer
	logger         *slog.Logger
	version        string
	adminTokenHash string
	opts           Options
	uploadLimiter  chan struct{}
	streamLimiter  chan struct{}
	httpServer     *http.Server
}

// New creates a new server instance.
func New(addr string, st *store.Store, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:           addr,
		store:          st,
		ingest:         NewIngestService(st, opts.ShareBaseURL, opts.MaxFilesPerGroup, opts.MaxBytesPerFile, opts.MaxBytesPerGroup),
		streamer:       archive.New(st, opts.CompressionLevel),
		logger:         logger,
		version:        opts.Version,
		adminTokenHash: strings.TrimSpace(opts.AdminTokenHash),
		opts:           opts,
		uploadLimiter:  make(chan struct{}, uploadConcurrencyLimit),
		streamLimiter:  make(chan struct{}, streamConcurrencyLimit),
	}
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
