package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute

	// DefaultRetention is the window after which a group becomes
	// unreadable and eligible for physical deletion.
	DefaultRetention = 24 * time.Hour
)

// Options tunes store behavior. The zero value gets sane defaults.
type Options struct {
	// Retention is the group retention window. Reads treat any group
	// older than this as not found, whether or not the reaper has
	// physically deleted it yet.
	Retention time.Duration

	// Now supplies the clock used for creation stamps and expiry
	// checks. Tests inject a fake clock here.
	Now func() time.Time

	// MaxFilesPerGroup caps batch record count; 0 means unlimited.
	MaxFilesPerGroup int

	// MaxBytesPerFile caps a single record's content; 0 means unlimited.
	MaxBytesPerFile int64
}

// Store wraps the SQLite database holding file records.
type Store struct {
	db               *sql.DB
	retention        time.Duration
	now              func() time.Time
	maxFilesPerGroup int
	maxBytesPerFile  int64
}

// Open opens the SQLite database and bootstraps the schema.
func Open(path string, opts Options) (*Store, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		db:               db,
		retention:        opts.Retention,
		now:              opts.Now,
		maxFilesPerGroup: opts.MaxFilesPerGroup,
		maxBytesPerFile:  opts.MaxBytesPerFile,
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Retention returns the configured retention window.
func (s *Store) Retention() time.Duration {
	return s.retention
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Tune connection pool for local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
