package store

import "github.com/google/uuid"

// NewGroupID returns a fresh globally-unique group identifier. UUIDs
// are never reused, so a stale share link can never resolve to a
// different, later group.
func NewGroupID() string {
	return uuid.NewString()
}

// NewFileID returns a fresh unique file record identifier.
func NewFileID() string {
	return uuid.NewString()
}
