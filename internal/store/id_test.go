package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewIDsAreValidAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		for _, id := range []string{NewGroupID(), NewFileID()} {
			if err := uuid.Validate(id); err != nil {
				t.Fatalf("invalid id %q: %v", id, err)
			}
			if seen[id] {
				t.Fatalf("duplicate id %q", id)
			}
			seen[id] = true
		}
	}
}
