// Package helpers provides shared test fixtures.
package helpers

import (
	"path/filepath"
	"testing"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/store"
)

// NewTestSQLiteStore opens a throwaway on-disk store. On-disk rather than
// :memory: because the engine writes audit events from multiple connections.
func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "assistant.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
