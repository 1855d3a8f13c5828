// Package testutil provides fixtures for facade and CLI tests: a scratch
// directory holding a uniquely-named .pdbf path per test.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// TempDBFile returns a path ending in .pdbf, inside a directory t.Cleanup
// removes once the test finishes. The file itself is not created; callers
// write to it via Save/SavePersist.
func TempDBFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, uuid.NewString()+".pdbf")
}

// WriteDBFile writes data to a fresh .pdbf path inside a directory
// t.Cleanup removes, returning the path.
func WriteDBFile(t *testing.T, data []byte) string {
	t.Helper()
	path := TempDBFile(t)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("testutil: writing fixture database file: %v", err)
	}
	return path
}
