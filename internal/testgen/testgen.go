// Package testgen provides utilities for generating library files (FB2
// documents and zip archives) with configurable metadata for testing the
// scan worker.
package testgen

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content at path, creating any
// missing parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
