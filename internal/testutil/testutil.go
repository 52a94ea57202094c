package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteColors writes content to a colors.json in a fresh temp dir and
// returns its path.
func WriteColors(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colors.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write colors: %v", err)
	}
	return path
}

// ReplaceColors atomically swaps the document at path so concurrent readers
// never observe a partial write.
func ReplaceColors(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		t.Fatalf("write colors: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename colors: %v", err)
	}
}

// MissingPath returns a path inside a temp dir that does not exist.
func MissingPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.json")
}

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot() string {
	if v := os.Getenv("COLORSERVE_ROOT"); v != "" {
		return v
	}
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	d, _ := os.Getwd()
	return d
}
