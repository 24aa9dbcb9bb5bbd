package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates files under root from a slash-separated path to content map.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// WriteModule creates a go.mod declaring modulePath in dir, followed by files.
func WriteModule(t testing.TB, dir, modulePath string, files map[string]string) {
	t.Helper()
	WriteTree(t, dir, map[string]string{"go.mod": "module " + modulePath + "\n\ngo 1.21\n"})
	WriteTree(t, dir, files)
}
