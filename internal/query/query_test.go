package query

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "query.sql")
	text := "-- offers\nSELECT sku, price\n  FROM offers\n WHERE price > 0;\n"
	if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != text {
		t.Fatalf("expected verbatim text, got %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "query.sql"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadDirectoryIsIOError(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatalf("expected error reading a directory")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("directory read should not be reported as not found: %v", err)
	}
}
