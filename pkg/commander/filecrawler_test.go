package commander

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestReadDirFilesEncodesEveryFileRelativeToRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("world"), 0o644); err != nil {
		t.Fatal(err)
	}

	payloads, err := readDirFiles(dir)
	if err != nil {
		t.Fatalf("readDirFiles() error = %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("got %d payloads, want 2", len(payloads))
	}

	paths := make([]string, len(payloads))
	byPath := make(map[string]string, len(payloads))
	for i, p := range payloads {
		paths[i] = p.Path
		byPath[p.Path] = p.Base64
	}
	sort.Strings(paths)
	if paths[0] != "a.txt" || paths[1] != "sub/b.txt" {
		t.Fatalf("paths = %v, want [a.txt sub/b.txt]", paths)
	}

	decoded, err := base64.StdEncoding.DecodeString(byPath["a.txt"])
	if err != nil || string(decoded) != "hello" {
		t.Errorf("a.txt decoded = %q, err %v, want %q", decoded, err, "hello")
	}
}

func TestReadDirFilesMissingDir(t *testing.T) {
	_, err := readDirFiles(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
