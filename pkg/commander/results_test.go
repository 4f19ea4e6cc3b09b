package commander

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/gradenet/pkg/config"
)

func TestWriteResultCreatesResultsDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	c := &Commander{cfg: config.CommanderConfig{ResultsDir: dir}}

	if err := c.writeResult("alice", []byte("hello\nEND echo hello\n")); err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "alice.txt"))
	if err != nil {
		t.Fatalf("reading written result: %v", err)
	}
	if string(got) != "hello\nEND echo hello\n" {
		t.Errorf("result content = %q, want %q", got, "hello\nEND echo hello\n")
	}
}
