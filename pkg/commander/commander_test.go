package commander

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestScanAssignmentKeysListsOnlySubdirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alice", "bob"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	keys, err := scanAssignmentKeys(dir)
	if err != nil {
		t.Fatalf("scanAssignmentKeys() error = %v", err)
	}
	sort.Strings(keys)
	want := []string{"alice", "bob"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestScanAssignmentKeysMissingDir(t *testing.T) {
	_, err := scanAssignmentKeys(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected an error for a missing test directory")
	}
}

func TestCallbacksFillDefaultsLeavesSetFieldsAlone(t *testing.T) {
	called := false
	cb := Callbacks{OnSuccess: func(string) { called = true }}.fillDefaults()

	cb.OnSuccess("alice")
	if !called {
		t.Error("fillDefaults replaced an already-set OnSuccess")
	}

	// The remaining three must be callable no-ops, not nil.
	cb.OnFailure("alice")
	cb.OnClientConnected("1.2.3.4")
	cb.OnClientTimeout("1.2.3.4")
}

func TestResultPathJoinsKeyAndExtension(t *testing.T) {
	got := resultPath("/var/gradenet/results", "alice", "txt")
	want := filepath.Join("/var/gradenet/results", "alice.txt")
	if got != want {
		t.Errorf("resultPath() = %q, want %q", got, want)
	}
}
