package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCommanderConfigDefaultsResultsDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commander.yaml")
	body := "base_port: 5000\ntest_dir: ./tests\ncommon_dir: ./common\ntest_timeout: 30\nclient_timeout: 5\ncommand_file: ./commands.txt\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCommanderConfig(path)
	if err != nil {
		t.Fatalf("LoadCommanderConfig() error = %v", err)
	}

	if cfg.BasePort != 5000 {
		t.Errorf("BasePort = %d, want 5000", cfg.BasePort)
	}
	if cfg.ResultsDir != defaultResultsDir {
		t.Errorf("ResultsDir = %q, want default %q", cfg.ResultsDir, defaultResultsDir)
	}
	if cfg.ClientTimeoutDuration().Seconds() != 5 {
		t.Errorf("ClientTimeoutDuration() = %v, want 5s", cfg.ClientTimeoutDuration())
	}
}

func TestLoadCommanderConfigHonorsResultsDirOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commander.yaml")
	body := "base_port: 5000\nresults_dir: /var/gradenet/results\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCommanderConfig(path)
	if err != nil {
		t.Fatalf("LoadCommanderConfig() error = %v", err)
	}
	if cfg.ResultsDir != "/var/gradenet/results" {
		t.Errorf("ResultsDir = %q, want override preserved", cfg.ResultsDir)
	}
}

func TestReadCommandsPreservesOrderAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.txt")
	body := "echo one\n\n  echo two  \n\necho three\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cmds, err := ReadCommands(path)
	if err != nil {
		t.Fatalf("ReadCommands() error = %v", err)
	}

	// Every source line survives in order, with only the trailing newline
	// stripped — blank lines and inner whitespace are not touched.
	want := []string{"echo one", "", "  echo two  ", "", "echo three"}
	if len(cmds) != len(want) {
		t.Fatalf("ReadCommands() = %q, want %q", cmds, want)
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("cmds[%d] = %q, want %q", i, cmds[i], want[i])
		}
	}
}

func TestLoadCommanderConfigMissingFile(t *testing.T) {
	_, err := LoadCommanderConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
