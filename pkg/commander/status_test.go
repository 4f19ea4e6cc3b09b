package commander

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/gradenet/pkg/config"
)

func TestSnapshotFromConfigCountsKeysAndResultFiles(t *testing.T) {
	root := t.TempDir()
	testDir := filepath.Join(root, "tests")
	resultsDir := filepath.Join(root, "results")

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, os.MkdirAll(filepath.Join(testDir, name), 0o755))
	}
	require.NoError(t, os.MkdirAll(resultsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resultsDir, "alice.txt"), []byte("ok"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(resultsDir, "bob.txt"), []byte("ok"), 0o644))

	snap, err := SnapshotFromConfig(config.CommanderConfig{TestDir: testDir, ResultsDir: resultsDir})
	require.NoError(t, err)
	require.Equal(t, 3, snap.Total)
	require.Equal(t, 2, snap.Finished)
}

func TestSnapshotFromConfigMissingResultsDirCountsZeroFinished(t *testing.T) {
	root := t.TempDir()
	testDir := filepath.Join(root, "tests")
	require.NoError(t, os.MkdirAll(filepath.Join(testDir, "alice"), 0o755))

	snap, err := SnapshotFromConfig(config.CommanderConfig{TestDir: testDir, ResultsDir: filepath.Join(root, "missing-results")})
	require.NoError(t, err)
	require.Equal(t, 1, snap.Total)
	require.Equal(t, 0, snap.Finished)
}
