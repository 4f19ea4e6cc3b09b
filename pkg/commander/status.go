package commander

import (
	"os"

	"github.com/cuemby/gradenet/pkg/config"
)

// Snapshot is a point-in-time count of assignment keys and completed
// results, derived purely from the filesystem. Because the registry is
// in-memory and lost on restart (spec's durable-queue non-goal), this is the
// only way to report progress for a commander that isn't the current
// process — it approximates Registry.Counts() by taking the key set from
// the test directory, as Registry is seeded, and the finished count from
// the number of files in the results directory.
type Snapshot struct {
	Total    int
	Finished int
}

// SnapshotFromConfig builds a Snapshot for cfg without dialing the
// messaging fabric or touching a live Commander.
func SnapshotFromConfig(cfg config.CommanderConfig) (Snapshot, error) {
	keys, err := scanAssignmentKeys(cfg.TestDir)
	if err != nil {
		return Snapshot{}, err
	}

	finished := 0
	if entries, err := os.ReadDir(cfg.ResultsDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				finished++
			}
		}
	}

	return Snapshot{Total: len(keys), Finished: finished}, nil
}
