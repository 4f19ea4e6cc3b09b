package mq

import "testing"

func TestNewSubjectsAreDistinctAndNamespacedByPort(t *testing.T) {
	s := NewSubjects(5000)

	all := []string{s.Heartbeat, s.TestSpec, s.Files, s.Results, s.HeartbeatResp}
	seen := make(map[string]bool, len(all))
	for _, subj := range all {
		if seen[subj] {
			t.Fatalf("duplicate subject %q", subj)
		}
		seen[subj] = true
	}

	other := NewSubjects(5001)
	if s.Heartbeat == other.Heartbeat {
		t.Error("subjects for different base ports must not collide")
	}
}
