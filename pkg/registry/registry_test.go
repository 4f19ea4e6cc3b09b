package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopNextThenMarkAssignedThenResultCompletesKey(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	key, ok := r.PopNext()
	require.True(t, ok)
	require.Equal(t, "alice", key)
	r.MarkAssigned(key)

	assert.False(t, r.Done(), "Done() before any result recorded")

	r.OnResult(key)

	assert.True(t, r.Done(), "Done() after the only key finished")
}

func TestOnTimeoutRequeuesWhenNotFinished(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	key, _ := r.PopNext()
	r.MarkAssigned(key)

	var failures int
	r.OnTimeout(key, func(k string) { failures++ })

	requeued, ok := r.PopNext()
	require.True(t, ok, "key was not requeued after timeout")
	assert.Equal(t, "alice", requeued)
	assert.Equal(t, 1, failures, "onFailure call count")
}

func TestOnTimeoutDoesNotRequeueAFinishedKey(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	key, _ := r.PopNext()
	r.MarkAssigned(key)
	r.OnResult(key)

	r.OnTimeout(key, nil)

	_, ok := r.PopNext()
	assert.False(t, ok, "a finished key must not be requeued by a racing timeout")
}

func TestRetryCapExhaustsAfterThreeFailedAttempts(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	var failures int
	for i := 0; i < RetryCap; i++ {
		key, ok := r.PopNext()
		require.True(t, ok, "attempt %d", i+1)
		r.MarkAssigned(key)
		r.OnTimeout(key, func(k string) { failures++ })
	}

	assert.Equal(t, RetryCap, failures)

	_, ok := r.PopNext()
	assert.False(t, ok, "an exhausted key must not be returned by PopNext again")
	assert.True(t, r.Done(), "Done() once the only key is exhausted")
}

func TestOnResultIsIdempotent(t *testing.T) {
	r := NewRegistry([]string{"alice", "bob"})

	for range []string{"alice", "bob"} {
		_, _ = r.PopNext()
	}
	r.MarkAssigned("alice")
	r.MarkAssigned("bob")

	r.OnResult("alice")
	r.OnResult("alice")
	r.OnResult("bob")

	_, _, finished, _ := r.Counts()
	assert.Equal(t, 2, finished, "double OnResult must not double-count")
	assert.True(t, r.Done())
}

func TestZeroAssignmentsAtStartupIsImmediatelyDone(t *testing.T) {
	r := NewRegistry(nil)
	assert.True(t, r.Done())
}

func TestWaitForDoneUnblocksOnlyAfterTerminationPredicateHolds(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	waitReturned := make(chan struct{})
	go func() {
		r.WaitForDone()
		close(waitReturned)
	}()

	select {
	case <-waitReturned:
		t.Fatal("WaitForDone returned before the key finished")
	case <-time.After(50 * time.Millisecond):
	}

	key, _ := r.PopNext()
	r.MarkAssigned(key)
	r.OnResult(key)

	select {
	case <-waitReturned:
	case <-time.After(time.Second):
		t.Fatal("WaitForDone did not unblock after the key finished")
	}
}

func TestConcurrentDispatchNeverExceedsRetryCap(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if key, ok := r.PopNext(); ok {
				r.MarkAssigned(key)
				r.OnTimeout(key, nil)
			}
		}()
	}
	wg.Wait()

	notAssigned, _, _, exhausted := r.Counts()
	assert.NotZero(t, notAssigned+exhausted, "key vanished: neither pending nor exhausted after concurrent timeouts")
	assert.LessOrEqual(t, r.AttemptsFor("alice"), RetryCap, "attempts exceeded the retry cap")
}

func TestAttemptsForTracksDispatchCount(t *testing.T) {
	r := NewRegistry([]string{"alice"})

	assert.Equal(t, 0, r.AttemptsFor("alice"))

	key, _ := r.PopNext()
	r.MarkAssigned(key)
	r.OnTimeout(key, nil)

	assert.Equal(t, 1, r.AttemptsFor("alice"))
}
