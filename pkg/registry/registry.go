package registry

import "sync"

// RetryCap is the fixed number of dispatch attempts a key may receive before
// it is declared a permanent failure.
const RetryCap = 3

// Registry tracks which assignment keys are pending, in flight, finished, or
// exhausted, and exposes the termination condition the commander blocks on.
//
// notAssigned, finished, and attempts are guarded by assignMu (the
// "assignment lock"). The cached done flag and its condition variable are
// guarded by a separate completionMu ("completion lock"); the two are never
// held at the same time by any method here.
type Registry struct {
	assignMu    sync.Mutex
	notAssigned map[string]struct{}
	finished    map[string]struct{}
	attempts    map[string]int
	total       int

	completionMu sync.Mutex
	completion   *sync.Cond
	done         bool
}

// NewRegistry builds a Registry pre-seeded with keys, so the termination
// predicate is correct from the very first call — there is no intermediate
// state where total is unset or stale.
func NewRegistry(keys []string) *Registry {
	r := &Registry{
		notAssigned: make(map[string]struct{}, len(keys)),
		finished:    make(map[string]struct{}),
		attempts:    make(map[string]int, len(keys)),
		total:       len(keys),
	}
	r.completion = sync.NewCond(&r.completionMu)
	for _, k := range keys {
		r.notAssigned[k] = struct{}{}
		r.attempts[k] = 0
	}
	return r
}

// TotalAssignments returns the immutable count the registry was seeded with.
func (r *Registry) TotalAssignments() int {
	return r.total
}

// PopNext removes and returns an arbitrary element of notAssigned. If that
// key has already reached the retry cap it is exhausted: the pop still
// removes it, but PopNext reports no key obtained for this call.
func (r *Registry) PopNext() (string, bool) {
	r.assignMu.Lock()
	defer r.assignMu.Unlock()

	for key := range r.notAssigned {
		delete(r.notAssigned, key)
		if r.attempts[key] >= RetryCap {
			return "", false
		}
		return key, true
	}
	return "", false
}

// MarkAssigned records one more dispatch attempt for key. Call immediately
// after a successful PopNext.
func (r *Registry) MarkAssigned(key string) {
	r.assignMu.Lock()
	r.attempts[key]++
	r.assignMu.Unlock()
}

// OnTimeout is invoked by the per-assignment alarm when the commander gives
// up waiting on a worker. If key is not yet finished it is re-queued for
// another dispatch; either way, onFailure is invoked once the assignment
// lock has been released.
func (r *Registry) OnTimeout(key string, onFailure func(key string)) {
	r.assignMu.Lock()
	if _, done := r.finished[key]; !done {
		r.notAssigned[key] = struct{}{}
	}
	r.assignMu.Unlock()

	if onFailure != nil {
		onFailure(key)
	}
	r.SignalIfDone()
}

// OnResult records a completion for key. Idempotent: a repeated completion
// for an already-finished key does not double-count toward Done.
func (r *Registry) OnResult(key string) {
	r.assignMu.Lock()
	delete(r.notAssigned, key)
	r.finished[key] = struct{}{}
	r.assignMu.Unlock()

	r.SignalIfDone()
}

// Done reports whether every key has reached a terminal state: finished, or
// exhausted (attempts at the retry cap without a recorded result).
func (r *Registry) Done() bool {
	r.assignMu.Lock()
	defer r.assignMu.Unlock()
	return r.doneLocked()
}

func (r *Registry) doneLocked() bool {
	exhausted := 0
	for k, n := range r.attempts {
		if n >= RetryCap {
			if _, ok := r.finished[k]; !ok {
				exhausted++
			}
		}
	}
	return len(r.finished)+exhausted >= r.total
}

// SignalIfDone recomputes the termination predicate and, if it now holds,
// latches the cached done flag and wakes every WaitForDone caller. The
// predicate is monotone, so once latched it is never cleared.
func (r *Registry) SignalIfDone() {
	r.assignMu.Lock()
	done := r.doneLocked()
	r.assignMu.Unlock()

	if !done {
		return
	}

	r.completionMu.Lock()
	r.done = true
	r.completion.Broadcast()
	r.completionMu.Unlock()
}

// WaitForDone blocks until the termination predicate holds.
func (r *Registry) WaitForDone() {
	r.completionMu.Lock()
	defer r.completionMu.Unlock()
	for !r.done {
		r.completion.Wait()
	}
}

// AttemptsFor returns the number of dispatch attempts recorded for key.
func (r *Registry) AttemptsFor(key string) int {
	r.assignMu.Lock()
	defer r.assignMu.Unlock()
	return r.attempts[key]
}

// Counts returns a snapshot of (notAssigned, inFlight, finished, exhausted)
// for metrics and for testable-property assertions in tests.
func (r *Registry) Counts() (notAssigned, inFlight, finished, exhausted int) {
	r.assignMu.Lock()
	defer r.assignMu.Unlock()

	notAssigned = len(r.notAssigned)
	finished = len(r.finished)
	for k, n := range r.attempts {
		if _, fin := r.finished[k]; fin {
			continue
		}
		if n >= RetryCap {
			exhausted++
		} else if _, pending := r.notAssigned[k]; !pending {
			inFlight++
		}
	}
	return notAssigned, inFlight, finished, exhausted
}
