/*
Package registry implements the commander's assignment bookkeeping: which
keys are still waiting to be dispatched, which have finished, and how many
times each has been attempted.

A Registry guards three collections — notAssigned, finished, and attempts —
behind a single assignment lock. Termination (Done) is exposed separately
behind its own completion lock and condition variable, so that callers
needing both (the work pusher, after popping a key) acquire the assignment
lock, release it, then take the completion lock — the two are never nested.
*/
package registry
