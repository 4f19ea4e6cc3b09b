/*
Package liveness tracks which worker IPs the commander has heard a heartbeat
response from recently, and evicts any that go quiet for longer than a
configured timeout.

A Tracker is a single mutex-guarded map from IP to last-seen time. Eviction
happens only when a caller invokes Cleanup (the commander does so once per
heartbeat period); the onNew and onEvict callbacks passed to AddIP and
Cleanup are always invoked after the tracker's lock has been released, so a
callback is free to call back into the tracker without risking deadlock.
*/
package liveness
