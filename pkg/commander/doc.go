/*
Package commander implements gradenet's dispatch-and-completion engine: the
five concurrent service loops (heartbeat publisher, heartbeat responder,
work pusher, file responder, result responder) that wire pkg/mq's messaging
fabric to pkg/registry's assignment bookkeeping and pkg/liveness's worker
tracking.

Each loop owns its own util.Cell[error] result slot rather than sharing one,
so a panic or surfaced error in one loop never masks another's outcome. Run
blocks until the registry's termination predicate holds, then drives the
shutdown sequence documented on Commander.Close.
*/
package commander
