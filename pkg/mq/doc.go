/*
Package mq implements gradenet's messaging fabric: six role-typed wrappers
around a shared NATS connection, one per socket role the commander and agent
exchange messages over.

Publisher/Subscriber is fire-and-forget broadcast: every currently-connected
Subscriber sees a Publish, but none see messages sent before they connected.
Pusher/Puller load-balances: exactly one Puller in the pull group receives
each Push, achieved with a NATS queue group. Requester/Responder is strict
request-reply: a Request blocks until the Responder's handler replies
exactly once.

Each type owns exactly one subject, derived from the configured base port
(pkg/config), and exposes only the operations its role permits — there is no
shared "Socket" interface a caller could misuse to, say, Push on a
Responder. Close is idempotent on every type.

mq operates on raw bytes; callers are responsible for running payloads
through pkg/wire's Encode/Decode and honoring its per-channel variant
restrictions.
*/
package mq
