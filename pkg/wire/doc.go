/*
Package wire defines gradenet's on-the-wire message envelopes and the closed
error taxonomy shared across the messaging fabric, the commander, and the
agent.

Every message gradenet exchanges is a single flat JSON object. There is no
schema compiler and no RPC service definition: a message is decoded into one
of a fixed set of tagged variants (Heartbeat, HeartbeatResp, TestSpec,
FileReq, Files, TestCompletion), and each channel in the messaging fabric
(pkg/mq) only accepts the variants its role is allowed to carry. Decoding a
variant on the wrong channel is a protocol error, not a silent no-op.
*/
package wire
