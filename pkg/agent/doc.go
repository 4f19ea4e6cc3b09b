/*
Package agent implements gradenet's worker client: the heartbeat subscriber
that tracks the commander's done signal and self-reports this machine's
external IP, and the main pull loop that receives one TestSpec at a time,
fetches its files, executes its commands as host subprocesses with a shared
wall-clock timeout, and reports a base64 transcript back to the commander.

Command execution never touches the wire protocol's own JSON — it only
produces the byte transcript TestCompletion carries. Host resource sampling
(pkg/agent's hostsampler) is purely observational and never gates dispatch.
*/
package agent
