package mq

import "fmt"

// PullGroup is the NATS queue group every Puller joins so a Push is
// delivered to exactly one of them.
const PullGroup = "gradenet-pullers"

// Subjects is the five-channel port layout (spec §4.A) expressed as NATS
// subjects instead of TCP ports, namespaced by the configured base port so
// multiple gradenet runs can share one NATS server without colliding.
type Subjects struct {
	Heartbeat     string // P   — publisher/subscriber
	TestSpec      string // P+1 — pusher/puller
	Files         string // P+2 — responder/requester (file service)
	Results       string // P+3 — responder/requester (result ingest)
	HeartbeatResp string // P+4 — responder/requester (heartbeat ack)
}

// NewSubjects derives the fixed five-channel layout from basePort.
func NewSubjects(basePort uint16) Subjects {
	prefix := fmt.Sprintf("gradenet.%d", basePort)
	return Subjects{
		Heartbeat:     prefix + ".heartbeat",
		TestSpec:      prefix + ".testspec",
		Files:         prefix + ".files",
		Results:       prefix + ".results",
		HeartbeatResp: prefix + ".heartbeat_resp",
	}
}
