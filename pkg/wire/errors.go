package wire

import "errors"

// Closed error taxonomy (spec §7). Every surfaced error wraps exactly one of
// these sentinels so callers can classify failures with errors.Is instead of
// string matching.
var (
	// ErrTransport covers connect/send/recv failures and using a context
	// after its underlying socket has been closed.
	ErrTransport = errors.New("wire: transport error")

	// ErrProtocol covers a message variant arriving on a channel that
	// cannot carry it, or a payload that does not decode into any known
	// variant.
	ErrProtocol = errors.New("wire: protocol error")

	// ErrIO covers filesystem read/write failures.
	ErrIO = errors.New("wire: io error")

	// ErrSubprocess covers spawn failure, non-zero exit, signal, or
	// timeout kill of an executed command.
	ErrSubprocess = errors.New("wire: subprocess error")

	// ErrShutdown marks an operation that failed because its socket was
	// closed underneath it during an orderly shutdown. Expected, not
	// exceptional.
	ErrShutdown = errors.New("wire: shutdown in progress")
)
