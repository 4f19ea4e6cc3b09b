/*
Package log provides structured logging for gradenet using zerolog.

The global Logger is initialized once via Init and is safe for concurrent
use from every commander and agent goroutine. Component loggers built with
WithComponent, WithKey, WithIP, and WithAttempt attach the field(s) named to
every subsequent log line without repeating them at each call site:

	dispatchLog := log.WithComponent("dispatch")
	dispatchLog.Info().Str("key", key).Msg("assignment pushed")

	workerLog := log.WithIP(ip).With().Str("component", "heartbeat").Logger()
	workerLog.Warn().Msg("heartbeat response missing")

Output is console-formatted with an RFC3339 timestamp unless Config.JSONOutput
(the --log-json flag) selects JSON. Fatal logs at fatal level and then calls
os.Exit(1) via zerolog's default behavior — use it only for startup failures
the process cannot recover from (e.g. a malformed config file), never inside
a running service loop.
*/
package log
