// Package moonraker implements the connection manager for a Moonraker
// 3D-printer control daemon.
//
// A Client owns a persistent WebSocket session (JSON-RPC 2.0 framing)
// used for the event stream and a pair of HTTP clients used for
// commands. The background receive loop classifies every inbound frame
// into a normalized Event and publishes it to a FIFO queue; the UI
// event loop drains that queue with the non-blocking Poll. Printer
// state itself lives outside this package: status payloads travel
// inside events and are merged by the consumer, so the background
// goroutine never shares mutable state with the foreground beyond the
// queue.
//
// # Session lifecycle
//
// Connect dials ws://host:port/websocket and immediately sends a
// printer.objects.subscribe request with an explicit subsystem/field
// allow-list. On any unexpected closure the receive loop retries the
// full open+subscribe handshake every 5 seconds, without bound, until
// Disconnect flips the running flag. Disconnect closes the socket and
// waits for the loop with a bounded timeout.
//
// # HTTP commands
//
// Gcode submission uses a 120 second timeout because some commands
// legitimately take that long; a timeout on that path is translated
// into an informational event rather than an error, since the result
// will still arrive over the WebSocket stream. All other queries use a
// short timeout and return errors directly.
package moonraker
