// Package ui implements the console event loop as a bubbletea model.
//
// The model is the single consumer of the connection manager's event
// queue: a 100ms tick drains all pending events, merging status
// payloads into the printer state snapshot and turning gcode responses,
// connection changes and errors into styled terminal lines. Key input
// drives the line editor and triggers an immediate redraw; submitted
// commands are echoed at once and dispatched on a worker, with result
// lines delivered back as a message. The model is the only writer of
// the snapshot, so no locking is needed around merges.
package ui
