// Package printer holds the in-memory printer telemetry snapshot and the
// merge rules for incorporating Moonraker status payloads into it.
//
// Two payload kinds exist. Partial payloads (notify_status_update push
// notifications) are incremental deltas: fields union into the existing
// subsystem map. Full payloads (the status object of a direct query or
// subscribe reply) are authoritative: each named subsystem map is replaced
// wholesale. In neither case is a subsystem ever deleted implicitly.
//
// The snapshot is mutated only by the UI event loop while draining the
// connection manager's event queue; everything else reads it.
package printer
