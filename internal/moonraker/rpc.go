package moonraker

import "encoding/json"

// Moonraker speaks JSON-RPC 2.0 over the WebSocket. Outbound requests
// carry a numeric auto-incrementing id; inbound frames are either push
// notifications (a method tag and positional params) or direct replies
// to an outstanding request (a result object).

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	Result  json.RawMessage   `json:"result"`
	Error   *rpcError         `json:"error"`
	ID      int64             `json:"id"`
}

// rpcStatusResult is the result shape of printer.objects.subscribe and
// printer.objects.query replies.
type rpcStatusResult struct {
	Status map[string]map[string]any `json:"status"`
}

// methodSubscribe registers the status-update subscription.
const methodSubscribe = "printer.objects.subscribe"

// Push notification methods of interest. Anything else is ignored.
const (
	notifyStatusUpdate  = "notify_status_update"
	notifyGcodeResponse = "notify_gcode_response"
)

// subscriptionObjects is the explicit allow-list of subsystems and
// fields requested from the printer. Keeping this an allow-list rather
// than a wildcard bounds the payload size of every status update.
var subscriptionObjects = map[string][]string{
	"print_stats": {
		"state", "filename", "total_duration",
		"print_duration", "filament_used", "info",
	},
	"display_status": {"progress", "message"},
	"toolhead": {
		"position", "homed_axes", "print_time",
		"estimated_print_time",
	},
	"heater_bed": {"temperature", "target"},
	"extruder":   {"temperature", "target", "power"},
	"gcode_move": {
		"speed_factor", "extrude_factor", "speed",
		"absolute_coordinates",
	},
}
