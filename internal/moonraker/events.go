package moonraker

import "fmt"

// EventKind identifies the variant carried by an Event.
type EventKind int

const (
	// EventStatusUpdate carries a printer state payload. Full reports
	// whether the payload is authoritative (replace subsystems wholesale)
	// or an incremental delta (overlay fields).
	EventStatusUpdate EventKind = iota
	// EventGcodeResponse carries a terminal line from the printer.
	EventGcodeResponse
	// EventConnectionChanged reports the WebSocket session going up or down.
	EventConnectionChanged
	// EventError carries a non-fatal transport or protocol error message.
	EventError
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStatusUpdate:
		return "status_update"
	case EventGcodeResponse:
		return "gcode_response"
	case EventConnectionChanged:
		return "connection_changed"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a normalized notification published by the connection
// manager's background receive loop and consumed in arrival order by
// the UI event loop. Ownership transfers to the queue on publish.
type Event struct {
	Kind EventKind

	// Status is set for EventStatusUpdate.
	Status map[string]map[string]any
	// Full marks Status as an authoritative snapshot rather than a delta.
	Full bool

	// Response is set for EventGcodeResponse.
	Response string

	// Connected is set for EventConnectionChanged.
	Connected bool

	// Message is set for EventError.
	Message string
}

func statusEvent(payload map[string]map[string]any, full bool) Event {
	return Event{Kind: EventStatusUpdate, Status: payload, Full: full}
}

func gcodeEvent(response string) Event {
	return Event{Kind: EventGcodeResponse, Response: response}
}

func connectionEvent(connected bool) Event {
	return Event{Kind: EventConnectionChanged, Connected: connected}
}

func errorEvent(format string, args ...any) Event {
	return Event{Kind: EventError, Message: fmt.Sprintf(format, args...)}
}
