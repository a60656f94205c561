package moonraker

import "fmt"

// ErrorType represents the category of a client error.
type ErrorType int

const (
	// ErrTypeTransport indicates a socket or HTTP-level failure.
	ErrTypeTransport ErrorType = iota
	// ErrTypeProtocol indicates a malformed or unexpected payload.
	ErrTypeProtocol
	// ErrTypeHTTP indicates a non-200 response from the daemon.
	ErrTypeHTTP
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClientError represents an error that occurred while talking to the
// Moonraker daemon.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int // HTTP status code (if applicable)
	Err        error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ClientError) Unwrap() error {
	return e.Err
}

func newTransportError(message string, err error) *ClientError {
	return &ClientError{Type: ErrTypeTransport, Message: message, Err: err}
}

func newHTTPError(statusCode int, message string) *ClientError {
	return &ClientError{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode}
}

func newProtocolError(message string, err error) *ClientError {
	return &ClientError{Type: ErrTypeProtocol, Message: message, Err: err}
}
