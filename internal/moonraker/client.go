package moonraker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/j3k0/mooncrescent/internal/logging"
)

const (
	// DefaultRetryDelay is the fixed back-off between reconnect attempts.
	DefaultRetryDelay = 5 * time.Second

	// DefaultGcodeTimeout is the long timeout for gcode script submission.
	// Some commands (homing, heating) legitimately take minutes, and the
	// authoritative reply arrives via the WebSocket stream anyway.
	DefaultGcodeTimeout = 120 * time.Second

	// DefaultRequestTimeout is the timeout for one-shot HTTP queries.
	DefaultRequestTimeout = 5 * time.Second

	// dialTimeout bounds the WebSocket handshake.
	dialTimeout = 10 * time.Second

	// disconnectWait bounds how long Disconnect waits for the receive
	// loop to stop before giving up.
	disconnectWait = 2 * time.Second

	// eventQueueSize is the capacity of the event queue. The consumer
	// drains it every redraw tick, so it only needs to absorb bursts.
	eventQueueSize = 256
)

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	RetryDelay     time.Duration
	GcodeTimeout   time.Duration
	RequestTimeout time.Duration
}

// Client maintains a persistent WebSocket session with a Moonraker
// daemon and performs one-shot HTTP commands against it. Inbound frames
// are normalized into Events and published to a queue consumed by the
// UI event loop; the client itself never touches printer state.
type Client struct {
	host    string
	port    int
	wsURL   string
	httpURL string

	gcodeClient *http.Client
	queryClient *http.Client

	retryDelay time.Duration

	requestID atomic.Int64
	connected atomic.Bool
	running   atomic.Bool

	events chan Event

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}

	pumpDone chan struct{}
}

// NewClient creates a client for the daemon at host:port.
func NewClient(host string, port int, opts Options) *Client {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.GcodeTimeout <= 0 {
		opts.GcodeTimeout = DefaultGcodeTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	return &Client{
		host:        host,
		port:        port,
		wsURL:       fmt.Sprintf("ws://%s:%d/websocket", host, port),
		httpURL:     fmt.Sprintf("http://%s:%d", host, port),
		gcodeClient: &http.Client{Timeout: opts.GcodeTimeout},
		queryClient: &http.Client{Timeout: opts.RequestTimeout},
		retryDelay:  opts.RetryDelay,
		events:      make(chan Event, eventQueueSize),
		done:        make(chan struct{}),
	}
}

// Host returns the configured daemon host.
func (c *Client) Host() string { return c.host }

// Port returns the configured daemon port.
func (c *Client) Port() int { return c.port }

// Connected reports whether the WebSocket session is currently up.
func (c *Client) Connected() bool { return c.connected.Load() }

// Connect opens the WebSocket session, issues the subscription
// handshake, and starts the background receive loop. The receive loop
// keeps retrying on its own after any unexpected closure; Connect only
// fails when the very first dial does.
func (c *Client) Connect() error {
	if !c.running.CompareAndSwap(false, true) {
		return fmt.Errorf("client already running")
	}

	// Fresh session: the previous done channel is closed after Disconnect.
	// Assigned under the mutex so a lingering receive loop from the old
	// session never observes a torn write.
	c.mu.Lock()
	c.done = make(chan struct{})
	c.mu.Unlock()

	conn, err := c.dial()
	if err != nil {
		c.running.Store(false)
		return newTransportError("connection failed", err)
	}

	c.setConn(conn)
	c.connected.Store(true)
	c.publish(connectionEvent(true))

	c.pumpDone = make(chan struct{})
	go c.readPump(conn)

	return nil
}

// Disconnect flips the running flag, closes the socket, and waits for
// the receive loop with a bounded timeout. Safe to call twice.
func (c *Client) Disconnect() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}

	c.mu.Lock()
	close(c.done)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	if c.pumpDone != nil {
		select {
		case <-c.pumpDone:
		case <-time.After(disconnectWait):
			logging.Warn("receive loop did not stop in time", zap.String("addr", c.wsURL))
		}
	}

	c.connected.Store(false)
	logging.LogConnection(c.wsURL, "disconnected")
}

// Poll pops the next queued event without blocking.
func (c *Client) Poll() (Event, bool) {
	select {
	case ev := <-c.events:
		return ev, true
	default:
		return Event{}, false
	}
}

// dial opens the WebSocket and immediately issues the subscription
// request. Each retry re-runs this full open+subscribe handshake.
func (c *Client) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(c.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.wsURL, err)
	}

	if err := c.subscribe(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.LogConnection(c.wsURL, "connected")
	return conn, nil
}

// subscribe requests status updates for the explicit subsystem/field
// allow-list. The daemon replies with a full status snapshot, which the
// receive loop classifies as an authoritative StatusUpdate.
func (c *Client) subscribe(conn *websocket.Conn) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  methodSubscribe,
		Params:  map[string]any{"objects": subscriptionObjects},
		ID:      c.nextRequestID(),
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (c *Client) nextRequestID() int64 {
	return c.requestID.Add(1)
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// doneChan snapshots the current session's teardown channel.
func (c *Client) doneChan() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// readPump runs on a dedicated goroutine. It reads frames until the
// connection drops, then, while still in the running state, retries the
// full open+subscribe handshake after a fixed delay. Retries are
// unbounded: an unattended printer session should survive daemon
// restarts.
func (c *Client) readPump(conn *websocket.Conn) {
	defer close(c.pumpDone)

	for {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			logging.LogInbound(c.wsURL, data)
			c.classify(data)
		}

		c.connected.Store(false)
		if !c.running.Load() {
			return
		}
		c.publish(connectionEvent(false))
		logging.LogConnection(c.wsURL, "connection lost")

		reconnected := false
		for c.running.Load() {
			select {
			case <-c.doneChan():
				return
			case <-time.After(c.retryDelay):
			}

			next, err := c.dial()
			if err != nil {
				logging.Warn("reconnect failed", zap.String("addr", c.wsURL), zap.Error(err))
				continue
			}

			conn = next
			c.setConn(conn)
			c.connected.Store(true)
			c.publish(connectionEvent(true))
			reconnected = true
			break
		}
		if !reconnected {
			return
		}
	}
}

// classify maps an inbound frame to zero or more events. Malformed
// payloads become Error events and are otherwise dropped; nothing here
// may crash the receive loop.
func (c *Client) classify(data []byte) {
	var env rpcEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.publish(errorEvent("failed to parse message: %v", err))
		return
	}

	switch {
	case env.Method == notifyStatusUpdate:
		if len(env.Params) == 0 {
			c.publish(errorEvent("status update without params"))
			return
		}
		var status map[string]map[string]any
		if err := json.Unmarshal(env.Params[0], &status); err != nil {
			c.publish(errorEvent("malformed status update: %v", err))
			return
		}
		c.publish(statusEvent(status, false))

	case env.Method == notifyGcodeResponse:
		if len(env.Params) == 0 {
			c.publish(errorEvent("gcode response without params"))
			return
		}
		var response string
		if err := json.Unmarshal(env.Params[0], &response); err != nil {
			c.publish(errorEvent("malformed gcode response: %v", err))
			return
		}
		c.publish(gcodeEvent(response))

	case env.Error != nil:
		c.publish(errorEvent("request %d failed: %s", env.ID, env.Error.Message))

	case len(env.Result) > 0:
		var res rpcStatusResult
		if err := json.Unmarshal(env.Result, &res); err != nil {
			c.publish(errorEvent("malformed reply: %v", err))
			return
		}
		// Replies without a status object (plain "ok" acks) carry no event
		if len(res.Status) > 0 {
			c.publish(statusEvent(res.Status, true))
		}

	default:
		// Notification methods outside the subscription are ignored
	}
}

// publish enqueues an event, giving up when the session is being torn
// down so the receive loop can never wedge on a full queue at shutdown.
func (c *Client) publish(ev Event) {
	select {
	case c.events <- ev:
	case <-c.doneChan():
	}
}
