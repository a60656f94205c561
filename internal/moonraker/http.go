package moonraker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/j3k0/mooncrescent/internal/logging"
)

// macroPrefix marks user-defined macros among configfile settings keys.
const macroPrefix = "gcode_macro "

// FileInfo describes one entry of the gcode file listing.
type FileInfo struct {
	Path     string  `json:"path"`
	Size     int64   `json:"size"`
	Modified float64 `json:"modified"` // unix seconds, fractional
}

// FileMetadata is the slicer metadata Moonraker keeps per gcode file.
type FileMetadata struct {
	Size               int64   `json:"size"`
	EstimatedTime      float64 `json:"estimated_time"`      // seconds
	FilamentTotal      float64 `json:"filament_total"`      // millimeters
	LayerHeight        float64 `json:"layer_height"`        // millimeters
	FirstLayerHeight   float64 `json:"first_layer_height"`  // millimeters
	FirstLayerBedTemp  float64 `json:"first_layer_bed_temp"`
	FirstLayerExtrTemp float64 `json:"first_layer_extr_temp"`
	Slicer             string  `json:"slicer"`
}

// SendGcode submits a gcode command over the HTTP channel. A request
// timeout is non-fatal: the command may still be executing and its
// result will surface via the WebSocket stream, so a timeout becomes an
// informational event and SendGcode reports success. Any other
// transport failure raises an Error event and returns the failure.
func (c *Client) SendGcode(script string) error {
	endpoint := fmt.Sprintf("%s/printer/gcode/script?script=%s", c.httpURL, url.QueryEscape(script))

	resp, err := c.gcodeClient.Post(endpoint, "", nil)
	if err != nil {
		if isTimeout(err) {
			c.publish(gcodeEvent("(command sent, waiting for completion...)"))
			return nil
		}
		c.publish(errorEvent("failed to send command: %v", err))
		return newTransportError("failed to send command", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.publish(errorEvent("gcode failed: %s", strings.TrimSpace(string(body))))
		return newHTTPError(resp.StatusCode, "gcode script rejected")
	}

	logging.Debug("gcode submitted", zap.String("script", script))
	return nil
}

// PrinterInfo queries GET /printer/info.
func (c *Client) PrinterInfo() (map[string]any, error) {
	var result map[string]any
	if err := c.getJSON("/printer/info", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// QueryObjects fetches a full status snapshot of the subscribed
// subsystems over HTTP. Used once at session start; the caller applies
// it to the snapshot as an authoritative payload.
func (c *Client) QueryObjects() (map[string]map[string]any, error) {
	query := url.Values{}
	for subsystem := range subscriptionObjects {
		query.Set(subsystem, "")
	}

	var result rpcStatusResult
	if err := c.getJSON("/printer/objects/query", query, &result); err != nil {
		return nil, err
	}
	return result.Status, nil
}

// PausePrint pauses the current print.
func (c *Client) PausePrint() error {
	return c.postAction("/printer/print/pause")
}

// ResumePrint resumes a paused print.
func (c *Client) ResumePrint() error {
	return c.postAction("/printer/print/resume")
}

// CancelPrint cancels the current print.
func (c *Client) CancelPrint() error {
	return c.postAction("/printer/print/cancel")
}

// StartPrint starts printing the named file.
func (c *Client) StartPrint(filename string) error {
	payload, err := json.Marshal(map[string]string{"filename": filename})
	if err != nil {
		return err
	}

	resp, err := c.queryClient.Post(c.httpURL+"/printer/print/start", "application/json", bytes.NewReader(payload))
	if err != nil {
		return newTransportError("failed to start print", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newHTTPError(resp.StatusCode, "start print rejected")
	}
	return nil
}

// GcodeHelp queries GET /printer/gcode/help: command name to help text.
func (c *Client) GcodeHelp() (map[string]string, error) {
	var result map[string]string
	if err := c.getJSON("/printer/gcode/help", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListFiles lists gcode files known to the daemon, sorted oldest first
// by modification time.
func (c *Client) ListFiles() ([]FileInfo, error) {
	query := url.Values{}
	query.Set("root", "gcodes")

	var files []FileInfo
	if err := c.getJSON("/server/files/list", query, &files); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Modified < files[j].Modified })
	return files, nil
}

// GetFileMetadata fetches slicer metadata for one gcode file.
func (c *Client) GetFileMetadata(filename string) (*FileMetadata, error) {
	query := url.Values{}
	query.Set("filename", filename)

	var meta FileMetadata
	if err := c.getJSON("/server/files/metadata", query, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Macros discovers user-defined gcode macros: configfile settings keys
// with the "gcode_macro " prefix, stripped and sorted ascending.
func (c *Client) Macros() ([]string, error) {
	query := url.Values{}
	query.Set("configfile", "")

	var result rpcStatusResult
	if err := c.getJSON("/printer/objects/query", query, &result); err != nil {
		return nil, err
	}

	settings, _ := result.Status["configfile"]["settings"].(map[string]any)

	var macros []string
	for key := range settings {
		if strings.HasPrefix(key, macroPrefix) {
			macros = append(macros, strings.TrimPrefix(key, macroPrefix))
		}
	}
	sort.Strings(macros)
	return macros, nil
}

// getJSON performs a GET against path and decodes the "result" member
// of the JSON-RPC style HTTP response body into out.
func (c *Client) getJSON(path string, query url.Values, out any) error {
	endpoint := c.httpURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.queryClient.Get(endpoint)
	if err != nil {
		return newTransportError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newHTTPError(resp.StatusCode, fmt.Sprintf("GET %s", path))
	}

	var body struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return newProtocolError("malformed response body", err)
	}
	if err := json.Unmarshal(body.Result, out); err != nil {
		return newProtocolError("unexpected result shape", err)
	}
	return nil
}

// postAction performs a bare POST against one of the print lifecycle
// endpoints.
func (c *Client) postAction(path string) error {
	resp, err := c.queryClient.Post(c.httpURL+path, "", nil)
	if err != nil {
		return newTransportError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newHTTPError(resp.StatusCode, fmt.Sprintf("POST %s", path))
	}
	return nil
}

// isTimeout reports whether err is a client timeout on the HTTP path.
func isTimeout(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}
