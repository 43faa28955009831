// Package sheets talks to the spreadsheet-backed record store behind an
// Apps Script style HTTP endpoint. One URL serves every operation, selected
// by an "action" discriminator: reads use query parameters, writes POST a
// JSON body. Responses use a {status, data, message} envelope.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prasong/village-guard/internal/visitor"
)

// ErrServerConfig is returned when the endpoint answers with HTML or other
// non-JSON content. A misdeployed Apps Script serves an HTML error page, so
// this is a configuration problem, not a transient network failure.
var ErrServerConfig = errors.New("store endpoint returned non-JSON content; check deployment configuration")

// Client performs record operations against the remote store.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a store client for the given endpoint URL.
func NewClient(endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("store endpoint URL is required")
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// envelope is the response wrapper used by every store operation.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// wireVisitor is a visitor record as serialized on the wire. Timestamps
// travel as ISO-8601 strings; absent fields mean "unset".
type wireVisitor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IDNumber     string `json:"idNumber"`
	LicensePlate string `json:"licensePlate"`
	HouseNumber  string `json:"houseNumber"`
	CheckInTime  string `json:"checkInTime,omitempty"`
	CheckOutTime string `json:"checkOutTime,omitempty"`
	Status       string `json:"status,omitempty"`
	Photo        string `json:"photo,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
}

// parseWireTime parses an ISO-8601 timestamp, tolerating missing timezone
// offsets. An empty or unparsable value yields the zero time, never an error.
func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toVisitor normalizes a wire record into the domain model. A record with no
// explicit status derives it from checkout presence.
func (w *wireVisitor) toVisitor() *visitor.Visitor {
	v := &visitor.Visitor{
		ID:           w.ID,
		Name:         w.Name,
		IDNumber:     w.IDNumber,
		LicensePlate: w.LicensePlate,
		HouseNumber:  w.HouseNumber,
		CheckInTime:  parseWireTime(w.CheckInTime),
		Status:       visitor.Status(w.Status),
		Photo:        w.Photo,
		Purpose:      w.Purpose,
	}
	if out := parseWireTime(w.CheckOutTime); !out.IsZero() {
		v.CheckOutTime = &out
	}
	if !v.Status.IsValid() {
		if v.CheckOutTime != nil {
			v.Status = visitor.StatusOut
		} else {
			v.Status = visitor.StatusIn
		}
	}
	return v
}

// fromVisitor serializes a domain record for an update push.
func fromVisitor(v *visitor.Visitor) wireVisitor {
	w := wireVisitor{
		ID:           v.ID,
		Name:         v.Name,
		IDNumber:     v.IDNumber,
		LicensePlate: v.LicensePlate,
		HouseNumber:  v.HouseNumber,
		Status:       string(v.Status),
		Photo:        v.Photo,
		Purpose:      v.Purpose,
	}
	if !v.CheckInTime.IsZero() {
		w.CheckInTime = v.CheckInTime.Format(time.RFC3339)
	}
	if v.CheckOutTime != nil {
		w.CheckOutTime = v.CheckOutTime.Format(time.RFC3339)
	}
	return w
}

// List fetches every visitor record held by the store.
func (c *Client) List(ctx context.Context) ([]*visitor.Visitor, error) {
	env, err := c.get(ctx, "read")
	if err != nil {
		return nil, err
	}

	var records []wireVisitor
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("decoding records: %w", err)
		}
	}

	visitors := make([]*visitor.Visitor, 0, len(records))
	for i := range records {
		visitors = append(visitors, records[i].toVisitor())
	}
	return visitors, nil
}

// ListHouses fetches the ordered house registry.
func (c *Client) ListHouses(ctx context.Context) ([]string, error) {
	env, err := c.get(ctx, "readHouses")
	if err != nil {
		return nil, err
	}

	var houses []string
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &houses); err != nil {
			return nil, fmt.Errorf("decoding house registry: %w", err)
		}
	}
	return houses, nil
}

// Create submits a new check-in. The store assigns the ID and echoes the
// canonical record. checkInTime is stamped here, not by the caller.
func (c *Client) Create(ctx context.Context, d visitor.Draft, checkIn time.Time) (*visitor.Visitor, error) {
	payload := map[string]interface{}{
		"action": "create",
		"data": wireVisitor{
			Name:         d.Name,
			IDNumber:     d.IDNumber,
			LicensePlate: d.LicensePlate,
			HouseNumber:  d.HouseNumber,
			Photo:        d.Photo,
			Purpose:      d.Purpose,
			Status:       string(visitor.StatusIn),
			CheckInTime:  checkIn.Format(time.RFC3339),
		},
	}

	env, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var w wireVisitor
	if err := json.Unmarshal(env.Data, &w); err != nil {
		return nil, fmt.Errorf("decoding created record: %w", err)
	}
	if w.ID == "" {
		return nil, fmt.Errorf("store did not assign a record id")
	}
	return w.toVisitor(), nil
}

// Update pushes a full record to the store.
func (c *Client) Update(ctx context.Context, v *visitor.Visitor) error {
	if v.ID == "" {
		return fmt.Errorf("record id is required")
	}
	payload := map[string]interface{}{
		"action": "update",
		"data":   fromVisitor(v),
	}
	_, err := c.post(ctx, payload)
	return err
}

// CheckOut asks the store to stamp a departure on a record and returns the
// updated record.
func (c *Client) CheckOut(ctx context.Context, id string, checkOut time.Time) (*visitor.Visitor, error) {
	if id == "" {
		return nil, fmt.Errorf("record id is required")
	}
	payload := map[string]interface{}{
		"action":       "checkout",
		"id":           id,
		"checkOutTime": checkOut.Format(time.RFC3339),
	}

	env, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var w wireVisitor
	if err := json.Unmarshal(env.Data, &w); err != nil {
		return nil, fmt.Errorf("decoding checked-out record: %w", err)
	}
	return w.toVisitor(), nil
}

// get performs a read with the given action query parameter.
func (c *Client) get(ctx context.Context, action string) (*envelope, error) {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	reqURL := c.endpoint + sep + url.Values{"action": {action}}.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// post performs a write with a JSON body.
func (c *Client) post(ctx context.Context, payload interface{}) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// do executes a request and decodes the response envelope. An HTML or
// otherwise non-JSON body maps to ErrServerConfig; an error-status envelope
// maps to a plain error carrying the server's message.
func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || strings.HasPrefix(trimmed, "<") {
		return nil, ErrServerConfig
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrServerConfig
	}

	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = "unknown store error"
		}
		return nil, fmt.Errorf("store error: %s", msg)
	}

	return &env, nil
}
