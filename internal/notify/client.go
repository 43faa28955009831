// Package notify pushes arrival and departure alerts to a LINE messaging
// recipient. Delivery is strictly best-effort: the record in the store is
// already committed by the time a notification goes out, so every failure
// here is logged as a warning and swallowed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prasong/village-guard/internal/visitor"
)

const defaultEndpoint = "https://api.line.me/v2/bot/message/push"

// Client sends push messages to a fixed recipient.
type Client struct {
	endpoint   string
	token      string
	recipient  string
	httpClient *http.Client
}

// NewClient creates a notification client. An empty token disables sending:
// both notification methods become no-ops.
func NewClient(token, recipient string) *Client {
	return &Client{
		endpoint:   defaultEndpoint,
		token:      token,
		recipient:  recipient,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a token is configured.
func (c *Client) Enabled() bool {
	return c.token != ""
}

// pushRequest is the push-message API body.
type pushRequest struct {
	To       string        `json:"to"`
	Messages []flexMessage `json:"messages"`
}

type flexMessage struct {
	Type     string      `json:"type"`
	AltText  string      `json:"altText"`
	Contents interface{} `json:"contents"`
}

// CheckIn announces a visitor arrival. Failures are logged, never returned.
func (c *Client) CheckIn(v *visitor.Visitor) {
	if !c.Enabled() {
		return
	}
	alt := fmt.Sprintf("Visitor arrival at house %s", v.HouseNumber)
	if err := c.push(alt, arrivalBubble(v)); err != nil {
		slog.Warn("check-in notification not delivered", "house", v.HouseNumber, "error", err)
	}
}

// CheckOut announces a visitor departure. It is a no-op for a record without
// a checkout timestamp. Failures are logged, never returned.
func (c *Client) CheckOut(v *visitor.Visitor) {
	if !c.Enabled() || v.CheckOutTime == nil {
		return
	}
	alt := fmt.Sprintf("Visitor departure from house %s", v.HouseNumber)
	if err := c.push(alt, departureBubble(v)); err != nil {
		slog.Warn("check-out notification not delivered", "house", v.HouseNumber, "error", err)
	}
}

// arrivalBubble builds the flex payload for a check-in alert.
func arrivalBubble(v *visitor.Visitor) map[string]interface{} {
	name := v.Name
	if name == "" {
		name = visitor.DefaultNamePlaceholder
	}
	return map[string]interface{}{
		"type": "bubble",
		"header": textBox("VISITOR ARRIVAL", "#064e3b"),
		"body": map[string]interface{}{
			"type":   "box",
			"layout": "vertical",
			"contents": []interface{}{
				kvRow("House", v.HouseNumber),
				kvRow("Name", name),
				kvRow("Plate", v.LicensePlate),
				kvRow("Time in", v.CheckInTime.Format("15:04")),
			},
		},
	}
}

// departureBubble builds the flex payload for a check-out alert.
func departureBubble(v *visitor.Visitor) map[string]interface{} {
	return map[string]interface{}{
		"type": "bubble",
		"header": textBox("CHECK-OUT CONFIRMED", "#1e40af"),
		"body": map[string]interface{}{
			"type":   "box",
			"layout": "vertical",
			"contents": []interface{}{
				kvRow("House", v.HouseNumber),
				kvRow("Time out", v.CheckOutTime.Format("15:04")),
			},
		},
	}
}

func textBox(title, color string) map[string]interface{} {
	return map[string]interface{}{
		"type":            "box",
		"layout":          "vertical",
		"backgroundColor": color,
		"contents": []interface{}{
			map[string]interface{}{"type": "text", "text": title, "color": "#ffffff", "weight": "bold"},
		},
	}
}

func kvRow(label, value string) map[string]interface{} {
	if value == "" {
		value = "-"
	}
	return map[string]interface{}{
		"type":   "box",
		"layout": "horizontal",
		"contents": []interface{}{
			map[string]interface{}{"type": "text", "text": label, "size": "sm", "color": "#666666", "flex": 4},
			map[string]interface{}{"type": "text", "text": value, "size": "sm", "align": "end", "weight": "bold", "flex": 6},
		},
	}
}

// push posts one flex message to the configured recipient.
func (c *Client) push(altText string, contents interface{}) error {
	body, err := json.Marshal(pushRequest{
		To:       c.recipient,
		Messages: []flexMessage{{Type: "flex", AltText: altText, Contents: contents}},
	})
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push rejected with status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
