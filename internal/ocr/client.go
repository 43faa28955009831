// Package ocr submits visitor photos to an external vision endpoint and
// extracts identity fields from the response. Extraction is a convenience
// autofill: every failure degrades to empty fields so check-in can proceed
// with manual entry.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prasong/village-guard/internal/visitor"
)

const extractionPrompt = "Extract name, ID number (13 digits if possible), and license plate from this card or vehicle. Return only JSON."

// Fields holds the identity fields read off a photo. Any of them may be
// empty when the vision service could not make them out.
type Fields struct {
	Name         string `json:"name"`
	IDNumber     string `json:"idNumber"`
	LicensePlate string `json:"licensePlate"`
}

// MergeInto copies non-empty extracted fields onto a draft, leaving fields
// the service could not read untouched.
func (f Fields) MergeInto(d *visitor.Draft) {
	if f.Name != "" {
		d.Name = f.Name
	}
	if f.IDNumber != "" {
		d.IDNumber = f.IDNumber
	}
	if f.LicensePlate != "" {
		d.LicensePlate = f.LicensePlate
	}
}

// Client calls the vision endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an extraction client. An empty endpoint disables
// extraction: Extract returns empty fields without making a request.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// generateRequest is the vision endpoint request body: the photo as inline
// base64 data plus the extraction instruction, asking for a JSON reply.
type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	InlineData *inlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type genConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

// generateResponse carries the model's reply; the extracted fields arrive as
// a JSON document inside the first candidate's text part.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Extract reads identity fields from a base64-encoded JPEG. A data-URL
// prefix is tolerated and stripped. On any failure the result is all-empty
// and the cause is logged; extraction never blocks a check-in.
func (c *Client) Extract(ctx context.Context, photo string) Fields {
	if !c.Enabled() || photo == "" {
		return Fields{}
	}

	fields, err := c.extract(ctx, photo)
	if err != nil {
		slog.Warn("photo extraction failed; falling back to manual entry", "error", err)
		return Fields{}
	}
	return fields
}

func (c *Client) extract(ctx context.Context, photo string) (Fields, error) {
	if i := strings.IndexByte(photo, ','); i >= 0 {
		photo = photo[i+1:]
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: photo}},
				{Text: extractionPrompt},
			},
		}},
		Config: genConfig{ResponseMimeType: "application/json"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return Fields{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Fields{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Fields{}, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Fields{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fields{}, fmt.Errorf("reading response: %w", err)
	}

	var gen generateResponse
	if err := json.Unmarshal(raw, &gen); err != nil {
		return Fields{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return Fields{}, fmt.Errorf("response carried no candidates")
	}

	var fields Fields
	if err := json.Unmarshal([]byte(gen.Candidates[0].Content.Parts[0].Text), &fields); err != nil {
		return Fields{}, fmt.Errorf("decoding extracted fields: %w", err)
	}
	return fields, nil
}
