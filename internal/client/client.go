// Package client provides an HTTP client for the guard-station REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prasong/village-guard/internal/ocr"
	"github.com/prasong/village-guard/internal/visitor"
)

// Client is an HTTP client for the guard-station API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListOptions controls filtering for ListVisitors.
type ListOptions struct {
	Filter string // in, out, all (empty = all)
	Query  string
	Reload bool
}

// ListVisitors returns the loaded record set, optionally filtered.
func (c *Client) ListVisitors(opts ListOptions) ([]*visitor.Visitor, error) {
	path := "/api/visitors"
	var params []string
	if opts.Filter != "" {
		params = append(params, "filter="+url.QueryEscape(opts.Filter))
	}
	if opts.Query != "" {
		params = append(params, "q="+url.QueryEscape(opts.Query))
	}
	if opts.Reload {
		params = append(params, "reload=1")
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var visitors []*visitor.Visitor
	if err := c.get(path, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// Dashboard returns the guard-screen view for the given filter.
func (c *Client) Dashboard(filter string) ([]*visitor.Visitor, error) {
	path := "/api/dashboard"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var visitors []*visitor.Visitor
	if err := c.get(path, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// GetVisitor returns a single record.
func (c *Client) GetVisitor(id string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.get("/api/visitors/"+url.PathEscape(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CheckIn records an arrival from a draft.
func (c *Client) CheckIn(d visitor.Draft) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.post("/api/visitors", d, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CheckOut stamps a departure on a record.
func (c *Client) CheckOut(id string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.post("/api/visitors/"+url.PathEscape(id)+"/checkout", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Restore moves a departed record back inside.
func (c *Client) Restore(id string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.post("/api/visitors/"+url.PathEscape(id)+"/restore", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVisitor pushes a full record edit.
func (c *Client) UpdateVisitor(v *visitor.Visitor) (*visitor.Visitor, error) {
	var updated visitor.Visitor
	if err := c.put("/api/visitors/"+url.PathEscape(v.ID), v, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Houses returns the house registry.
func (c *Client) Houses() ([]string, error) {
	var houses []string
	if err := c.get("/api/houses", &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// Stats returns daily traffic counts.
func (c *Client) Stats() (*visitor.Stats, error) {
	var stats visitor.Stats
	if err := c.get("/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Hourly returns today's check-ins bucketed by hour of day.
func (c *Client) Hourly() ([]int, error) {
	var slots []int
	if err := c.get("/api/stats/hourly", &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Scan extracts identity fields from a photo.
func (c *Client) Scan(photo string) (*ocr.Fields, error) {
	body := map[string]string{"photo": photo}
	var fields ocr.Fields
	if err := c.post("/api/scan", body, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	return c.send("POST", path, body, result)
}

// put performs a PUT request with a JSON body and decodes the response.
func (c *Client) put(path string, body interface{}, result interface{}) error {
	return c.send("PUT", path, body, result)
}

func (c *Client) send(method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
