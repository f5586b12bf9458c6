package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"changescope-desktop/internal/geo"
)

// Client posts AOI bounds to the change-detection service.
//
// No timeout is configured and in-flight requests are never cancelled: a
// request the network swallows leaves the orchestrator loading until the
// user draws a new AOI.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the given analysis endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

// errorBody is the shape the service uses for failure responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// Analyze runs one analysis request for bounds and returns the parsed
// result. Non-2xx responses become errors carrying the service's detail
// message when one is present.
func (c *Client) Analyze(bounds geo.Bounds) (*Result, error) {
	payload, err := json.Marshal(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bounds: %w", err)
	}

	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
			return nil, errors.New(eb.Detail)
		}
		return nil, fmt.Errorf("analysis request failed with status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		// A 2xx with an unparseable body gets the same treatment as any
		// other failed request, just with a generic message.
		return nil, errors.New("analysis service returned an unreadable response")
	}
	return &result, nil
}
