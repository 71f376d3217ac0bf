// Package notes proxies the external note service. The server never
// interprets note contents, it only relays JSON and keeps the API key out of
// the browser.
package notes

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// List returns the raw JSON note list along with the upstream status code
func (c *Client) List(ctx context.Context) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, "/rest/v1/notes?select=*&order=created_at.desc", "")
}

// Delete removes a single note by ID
func (c *Client) Delete(ctx context.Context, id string) ([]byte, int, error) {
	return c.do(ctx, http.MethodDelete, "/rest/v1/notes?id=eq."+url.QueryEscape(id), "return=minimal")
}

func (c *Client) do(ctx context.Context, method, path, prefer string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}
