// Package pushover provides a client for sending push notifications via
// the Pushover message API.
package pushover

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client handles Pushover notifications. Delivery is best-effort: a single
// attempt per message, no retry, the response body is ignored beyond the
// status code.
type Client struct {
	endpoint   string
	token      string
	userKey    string
	httpClient *http.Client
}

// NewClient creates a new Pushover client.
func NewClient(endpoint, token, userKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		userKey:  userKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send delivers one notification.
func (c *Client) Send(ctx context.Context, title, message string) error {
	payload := url.Values{}
	payload.Set("token", c.token)
	payload.Set("user", c.userKey)
	payload.Set("title", title)
	payload.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/1/messages.json", strings.NewReader(payload.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushover api error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return nil
}
