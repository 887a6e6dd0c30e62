// Package kalshi provides a read-only client for the Kalshi markets API.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/models"
)

// APIError represents a non-success HTTP response from the Kalshi API.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kalshi api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client provides access to the Kalshi markets API.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClient creates a new Kalshi client. limit bounds the page size of
// market-list requests.
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		limit:   limit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// marketsResponse from GET /markets
type marketsResponse struct {
	Markets []apiMarket `json:"markets"`
}

type apiMarket struct {
	Ticker   string `json:"ticker"`
	Title    string `json:"title"`
	OpenTime string `json:"open_time"`
	Status   string `json:"status"`
}

// orderbookResponse from GET /markets/{ticker}/orderbook
type orderbookResponse struct {
	Orderbook struct {
		// Levels as [price, size] pairs; first entry is the best ask.
		YesAsks [][]float64 `json:"yes_asks"`
	} `json:"orderbook"`
}

// ListOpenMarkets fetches the currently open markets, bounded by the
// configured page limit. An unparsable open_time fails the whole call.
func (c *Client) ListOpenMarkets(ctx context.Context) ([]models.Market, error) {
	query := url.Values{}
	query.Set("status", "open")
	query.Set("limit", strconv.Itoa(c.limit))

	var resp marketsResponse
	if err := c.get(ctx, "/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("list open markets: %w", err)
	}

	markets := make([]models.Market, 0, len(resp.Markets))
	for _, m := range resp.Markets {
		openTime, err := time.Parse(time.RFC3339, m.OpenTime)
		if err != nil {
			return nil, fmt.Errorf("parse open_time for %s: %w", m.Ticker, err)
		}
		markets = append(markets, models.Market{
			Ticker:   m.Ticker,
			Title:    m.Title,
			OpenTime: openTime.UTC(),
			Status:   m.Status,
		})
	}

	return markets, nil
}

// BestYesAsk fetches the order book for one market and returns its best
// (first-listed) "yes" ask as a probability fraction. ok is false when the
// book has no asks.
func (c *Client) BestYesAsk(ctx context.Context, ticker string) (price float64, ok bool, err error) {
	var resp orderbookResponse
	if err := c.get(ctx, "/markets/"+ticker+"/orderbook", nil, &resp); err != nil {
		return 0, false, fmt.Errorf("get orderbook %s: %w", ticker, err)
	}

	asks := resp.Orderbook.YesAsks
	if len(asks) == 0 || len(asks[0]) == 0 {
		return 0, false, nil
	}

	return NormalizePrice(asks[0][0]), true, nil
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
