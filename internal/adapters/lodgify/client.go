package lodgify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lodgify_sync/internal/adapters/observability"
	"lodgify_sync/internal/domain"
)

// Client fetches booking pages from the Lodgify reservations API.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 15 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// FetchBookings returns one page of raw bookings. Lodgify deployments
// disagree on pagination parameters: take/skip is tried first, and a 400
// answer triggers one retry with the pageSize/pageNumber convention.
func (c *Client) FetchBookings(ctx context.Context, limit, skip int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	q := url.Values{}
	q.Set("take", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	body, status, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest {
		q = url.Values{}
		q.Set("pageSize", strconv.Itoa(limit))
		q.Set("pageNumber", strconv.Itoa(skip/limit+1))
		body, status, err = c.get(ctx, q)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("lodgify: http %d: %s", status, strings.TrimSpace(string(body)))
	}
	return decodeBookings(body)
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, int, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/reservations/bookings?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("X-ApiKey", c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lodgify-sync/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("lodgify", "bookings", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("lodgify", "bookings", resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// decodeBookings accepts the page envelopes Lodgify has shipped over time:
// {"results":[...]}, {"items":[...]}, or a bare array.
func decodeBookings(body []byte) ([]domain.Booking, error) {
	var env struct {
		Results []domain.Booking `json:"results"`
		Items   []domain.Booking `json:"items"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Results != nil {
			return env.Results, nil
		}
		if env.Items != nil {
			return env.Items, nil
		}
		return nil, nil
	}
	var list []domain.Booking
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("lodgify: decode bookings page: %w", err)
	}
	return list, nil
}
