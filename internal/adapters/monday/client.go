package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lodgify_sync/internal/adapters/observability"
	"lodgify_sync/internal/domain"
)

// Client talks GraphQL to the monday.com API.
type Client struct {
	endpoint string
	hc       *http.Client
	key      string
	rl       *rate.Limiter
}

func New(endpoint, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		endpoint: endpoint,
		hc:       &http.Client{Timeout: 15 * time.Second},
		key:      key,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- queries ----

const lookupQuery = `query($board_id: ID!, $column_id: String!, $value: String!) { ` +
	`items_page_by_column_values(board_id: $board_id, column_id: $column_id, column_value: $value, limit: 1) { ` +
	`items { id } } }`

const createQuery = `mutation($board_id: ID!, $group_id: String!, $item_name: String!, $column_values: JSON!) { ` +
	`create_item(board_id: $board_id, group_id: $group_id, item_name: $item_name, column_values: $column_values) { id } }`

const updateQuery = `mutation($item_id: ID!, $board_id: ID!, $column_values: JSON!) { ` +
	`change_multiple_column_values(item_id: $item_id, board_id: $board_id, column_values: $column_values) { id } }`

// LookupItem finds the item whose columnID equals value, "" when none does.
// A board missing the lookup column yields an error wrapping
// domain.ErrColumnNotFound so callers can treat it as a soft miss.
func (c *Client) LookupItem(ctx context.Context, boardID, columnID, value string) (string, error) {
	var out struct {
		Page struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"items_page_by_column_values"`
	}
	vars := map[string]any{"board_id": boardID, "column_id": columnID, "value": value}
	if err := c.do(ctx, "lookup", lookupQuery, vars, &out); err != nil {
		return "", err
	}
	if len(out.Page.Items) == 0 {
		return "", nil
	}
	return out.Page.Items[0].ID, nil
}

func (c *Client) CreateItem(ctx context.Context, boardID, groupID, name string, cols domain.ColumnValues) (string, error) {
	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return "", fmt.Errorf("marshal column values: %w", err)
	}
	var out struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	vars := map[string]any{
		"board_id":      boardID,
		"group_id":      groupID,
		"item_name":     name,
		"column_values": string(colsJSON),
	}
	if err := c.do(ctx, "create_item", createQuery, vars, &out); err != nil {
		return "", err
	}
	return out.CreateItem.ID, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID, boardID string, cols domain.ColumnValues) (string, error) {
	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return "", fmt.Errorf("marshal column values: %w", err)
	}
	var out struct {
		Change struct {
			ID string `json:"id"`
		} `json:"change_multiple_column_values"`
	}
	vars := map[string]any{
		"item_id":       itemID,
		"board_id":      boardID,
		"column_values": string(colsJSON),
	}
	if err := c.do(ctx, "update_item", updateQuery, vars, &out); err != nil {
		return "", err
	}
	return out.Change.ID, nil
}

// ---- internals ----

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do performs one GraphQL call with client-side rate limiting and decodes
// data into out. No retries: a failed call is the record's failure.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lodgify-sync/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("monday", op, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("monday", op, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("monday: http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("monday: decode response: %w", err)
	}
	if len(gr.Errors) > 0 {
		e := gr.Errors[0]
		if isColumnNotFound(e) {
			return fmt.Errorf("%w: %s", domain.ErrColumnNotFound, e.Message)
		}
		return fmt.Errorf("monday: %s", e.Message)
	}
	if out != nil && len(gr.Data) > 0 {
		return json.Unmarshal(gr.Data, out)
	}
	return nil
}

// isColumnNotFound classifies the "board has no such column" GraphQL error.
// Newer API versions carry an error code in extensions; the message check
// covers older deployments that only return text.
func isColumnNotFound(e gqlError) bool {
	switch e.Extensions.Code {
	case "ColumnNotFound", "InvalidColumnIdException":
		return true
	}
	return strings.Contains(e.Message, "Column not found")
}
