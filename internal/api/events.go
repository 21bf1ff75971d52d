package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/types"
)

// EventSort names a server-side sort order for the events listing.
type EventSort string

const (
	SortNewest   EventSort = "created_at_desc"
	SortOldest   EventSort = "created_at_asc"
	SortValueUSD EventSort = "usd_value_desc"
	SortBlock    EventSort = "block_number_desc"
)

// EventFilter narrows and pages the events listing. Zero values mean
// "no constraint".
type EventFilter struct {
	WatcherID   int
	TokenSymbol string
	MinUSD      float64
	MaxUSD      float64
	Sort        EventSort
	Limit       int
	Offset      int
}

func (f EventFilter) query() url.Values {
	q := url.Values{}
	if f.WatcherID > 0 {
		q.Set("watcher_id", strconv.Itoa(f.WatcherID))
	}
	if f.TokenSymbol != "" {
		q.Set("token_symbol", f.TokenSymbol)
	}
	if f.MinUSD > 0 {
		q.Set("min_usd", strconv.FormatFloat(f.MinUSD, 'f', -1, 64))
	}
	if f.MaxUSD > 0 {
		q.Set("max_usd", strconv.FormatFloat(f.MaxUSD, 'f', -1, 64))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// ListEvents returns transfer events matching the filter.
func (c *Client) ListEvents(ctx context.Context, token string, filter EventFilter) ([]types.Event, error) {
	var events []types.Event
	if err := c.do(ctx, http.MethodGet, "/events/", token, filter.query(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// WatcherEvents returns the events produced by a single watcher.
func (c *Client) WatcherEvents(ctx context.Context, token string, watcherID int, filter EventFilter) ([]types.Event, error) {
	var events []types.Event
	path := fmt.Sprintf("/events/watcher/%d", watcherID)
	if err := c.do(ctx, http.MethodGet, path, token, filter.query(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DistinctTokenSymbols feeds the symbol filter dropdown. Best-effort: any
// failure degrades to an empty list instead of surfacing an error, so a
// broken lookup never blocks the events page.
func (c *Client) DistinctTokenSymbols(ctx context.Context, token string) []string {
	var symbols []string
	if err := c.do(ctx, http.MethodGet, "/events/token-symbols", token, nil, nil, &symbols); err != nil {
		logging.APIError("distinct token symbols lookup failed: %v", err)
		return nil
	}
	return symbols
}
