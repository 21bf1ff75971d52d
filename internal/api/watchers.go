package api

import (
	"context"
	"fmt"
	"net/http"

	"tokenwatcher/internal/types"
)

// ListWatchers returns every watcher owned by the authenticated user.
func (c *Client) ListWatchers(ctx context.Context, token string) ([]types.Watcher, error) {
	var watchers []types.Watcher
	if err := c.do(ctx, http.MethodGet, "/watchers/", token, nil, nil, &watchers); err != nil {
		return nil, err
	}
	return watchers, nil
}

// CreateWatcher creates a new watcher and returns the server-assigned entity.
func (c *Client) CreateWatcher(ctx context.Context, token string, in types.CreateWatcherInput) (*types.Watcher, error) {
	var w types.Watcher
	if err := c.do(ctx, http.MethodPost, "/watchers/", token, nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWatcher applies a partial update; nil fields are left untouched.
func (c *Client) UpdateWatcher(ctx context.Context, token string, id int, in types.UpdateWatcherInput) (*types.Watcher, error) {
	var w types.Watcher
	path := fmt.Sprintf("/watchers/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWatcher removes a watcher. The backend answers 204 on success.
func (c *Client) DeleteWatcher(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/watchers/%d", id), token, nil, nil, nil)
}
