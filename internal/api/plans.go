package api

import (
	"context"
	"fmt"
	"net/http"

	"tokenwatcher/internal/types"
)

// Admin plan management. Every endpoint here requires an admin token; a
// non-admin gets ErrForbidden back, which does not end the session.

// ListPlans returns all subscription plans, active or not.
func (c *Client) ListPlans(ctx context.Context, token string) ([]types.Plan, error) {
	var plans []types.Plan
	if err := c.do(ctx, http.MethodGet, "/admin/plans/", token, nil, nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreatePlan creates a new subscription plan.
func (c *Client) CreatePlan(ctx context.Context, token string, in types.PlanInput) (*types.Plan, error) {
	var p types.Plan
	if err := c.do(ctx, http.MethodPost, "/admin/plans/", token, nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlan replaces a plan's fields.
func (c *Client) UpdatePlan(ctx context.Context, token string, id int, in types.PlanInput) (*types.Plan, error) {
	var p types.Plan
	path := fmt.Sprintf("/admin/plans/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlan removes a plan. The client-side Free-plan guard lives in the
// resource store, not here.
func (c *Client) DeletePlan(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/plans/%d", id), token, nil, nil, nil)
}
