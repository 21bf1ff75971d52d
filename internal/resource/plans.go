package resource

import (
	"context"
	"sync"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/types"
)

// PlanStore caches the subscription plans (admin surface).
type PlanStore struct {
	status
	client *api.Client
	creds  CredentialSource

	itemsMu sync.RWMutex
	items   []types.Plan
}

// NewPlanStore creates a store bound to the given credential source.
func NewPlanStore(client *api.Client, creds CredentialSource) *PlanStore {
	return &PlanStore{client: client, creds: creds}
}

// Items returns the cached plan list.
func (s *PlanStore) Items() []types.Plan {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()
	out := make([]types.Plan, len(s.items))
	copy(out, s.items)
	return out
}

// Refresh re-fetches the full plan list.
func (s *PlanStore) Refresh(ctx context.Context) error {
	token := s.creds.Token()
	if token == "" {
		s.setAuthenticated(false)
		s.setItems(nil)
		return nil
	}
	s.setAuthenticated(true)

	s.begin()
	defer s.end()

	plans, err := s.client.ListPlans(ctx, token)
	if err != nil {
		logging.ResourceError("plan list failed: %v", err)
		return err
	}
	s.setItems(plans)
	return nil
}

// Create validates and creates a plan, then re-syncs.
func (s *PlanStore) Create(ctx context.Context, in types.PlanInput) (*types.Plan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	token := s.creds.Token()
	s.begin()
	defer s.end()

	p, err := s.client.CreatePlan(ctx, token, in)
	if err != nil {
		return nil, err
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		logging.ResourceError("post-create resync failed: %v", rerr)
	}
	return p, nil
}

// Update replaces a plan's fields and re-syncs.
func (s *PlanStore) Update(ctx context.Context, id int, in types.PlanInput) (*types.Plan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	token := s.creds.Token()
	s.begin()
	defer s.end()

	p, err := s.client.UpdatePlan(ctx, token, id, in)
	if err != nil {
		return nil, err
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		logging.ResourceError("post-update resync failed: %v", rerr)
	}
	return p, nil
}

// Delete removes a plan. The Free plan is refused client-side before any
// network call; the server enforces its own rule as well.
func (s *PlanStore) Delete(ctx context.Context, id int) error {
	s.itemsMu.RLock()
	for _, p := range s.items {
		if p.ID == id && p.Name == types.FreePlanName {
			s.itemsMu.RUnlock()
			return &types.ValidationError{Field: "plan", Message: "the Free plan cannot be deleted"}
		}
	}
	s.itemsMu.RUnlock()

	token := s.creds.Token()
	s.begin()
	defer s.end()

	if err := s.client.DeletePlan(ctx, token, id); err != nil {
		return err
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		logging.ResourceError("post-delete resync failed: %v", rerr)
	}
	return nil
}

func (s *PlanStore) setItems(items []types.Plan) {
	s.itemsMu.Lock()
	s.items = items
	s.itemsMu.Unlock()
}
