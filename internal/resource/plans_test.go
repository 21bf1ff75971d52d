package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenwatcher/internal/types"
)

func TestPlanCreateThenList(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewPlanStore(newTestClient(t, backend), creds)

	created, err := store.Create(context.Background(), types.PlanInput{
		Name: "Pro", PriceMonthly: 900, PriceAnnual: 9000, WatcherLimit: 25, IsActive: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Pro", items[0].Name)
}

func TestPlanDeleteRefusesFreePlan(t *testing.T) {
	backend := newFakeBackend()
	backend.plans = []types.Plan{{ID: 1, Name: types.FreePlanName, IsActive: true}}
	creds := &staticCreds{token: "tok"}
	store := NewPlanStore(newTestClient(t, backend), creds)

	require.NoError(t, store.Refresh(context.Background()))

	err := store.Delete(context.Background(), 1)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)

	// The refusal happens before any network call.
	assert.Len(t, backend.plans, 1)
}

func TestPlanDeleteOtherPlans(t *testing.T) {
	backend := newFakeBackend()
	backend.plans = []types.Plan{
		{ID: 1, Name: types.FreePlanName},
		{ID: 2, Name: "Pro"},
	}
	creds := &staticCreds{token: "tok"}
	store := NewPlanStore(newTestClient(t, backend), creds)

	require.NoError(t, store.Refresh(context.Background()))
	require.NoError(t, store.Delete(context.Background(), 2))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, types.FreePlanName, items[0].Name)
}

func TestPlanValidationBlocksNetwork(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewPlanStore(newTestClient(t, backend), creds)

	_, err := store.Create(context.Background(), types.PlanInput{Name: ""})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, backend.plans)
}
