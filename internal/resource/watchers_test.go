package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/types"
)

const testAddress = "0x6B175474E89094C44Da98b954EedeAC495271d0F"

func validWatcherInput() types.CreateWatcherInput {
	return types.CreateWatcherInput{
		Name:         "DAI whale alert",
		TokenAddress: testAddress,
		ThresholdUSD: 50000,
		WebhookURL:   "https://hooks.example.com/abc",
	}
}

func TestWatcherCreateThenList(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	created, err := store.Create(context.Background(), validWatcherInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	// The cache is re-synced from the server, not patched locally.
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "DAI whale alert", items[0].Name)
	assert.True(t, store.Authenticated())
}

func TestWatcherValidationBlocksNetwork(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	in := validWatcherInput()
	in.ThresholdUSD = -1
	_, err := store.Create(context.Background(), in)

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "threshold", verr.Field)
	assert.Empty(t, backend.watchers, "invalid input must never reach the server")
}

func TestWatcherDeleteRemovesFromCache(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	created, err := store.Create(context.Background(), validWatcherInput())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), created.ID))
	assert.Empty(t, store.Items())
}

func TestWatcherDeleteNonexistentLeavesCache(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	_, err := store.Create(context.Background(), validWatcherInput())
	require.NoError(t, err)

	err = store.Delete(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrServer)
	// The failed delete must not disturb what is already cached.
	assert.Len(t, store.Items(), 1)
}

func TestWatcherRefreshWithoutCredential(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	_, err := store.Create(context.Background(), validWatcherInput())
	require.NoError(t, err)
	require.Len(t, store.Items(), 1)

	// Logged out: the store clears and reports nil, not an error.
	creds.set("")
	require.NoError(t, store.Refresh(context.Background()))
	assert.Empty(t, store.Items())
	assert.False(t, store.Authenticated())
}

func TestWatcherUpdate(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	created, err := store.Create(context.Background(), validWatcherInput())
	require.NoError(t, err)

	name := "renamed"
	threshold := 100.0
	_, err = store.Update(context.Background(), created.ID, types.UpdateWatcherInput{
		Name:         &name,
		ThresholdUSD: &threshold,
	})
	require.NoError(t, err)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "renamed", items[0].Name)
	assert.Equal(t, 100.0, items[0].ThresholdUSD)
}

func TestWatcherItemsReturnsCopy(t *testing.T) {
	backend := newFakeBackend()
	creds := &staticCreds{token: "tok"}
	store := NewWatcherStore(newTestClient(t, backend), creds)

	_, err := store.Create(context.Background(), validWatcherInput())
	require.NoError(t, err)

	items := store.Items()
	items[0].Name = "mutated"
	assert.Equal(t, "DAI whale alert", store.Items()[0].Name)
}
