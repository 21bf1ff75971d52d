package resource

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/types"
)

func eventBackend(n int) *fakeBackend {
	backend := newFakeBackend()
	for i := 0; i < n; i++ {
		backend.events = append(backend.events, types.Event{
			ID:          i + 1,
			TokenSymbol: "DAI",
			FromAddress: fmt.Sprintf("0xfrom%04d", i),
			BlockNumber: uint64(1000 + i),
		})
	}
	return backend
}

func TestEventPaging(t *testing.T) {
	backend := eventBackend(60)
	creds := &staticCreds{token: "tok"}
	store := NewEventStore(newTestClient(t, backend), creds, 25)

	require.NoError(t, store.Refresh(context.Background()))
	require.Len(t, store.Items(), 25)
	assert.Equal(t, 1, store.Items()[0].ID)

	require.True(t, store.NextPage())
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, 26, store.Items()[0].ID)

	// Third page is short (10 rows), so there is no fourth.
	require.True(t, store.NextPage())
	require.NoError(t, store.Refresh(context.Background()))
	assert.Len(t, store.Items(), 10)
	assert.False(t, store.NextPage())

	require.True(t, store.PrevPage())
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, 26, store.Items()[0].ID)
}

func TestEventPrevPageAtStart(t *testing.T) {
	backend := eventBackend(5)
	creds := &staticCreds{token: "tok"}
	store := NewEventStore(newTestClient(t, backend), creds, 25)

	assert.False(t, store.PrevPage())
}

func TestEventSetFilterResetsOffset(t *testing.T) {
	backend := eventBackend(60)
	creds := &staticCreds{token: "tok"}
	store := NewEventStore(newTestClient(t, backend), creds, 25)

	require.NoError(t, store.Refresh(context.Background()))
	require.True(t, store.NextPage())
	require.Equal(t, 25, store.Filter().Offset)

	f := store.Filter()
	f.TokenSymbol = "DAI"
	store.SetFilter(f)
	assert.Zero(t, store.Filter().Offset, "a filter change starts back at page one")
}

func TestEventDefaultFilter(t *testing.T) {
	store := NewEventStore(api.New("http://localhost:0"), &staticCreds{}, 0)
	f := store.Filter()
	assert.Equal(t, api.SortNewest, f.Sort)
	assert.Equal(t, 25, f.Limit, "zero page size falls back to the default")
}

func TestEventRefreshWithoutCredential(t *testing.T) {
	backend := eventBackend(5)
	creds := &staticCreds{token: "tok"}
	store := NewEventStore(newTestClient(t, backend), creds, 25)

	require.NoError(t, store.Refresh(context.Background()))
	require.Len(t, store.Items(), 5)

	creds.set("")
	require.NoError(t, store.Refresh(context.Background()))
	assert.Empty(t, store.Items())
	assert.Empty(t, store.Symbols())
}

func TestEventSymbolsBestEffort(t *testing.T) {
	backend := eventBackend(1)
	creds := &staticCreds{token: "tok"}
	store := NewEventStore(newTestClient(t, backend), creds, 25)

	store.RefreshSymbols(context.Background())
	assert.Equal(t, []string{"DAI", "USDC"}, store.Symbols())

	// A failed lookup leaves the symbol list empty rather than erroring.
	backend.failOnce(500)
	store.RefreshSymbols(context.Background())
	assert.Empty(t, store.Symbols())
}
