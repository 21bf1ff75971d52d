package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestEventFilterQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter EventFilter
		want   url.Values
	}{
		{
			"empty filter sends nothing",
			EventFilter{},
			url.Values{},
		},
		{
			"full filter",
			EventFilter{
				WatcherID:   3,
				TokenSymbol: "DAI",
				MinUSD:      1000,
				MaxUSD:      50000.5,
				Sort:        SortValueUSD,
				Limit:       25,
				Offset:      50,
			},
			url.Values{
				"watcher_id":   {"3"},
				"token_symbol": {"DAI"},
				"min_usd":      {"1000"},
				"max_usd":      {"50000.5"},
				"sort":         {"usd_value_desc"},
				"limit":        {"25"},
				"offset":       {"50"},
			},
		},
		{
			"zero bounds omitted",
			EventFilter{Sort: SortNewest, Limit: 10},
			url.Values{"sort": {"created_at_desc"}, "limit": {"10"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.filter.query()); diff != "" {
				t.Errorf("query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListEventsSendsFilter(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ListEvents(context.Background(), "tok", EventFilter{
		TokenSymbol: "USDC",
		Sort:        SortOldest,
		Limit:       5,
		Offset:      10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "USDC", gotQuery.Get("token_symbol"))
	assert.Equal(t, "created_at_asc", gotQuery.Get("sort"))
	assert.Equal(t, "5", gotQuery.Get("limit"))
	assert.Equal(t, "10", gotQuery.Get("offset"))
}

func TestDistinctTokenSymbolsBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL)
	assert.Nil(t, client.DistinctTokenSymbols(context.Background(), "tok"))
}
