package resource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/types"
)

// staticCreds is a CredentialSource with a settable token.
type staticCreds struct {
	mu    sync.Mutex
	token string
}

func (c *staticCreds) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *staticCreds) set(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

// fakeBackend is an in-memory stand-in for the watcher, event and plan
// endpoints. It assigns ids like the real server and rejects calls without a
// bearer token.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int
	watchers []types.Watcher
	events   []types.Event
	plans    []types.Plan

	// failNext forces the next request to answer with this status.
	failNext int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 1}
}

func (f *fakeBackend) failOnce(status int) {
	f.mu.Lock()
	f.failNext = status
	f.mu.Unlock()
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failNext != 0 {
			status := f.failNext
			f.failNext = 0
			w.WriteHeader(status)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.URL.Path == "/watchers/" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(f.watchers)
		case r.URL.Path == "/watchers/" && r.Method == http.MethodPost:
			var in types.CreateWatcherInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			wa := types.Watcher{
				ID: f.nextID, Name: in.Name, TokenAddress: in.TokenAddress,
				ThresholdUSD: in.ThresholdUSD, WebhookURL: &in.WebhookURL, IsActive: true,
			}
			f.nextID++
			f.watchers = append(f.watchers, wa)
			_ = json.NewEncoder(w).Encode(wa)
		case strings.HasPrefix(r.URL.Path, "/watchers/") && r.Method == http.MethodDelete:
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/watchers/"))
			kept := f.watchers[:0]
			found := false
			for _, wa := range f.watchers {
				if wa.ID == id {
					found = true
					continue
				}
				kept = append(kept, wa)
			}
			f.watchers = kept
			if !found {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"detail":"Watcher not found"}`))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case strings.HasPrefix(r.URL.Path, "/watchers/") && r.Method == http.MethodPut:
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/watchers/"))
			var in types.UpdateWatcherInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			for i := range f.watchers {
				if f.watchers[i].ID != id {
					continue
				}
				if in.Name != nil {
					f.watchers[i].Name = *in.Name
				}
				if in.ThresholdUSD != nil {
					f.watchers[i].ThresholdUSD = *in.ThresholdUSD
				}
				_ = json.NewEncoder(w).Encode(f.watchers[i])
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/events/" && r.Method == http.MethodGet:
			limit := len(f.events)
			if v := r.URL.Query().Get("limit"); v != "" {
				limit, _ = strconv.Atoi(v)
			}
			offset := 0
			if v := r.URL.Query().Get("offset"); v != "" {
				offset, _ = strconv.Atoi(v)
			}
			page := []types.Event{}
			for i := offset; i < len(f.events) && len(page) < limit; i++ {
				page = append(page, f.events[i])
			}
			_ = json.NewEncoder(w).Encode(page)
		case r.URL.Path == "/events/token-symbols":
			_ = json.NewEncoder(w).Encode([]string{"DAI", "USDC"})
		case r.URL.Path == "/admin/plans/" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(f.plans)
		case r.URL.Path == "/admin/plans/" && r.Method == http.MethodPost:
			var in types.PlanInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			p := types.Plan{ID: f.nextID, Name: in.Name, WatcherLimit: in.WatcherLimit, IsActive: in.IsActive}
			f.nextID++
			f.plans = append(f.plans, p)
			_ = json.NewEncoder(w).Encode(p)
		case strings.HasPrefix(r.URL.Path, "/admin/plans/") && r.Method == http.MethodDelete:
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/admin/plans/"))
			kept := f.plans[:0]
			for _, p := range f.plans {
				if p.ID != id {
					kept = append(kept, p)
				}
			}
			f.plans = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, backend *fakeBackend) *api.Client {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}
