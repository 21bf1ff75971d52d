package ui

import (
	"testing"

	"tokenwatcher/internal/auth"
	"tokenwatcher/internal/types"
)

func authedSnap() auth.Snapshot {
	return auth.Snapshot{
		State: auth.StateAuthenticated,
		Token: "tok",
		User:  &types.User{ID: 1, Email: "a@b.com", IsActive: true},
	}
}

func anonSnap() auth.Snapshot {
	return auth.Snapshot{State: auth.StateUnauthenticated}
}

func loadingSnap() auth.Snapshot {
	return auth.Snapshot{State: auth.StateResolving, Token: "tok"}
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		name    string
		current Page
		snap    auth.Snapshot
		want    Page
	}{
		// Anonymous users stay on public and auth pages, bounce off
		// protected ones.
		{"anon on login", PageLogin, anonSnap(), PageLogin},
		{"anon on register", PageRegister, anonSnap(), PageRegister},
		{"anon on docs", PageDocs, anonSnap(), PageDocs},
		{"anon on watchers", PageWatchers, anonSnap(), PageLogin},
		{"anon on events", PageEvents, anonSnap(), PageLogin},
		{"anon on plans", PagePlans, anonSnap(), PageLogin},

		// Authenticated users bounce off the auth pages, stay elsewhere.
		{"authed on login", PageLogin, authedSnap(), DashboardRoot},
		{"authed on register", PageRegister, authedSnap(), DashboardRoot},
		{"authed on docs", PageDocs, authedSnap(), PageDocs},
		{"authed on watchers", PageWatchers, authedSnap(), PageWatchers},
		{"authed on events", PageEvents, authedSnap(), PageEvents},
		{"authed on plans", PagePlans, authedSnap(), PagePlans},

		// While the session check is settling, nobody moves.
		{"loading on watchers", PageWatchers, loadingSnap(), PageWatchers},
		{"loading on login", PageLogin, loadingSnap(), PageLogin},
		{"loading on plans", PagePlans, loadingSnap(), PagePlans},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routeFor(tt.current, tt.snap); got != tt.want {
				t.Errorf("routeFor(%s, %s) = %s, want %s",
					tt.current, tt.snap.State, got, tt.want)
			}
		})
	}
}

func TestInactiveUserIsBounced(t *testing.T) {
	snap := authedSnap()
	snap.User.IsActive = false

	// Deactivated accounts hold a token but the derived status is false,
	// so protected pages still redirect.
	if got := routeFor(PageWatchers, snap); got != PageLogin {
		t.Errorf("routeFor(watchers, inactive) = %s, want login", got)
	}
}

func TestPageKinds(t *testing.T) {
	kinds := map[Page]PageKind{
		PageLogin:    KindAuthOnly,
		PageRegister: KindAuthOnly,
		PageDocs:     KindPublic,
		PageWatchers: KindProtected,
		PageEvents:   KindProtected,
		PagePlans:    KindProtected,
	}
	for page, want := range kinds {
		if got := page.Kind(); got != want {
			t.Errorf("%s.Kind() = %v, want %v", page, got, want)
		}
	}
}
