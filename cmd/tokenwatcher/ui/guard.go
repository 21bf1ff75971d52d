package ui

import (
	"tokenwatcher/internal/auth"
)

// Page identifies a dashboard view.
type Page int

const (
	PageLogin Page = iota
	PageRegister
	PageWatchers
	PageEvents
	PagePlans
	PageDocs
)

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageRegister:
		return "register"
	case PageWatchers:
		return "watchers"
	case PageEvents:
		return "events"
	case PagePlans:
		return "plans"
	case PageDocs:
		return "docs"
	default:
		return "unknown"
	}
}

// PageKind classifies a page for the redirect policy.
type PageKind int

const (
	// KindPublic pages render for everyone (product/legal docs).
	KindPublic PageKind = iota
	// KindAuthOnly pages only make sense logged out (login, register).
	KindAuthOnly
	// KindProtected pages require an authenticated session.
	KindProtected
)

// Kind returns the redirect classification of a page.
func (p Page) Kind() PageKind {
	switch p {
	case PageLogin, PageRegister:
		return KindAuthOnly
	case PageDocs:
		return KindPublic
	default:
		return KindProtected
	}
}

// DashboardRoot is where authenticated users land.
const DashboardRoot = PageWatchers

// routeFor is the whole redirect policy: given the page the user is on and
// the settled auth state, return the page they should be on. While the auth
// machine is still loading no redirect ever fires, which is what prevents
// the redirect flicker during the startup session check.
func routeFor(current Page, snap auth.Snapshot) Page {
	if snap.IsLoading() {
		return current
	}
	switch current.Kind() {
	case KindProtected:
		if !snap.IsAuthenticated() {
			return PageLogin
		}
	case KindAuthOnly:
		if snap.IsAuthenticated() {
			return DashboardRoot
		}
	}
	return current
}
