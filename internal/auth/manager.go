// Package auth owns the client-side session lifecycle: the bearer token, the
// resolved user profile, and the state transitions between them. It is the
// single writer of the credential; everything else holds a read-only snapshot.
package auth

import (
	"context"
	"sync"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/session"
	"tokenwatcher/internal/types"
)

// State is the auth machine's current phase.
type State int

const (
	// StateUnauthenticated means no usable session exists.
	StateUnauthenticated State = iota
	// StateResolving means a stored token is being exchanged for a profile
	// after startup.
	StateResolving
	// StateAuthenticating means a login call is in flight.
	StateAuthenticating
	// StateAuthenticated means token and profile are both present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Snapshot is an immutable view of the auth state. Readers must treat it as
// frozen and re-subscribe for changes rather than polling fields.
type Snapshot struct {
	State State
	Token string
	User  *types.User
}

// IsAuthenticated is the derived auth status: token present, profile present,
// account active. Never persisted, always recomputed.
func (s Snapshot) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil && s.User.IsActive
}

// IsLoading reports whether a session check or login is still settling.
// View guards must not redirect while this is true.
func (s Snapshot) IsLoading() bool {
	return s.State == StateResolving || s.State == StateAuthenticating
}

// Manager composes the session store and the profile resolver into the
// observable auth state machine. It is injected explicitly wherever auth
// state is needed; there is no package-level singleton.
type Manager struct {
	client *api.Client
	store  *session.Store

	mu      sync.RWMutex
	state   State
	token   string
	user    *types.User
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewManager wires the machine and registers the global 401 hook: any
// authenticated call that comes back unauthorized routes through Logout,
// regardless of which resource noticed first.
func NewManager(client *api.Client, store *session.Store) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		state:  StateUnauthenticated,
		subs:   make(map[int]func(Snapshot)),
	}
	client.SetUnauthorizedHook(m.Logout)
	return m
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, Token: m.token, User: m.user}
}

// Token returns the current credential, empty when logged out. Resource
// stores use this as their read-only credential reference.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers a listener called after every state transition,
// including transitions to the unauthenticated state. The returned cancel
// removes the listener.
func (m *Manager) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// setState applies a transition and notifies subscribers outside the lock.
func (m *Manager) setState(state State, token string, user *types.User) {
	m.mu.Lock()
	m.state = state
	m.token = token
	m.user = user
	snap := Snapshot{State: state, Token: token, User: user}
	listeners := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	logging.Auth("state -> %s", state)
	for _, fn := range listeners {
		fn(snap)
	}
}

// Bootstrap performs the startup session check. A stored token that no
// longer resolves is discarded (fail-closed); the caller always ends up in a
// settled state and never receives an error for a dead session.
func (m *Manager) Bootstrap(ctx context.Context) {
	token, ok := m.store.Load()
	if !ok {
		m.setState(StateUnauthenticated, "", nil)
		return
	}

	m.setState(StateResolving, token, nil)

	user, err := m.client.Me(ctx, token)
	if err != nil {
		logging.Auth("stored session rejected: %v", err)
		if cerr := m.store.Clear(); cerr != nil {
			logging.Auth("session clear failed: %v", cerr)
		}
		m.setState(StateUnauthenticated, "", nil)
		return
	}

	m.setState(StateAuthenticated, token, user)
}

// Login runs the full credential exchange: token endpoint, persistence,
// profile resolution. Any failure clears partial state and surfaces the
// server's message to the caller. Two racing logins are allowed; the last
// write wins, the UI disables the submit control while loading.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setState(StateAuthenticating, "", nil)

	token, err := m.client.Login(ctx, email, password)
	if err != nil {
		// A rejected login must not leave an older persisted session behind:
		// memory says unauthenticated, so a restart must agree.
		if cerr := m.store.Clear(); cerr != nil {
			logging.Auth("session clear failed: %v", cerr)
		}
		m.setState(StateUnauthenticated, "", nil)
		return err
	}

	if err := m.store.Save(token); err != nil {
		// Session still works for this process, it just won't survive a
		// restart.
		logging.Auth("session persist failed: %v", err)
	}

	user, err := m.client.Me(ctx, token)
	if err != nil {
		if cerr := m.store.Clear(); cerr != nil {
			logging.Auth("session clear failed: %v", cerr)
		}
		m.setState(StateUnauthenticated, "", nil)
		return err
	}

	logging.Auth("login succeeded for %s", user.Email)
	m.setState(StateAuthenticated, token, user)
	return nil
}

// Register creates a new account. It never touches the session: the caller
// still signs in explicitly afterwards.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if err := m.client.Register(ctx, email, password); err != nil {
		return err
	}
	logging.Auth("registered %s", email)
	return nil
}

// Logout clears the session synchronously. Fire-and-forget: it cannot fail
// and calling it twice leaves the same end state as calling it once.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		logging.Auth("session clear failed: %v", err)
	}
	m.setState(StateUnauthenticated, "", nil)
}

// RefreshProfile re-resolves the user profile on demand, e.g. after a plan
// change bumped the watcher limit. A 401 ends the session via the client's
// unauthorized hook.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return nil
	}

	user, err := m.client.Me(ctx, token)
	if err != nil {
		return err
	}
	m.setState(StateAuthenticated, token, user)
	return nil
}

// DeleteAccount removes the authenticated account server-side, then clears
// the local session exactly like a logout.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return nil
	}

	if err := m.client.DeleteAccount(ctx, token); err != nil {
		return err
	}
	m.Logout()
	return nil
}
