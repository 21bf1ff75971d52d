package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"tokenwatcher/internal/auth"
	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/resource"
)

// Stores bundles the protected resource stores the dashboard drives.
type Stores struct {
	Watchers *resource.WatcherStore
	Events   *resource.EventStore
	Plans    *resource.PlanStore
}

// Async results delivered back into the update loop.
type (
	bootDoneMsg      struct{}
	loginResultMsg   struct{ Err error }
	registerResult   struct{ Err error }
	logoutDoneMsg    struct{}
	watchersSynced   struct{ Err error }
	eventsSynced     struct{ Err error }
	plansSynced      struct{ Err error }
	watcherMutated   struct {
		Verb string
		Err  error
	}
	planMutated struct {
		Verb string
		Err  error
	}
	profileSynced struct{}
	// authChangedMsg delivers an out-of-band auth transition, e.g. a 401
	// inside a store call that ended the session through the unauthorized
	// hook while no result message was pending.
	authChangedMsg struct{}
)

// App is the root bubbletea model: it owns the auth manager and the resource
// stores, routes between pages through the guard policy, and translates page
// messages into store calls. All network work happens inside tea commands;
// the update loop itself never blocks.
type App struct {
	authMgr *auth.Manager
	stores  Stores
	timeout time.Duration
	authCh  chan auth.Snapshot

	styles Styles
	page   Page
	snap   auth.Snapshot

	login        LoginPageModel
	register     RegisterPageModel
	watchersPage WatchersPageModel
	eventsPage   EventsPageModel
	plansPage    PlansPageModel
	docs         DocsPageModel

	spinner spinner.Model
	width   int
	height  int
	ready   bool
	lastErr string
}

// NewApp wires the dashboard. The auth manager must not have been
// bootstrapped yet; the app runs the startup session check itself so the
// guard sees the Resolving state.
func NewApp(mgr *auth.Manager, stores Stores, styles Styles, timeout time.Duration) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Info

	// The manager notifies synchronously from inside whatever call moved the
	// state; a buffered non-blocking send decouples that from the update
	// loop. Dropped notifications lose nothing because the handler re-reads
	// the latest snapshot.
	authCh := make(chan auth.Snapshot, 8)
	mgr.Subscribe(func(s auth.Snapshot) {
		select {
		case authCh <- s:
		default:
		}
	})

	return App{
		authMgr:      mgr,
		stores:       stores,
		timeout:      timeout,
		authCh:       authCh,
		styles:       styles,
		page:         PageLogin,
		snap:         mgr.Snapshot(),
		login:        NewLoginPageModel(styles),
		register:     NewRegisterPageModel(styles),
		watchersPage: NewWatchersPageModel(styles),
		eventsPage:   NewEventsPageModel(styles),
		plansPage:    NewPlansPageModel(styles),
		docs:         NewDocsPageModel(styles),
		spinner:      sp,
	}
}

// Init kicks off the startup session check and the auth transition listener.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.bootstrapCmd(), a.listenAuthCmd(), a.spinner.Tick)
}

// listenAuthCmd waits for the next auth transition; the handler re-arms it,
// so exactly one listener is pending at any time.
func (a App) listenAuthCmd() tea.Cmd {
	ch := a.authCh
	return func() tea.Msg {
		<-ch
		return authChangedMsg{}
	}
}

// bootstrapCmd resolves any stored session, then syncs every store
// concurrently so the first authenticated render has data.
func (a App) bootstrapCmd() tea.Cmd {
	mgr, stores, timeout := a.authMgr, a.stores, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		mgr.Bootstrap(ctx)

		if mgr.Snapshot().IsAuthenticated() {
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return stores.Watchers.Refresh(gctx) })
			g.Go(func() error { return stores.Events.Refresh(gctx) })
			g.Go(func() error { return stores.Plans.Refresh(gctx) })
			g.Go(func() error { stores.Events.RefreshSymbols(gctx); return nil })
			if err := g.Wait(); err != nil {
				logging.UI("initial sync incomplete: %v", err)
			}
		}
		return bootDoneMsg{}
	}
}

func (a App) refreshWatchersCmd() tea.Cmd {
	store, timeout := a.stores.Watchers, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return watchersSynced{Err: store.Refresh(ctx)}
	}
}

func (a App) refreshEventsCmd() tea.Cmd {
	store, timeout := a.stores.Events, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return eventsSynced{Err: store.Refresh(ctx)}
	}
}

func (a App) refreshPlansCmd() tea.Cmd {
	store, timeout := a.stores.Plans, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return plansSynced{Err: store.Refresh(ctx)}
	}
}

// syncStoresCmd re-syncs every store. With the credential gone each store
// clears its cache, so this doubles as the logout cleanup.
func (a App) syncStoresCmd() tea.Cmd {
	return tea.Batch(a.refreshWatchersCmd(), a.refreshEventsCmd(), a.refreshPlansCmd())
}

// refreshProfileCmd re-resolves the profile so the plan usage counter in the
// status bar tracks watcher mutations.
func (a App) refreshProfileCmd() tea.Cmd {
	mgr, timeout := a.authMgr, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := mgr.RefreshProfile(ctx); err != nil {
			logging.UI("profile refresh failed: %v", err)
		}
		return profileSynced{}
	}
}

// Update is the single event loop; every suspension point is a command.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.ready = true
		a.login.SetSize(msg.Width, msg.Height)
		a.register.SetSize(msg.Width, msg.Height)
		a.watchersPage.SetSize(msg.Width, msg.Height)
		a.eventsPage.SetSize(msg.Width, msg.Height)
		a.plansPage.SetSize(msg.Width, msg.Height)
		a.docs.SetSize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case bootDoneMsg:
		a.snap = a.authMgr.Snapshot()
		a.syncPages()
		return a.applyGuard(), nil

	case loginRequestMsg:
		a.login.SetLoading(true)
		mgr, timeout := a.authMgr, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return loginResultMsg{Err: mgr.Login(ctx, msg.Email, msg.Password)}
		}

	case loginResultMsg:
		a.login.SetLoading(false)
		a.snap = a.authMgr.Snapshot()
		if msg.Err != nil {
			a.login.SetError(msg.Err.Error())
			return a, nil
		}
		a.login.Reset()
		a.lastErr = ""
		model := a.applyGuard()
		return model, model.syncStoresCmd()

	case registerRequestMsg:
		a.register.SetLoading(true)
		mgr, timeout := a.authMgr, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return registerResult{Err: mgr.Register(ctx, msg.Email, msg.Password)}
		}

	case registerResult:
		a.register.SetLoading(false)
		if msg.Err != nil {
			a.register.SetError(msg.Err.Error())
		} else {
			a.register.SetNotice("account created, press ctrl+l to sign in")
		}
		return a, nil

	case logoutDoneMsg:
		a.snap = a.authMgr.Snapshot()
		a.lastErr = ""
		a.syncPages()
		model := a.applyGuard()
		return model, model.syncStoresCmd()

	case profileSynced:
		a.snap = a.authMgr.Snapshot()
		a.syncPages()
		return a.applyGuard(), nil

	case authChangedMsg:
		hadToken := a.snap.Token != ""
		a.snap = a.authMgr.Snapshot()
		a.syncPages()
		model := a.applyGuard()
		cmds := []tea.Cmd{model.listenAuthCmd()}
		if hadToken && model.snap.Token == "" {
			// The session ended outside this loop (server-side revocation);
			// drop the cached protected data right away.
			cmds = append(cmds, model.syncStoresCmd())
		}
		return model, tea.Batch(cmds...)

	// Store sync results. The snapshot is re-read every time because a 401
	// inside any call may have ended the session via the unauthorized hook.
	case watchersSynced:
		a.snap = a.authMgr.Snapshot()
		if msg.Err != nil {
			a.lastErr = msg.Err.Error()
			a.watchersPage.SetError(msg.Err.Error())
		}
		a.syncPages()
		return a.applyGuard(), nil

	case eventsSynced:
		a.snap = a.authMgr.Snapshot()
		if msg.Err != nil {
			a.lastErr = msg.Err.Error()
			a.eventsPage.SetError(msg.Err.Error())
		}
		a.syncPages()
		return a.applyGuard(), nil

	case plansSynced:
		a.snap = a.authMgr.Snapshot()
		if msg.Err != nil {
			a.lastErr = msg.Err.Error()
			a.plansPage.SetError(msg.Err.Error())
		}
		a.syncPages()
		return a.applyGuard(), nil

	case watcherMutated:
		a.snap = a.authMgr.Snapshot()
		if msg.Err != nil {
			a.lastErr = msg.Err.Error()
			a.watchersPage.SetError(msg.Err.Error())
			a.syncPages()
			return a.applyGuard(), nil
		}
		a.lastErr = ""
		a.watchersPage.SetNotice(fmt.Sprintf("watcher %s", msg.Verb))
		a.syncPages()
		// The watcher count on the profile just changed.
		model := a.applyGuard()
		return model, model.refreshProfileCmd()

	case planMutated:
		a.snap = a.authMgr.Snapshot()
		if msg.Err != nil {
			a.lastErr = msg.Err.Error()
			a.plansPage.SetError(msg.Err.Error())
		} else {
			a.lastErr = ""
			a.plansPage.SetNotice(fmt.Sprintf("plan %s", msg.Verb))
		}
		a.syncPages()
		return a.applyGuard(), nil

	// Watcher page intents
	case watcherCreateMsg:
		a.watchersPage.SetLoading(true)
		store, timeout := a.stores.Watchers, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_, err := store.Create(ctx, msg.Input)
			return watcherMutated{Verb: "created", Err: err}
		}

	case watcherUpdateMsg:
		a.watchersPage.SetLoading(true)
		store, timeout := a.stores.Watchers, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_, err := store.Update(ctx, msg.ID, msg.Input)
			return watcherMutated{Verb: "updated", Err: err}
		}

	case watcherDeleteMsg:
		a.watchersPage.SetLoading(true)
		store, timeout := a.stores.Watchers, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return watcherMutated{Verb: "deleted", Err: store.Delete(ctx, msg.ID)}
		}

	case watchersReloadMsg:
		a.watchersPage.SetLoading(true)
		return a, a.refreshWatchersCmd()

	// Events page intents
	case eventsReloadMsg:
		a.eventsPage.SetLoading(true)
		return a, a.refreshEventsCmd()

	case eventsSetFilterMsg:
		a.stores.Events.SetFilter(msg.Filter)
		a.eventsPage.SetLoading(true)
		return a, a.refreshEventsCmd()

	case eventsPageMsg:
		moved := false
		if msg.Next {
			moved = a.stores.Events.NextPage()
		} else {
			moved = a.stores.Events.PrevPage()
		}
		if !moved {
			return a, nil
		}
		a.eventsPage.SetLoading(true)
		return a, a.refreshEventsCmd()

	// Plans page intents
	case planCreateMsg:
		a.plansPage.SetLoading(true)
		store, timeout := a.stores.Plans, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_, err := store.Create(ctx, msg.Input)
			return planMutated{Verb: "created", Err: err}
		}

	case planUpdateMsg:
		a.plansPage.SetLoading(true)
		store, timeout := a.stores.Plans, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_, err := store.Update(ctx, msg.ID, msg.Input)
			return planMutated{Verb: "updated", Err: err}
		}

	case planDeleteMsg:
		a.plansPage.SetLoading(true)
		store, timeout := a.stores.Plans, a.timeout
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return planMutated{Verb: "deleted", Err: store.Delete(ctx, msg.ID)}
		}

	case plansReloadMsg:
		a.plansPage.SetLoading(true)
		return a, a.refreshPlansCmd()
	}

	return a.updateCurrentPage(msg)
}

// handleGlobalKey processes navigation chords that work on any page.
func (a App) handleGlobalKey(key tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch key.String() {
	case "ctrl+c":
		return a, tea.Quit, true
	case "ctrl+d":
		a.page = PageDocs
		return a, nil, true
	case "ctrl+l":
		if !a.snap.IsAuthenticated() {
			a.page = PageLogin
			return a, nil, true
		}
	case "ctrl+r":
		if !a.snap.IsAuthenticated() {
			a.page = PageRegister
			return a, nil, true
		}
	case "ctrl+o":
		if a.snap.IsAuthenticated() {
			mgr := a.authMgr
			return a, func() tea.Msg {
				mgr.Logout()
				return logoutDoneMsg{}
			}, true
		}
	case "1":
		if a.snap.IsAuthenticated() && !a.typing() {
			a.page = PageWatchers
			return a, nil, true
		}
	case "2":
		if a.snap.IsAuthenticated() && !a.typing() {
			a.page = PageEvents
			return a, nil, true
		}
	case "3":
		if a.snap.IsAuthenticated() && a.snap.User.IsAdmin && !a.typing() {
			a.page = PagePlans
			return a, nil, true
		}
	}
	return a, nil, false
}

// typing reports whether the current page has a focused text field, so the
// number chords don't steal characters from forms.
func (a App) typing() bool {
	switch a.page {
	case PageLogin, PageRegister:
		return true
	case PageWatchers:
		return a.watchersPage.mode != watcherFormHidden
	case PagePlans:
		return a.plansPage.mode != planFormHidden
	}
	return false
}

// applyGuard runs the redirect policy against the current snapshot.
func (a App) applyGuard() App {
	next := routeFor(a.page, a.snap)
	if next != a.page {
		logging.UI("guard redirect %s -> %s", a.page, next)
		a.page = next
	}
	return a
}

// syncPages pushes fresh store state into the page models.
func (a *App) syncPages() {
	a.watchersPage.SetLoading(a.stores.Watchers.Loading())
	a.watchersPage.UpdateContent(a.stores.Watchers.Items())
	a.eventsPage.SetLoading(a.stores.Events.Loading())
	a.eventsPage.UpdateContent(a.stores.Events.Items(), a.stores.Events.Filter(), a.stores.Events.Symbols())
	a.plansPage.SetLoading(a.stores.Plans.Loading())
	a.plansPage.UpdateContent(a.stores.Plans.Items())
}

func (a App) updateCurrentPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.page {
	case PageLogin:
		a.login, cmd = a.login.Update(msg)
	case PageRegister:
		a.register, cmd = a.register.Update(msg)
	case PageWatchers:
		a.watchersPage, cmd = a.watchersPage.Update(msg)
	case PageEvents:
		a.eventsPage, cmd = a.eventsPage.Update(msg)
	case PagePlans:
		a.plansPage, cmd = a.plansPage.Update(msg)
	case PageDocs:
		a.docs, cmd = a.docs.Update(msg)
	}
	return a, cmd
}

// View renders header, tab bar, the active page and the status bar.
func (a App) View() string {
	if !a.ready {
		return "loading..."
	}
	if a.snap.IsLoading() && a.page == PageLogin {
		// Startup session check still settling: show neither form nor
		// dashboard, matching the guard's no-redirect-while-loading rule.
		return a.styles.Content.Render(a.spinner.View() + " checking session...")
	}

	var sb strings.Builder
	sb.WriteString(a.styles.Header.Width(a.width).Render("TokenWatcher"))
	sb.WriteString("\n")
	sb.WriteString(a.tabBar())
	sb.WriteString("\n")

	var body string
	switch a.page {
	case PageLogin:
		body = a.login.View()
	case PageRegister:
		body = a.register.View()
	case PageWatchers:
		body = a.watchersPage.View()
	case PageEvents:
		body = a.eventsPage.View()
	case PagePlans:
		body = a.plansPage.View()
	case PageDocs:
		body = a.docs.View()
	}
	sb.WriteString(a.styles.Content.Render(body))
	sb.WriteString("\n")
	sb.WriteString(a.statusBar())
	return sb.String()
}

func (a App) tabBar() string {
	if !a.snap.IsAuthenticated() {
		return a.styles.TabBar.Render(a.styles.Muted.Render("docs: ctrl+d"))
	}

	tabs := []struct {
		page  Page
		label string
	}{
		{PageWatchers, "1:watchers"},
		{PageEvents, "2:events"},
	}
	if a.snap.User.IsAdmin {
		tabs = append(tabs, struct {
			page  Page
			label string
		}{PagePlans, "3:plans"})
	}

	var parts []string
	for _, t := range tabs {
		if t.page == a.page {
			parts = append(parts, a.styles.ActiveTab.Render(t.label))
		} else {
			parts = append(parts, a.styles.InactiveTab.Render(t.label))
		}
	}
	parts = append(parts, a.styles.InactiveTab.Render("docs:ctrl+d"), a.styles.InactiveTab.Render("logout:ctrl+o"))
	return a.styles.TabBar.Render(strings.Join(parts, " "))
}

func (a App) statusBar() string {
	var parts []string
	switch {
	case a.snap.IsLoading():
		parts = append(parts, a.spinner.View()+" "+a.snap.State.String())
	case a.snap.IsAuthenticated():
		u := a.snap.User
		parts = append(parts, fmt.Sprintf("%s • %s plan • watchers %d/%d",
			u.Email, u.PlanName, u.WatcherCount, u.WatcherLimit))
		if exp, ok := auth.TokenExpiry(a.snap.Token); ok {
			parts = append(parts, "session until "+exp.Local().Format("15:04"))
		}
	default:
		parts = append(parts, "not signed in")
	}
	if a.lastErr != "" {
		parts = append(parts, a.styles.Error.Render(truncate(a.lastErr, 60)))
	}
	return a.styles.Footer.Width(a.width).Render(strings.Join(parts, " • "))
}
