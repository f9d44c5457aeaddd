package usecases_test

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/mapdispatch/internal/adapters/memory"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

// --- Mock AppHost ---

type mockAppHost struct {
	mu        sync.Mutex
	installed map[string]bool // by URL scheme
	canOpenFn func(u *url.URL) bool
	openFn    func(u *url.URL) bool
	opened    []string
}

func newMockHost(apps ...domain.AppID) *mockAppHost {
	h := &mockAppHost{installed: make(map[string]bool)}
	h.install(apps...)
	return h
}

func allApps() []domain.AppID {
	return append([]domain.AppID(nil), domain.AllAppIDs...)
}

func (h *mockAppHost) install(apps ...domain.AppID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	catalog := domain.MustCatalog()
	for _, id := range apps {
		app, _ := catalog.Lookup(id)
		u, _ := domain.ParseLaunchURL(app.Prefix)
		h.installed[u.Scheme] = true
	}
}

func (h *mockAppHost) uninstall(id domain.AppID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	app, _ := domain.MustCatalog().Lookup(id)
	u, _ := domain.ParseLaunchURL(app.Prefix)
	delete(h.installed, u.Scheme)
}

func (h *mockAppHost) CanOpen(u *url.URL) bool {
	if h.canOpenFn != nil {
		return h.canOpenFn(u)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installed[u.Scheme]
}

func (h *mockAppHost) Open(ctx context.Context, u *url.URL, opts ports.OpenOptions) <-chan bool {
	h.mu.Lock()
	h.opened = append(h.opened, u.String())
	h.mu.Unlock()

	ok := true
	if h.openFn != nil {
		ok = h.openFn(u)
	}
	ch := make(chan bool, 1)
	ch <- ok
	return ch
}

func (h *mockAppHost) openedURLs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

func (h *mockAppHost) lastOpened() string {
	urls := h.openedURLs()
	if len(urls) == 0 {
		return ""
	}
	return urls[len(urls)-1]
}

// --- Mock ChooserUI ---

type mockChooserUI struct {
	sheets chan ports.ActionSheet
}

func newMockChooser() *mockChooserUI {
	return &mockChooserUI{sheets: make(chan ports.ActionSheet, 8)}
}

func (m *mockChooserUI) Present(ctx context.Context, sheet ports.ActionSheet) {
	m.sheets <- sheet
}

func (m *mockChooserUI) next(t *testing.T) ports.ActionSheet {
	t.Helper()
	select {
	case s := <-m.sheets:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("chooser was not presented")
		return ports.ActionSheet{}
	}
}

func (m *mockChooserUI) assertNotPresented(t *testing.T) {
	t.Helper()
	if n := len(m.sheets); n != 0 {
		t.Fatalf("expected no chooser, got %d presentations", n)
	}
}

func selectApp(t *testing.T, sheet ports.ActionSheet, id domain.AppID) {
	t.Helper()
	for _, a := range sheet.Actions {
		if a.App == id {
			a.OnSelect()
			return
		}
	}
	t.Fatalf("app %s not offered", id)
}

// --- Mock KeyValueStore ---

type mockStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events chan *domain.LaunchEvent
	ctxErr chan error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{
		events: make(chan *domain.LaunchEvent, 4),
		ctxErr: make(chan error, 4),
	}
}

func (m *mockPublisher) PublishLaunch(ctx context.Context, event *domain.LaunchEvent) error {
	m.ctxErr <- ctx.Err()
	m.events <- event
	return nil
}

// --- Fixture ---

type fixture struct {
	host    *mockAppHost
	ui      *mockChooserUI
	store   *memory.Store
	prefs   *usecases.PreferenceService
	service *usecases.DispatchService
}

func newFixture(host *mockAppHost, publisher ports.EventPublisher) *fixture {
	catalog := domain.MustCatalog()
	ui := newMockChooser()
	store := memory.New()
	prefs := usecases.NewPreferenceService(store, "test")
	svc := usecases.NewDispatchService(
		usecases.NewAvailabilityService(catalog, host),
		prefs,
		usecases.NewChooserService(ui),
		host,
		publisher,
		usecases.DefaultPrompt(),
	)
	return &fixture{host: host, ui: ui, store: store, prefs: prefs, service: svc}
}

func await(t *testing.T, ch <-chan domain.Outcome) (domain.Outcome, bool) {
	t.Helper()
	select {
	case o, ok := <-ch:
		return o, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return domain.Outcome{}, false
	}
}

func appsOf(ids ...domain.AppID) []domain.NavigationApp {
	catalog := domain.MustCatalog()
	out := make([]domain.NavigationApp, 0, len(ids))
	for _, id := range ids {
		app, _ := catalog.Lookup(id)
		out = append(out, app)
	}
	return out
}
