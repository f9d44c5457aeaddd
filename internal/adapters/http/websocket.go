package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/mapdispatch/internal/adapters/apphost"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
	"github.com/samirrijal/mapdispatch/internal/pkg/logging"
	"github.com/samirrijal/mapdispatch/internal/pkg/metrics"
)

// wsInbound is any message a client sends. Type selects the fields used:
//
//	{"type":"hello","schemes":["waze","comgooglemaps","http"]}
//	{"type":"directions","lat":43.26,"lon":-2.93,"address":"...","remember":true,"only":["waze"],"overrides":{"copilot":"copilot://..."}}
//	{"type":"select","app":"waze"}
//	{"type":"cancel"}
//	{"type":"opened","ok":true}
//	{"type":"reset"}
type wsInbound struct {
	Type      string            `json:"type"`
	Schemes   []string          `json:"schemes,omitempty"`
	Lat       *float64          `json:"lat,omitempty"`
	Lon       *float64          `json:"lon,omitempty"`
	Address   string            `json:"address,omitempty"`
	Remember  bool              `json:"remember,omitempty"`
	Only      []string          `json:"only,omitempty"`
	Overrides map[string]string `json:"overrides,omitempty"`
	App       string            `json:"app,omitempty"`
	OK        bool              `json:"ok,omitempty"`
}

type wsReady struct {
	Type      string   `json:"type"`
	Available []string `json:"available"`
}

type wsOption struct {
	App   string `json:"app"`
	Label string `json:"label"`
}

type wsChoose struct {
	Type    string     `json:"type"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Cancel  string     `json:"cancel"`
	Options []wsOption `json:"options"`
}

type wsOpen struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type wsResult struct {
	Type       string `json:"type"`
	RequestID  string `json:"request_id"`
	App        string `json:"app"`
	FromMemory bool   `json:"from_memory"`
	Launched   bool   `json:"launched"`
}

type wsCancelled struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

type wsReset struct {
	Type string `json:"type"`
}

type wsError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// session drives directions requests for one WebSocket client. It is the
// client's chooser UI and app host: action sheets and launches are sent to
// the client, whose answers come back as select/cancel/opened messages.
type session struct {
	ctx     context.Context
	scope   string
	send    func(v any) error
	log     *slog.Logger
	service *usecases.DispatchService

	mu      sync.Mutex
	known   *apphost.Announced
	sheet   *ports.ActionSheet
	opening chan bool
	cancel  context.CancelFunc // non-nil while a request is in flight
	closed  chan struct{}
	once    sync.Once
}

func newSession(ctx context.Context, deps *Dependencies, scope string, send func(v any) error) *session {
	s := &session{
		scope:  scope,
		send:   send,
		known:  apphost.NewAnnounced(nil),
		closed: make(chan struct{}),
	}
	s.log = logging.FromContext(ctx).With("session", uuid.NewString(), "scope", scope)
	s.ctx = logging.WithLogger(ctx, s.log)

	var host ports.AppHost = s
	if deps.MapsFallback {
		host = apphost.NewMapsFallback(s)
	}
	s.service = usecases.NewDispatchService(
		usecases.NewAvailabilityService(deps.Catalog, host),
		deps.Preferences(scope),
		usecases.NewChooserService(s),
		host,
		deps.Publisher,
		deps.Prompt,
	)
	return s
}

// handle processes one client message.
func (s *session) handle(data []byte) {
	var m wsInbound
	if err := json.Unmarshal(data, &m); err != nil {
		s.fail("invalid JSON")
		return
	}

	switch m.Type {
	case "hello":
		s.hello(m.Schemes)
	case "directions":
		s.directions(m)
	case "select":
		s.choose(m.App)
	case "cancel":
		s.cancelRequest()
	case "opened":
		s.opened(m.OK)
	case "reset":
		s.reset()
	default:
		s.fail("unknown message type: " + m.Type)
	}
}

func (s *session) fail(msg string) {
	_ = s.send(wsError{Type: "error", Error: msg})
}

func (s *session) hello(schemes []string) {
	s.mu.Lock()
	s.known = apphost.NewAnnounced(schemes)
	s.mu.Unlock()

	apps := s.service.AvailableApps()
	available := make([]string, 0, len(apps))
	for _, a := range apps {
		available = append(available, a.ID.Slug())
	}
	_ = s.send(wsReady{Type: "ready", Available: available})
}

func (s *session) directions(m wsInbound) {
	if m.Lat == nil || m.Lon == nil {
		s.fail("lat and lon are required")
		return
	}
	to := domain.GeoPoint{Lat: *m.Lat, Lon: *m.Lon}
	if err := to.Validate(); err != nil {
		s.fail(err.Error())
		return
	}
	opts, err := parseOptions(m)
	if err != nil {
		s.fail(err.Error())
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		s.fail("a directions request is already in progress")
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.mu.Unlock()

	opts.RequestID = uuid.NewString()
	dest := domain.ToCoordinates(to)
	if m.Address != "" {
		dest = domain.ToAddress(m.Address, to)
	}

	out := s.service.Directions(ctx, dest, opts)
	go func() {
		outcome, ok := <-out
		s.finish(cancel)
		if !ok {
			_ = s.send(wsCancelled{Type: "cancelled", RequestID: opts.RequestID})
			return
		}
		_ = s.send(wsResult{
			Type:       "result",
			RequestID:  outcome.RequestID,
			App:        outcome.App.Slug(),
			FromMemory: outcome.FromMemory,
			Launched:   outcome.Launched,
		})
	}()
}

// parseOptions maps wire options to usecases.Options. An absent "only" means
// unrestricted; an empty one restricts to nothing.
func parseOptions(m wsInbound) (usecases.Options, error) {
	opts := usecases.Options{Remember: m.Remember}
	if m.Only != nil {
		opts.Only = make([]domain.AppID, 0, len(m.Only))
		for _, raw := range m.Only {
			id, err := domain.ParseAppID(raw)
			if err != nil {
				return opts, errors.New(unknownAppMessage(raw))
			}
			opts.Only = append(opts.Only, id)
		}
	}
	if len(m.Overrides) > 0 {
		opts.Overrides = make(map[domain.AppID]string, len(m.Overrides))
		for raw, link := range m.Overrides {
			id, err := domain.ParseAppID(raw)
			if err != nil {
				return opts, errors.New(unknownAppMessage(raw))
			}
			opts.Overrides[id] = link
		}
	}
	return opts, nil
}

func (s *session) finish(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancel = nil
	s.sheet = nil
	s.opening = nil
	s.mu.Unlock()
	cancel()
}

func (s *session) choose(raw string) {
	id, err := domain.ParseAppID(raw)
	if err != nil {
		s.fail(unknownAppMessage(raw))
		return
	}

	s.mu.Lock()
	sheet := s.sheet
	s.mu.Unlock()
	if sheet == nil {
		s.fail("no chooser is open")
		return
	}
	for _, a := range sheet.Actions {
		if a.App == id {
			s.mu.Lock()
			s.sheet = nil
			s.mu.Unlock()
			a.OnSelect()
			return
		}
	}
	s.fail(id.Slug() + " was not offered")
}

func (s *session) cancelRequest() {
	s.mu.Lock()
	sheet, cancel := s.sheet, s.cancel
	s.sheet = nil
	if sheet == nil && cancel != nil {
		// Under the lock so a concurrent Present sees the cancellation.
		cancel()
	}
	s.mu.Unlock()

	switch {
	case sheet != nil:
		sheet.OnCancel()
	case cancel == nil:
		s.fail("nothing to cancel")
	}
}

func (s *session) opened(ok bool) {
	s.mu.Lock()
	ch := s.opening
	s.opening = nil
	s.mu.Unlock()
	if ch == nil {
		s.fail("no launch is pending")
		return
	}
	ch <- ok
}

func (s *session) reset() {
	if err := s.service.ResetPreferences(s.ctx); err != nil {
		s.log.Error("reset preference", "error", err)
		s.fail("could not reset preference")
		return
	}
	_ = s.send(wsReset{Type: "reset"})
}

// close ends the session: an open chooser resolves as cancelled and a
// pending launch as failed.
func (s *session) close() {
	s.once.Do(func() {
		close(s.closed)
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	})
}

// Present implements ports.ChooserUI.
func (s *session) Present(ctx context.Context, sheet ports.ActionSheet) {
	msg := wsChoose{
		Type:    "choose",
		Title:   sheet.Title,
		Message: sheet.Message,
		Cancel:  sheet.CancelLabel,
		Options: make([]wsOption, 0, len(sheet.Actions)),
	}
	for _, a := range sheet.Actions {
		msg.Options = append(msg.Options, wsOption{App: a.App.Slug(), Label: a.Label})
	}

	// Held across the send so a cancel cannot slip between storing the
	// sheet and the client seeing it.
	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.sheet = &sheet
	err := s.send(msg)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("send chooser", "error", err)
		sheet.OnCancel()
	}
}

// CanOpen implements ports.AppHost against the schemes from hello.
func (s *session) CanOpen(u *url.URL) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known.CanOpen(u)
}

// Open implements ports.AppHost by asking the client to open the URL and
// waiting for its "opened" reply.
func (s *session) Open(ctx context.Context, u *url.URL, opts ports.OpenOptions) <-chan bool {
	out := make(chan bool, 1)
	reply := make(chan bool, 1)

	s.mu.Lock()
	s.opening = reply
	s.mu.Unlock()

	if err := s.send(wsOpen{Type: "open", URL: u.String()}); err != nil {
		s.log.Warn("send open", "error", err)
		out <- false
		close(out)
		return out
	}

	go func() {
		defer close(out)
		select {
		case ok := <-reply:
			out <- ok
		case <-ctx.Done():
			out <- false
		case <-s.closed:
			out <- false
		}
	}()
	return out
}

// WebSocketUpgrade rejects non-upgrade requests and invalid scopes.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !validScope(c.Query("scope", "default")) {
			return errBadRequest(c, "invalid scope")
		}
		return c.Next()
	}
}

// WebSocketHandler runs one directions session per connection. The
// preference slot is chosen with ?scope= (default "default").
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		s := newSession(context.Background(), deps, c.Query("scope", "default"), writeJSON)
		metrics.ActiveSessions.Inc()
		s.log.Info("ws session started", "remote", c.RemoteAddr().String())

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			s.handle(msg)
		}

		close(done)
		s.close()
		metrics.ActiveSessions.Dec()
		s.log.Info("ws session ended")
	}
}
