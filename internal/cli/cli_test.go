package cli

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/samirrijal/mapdispatch/internal/adapters/apphost"
	"github.com/samirrijal/mapdispatch/internal/adapters/memory"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

// --- Fakes ---

type fakeHost struct {
	*apphost.Announced
	mu     sync.Mutex
	fail   bool
	opened []string
}

func (h *fakeHost) Open(ctx context.Context, u *url.URL, opts ports.OpenOptions) <-chan bool {
	h.mu.Lock()
	h.opened = append(h.opened, u.String())
	h.mu.Unlock()
	ch := make(chan bool, 1)
	ch <- !h.fail
	close(ch)
	return ch
}

// fakeUI answers every chooser with pick, or cancels when pick is zero.
type fakeUI struct {
	pick      domain.AppID
	presented int
	offered   []domain.AppID
}

func (u *fakeUI) Present(ctx context.Context, sheet ports.ActionSheet) {
	u.presented++
	u.offered = u.offered[:0]
	for _, a := range sheet.Actions {
		u.offered = append(u.offered, a.App)
	}
	for _, a := range sheet.Actions {
		if a.App == u.pick {
			a.OnSelect()
			return
		}
	}
	sheet.OnCancel()
}

type harness struct {
	host  *fakeHost
	ui    *fakeUI
	store *memory.Store
}

func newHarness(schemes ...string) *harness {
	return &harness{
		host:  &fakeHost{Announced: apphost.NewAnnounced(schemes)},
		ui:    &fakeUI{},
		store: memory.New(),
	}
}

func (h *harness) factory(cmd *cobra.Command, g Globals) (*Env, error) {
	scope := g.Scope
	if scope == "" {
		scope = "cli-test"
	}
	return &Env{
		Catalog: domain.MustCatalog(),
		Store:   h.store,
		Host:    h.host,
		UI:      h.ui,
		Prompt:  usecases.DefaultPrompt(),
		Scope:   scope,
	}, nil
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(h.factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// --- Tests ---

func TestApps_MarksInstalled(t *testing.T) {
	h := newHarness("http", "waze")

	out, err := h.run(t, "apps")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"apple_maps", "Apple Maps", "waze", "copilot"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected header and 8 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[6], "waze") || !strings.HasSuffix(strings.TrimSpace(lines[6]), "yes") {
		t.Errorf("waze should be installed: %q", lines[6])
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[2]), "-") {
		t.Errorf("citymapper should not be installed: %q", lines[2])
	}
}

func TestApps_JSON(t *testing.T) {
	h := newHarness("waze")
	out, err := h.run(t, "apps", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"id": "waze"`) || !strings.Contains(out, `"installed": true`) {
		t.Errorf("unexpected json:\n%s", out)
	}
}

func TestTo_ChoosesAndLaunches(t *testing.T) {
	h := newHarness("waze", "comgooglemaps")
	h.ui.pick = domain.Waze

	out, err := h.run(t, "to", "--", "43.263", "-2.935")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "Opened Waze" {
		t.Errorf("unexpected output %q", out)
	}
	if len(h.host.opened) != 1 || h.host.opened[0] != "waze://?ll=43.263000,-2.935000" {
		t.Errorf("unexpected launches %v", h.host.opened)
	}
	if h.ui.presented != 1 {
		t.Errorf("expected one chooser, got %d", h.ui.presented)
	}
}

func TestTo_RememberSkipsChooserNextTime(t *testing.T) {
	h := newHarness("waze", "comgooglemaps")
	h.ui.pick = domain.GoogleMaps

	if _, err := h.run(t, "to", "1", "2", "--remember"); err != nil {
		t.Fatal(err)
	}
	out, err := h.run(t, "to", "3", "4", "-r")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "Opened Google Maps (remembered)" {
		t.Errorf("unexpected output %q", out)
	}
	if h.ui.presented != 1 {
		t.Errorf("expected chooser only once, got %d", h.ui.presented)
	}

	out, err = h.run(t, "preference")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Google Maps (apps 30,60,") {
		t.Errorf("unexpected preference output %q", out)
	}

	if _, err := h.run(t, "reset"); err != nil {
		t.Fatal(err)
	}
	out, _ = h.run(t, "preference")
	if !strings.Contains(out, "No app remembered for cli-test") {
		t.Errorf("expected no preference after reset, got %q", out)
	}
}

func TestTo_OnlyRestrictsCandidates(t *testing.T) {
	h := newHarness("waze", "comgooglemaps", "citymapper")
	h.ui.pick = domain.Citymapper

	if _, err := h.run(t, "to", "1", "2", "--only", "waze,citymapper"); err != nil {
		t.Fatal(err)
	}
	if len(h.ui.offered) != 2 || h.ui.offered[0] != domain.Citymapper || h.ui.offered[1] != domain.Waze {
		t.Errorf("unexpected offered apps %v", h.ui.offered)
	}
}

func TestTo_OnlyUnknownSuggests(t *testing.T) {
	h := newHarness("waze")
	_, err := h.run(t, "to", "1", "2", "--only", "wase")
	if err == nil || !strings.Contains(err.Error(), `did you mean "waze"`) {
		t.Errorf("expected suggestion, got %v", err)
	}
}

func TestTo_CancelPrintsCancelled(t *testing.T) {
	h := newHarness("waze", "citymapper")

	out, err := h.run(t, "to", "1", "2")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "Cancelled" {
		t.Errorf("unexpected output %q", out)
	}
	if len(h.host.opened) != 0 {
		t.Errorf("nothing should launch, got %v", h.host.opened)
	}
}

func TestTo_LaunchFailure(t *testing.T) {
	h := newHarness("waze")
	h.host.fail = true

	_, err := h.run(t, "to", "1", "2")
	if !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}
}

func TestTo_InvalidCoordinates(t *testing.T) {
	h := newHarness("waze")
	for _, args := range [][]string{{"to", "north", "2"}, {"to", "91", "0"}, {"to", "0", "181"}, {"to", "NaN", "NaN"}, {"to", "0", "Inf"}} {
		if _, err := h.run(t, args...); !errors.Is(err, domain.ErrInvalidCoordinates) {
			t.Errorf("%v: expected ErrInvalidCoordinates, got %v", args, err)
		}
	}
}

func TestTo_Override(t *testing.T) {
	h := newHarness("copilot")

	if _, err := h.run(t, "to", "1", "2", "--override", "copilot=copilot://mydestination?type=LOCATION"); err != nil {
		t.Fatal(err)
	}
	if len(h.host.opened) != 1 || h.host.opened[0] != "copilot://mydestination?type=LOCATION" {
		t.Errorf("unexpected launches %v", h.host.opened)
	}
}

func TestAddress_UsesFallbackForCoordinateOnlyApps(t *testing.T) {
	h := newHarness("navigon")

	if _, err := h.run(t, "address", "Gran Via 1, Bilbao", "--lat", "43.26", "--lon", "-2.93"); err != nil {
		t.Fatal(err)
	}
	if len(h.host.opened) != 1 || h.host.opened[0] != "navigon://coordinate/Destination/43.260000/-2.930000" {
		t.Errorf("unexpected launches %v", h.host.opened)
	}
}

func TestAddress_RequiresFallback(t *testing.T) {
	h := newHarness("waze")
	if _, err := h.run(t, "address", "Gran Via 1"); err == nil {
		t.Error("expected missing flag error")
	}
}

func TestDefault_OpensNativeMaps(t *testing.T) {
	h := newHarness("http")

	out, err := h.run(t, "default", "1", "2")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "Opened Apple Maps" {
		t.Errorf("unexpected output %q", out)
	}
	if h.ui.presented != 0 {
		t.Error("default must not present the chooser")
	}
}

func TestScopeFlagSeparatesPreferences(t *testing.T) {
	h := newHarness("waze", "citymapper")
	h.ui.pick = domain.Waze

	if _, err := h.run(t, "--scope", "car", "to", "1", "2", "-r"); err != nil {
		t.Fatal(err)
	}
	out, _ := h.run(t, "--scope", "bike", "preference")
	if !strings.Contains(out, "No app remembered for bike") {
		t.Errorf("unexpected output %q", out)
	}
	out, _ = h.run(t, "--scope", "car", "preference")
	if !strings.HasPrefix(out, "Waze") {
		t.Errorf("unexpected output %q", out)
	}
}
