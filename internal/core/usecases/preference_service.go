package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

// PreferenceKey is the storage key of the single preference slot for scope.
func PreferenceKey(scope string) string {
	return "preferences:" + scope + ":map_app"
}

// PreferenceService remembers one chosen app per scope, tied to the
// fingerprint of the app set it was chosen from. A different app set
// reads as "not set".
type PreferenceService struct {
	store ports.KeyValueStore
	scope string
	now   func() time.Time
}

// NewPreferenceService creates a PreferenceService for one scope (a device, a user, a CLI profile).
func NewPreferenceService(store ports.KeyValueStore, scope string) *PreferenceService {
	return &PreferenceService{store: store, scope: scope, now: time.Now}
}

// Scope returns the slot name.
func (s *PreferenceService) Scope() string {
	return s.scope
}

// Fingerprint derives the set identity used to detect stale preferences.
func (s *PreferenceService) Fingerprint(apps []domain.NavigationApp) string {
	return domain.Fingerprint(apps)
}

// Current returns whatever is stored, regardless of app set.
func (s *PreferenceService) Current(ctx context.Context) (domain.RememberedChoice, error) {
	var choice domain.RememberedChoice
	data, err := s.store.Get(ctx, PreferenceKey(s.scope))
	if errors.Is(err, domain.ErrNotFound) {
		return choice, domain.ErrPreferenceNotSet
	}
	if err != nil {
		return choice, fmt.Errorf("read preference: %w", err)
	}
	if err := json.Unmarshal(data, &choice); err != nil {
		// An unreadable slot is treated as empty; the next Set overwrites it.
		return choice, fmt.Errorf("%w: decode: %v", domain.ErrPreferenceNotSet, err)
	}
	return choice, nil
}

// Get returns the remembered app for apps, or ErrPreferenceNotSet.
func (s *PreferenceService) Get(ctx context.Context, apps []domain.NavigationApp) (domain.AppID, error) {
	choice, err := s.Current(ctx)
	if err != nil {
		return 0, err
	}
	if choice.Fingerprint != s.Fingerprint(apps) {
		return 0, domain.ErrPreferenceNotSet
	}
	return choice.App, nil
}

// IsSet reports whether a preference exists for exactly this app set.
func (s *PreferenceService) IsSet(ctx context.Context, apps []domain.NavigationApp) bool {
	_, err := s.Get(ctx, apps)
	return err == nil
}

// Set remembers app for apps, replacing any prior entry.
func (s *PreferenceService) Set(ctx context.Context, app domain.AppID, apps []domain.NavigationApp) error {
	member := false
	for _, a := range apps {
		if a.ID == app {
			member = true
			break
		}
	}
	if !member {
		return fmt.Errorf("remember %s: not among the %d candidate apps", app, len(apps))
	}

	data, err := json.Marshal(domain.RememberedChoice{
		Fingerprint: s.Fingerprint(apps),
		App:         app,
		SavedAt:     s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}
	if err := s.store.Set(ctx, PreferenceKey(s.scope), data); err != nil {
		return fmt.Errorf("write preference: %w", err)
	}
	return nil
}

// Reset clears the slot entirely.
func (s *PreferenceService) Reset(ctx context.Context) error {
	err := s.store.Delete(ctx, PreferenceKey(s.scope))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("reset preference: %w", err)
	}
	return nil
}
