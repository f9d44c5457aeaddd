package usecases

import (
	"context"
	"sync"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/pkg/metrics"
)

// Prompt holds the chooser texts.
type Prompt struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	CancelLabel string `json:"cancel"`
}

// DefaultPrompt returns the stock chooser texts.
func DefaultPrompt() Prompt {
	return Prompt{
		Title:       "Navigation",
		Message:     "Which app would you like to use for directions?",
		CancelLabel: "Cancel",
	}
}

// Choice is the resolution of a chooser: an app, or cancellation.
type Choice struct {
	App       domain.AppID
	Cancelled bool
}

// ChooserService resolves a candidate list to one app through the chooser UI.
type ChooserService struct {
	ui ports.ChooserUI
}

// NewChooserService creates a new ChooserService.
func NewChooserService(ui ports.ChooserUI) *ChooserService {
	return &ChooserService{ui: ui}
}

// Choose resolves candidates to one app. The channel receives exactly one
// Choice. Empty lists resolve cancelled and single candidates resolve
// immediately; neither touches the UI. Context cancellation before the user
// answers counts as cancellation.
func (s *ChooserService) Choose(ctx context.Context, candidates []domain.NavigationApp, p Prompt) <-chan Choice {
	out := make(chan Choice, 1)

	switch len(candidates) {
	case 0:
		out <- Choice{Cancelled: true}
		return out
	case 1:
		out <- Choice{App: candidates[0].ID}
		return out
	}

	var once sync.Once
	resolved := make(chan struct{})
	resolve := func(c Choice) {
		once.Do(func() {
			out <- c
			close(resolved)
		})
	}

	sheet := ports.ActionSheet{
		Title:       p.Title,
		Message:     p.Message,
		CancelLabel: p.CancelLabel,
		OnCancel:    func() { resolve(Choice{Cancelled: true}) },
	}
	for _, app := range candidates {
		sheet.Actions = append(sheet.Actions, ports.Action{
			App:      app.ID,
			Label:    app.Name,
			OnSelect: func() { resolve(Choice{App: app.ID}) },
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			resolve(Choice{Cancelled: true})
		case <-resolved:
		}
	}()

	metrics.ChooserPresented.Inc()
	go s.ui.Present(ctx, sheet)

	return out
}
