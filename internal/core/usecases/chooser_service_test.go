package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

func awaitChoice(t *testing.T, ch <-chan usecases.Choice) usecases.Choice {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("chooser did not resolve")
		return usecases.Choice{}
	}
}

func TestChooser_EmptyResolvesCancelled(t *testing.T) {
	ui := newMockChooser()
	svc := usecases.NewChooserService(ui)

	c := awaitChoice(t, svc.Choose(context.Background(), nil, usecases.DefaultPrompt()))
	if !c.Cancelled {
		t.Errorf("expected cancelled, got %+v", c)
	}
	ui.assertNotPresented(t)
}

func TestChooser_SingleResolvesImmediately(t *testing.T) {
	ui := newMockChooser()
	svc := usecases.NewChooserService(ui)

	c := awaitChoice(t, svc.Choose(context.Background(), appsOf(domain.Waze), usecases.DefaultPrompt()))
	if c.Cancelled || c.App != domain.Waze {
		t.Errorf("expected waze, got %+v", c)
	}
	ui.assertNotPresented(t)
}

func TestChooser_PresentsSheetWithPrompt(t *testing.T) {
	ui := newMockChooser()
	svc := usecases.NewChooserService(ui)
	prompt := usecases.Prompt{Title: "Go", Message: "Pick one", CancelLabel: "Never mind"}

	ch := svc.Choose(context.Background(), appsOf(domain.TransitApp, domain.AppleMaps), prompt)
	sheet := ui.next(t)

	if sheet.Title != "Go" || sheet.Message != "Pick one" || sheet.CancelLabel != "Never mind" {
		t.Errorf("unexpected texts %+v", sheet)
	}
	if len(sheet.Actions) != 2 || sheet.Actions[0].App != domain.TransitApp || sheet.Actions[0].Label != "Transit App" {
		t.Fatalf("actions must follow candidate order, got %+v", sheet.Actions)
	}

	selectApp(t, sheet, domain.AppleMaps)
	if c := awaitChoice(t, ch); c.App != domain.AppleMaps || c.Cancelled {
		t.Errorf("expected apple_maps, got %+v", c)
	}
}

func TestChooser_ResolvesOnce(t *testing.T) {
	ui := newMockChooser()
	svc := usecases.NewChooserService(ui)

	ch := svc.Choose(context.Background(), appsOf(domain.AppleMaps, domain.Waze), usecases.DefaultPrompt())
	sheet := ui.next(t)
	sheet.OnCancel()
	sheet.Actions[1].OnSelect()
	sheet.OnCancel()

	if c := awaitChoice(t, ch); !c.Cancelled {
		t.Errorf("first answer wins, got %+v", c)
	}
	select {
	case c, ok := <-ch:
		if ok {
			t.Errorf("unexpected second value %+v", c)
		}
	default:
	}
}

func TestChooser_ContextCancelResolvesCancelled(t *testing.T) {
	ui := newMockChooser()
	svc := usecases.NewChooserService(ui)
	ctx, cancel := context.WithCancel(context.Background())

	ch := svc.Choose(ctx, appsOf(domain.AppleMaps, domain.Waze), usecases.DefaultPrompt())
	ui.next(t)
	cancel()

	if c := awaitChoice(t, ch); !c.Cancelled {
		t.Errorf("expected cancelled, got %+v", c)
	}
}
