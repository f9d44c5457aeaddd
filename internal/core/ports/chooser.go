package ports

import (
	"context"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
)

// Action is one selectable row of an action sheet.
type Action struct {
	App      domain.AppID
	Label    string
	OnSelect func()
}

// ActionSheet is a modal list of actions plus a cancel entry.
type ActionSheet struct {
	Title       string
	Message     string
	CancelLabel string
	Actions     []Action
	OnCancel    func()
}

// ChooserUI presents an action sheet. Implementations call at most one of
// the OnSelect/OnCancel callbacks, from any goroutine.
type ChooserUI interface {
	Present(ctx context.Context, sheet ActionSheet)
}
