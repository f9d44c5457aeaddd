// Package tui presents the app chooser in a terminal.
package tui

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

// Sheet implements ports.ChooserUI with a bubbletea program.
type Sheet struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewSheet creates a terminal chooser reading keys from in and drawing to out.
func NewSheet(in io.Reader, out io.Writer, logger *slog.Logger) *Sheet {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sheet{in: in, out: out, logger: logger}
}

// Present runs the chooser until the user answers or ctx ends, then fires
// exactly one of the sheet's callbacks.
func (s *Sheet) Present(ctx context.Context, sheet ports.ActionSheet) {
	p := tea.NewProgram(newSheetModel(sheet),
		tea.WithContext(ctx),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
	)
	final, err := p.Run()
	if err != nil {
		s.logger.Debug("chooser closed", "error", err)
		fire(sheet, sheetModel{chosen: -1, cancelled: true})
		return
	}
	m, ok := final.(sheetModel)
	if !ok {
		fire(sheet, sheetModel{chosen: -1, cancelled: true})
		return
	}
	fire(sheet, m)
}

func fire(sheet ports.ActionSheet, m sheetModel) {
	if m.cancelled || m.chosen < 0 || m.chosen >= len(sheet.Actions) {
		if sheet.OnCancel != nil {
			sheet.OnCancel()
		}
		return
	}
	if cb := sheet.Actions[m.chosen].OnSelect; cb != nil {
		cb()
	}
}
