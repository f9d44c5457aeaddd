package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	cancelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// sheetModel renders an action sheet as a vertical list with a trailing
// cancel row.
type sheetModel struct {
	sheet     ports.ActionSheet
	cursor    int
	chosen    int // index into sheet.Actions, -1 until chosen
	cancelled bool
}

func newSheetModel(sheet ports.ActionSheet) sheetModel {
	return sheetModel{sheet: sheet, chosen: -1}
}

func (m sheetModel) Init() tea.Cmd { return nil }

// rows counts the actions plus the cancel row.
func (m sheetModel) rows() int { return len(m.sheet.Actions) + 1 }

func (m sheetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "j", "down", "tab":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor == len(m.sheet.Actions) {
			m.cancelled = true
		} else {
			m.chosen = m.cursor
		}
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	default:
		if n, err := strconv.Atoi(key.String()); err == nil && n >= 1 && n <= len(m.sheet.Actions) {
			m.cursor = n - 1
			m.chosen = n - 1
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m sheetModel) View() string {
	var b strings.Builder
	if m.sheet.Title != "" {
		b.WriteString(titleStyle.Render(m.sheet.Title))
		b.WriteString("\n")
	}
	if m.sheet.Message != "" {
		b.WriteString(messageStyle.Render(m.sheet.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, a := range m.sheet.Actions {
		line := strconv.Itoa(i+1) + ". " + a.Label
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	cancel := m.sheet.CancelLabel
	if m.cursor == len(m.sheet.Actions) {
		b.WriteString(cursorStyle.Render("> " + cancel))
	} else {
		b.WriteString(cancelStyle.Render("  " + cancel))
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("↑/↓ move · enter select · esc cancel"))
	b.WriteString("\n")
	return b.String()
}
