// Package findings renders the validation report as a scrollable list.
package findings

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"allocprep/internal/validation"
)

// FixMsg asks the parent model to open the correction form for a finding.
type FixMsg struct {
	Finding validation.Finding
}

type Item struct {
	Finding validation.Finding
}

func (i Item) Title() string {
	marker := "✗"
	if i.Finding.Severity == validation.SeverityWarning {
		marker = "⚠"
	}
	if i.Finding.Row < 0 {
		return fmt.Sprintf("%s %s", marker, i.Finding.Entity)
	}
	return fmt.Sprintf("%s %s[%d].%s", marker, i.Finding.Entity, i.Finding.Row, i.Finding.Column)
}
func (i Item) Description() string { return i.Finding.Message }
func (i Item) FilterValue() string { return i.Finding.Message }

type KeyMap struct {
	Fix key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Fix: key.NewBinding(
			key.WithKeys("f", "enter"),
			key.WithHelp("f", "fix"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(report validation.Report, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Findings"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Fix}
	}

	m := Model{list: l, keys: keys}
	m.SetReport(report)
	return m
}

func (m *Model) SetReport(report validation.Report) {
	items := make([]list.Item, len(report.Findings))
	for i, f := range report.Findings {
		items[i] = Item{Finding: f}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Fix) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return FixMsg{Finding: i.Finding} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No findings. Data is ready to export."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
