// Package datasheet renders one record collection as a scrollable list.
package datasheet

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Row is one rendered record.
type Row struct {
	Heading string
	Detail  string
	Flagged bool
}

type Item struct {
	Row Row
}

func (i Item) Title() string {
	if i.Row.Flagged {
		return "✗ " + i.Row.Heading
	}
	return i.Row.Heading
}
func (i Item) Description() string { return i.Row.Detail }
func (i Item) FilterValue() string { return i.Row.Heading }

type Model struct {
	list  list.Model
	empty string
}

func New(title, empty string, rows []Row, width, height int) Model {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = Item{Row: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{list: l, empty: empty}
}

func (m *Model) SetRows(rows []Row) {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = Item{Row: r}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  " + m.empty
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
