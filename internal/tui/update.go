package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"allocprep/internal/correction"
	"allocprep/internal/models"
	"allocprep/internal/tui/components/findings"
	"allocprep/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		contentHeight := msg.Height - 5
		m.clientSheet.SetSize(msg.Width-4, contentHeight)
		m.workerSheet.SetSize(msg.Width-4, contentHeight)
		m.taskSheet.SetSize(msg.Width-4, contentHeight)
		m.findingsList.SetSize(msg.Width-4, contentHeight)
		return m, nil

	case findings.FixMsg:
		return m.openFixForm(msg.Finding)

	case tea.KeyMsg:
		if m.state == StateFixing {
			return m.updateFixing(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Validate):
			if err := m.reload(); err != nil {
				m.formError = fmt.Sprintf("reload failed: %v", err)
			} else {
				m.formError = ""
			}
			return m, nil
		}
	}

	return m.updateActiveComponent(msg)
}

func (m Model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateClients:
		m.clientSheet, cmd = m.clientSheet.Update(msg)
	case StateWorkers:
		m.workerSheet, cmd = m.workerSheet.Update(msg)
	case StateTasks:
		m.taskSheet, cmd = m.taskSheet.Update(msg)
	case StateFindings:
		m.findingsList, cmd = m.findingsList.Update(msg)
	}
	return m, cmd
}

// openFixForm starts the single-cell correction flow for a finding that
// points at a concrete cell. Collection-level findings (skill coverage,
// empty collections) have nothing to edit.
func (m Model) openFixForm(target validation.Finding) (tea.Model, tea.Cmd) {
	if target.Row < 0 || target.Column == "" {
		m.formError = "this finding has no single cell to edit"
		return m, nil
	}
	m.fixTarget = &target
	m.fixForm = &FixFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("New value for %s[%d].%s", target.Entity, target.Row, target.Column)).
				Description(target.Message).
				Value(&m.fixForm.Value),
		),
	)
	m.previousState = m.state
	m.state = StateFixing
	m.formError = ""
	return m, m.form.Init()
}

func (m Model) updateFixing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.formError = ""
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.applyFix(); err != nil {
			m.formError = fmt.Sprintf("fix failed: %v", err)
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyFix() error {
	cols := correction.Collections{Clients: m.clients, Workers: m.workers, Tasks: m.tasks}
	fixed, err := correction.Apply(cols, m.fixTarget.Entity, m.fixTarget.Row, m.fixTarget.Column, m.fixForm.Value)
	if err != nil {
		return err
	}

	switch m.fixTarget.Entity {
	case models.EntityClients:
		err = m.store.SaveClients(fixed.Clients)
	case models.EntityWorkers:
		err = m.store.SaveWorkers(fixed.Workers)
	case models.EntityTasks:
		err = m.store.SaveTasks(fixed.Tasks)
	}
	if err != nil {
		return err
	}

	m.clients, m.workers, m.tasks = fixed.Clients, fixed.Workers, fixed.Tasks
	m.revalidate()
	return nil
}
