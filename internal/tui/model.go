package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"allocprep/internal/models"
	"allocprep/internal/storage"
	"allocprep/internal/tui/components/datasheet"
	"allocprep/internal/tui/components/findings"
	"allocprep/internal/validation"
)

type SessionState int

const (
	StateClients SessionState = iota
	StateWorkers
	StateTasks
	StateFindings
	StateFixing
)

// tabCount covers the navigable tabs; StateFixing is modal.
const tabCount = 4

type FixFormModel struct {
	Value string
}

type Model struct {
	store         storage.Provider
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	clients []models.Client
	workers []models.Worker
	tasks   []models.Task
	report  validation.Report

	clientSheet  datasheet.Model
	workerSheet  datasheet.Model
	taskSheet    datasheet.Model
	findingsList findings.Model

	form      *huh.Form
	fixForm   *FixFormModel
	fixTarget *validation.Finding
	formError string

	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider) Model {
	clients, err := store.GetClients()
	if err != nil {
		clients = []models.Client{}
	}
	workers, err := store.GetWorkers()
	if err != nil {
		workers = []models.Worker{}
	}
	tasks, err := store.GetTasks()
	if err != nil {
		tasks = []models.Task{}
	}

	m := Model{
		store:   store,
		state:   StateFindings,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		clients: clients,
		workers: workers,
		tasks:   tasks,
	}
	m.report = validation.New().ValidateAll(clients, workers, tasks)

	m.clientSheet = datasheet.New("Clients", "No clients loaded. Run 'allocprep load --clients <file>'.", m.clientRows(), 0, 0)
	m.workerSheet = datasheet.New("Workers", "No workers loaded. Run 'allocprep load --workers <file>'.", m.workerRows(), 0, 0)
	m.taskSheet = datasheet.New("Tasks", "No tasks loaded. Run 'allocprep load --tasks <file>'.", m.taskRows(), 0, 0)
	m.findingsList = findings.New(m.report, 0, 0)

	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Validate}
	if m.state == StateFindings {
		keys = append(keys, m.keys.Fix)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Validate}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	if m.state == StateFindings {
		actions = []key.Binding{m.keys.Fix}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// revalidate re-runs the full pass and refreshes every component that
// renders findings or flagged rows.
func (m *Model) revalidate() {
	m.report = validation.New().ValidateAll(m.clients, m.workers, m.tasks)
	m.findingsList.SetReport(m.report)
	m.clientSheet.SetRows(m.clientRows())
	m.workerSheet.SetRows(m.workerRows())
	m.taskSheet.SetRows(m.taskRows())
}

// reload pulls all three collections back out of storage.
func (m *Model) reload() error {
	clients, err := m.store.GetClients()
	if err != nil {
		return err
	}
	workers, err := m.store.GetWorkers()
	if err != nil {
		return err
	}
	tasks, err := m.store.GetTasks()
	if err != nil {
		return err
	}
	m.clients, m.workers, m.tasks = clients, workers, tasks
	m.revalidate()
	return nil
}

func (m Model) flaggedRows(entity models.Entity) map[int]bool {
	flagged := make(map[int]bool)
	for _, f := range m.report.ForEntity(entity) {
		if f.Row >= 0 {
			flagged[f.Row] = true
		}
	}
	return flagged
}

func (m Model) clientRows() []datasheet.Row {
	flagged := m.flaggedRows(models.EntityClients)
	rows := make([]datasheet.Row, len(m.clients))
	for i, c := range m.clients {
		rows[i] = datasheet.Row{
			Heading: fmt.Sprintf("%s  %s", c.ID, c.Name),
			Detail:  fmt.Sprintf("priority %d | requests %s | group %s", c.PriorityLevel, strings.Join(c.RequestedTaskIDs, ","), c.GroupTag),
			Flagged: flagged[i],
		}
	}
	return rows
}

func (m Model) workerRows() []datasheet.Row {
	flagged := m.flaggedRows(models.EntityWorkers)
	rows := make([]datasheet.Row, len(m.workers))
	for i, w := range m.workers {
		rows[i] = datasheet.Row{
			Heading: fmt.Sprintf("%s  %s", w.ID, w.Name),
			Detail:  fmt.Sprintf("skills %s | slots %s | max load %d", strings.Join(w.Skills, ","), w.AvailableSlots, w.MaxLoadPerPhase),
			Flagged: flagged[i],
		}
	}
	return rows
}

func (m Model) taskRows() []datasheet.Row {
	flagged := m.flaggedRows(models.EntityTasks)
	rows := make([]datasheet.Row, len(m.tasks))
	for i, t := range m.tasks {
		rows[i] = datasheet.Row{
			Heading: fmt.Sprintf("%s  %s", t.ID, t.Name),
			Detail:  fmt.Sprintf("duration %d | skills %s | phases %s | concurrent %d", t.Duration, strings.Join(t.RequiredSkills, ","), t.PreferredPhases, t.MaxConcurrent),
			Flagged: flagged[i],
		}
	}
	return rows
}
