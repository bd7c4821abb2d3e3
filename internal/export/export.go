package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"allocprep/internal/constants"
	"allocprep/internal/models"
	"allocprep/internal/validation"
)

const (
	ClientsFileName = "clients.csv"
	WorkersFileName = "workers.csv"
	TasksFileName   = "tasks.csv"
	RulesFileName   = "rules.json"
)

// Gate is the export precondition: no severity-error findings and no
// empty collection. Warnings (skill coverage) never block.
func Gate(report *validation.Report, clients []models.Client, workers []models.Worker, tasks []models.Task) error {
	if n := report.ErrorCount(); n > 0 {
		return fmt.Errorf("cannot export: %d validation error(s) outstanding", n)
	}
	if len(clients) == 0 {
		return fmt.Errorf("cannot export: client collection is empty")
	}
	if len(workers) == 0 {
		return fmt.Errorf("cannot export: worker collection is empty")
	}
	if len(tasks) == 0 {
		return fmt.Errorf("cannot export: task collection is empty")
	}
	return nil
}

// Manager writes the cleaned collections and the rule configuration to
// an output directory.
type Manager struct {
	outDir string
}

// NewManager creates a new export manager
func NewManager(outDir string) *Manager {
	return &Manager{outDir: outDir}
}

// Export checks the gate and writes clients.csv, workers.csv, tasks.csv,
// and rules.json. It returns the paths written.
func (m *Manager) Export(report *validation.Report, clients []models.Client, workers []models.Worker, tasks []models.Task, rules []models.Rule, priorities []models.Priority) ([]string, error) {
	if err := Gate(report, clients, workers, tasks); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(m.outDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var written []string

	path := filepath.Join(m.outDir, ClientsFileName)
	if err := writeCSV(path, constants.ClientColumns, clientRows(clients)); err != nil {
		return nil, fmt.Errorf("failed to write clients: %w", err)
	}
	written = append(written, path)

	path = filepath.Join(m.outDir, WorkersFileName)
	if err := writeCSV(path, constants.WorkerColumns, workerRows(workers)); err != nil {
		return nil, fmt.Errorf("failed to write workers: %w", err)
	}
	written = append(written, path)

	path = filepath.Join(m.outDir, TasksFileName)
	if err := writeCSV(path, constants.TaskColumns, taskRows(tasks)); err != nil {
		return nil, fmt.Errorf("failed to write tasks: %w", err)
	}
	written = append(written, path)

	path = filepath.Join(m.outDir, RulesFileName)
	if err := writeRules(path, rules, priorities); err != nil {
		return nil, fmt.Errorf("failed to write rules: %w", err)
	}
	written = append(written, path)

	return written, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func writeRules(path string, rules []models.Rule, priorities []models.Priority) error {
	config := models.ExportConfig{
		Rules:      rules,
		Priorities: priorities,
		ExportedAt: time.Now().UTC(),
	}
	if config.Rules == nil {
		config.Rules = []models.Rule{}
	}
	if config.Priorities == nil {
		config.Priorities = []models.Priority{}
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func clientRows(clients []models.Client) [][]string {
	rows := make([][]string, len(clients))
	for i, c := range clients {
		rows[i] = []string{
			c.ID,
			c.Name,
			strconv.Itoa(c.PriorityLevel),
			strings.Join(c.RequestedTaskIDs, ","),
			c.GroupTag,
			c.AttributesJSON,
		}
	}
	return rows
}

func workerRows(workers []models.Worker) [][]string {
	rows := make([][]string, len(workers))
	for i, w := range workers {
		rows[i] = []string{
			w.ID,
			w.Name,
			strings.Join(w.Skills, ","),
			w.AvailableSlots,
			strconv.Itoa(w.MaxLoadPerPhase),
			w.WorkerGroup,
			strconv.Itoa(w.QualificationLevel),
		}
	}
	return rows
}

func taskRows(tasks []models.Task) [][]string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			t.ID,
			t.Name,
			t.Category,
			strconv.Itoa(t.Duration),
			strings.Join(t.RequiredSkills, ","),
			t.PreferredPhases,
			strconv.Itoa(t.MaxConcurrent),
		}
	}
	return rows
}
