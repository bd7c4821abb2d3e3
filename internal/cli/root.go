package cli

import (
	"fmt"
	"os"
	"strings"

	"allocprep/internal/advisor"
	"allocprep/internal/constants"
	"allocprep/internal/correction"
	"allocprep/internal/ingest"
	"allocprep/internal/models"
	"allocprep/internal/storage"
	"allocprep/internal/validation"
)

// Context carries the shared dependencies into every command.
type Context struct {
	Store   storage.Provider
	Advisor advisor.Capability
}

func parseEntity(s string) (models.Entity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clients", "client":
		return models.EntityClients, nil
	case "workers", "worker":
		return models.EntityWorkers, nil
	case "tasks", "task":
		return models.EntityTasks, nil
	default:
		return "", fmt.Errorf("unknown entity %q (want clients, workers, or tasks)", s)
	}
}

// loadCollections opens the store and reads all three collections.
func loadCollections(ctx *Context) ([]models.Client, []models.Worker, []models.Task, error) {
	clients, err := ctx.Store.GetClients()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}
	workers, err := ctx.Store.GetWorkers()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load workers: %w", err)
	}
	tasks, err := ctx.Store.GetTasks()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return clients, workers, tasks, nil
}

// readGridFile reads a CSV file into a header+rows grid.
func readGridFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ingest.ReadGrid(f)
}

// revalidate runs the full pass and prints the report.
func revalidate(clients []models.Client, workers []models.Worker, tasks []models.Task) validation.Report {
	report := validation.New().ValidateAll(clients, workers, tasks)
	fmt.Println(report.FormatReport())
	return report
}

// currentCell reads the present value of a single cell, rendered the
// way export would write it. Unknown columns and out-of-range rows read
// as empty.
func currentCell(cols correction.Collections, entity models.Entity, row int, column string) string {
	switch entity {
	case models.EntityClients:
		if row < 0 || row >= len(cols.Clients) {
			return ""
		}
		c := cols.Clients[row]
		switch column {
		case constants.ColClientID:
			return c.ID
		case constants.ColClientName:
			return c.Name
		case constants.ColPriorityLevel:
			return fmt.Sprintf("%d", c.PriorityLevel)
		case constants.ColRequestedTaskIDs:
			return strings.Join(c.RequestedTaskIDs, ",")
		case constants.ColGroupTag:
			return c.GroupTag
		case constants.ColAttributesJSON:
			return c.AttributesJSON
		}
	case models.EntityWorkers:
		if row < 0 || row >= len(cols.Workers) {
			return ""
		}
		w := cols.Workers[row]
		switch column {
		case constants.ColWorkerID:
			return w.ID
		case constants.ColWorkerName:
			return w.Name
		case constants.ColSkills:
			return strings.Join(w.Skills, ",")
		case constants.ColAvailableSlots:
			return w.AvailableSlots
		case constants.ColMaxLoadPerPhase:
			return fmt.Sprintf("%d", w.MaxLoadPerPhase)
		case constants.ColWorkerGroup:
			return w.WorkerGroup
		case constants.ColQualificationLevel:
			return fmt.Sprintf("%d", w.QualificationLevel)
		}
	case models.EntityTasks:
		if row < 0 || row >= len(cols.Tasks) {
			return ""
		}
		t := cols.Tasks[row]
		switch column {
		case constants.ColTaskID:
			return t.ID
		case constants.ColTaskName:
			return t.Name
		case constants.ColCategory:
			return t.Category
		case constants.ColDuration:
			return fmt.Sprintf("%d", t.Duration)
		case constants.ColRequiredSkills:
			return strings.Join(t.RequiredSkills, ",")
		case constants.ColPreferredPhases:
			return t.PreferredPhases
		case constants.ColMaxConcurrent:
			return fmt.Sprintf("%d", t.MaxConcurrent)
		}
	}
	return ""
}

// renderRows serializes a collection into one search-friendly string per
// row. The format is stable so substring fallback search stays useful.
func renderRows(entity models.Entity, clients []models.Client, workers []models.Worker, tasks []models.Task) []string {
	var rows []string
	switch entity {
	case models.EntityClients:
		for _, c := range clients {
			rows = append(rows, fmt.Sprintf("%s %s priority=%d requested=%s group=%s",
				c.ID, c.Name, c.PriorityLevel, strings.Join(c.RequestedTaskIDs, ","), c.GroupTag))
		}
	case models.EntityWorkers:
		for _, w := range workers {
			rows = append(rows, fmt.Sprintf("%s %s skills=%s slots=%s maxload=%d group=%s qualification=%d",
				w.ID, w.Name, strings.Join(w.Skills, ","), w.AvailableSlots, w.MaxLoadPerPhase, w.WorkerGroup, w.QualificationLevel))
		}
	case models.EntityTasks:
		for _, t := range tasks {
			rows = append(rows, fmt.Sprintf("%s %s category=%s duration=%d skills=%s phases=%s concurrent=%d",
				t.ID, t.Name, t.Category, t.Duration, strings.Join(t.RequiredSkills, ","), t.PreferredPhases, t.MaxConcurrent))
		}
	}
	return rows
}
