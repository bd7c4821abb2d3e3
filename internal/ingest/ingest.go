package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"allocprep/internal/constants"
	"allocprep/internal/decode"
	"allocprep/internal/models"
)

// ReadGrid decodes CSV input into a rectangular-ish grid of strings:
// first row headers, remaining rows data. Ragged rows are tolerated;
// missing cells read as empty during record building.
func ReadGrid(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("input has no header row")
	}
	return grid, nil
}

// Mapping resolves canonical column names to positions in a grid row.
type Mapping struct {
	index map[string]int
}

// MapHeaders maps raw headers onto canonical column names: exact match
// first, then normalized match (case and punctuation insensitive), then
// any caller-supplied overrides (an advisory mapping step may propose
// them). Headers that match nothing are ignored.
func MapHeaders(headers []string, canonical []string, overrides map[string]string) Mapping {
	index := make(map[string]int, len(canonical))

	byExact := make(map[string]int, len(headers))
	byNormalized := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, dup := byExact[h]; !dup {
			byExact[h] = i
		}
		n := normalizeHeader(h)
		if _, dup := byNormalized[n]; !dup {
			byNormalized[n] = i
		}
	}

	for _, col := range canonical {
		if i, found := byExact[col]; found {
			index[col] = i
			continue
		}
		if i, found := byNormalized[normalizeHeader(col)]; found {
			index[col] = i
		}
	}

	for rawHeader, col := range overrides {
		if _, already := index[col]; already {
			continue
		}
		if i, found := byExact[strings.TrimSpace(rawHeader)]; found {
			index[col] = i
		}
	}

	return Mapping{index: index}
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Missing returns the canonical columns the mapping could not place.
func (m Mapping) Missing(canonical []string) []string {
	var missing []string
	for _, col := range canonical {
		if _, found := m.index[col]; !found {
			missing = append(missing, col)
		}
	}
	return missing
}

// Cell returns the mapped cell value for a row, or "" when the column is
// unmapped or the row is too short.
func (m Mapping) Cell(row []string, col string) string {
	i, found := m.index[col]
	if !found || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Clients builds the client collection from a grid. Numeric cells that do
// not parse become zero values, which validation then flags; ingest never
// rejects a row.
func Clients(grid [][]string, overrides map[string]string) []models.Client {
	if len(grid) < 1 {
		return nil
	}
	m := MapHeaders(grid[0], constants.ClientColumns, overrides)

	clients := make([]models.Client, 0, len(grid)-1)
	for _, row := range grid[1:] {
		clients = append(clients, models.Client{
			ID:               m.Cell(row, constants.ColClientID),
			Name:             m.Cell(row, constants.ColClientName),
			PriorityLevel:    parseIntLoose(m.Cell(row, constants.ColPriorityLevel)),
			RequestedTaskIDs: decode.SplitList(m.Cell(row, constants.ColRequestedTaskIDs)),
			GroupTag:         m.Cell(row, constants.ColGroupTag),
			AttributesJSON:   m.Cell(row, constants.ColAttributesJSON),
		})
	}
	return clients
}

// Workers builds the worker collection from a grid.
func Workers(grid [][]string, overrides map[string]string) []models.Worker {
	if len(grid) < 1 {
		return nil
	}
	m := MapHeaders(grid[0], constants.WorkerColumns, overrides)

	workers := make([]models.Worker, 0, len(grid)-1)
	for _, row := range grid[1:] {
		workers = append(workers, models.Worker{
			ID:                 m.Cell(row, constants.ColWorkerID),
			Name:               m.Cell(row, constants.ColWorkerName),
			Skills:             decode.SplitList(m.Cell(row, constants.ColSkills)),
			AvailableSlots:     m.Cell(row, constants.ColAvailableSlots),
			MaxLoadPerPhase:    parseIntLoose(m.Cell(row, constants.ColMaxLoadPerPhase)),
			WorkerGroup:        m.Cell(row, constants.ColWorkerGroup),
			QualificationLevel: parseIntLoose(m.Cell(row, constants.ColQualificationLevel)),
		})
	}
	return workers
}

// Tasks builds the task collection from a grid.
func Tasks(grid [][]string, overrides map[string]string) []models.Task {
	if len(grid) < 1 {
		return nil
	}
	m := MapHeaders(grid[0], constants.TaskColumns, overrides)

	tasks := make([]models.Task, 0, len(grid)-1)
	for _, row := range grid[1:] {
		tasks = append(tasks, models.Task{
			ID:              m.Cell(row, constants.ColTaskID),
			Name:            m.Cell(row, constants.ColTaskName),
			Category:        m.Cell(row, constants.ColCategory),
			Duration:        parseIntLoose(m.Cell(row, constants.ColDuration)),
			RequiredSkills:  decode.SplitList(m.Cell(row, constants.ColRequiredSkills)),
			PreferredPhases: m.Cell(row, constants.ColPreferredPhases),
			MaxConcurrent:   parseIntLoose(m.Cell(row, constants.ColMaxConcurrent)),
		})
	}
	return tasks
}

func parseIntLoose(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
