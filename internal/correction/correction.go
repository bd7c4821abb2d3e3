package correction

import (
	"fmt"
	"strconv"
	"strings"

	"allocprep/internal/constants"
	"allocprep/internal/decode"
	"allocprep/internal/models"
	"allocprep/internal/validation"
)

// Collections bundles the three entity collections a correction may
// target. Apply returns a new Collections value and never mutates the
// input slices; the caller commits the result by persisting it and
// re-running validation.
type Collections struct {
	Clients []models.Client
	Workers []models.Worker
	Tasks   []models.Task
}

// Apply replaces a single cell, addressed by entity, zero-based row, and
// canonical column name, with a new raw value. The value is not checked
// here on purpose: a bad suggestion simply produces a new, still-invalid
// state that the next validation pass reports.
func Apply(cols Collections, entity models.Entity, row int, column, value string) (Collections, error) {
	switch entity {
	case models.EntityClients:
		if row < 0 || row >= len(cols.Clients) {
			return cols, rowOutOfBounds(entity, row, len(cols.Clients))
		}
		updated := make([]models.Client, len(cols.Clients))
		copy(updated, cols.Clients)
		c := updated[row]
		if err := setClientField(&c, column, value); err != nil {
			return cols, err
		}
		updated[row] = c
		cols.Clients = updated

	case models.EntityWorkers:
		if row < 0 || row >= len(cols.Workers) {
			return cols, rowOutOfBounds(entity, row, len(cols.Workers))
		}
		updated := make([]models.Worker, len(cols.Workers))
		copy(updated, cols.Workers)
		w := updated[row]
		if err := setWorkerField(&w, column, value); err != nil {
			return cols, err
		}
		updated[row] = w
		cols.Workers = updated

	case models.EntityTasks:
		if row < 0 || row >= len(cols.Tasks) {
			return cols, rowOutOfBounds(entity, row, len(cols.Tasks))
		}
		updated := make([]models.Task, len(cols.Tasks))
		copy(updated, cols.Tasks)
		t := updated[row]
		if err := setTaskField(&t, column, value); err != nil {
			return cols, err
		}
		updated[row] = t
		cols.Tasks = updated

	default:
		return cols, fmt.Errorf("unknown entity: %s", entity)
	}

	return cols, nil
}

func rowOutOfBounds(entity models.Entity, row, size int) error {
	return fmt.Errorf("row %d is out of bounds for %s (%d rows)", row, entity, size)
}

func setClientField(c *models.Client, column, value string) error {
	switch column {
	case constants.ColClientID:
		c.ID = strings.TrimSpace(value)
	case constants.ColClientName:
		c.Name = strings.TrimSpace(value)
	case constants.ColPriorityLevel:
		c.PriorityLevel = parseIntLoose(value)
	case constants.ColRequestedTaskIDs:
		c.RequestedTaskIDs = decode.SplitList(value)
	case constants.ColGroupTag:
		c.GroupTag = strings.TrimSpace(value)
	case constants.ColAttributesJSON:
		c.AttributesJSON = value
	default:
		return fmt.Errorf("unknown client column: %s", column)
	}
	return nil
}

func setWorkerField(w *models.Worker, column, value string) error {
	switch column {
	case constants.ColWorkerID:
		w.ID = strings.TrimSpace(value)
	case constants.ColWorkerName:
		w.Name = strings.TrimSpace(value)
	case constants.ColSkills:
		w.Skills = decode.SplitList(value)
	case constants.ColAvailableSlots:
		w.AvailableSlots = value
	case constants.ColMaxLoadPerPhase:
		w.MaxLoadPerPhase = parseIntLoose(value)
	case constants.ColWorkerGroup:
		w.WorkerGroup = strings.TrimSpace(value)
	case constants.ColQualificationLevel:
		w.QualificationLevel = parseIntLoose(value)
	default:
		return fmt.Errorf("unknown worker column: %s", column)
	}
	return nil
}

func setTaskField(t *models.Task, column, value string) error {
	switch column {
	case constants.ColTaskID:
		t.ID = strings.TrimSpace(value)
	case constants.ColTaskName:
		t.Name = strings.TrimSpace(value)
	case constants.ColCategory:
		t.Category = strings.TrimSpace(value)
	case constants.ColDuration:
		t.Duration = parseIntLoose(value)
	case constants.ColRequiredSkills:
		t.RequiredSkills = decode.SplitList(value)
	case constants.ColPreferredPhases:
		t.PreferredPhases = value
	case constants.ColMaxConcurrent:
		t.MaxConcurrent = parseIntLoose(value)
	default:
		return fmt.Errorf("unknown task column: %s", column)
	}
	return nil
}

// parseIntLoose mirrors ingest: an unparseable numeric cell becomes
// zero, which the range checks then flag.
func parseIntLoose(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

// Resolves reports whether applying candidate to the cell a finding
// points at would clear that finding. It only decodes the candidate in
// isolation; cross-row effects (a new duplicate, say) still surface on
// the next full validation pass. Suggestion components use this to
// filter candidates before offering them.
func Resolves(f validation.Finding, candidate string) bool {
	switch f.Kind {
	case validation.KindMissingRequired:
		return strings.TrimSpace(candidate) != ""
	case validation.KindMalformedJSON:
		return decode.Object(candidate).Valid
	case validation.KindMalformedList:
		if f.Column == constants.ColPreferredPhases {
			return decode.PhaseList(candidate).OK
		}
		return decode.IntList(candidate, 1).OK
	case validation.KindOutOfRange:
		n, err := strconv.Atoi(strings.TrimSpace(candidate))
		if err != nil {
			return false
		}
		if f.Column == constants.ColPriorityLevel {
			return n >= 1 && n <= 5
		}
		return n >= 1
	default:
		// Duplicate and reference findings depend on the rest of the
		// collection; only a full pass can judge them.
		return false
	}
}
