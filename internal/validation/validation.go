package validation

import (
	"fmt"
	"strings"

	"allocprep/internal/constants"
	"allocprep/internal/decode"
	"allocprep/internal/models"
)

// FindingKind classifies a validation finding
type FindingKind string

const (
	KindDuplicateID      FindingKind = "duplicate_id"
	KindMissingRequired  FindingKind = "missing_required"
	KindOutOfRange       FindingKind = "out_of_range"
	KindUnknownReference FindingKind = "unknown_reference"
	KindMalformedJSON    FindingKind = "malformed_json"
	KindMalformedList    FindingKind = "malformed_list"
	KindSkillCoverage    FindingKind = "skill_coverage"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one reported validation problem, addressable by entity, row
// (zero-based position within its collection), and column. The address
// stays valid as long as the collection's row order is unchanged.
type Finding struct {
	Kind     FindingKind
	Message  string
	Entity   models.Entity
	Row      int
	Column   string
	Severity Severity
}

// Report is the ordered result of a full validation pass
type Report struct {
	Findings []Finding
}

// ErrorCount returns the number of findings that gate export.
func (r *Report) ErrorCount() int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of informational findings.
func (r *Report) WarningCount() int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

// ForEntity returns the findings addressed to one collection, in report order.
func (r *Report) ForEntity(entity models.Entity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Entity == entity {
			out = append(out, f)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all findings
func (r *Report) FormatReport() string {
	if !r.HasFindings() {
		return "No problems detected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s), %d warning(s):\n", r.ErrorCount(), r.WarningCount())
	for _, f := range r.Findings {
		marker := "✗"
		if f.Severity == SeverityWarning {
			marker = "⚠"
		}
		fmt.Fprintf(&b, "%s [%s row %d, %s] %s\n", marker, f.Entity, f.Row, f.Column, f.Message)
	}
	return b.String()
}

// Validator runs per-collection and cross-collection checks
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateAll runs every validator and concatenates the findings in a
// fixed order: clients, workers, tasks, then cross-reference checks.
// Consumers rely on that order to group output, so it is a contract.
// The pass is pure: identical collections always yield an identical report.
func (v *Validator) ValidateAll(clients []models.Client, workers []models.Worker, tasks []models.Task) Report {
	findings := v.ValidateClients(clients, tasks)
	findings = append(findings, v.ValidateWorkers(workers)...)
	findings = append(findings, v.ValidateTasks(tasks)...)
	findings = append(findings, v.ValidateCrossReferences(workers, tasks)...)
	return Report{Findings: findings}
}

// ValidateClients checks the client collection. The task collection is
// needed to resolve requested-task references.
func (v *Validator) ValidateClients(clients []models.Client, tasks []models.Task) []Finding {
	var findings []Finding

	taskIDs := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taskIDs[t.ID] = true
	}

	seen := make(map[string]bool)
	for row, c := range clients {
		// Duplicate check runs before the required-field check on purpose:
		// two empty IDs are both missing and colliding, and both findings
		// are reported.
		if seen[c.ID] {
			findings = append(findings, Finding{
				Kind:     KindDuplicateID,
				Message:  fmt.Sprintf("duplicate ClientID %q", c.ID),
				Entity:   models.EntityClients,
				Row:      row,
				Column:   constants.ColClientID,
				Severity: SeverityError,
			})
		}
		seen[c.ID] = true

		if c.ID == "" {
			findings = append(findings, missingRequired(models.EntityClients, row, constants.ColClientID))
		}
		if c.Name == "" {
			findings = append(findings, missingRequired(models.EntityClients, row, constants.ColClientName))
		}

		if c.PriorityLevel < 1 || c.PriorityLevel > 5 {
			findings = append(findings, Finding{
				Kind:     KindOutOfRange,
				Message:  fmt.Sprintf("PriorityLevel %d is outside 1-5", c.PriorityLevel),
				Entity:   models.EntityClients,
				Row:      row,
				Column:   constants.ColPriorityLevel,
				Severity: SeverityError,
			})
		}

		for _, reqID := range c.RequestedTaskIDs {
			if !taskIDs[reqID] {
				findings = append(findings, Finding{
					Kind:     KindUnknownReference,
					Message:  fmt.Sprintf("requested task %q does not exist", reqID),
					Entity:   models.EntityClients,
					Row:      row,
					Column:   constants.ColRequestedTaskIDs,
					Severity: SeverityError,
				})
			}
		}

		if !decode.Object(c.AttributesJSON).Valid {
			findings = append(findings, Finding{
				Kind:     KindMalformedJSON,
				Message:  fmt.Sprintf("AttributesJSON is not valid JSON: %q", c.AttributesJSON),
				Entity:   models.EntityClients,
				Row:      row,
				Column:   constants.ColAttributesJSON,
				Severity: SeverityError,
			})
		}
	}

	return findings
}

// ValidateWorkers checks the worker collection.
func (v *Validator) ValidateWorkers(workers []models.Worker) []Finding {
	var findings []Finding

	seen := make(map[string]bool)
	for row, w := range workers {
		if seen[w.ID] {
			findings = append(findings, Finding{
				Kind:     KindDuplicateID,
				Message:  fmt.Sprintf("duplicate WorkerID %q", w.ID),
				Entity:   models.EntityWorkers,
				Row:      row,
				Column:   constants.ColWorkerID,
				Severity: SeverityError,
			})
		}
		seen[w.ID] = true

		if w.ID == "" {
			findings = append(findings, missingRequired(models.EntityWorkers, row, constants.ColWorkerID))
		}
		if w.Name == "" {
			findings = append(findings, missingRequired(models.EntityWorkers, row, constants.ColWorkerName))
		}

		if w.MaxLoadPerPhase < 1 {
			findings = append(findings, Finding{
				Kind:     KindOutOfRange,
				Message:  fmt.Sprintf("MaxLoadPerPhase %d must be at least 1", w.MaxLoadPerPhase),
				Entity:   models.EntityWorkers,
				Row:      row,
				Column:   constants.ColMaxLoadPerPhase,
				Severity: SeverityError,
			})
		}

		if result := decode.IntList(w.AvailableSlots, 1); !result.OK {
			findings = append(findings, Finding{
				Kind:     KindMalformedList,
				Message:  fmt.Sprintf("AvailableSlots %q: %s", w.AvailableSlots, result.Reason),
				Entity:   models.EntityWorkers,
				Row:      row,
				Column:   constants.ColAvailableSlots,
				Severity: SeverityError,
			})
		}
	}

	return findings
}

// ValidateTasks checks the task collection.
func (v *Validator) ValidateTasks(tasks []models.Task) []Finding {
	var findings []Finding

	seen := make(map[string]bool)
	for row, t := range tasks {
		if seen[t.ID] {
			findings = append(findings, Finding{
				Kind:     KindDuplicateID,
				Message:  fmt.Sprintf("duplicate TaskID %q", t.ID),
				Entity:   models.EntityTasks,
				Row:      row,
				Column:   constants.ColTaskID,
				Severity: SeverityError,
			})
		}
		seen[t.ID] = true

		if t.ID == "" {
			findings = append(findings, missingRequired(models.EntityTasks, row, constants.ColTaskID))
		}
		if t.Name == "" {
			findings = append(findings, missingRequired(models.EntityTasks, row, constants.ColTaskName))
		}

		if t.Duration < 1 {
			findings = append(findings, Finding{
				Kind:     KindOutOfRange,
				Message:  fmt.Sprintf("Duration %d must be at least 1", t.Duration),
				Entity:   models.EntityTasks,
				Row:      row,
				Column:   constants.ColDuration,
				Severity: SeverityError,
			})
		}
		if t.MaxConcurrent < 1 {
			findings = append(findings, Finding{
				Kind:     KindOutOfRange,
				Message:  fmt.Sprintf("MaxConcurrent %d must be at least 1", t.MaxConcurrent),
				Entity:   models.EntityTasks,
				Row:      row,
				Column:   constants.ColMaxConcurrent,
				Severity: SeverityError,
			})
		}

		if result := decode.PhaseList(t.PreferredPhases); !result.OK {
			findings = append(findings, Finding{
				Kind:     KindMalformedList,
				Message:  fmt.Sprintf("PreferredPhases %q: %s", t.PreferredPhases, result.Reason),
				Entity:   models.EntityTasks,
				Row:      row,
				Column:   constants.ColPreferredPhases,
				Severity: SeverityError,
			})
		}
	}

	return findings
}

// ValidateCrossReferences checks that every skill required by a task is
// offered by at least one worker. Matching is case-insensitive and
// trimmed but deliberately does not collapse near-synonyms ("JS" and
// "JavaScript" stay distinct). A gap is a staffing warning, not a data
// defect, so it never blocks export.
func (v *Validator) ValidateCrossReferences(workers []models.Worker, tasks []models.Task) []Finding {
	offered := make(map[string]bool)
	for _, w := range workers {
		for _, skill := range w.Skills {
			offered[normalizeSkill(skill)] = true
		}
	}

	var findings []Finding
	for row, t := range tasks {
		for _, skill := range t.RequiredSkills {
			if !offered[normalizeSkill(skill)] {
				findings = append(findings, Finding{
					Kind:     KindSkillCoverage,
					Message:  fmt.Sprintf("no worker offers required skill %q", skill),
					Entity:   models.EntityTasks,
					Row:      row,
					Column:   constants.ColRequiredSkills,
					Severity: SeverityWarning,
				})
			}
		}
	}

	return findings
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func missingRequired(entity models.Entity, row int, column string) Finding {
	return Finding{
		Kind:     KindMissingRequired,
		Message:  fmt.Sprintf("%s is required", column),
		Entity:   entity,
		Row:      row,
		Column:   column,
		Severity: SeverityError,
	}
}
