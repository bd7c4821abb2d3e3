package validation

import (
	"reflect"
	"testing"

	"allocprep/internal/models"
)

func countKind(findings []Finding, kind FindingKind) int {
	count := 0
	for _, f := range findings {
		if f.Kind == kind {
			count++
		}
	}
	return count
}

func validClient(id string) models.Client {
	return models.Client{ID: id, Name: "Client " + id, PriorityLevel: 3}
}

func validWorker(id string) models.Worker {
	return models.Worker{
		ID:              id,
		Name:            "Worker " + id,
		Skills:          []string{"welding"},
		AvailableSlots:  "[1,2]",
		MaxLoadPerPhase: 2,
	}
}

func validTask(id string) models.Task {
	return models.Task{
		ID:              id,
		Name:            "Task " + id,
		Duration:        1,
		RequiredSkills:  []string{"welding"},
		PreferredPhases: "1-2",
		MaxConcurrent:   1,
	}
}

func TestValidateClients_DuplicateIDsFlaggedPerRepeat(t *testing.T) {
	validator := New()

	// Three rows sharing one ID produce exactly two duplicate findings:
	// the first occurrence is never flagged.
	clients := []models.Client{validClient("C1"), validClient("C1"), validClient("C1")}
	findings := validator.ValidateClients(clients, nil)

	if got := countKind(findings, KindDuplicateID); got != 2 {
		t.Errorf("expected 2 duplicate_id findings for an ID appearing 3 times, got %d", got)
	}
}

func TestValidateClients_EmptyIDDoubleFlagged(t *testing.T) {
	validator := New()

	// An empty ID is both missing and, on repetition, a duplicate; both
	// findings are kept.
	clients := []models.Client{validClient(""), validClient("")}
	findings := validator.ValidateClients(clients, nil)

	if got := countKind(findings, KindMissingRequired); got != 2 {
		t.Errorf("expected 2 missing_required findings, got %d", got)
	}
	if got := countKind(findings, KindDuplicateID); got != 1 {
		t.Errorf("expected 1 duplicate_id finding for the second empty ID, got %d", got)
	}
}

func TestValidateClients_PriorityRange(t *testing.T) {
	validator := New()

	clients := []models.Client{validClient("C1"), validClient("C2"), validClient("C3")}
	clients[1].PriorityLevel = 0
	clients[2].PriorityLevel = 6
	findings := validator.ValidateClients(clients, nil)

	if got := countKind(findings, KindOutOfRange); got != 2 {
		t.Errorf("expected 2 out_of_range findings, got %d", got)
	}
	for _, f := range findings {
		if f.Kind == KindOutOfRange && f.Column != "PriorityLevel" {
			t.Errorf("expected out_of_range findings on PriorityLevel, got column %q", f.Column)
		}
	}
}

func TestValidateClients_UnknownTaskReference(t *testing.T) {
	validator := New()

	tasks := []models.Task{validTask("T1")}
	client := validClient("C1")
	client.RequestedTaskIDs = []string{"T1", "T999"}
	findings := validator.ValidateClients([]models.Client{client}, tasks)

	if got := countKind(findings, KindUnknownReference); got != 1 {
		t.Fatalf("expected 1 unknown_reference finding, got %d", got)
	}

	// Removing the dangling reference clears exactly that finding.
	client.RequestedTaskIDs = []string{"T1"}
	findings = validator.ValidateClients([]models.Client{client}, tasks)
	if got := countKind(findings, KindUnknownReference); got != 0 {
		t.Errorf("expected unknown_reference finding to clear, got %d", got)
	}
	if len(findings) != 0 {
		t.Errorf("expected no other findings to change, got %v", findings)
	}
}

func TestValidateClients_MalformedAttributes(t *testing.T) {
	validator := New()

	good := validClient("C1")
	good.AttributesJSON = `{"vip": true}`
	bad := validClient("C2")
	bad.AttributesJSON = "{not json"
	findings := validator.ValidateClients([]models.Client{good, bad}, nil)

	if got := countKind(findings, KindMalformedJSON); got != 1 {
		t.Fatalf("expected 1 malformed_json finding, got %d", got)
	}
	f := findings[0]
	if f.Row != 1 || f.Column != "AttributesJSON" {
		t.Errorf("expected finding at row 1 column AttributesJSON, got row %d column %q", f.Row, f.Column)
	}
}

func TestValidateWorkers_SlotDecodeFailures(t *testing.T) {
	validator := New()

	workers := []models.Worker{validWorker("W1"), validWorker("W2"), validWorker("W3"), validWorker("W4")}
	workers[0].AvailableSlots = "[1,2,3]"
	workers[1].AvailableSlots = "1, 2, 3"
	workers[2].AvailableSlots = "[1,-2]"
	workers[3].AvailableSlots = "1,-2"
	findings := validator.ValidateWorkers(workers)

	if got := countKind(findings, KindMalformedList); got != 2 {
		t.Errorf("expected 2 malformed_list findings, got %d", got)
	}
	for _, f := range findings {
		if f.Kind == KindMalformedList && f.Row < 2 {
			t.Errorf("expected malformed_list only on rows 2 and 3, got row %d", f.Row)
		}
	}
}

func TestValidateTasks_PhaseDecodeAndRanges(t *testing.T) {
	validator := New()

	tasks := []models.Task{validTask("T1"), validTask("T2"), validTask("T3"), validTask("T4")}
	tasks[0].PreferredPhases = "1-3"
	tasks[1].PreferredPhases = "3-1"
	tasks[2].PreferredPhases = "[1,2,3]"
	tasks[3].PreferredPhases = "1,2,x"
	tasks[3].Duration = 0
	findings := validator.ValidateTasks(tasks)

	if got := countKind(findings, KindMalformedList); got != 2 {
		t.Errorf("expected 2 malformed_list findings, got %d", got)
	}
	if got := countKind(findings, KindOutOfRange); got != 1 {
		t.Errorf("expected 1 out_of_range finding for zero duration, got %d", got)
	}
}

func TestValidateCrossReferences_SkillCoverage(t *testing.T) {
	validator := New()

	task := validTask("T1")
	task.RequiredSkills = []string{"Rust"}
	workers := []models.Worker{validWorker("W1")} // offers welding only

	findings := validator.ValidateCrossReferences(workers, []models.Task{task})
	if len(findings) != 1 {
		t.Fatalf("expected exactly 1 skill_coverage warning, got %d", len(findings))
	}
	if findings[0].Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %s", findings[0].Severity)
	}
	if findings[0].Column != "RequiredSkills" {
		t.Errorf("expected finding on RequiredSkills, got %q", findings[0].Column)
	}

	// Coverage matching is case-insensitive: a worker offering "RUST"
	// satisfies a requirement for "Rust".
	rustacean := validWorker("W2")
	rustacean.Skills = []string{"RUST"}
	findings = validator.ValidateCrossReferences(append(workers, rustacean), []models.Task{task})
	if len(findings) != 0 {
		t.Errorf("expected warning to clear after adding worker with skill RUST, got %v", findings)
	}
}

func TestValidateAll_OrderAndDeterminism(t *testing.T) {
	validator := New()

	clients := []models.Client{validClient("")}
	workers := []models.Worker{validWorker("W1")}
	workers[0].AvailableSlots = "bad"
	tasks := []models.Task{validTask("T1")}
	tasks[0].RequiredSkills = []string{"surgery"}

	report := validator.ValidateAll(clients, workers, tasks)

	// Fixed concatenation order: clients, workers, tasks, cross-reference.
	var entities []models.Entity
	for _, f := range report.Findings {
		entities = append(entities, f.Entity)
	}
	want := []models.Entity{models.EntityClients, models.EntityWorkers, models.EntityTasks}
	if !reflect.DeepEqual(entities, want) {
		t.Errorf("expected finding order %v, got %v", want, entities)
	}
	if report.Findings[2].Kind != KindSkillCoverage {
		t.Errorf("expected cross-reference findings last, got %s", report.Findings[2].Kind)
	}

	again := validator.ValidateAll(clients, workers, tasks)
	if !reflect.DeepEqual(report, again) {
		t.Error("expected ValidateAll to be deterministic for identical input")
	}
}

func TestValidateAll_EmptyCollectionsYieldNoFindings(t *testing.T) {
	validator := New()

	report := validator.ValidateAll(nil, nil, nil)
	if report.HasFindings() {
		t.Errorf("expected empty collections to validate clean, got %v", report.Findings)
	}
}

func TestReport_Counts(t *testing.T) {
	report := Report{Findings: []Finding{
		{Kind: KindDuplicateID, Severity: SeverityError},
		{Kind: KindMalformedList, Severity: SeverityError},
		{Kind: KindSkillCoverage, Severity: SeverityWarning},
	}}

	if report.ErrorCount() != 2 {
		t.Errorf("expected 2 errors, got %d", report.ErrorCount())
	}
	if report.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", report.WarningCount())
	}
}
