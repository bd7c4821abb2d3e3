package correction

import (
	"reflect"
	"testing"

	"allocprep/internal/models"
	"allocprep/internal/validation"
)

func sampleCollections() Collections {
	return Collections{
		Clients: []models.Client{
			{ID: "C1", Name: "Acme", PriorityLevel: 3},
		},
		Workers: []models.Worker{
			{ID: "W1", Name: "Ada", Skills: []string{"welding"}, AvailableSlots: "[1,2]", MaxLoadPerPhase: 2},
		},
		Tasks: []models.Task{
			{ID: "T1", Name: "Cut", Duration: 2, PreferredPhases: "1-2", MaxConcurrent: 1},
			{ID: "T2", Name: "Weld", Duration: 3, PreferredPhases: "1-2", MaxConcurrent: 1},
			{ID: "T3", Name: "Paint", Duration: 1, PreferredPhases: "1-2", MaxConcurrent: 1},
		},
	}
}

func TestApply_ReplacesExactlyOneCell(t *testing.T) {
	cols := sampleCollections()

	updated, err := Apply(cols, models.EntityTasks, 2, "Duration", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Tasks[2].Duration != 5 {
		t.Errorf("expected row 2 Duration to become 5, got %d", updated.Tasks[2].Duration)
	}

	// Every other cell is untouched.
	want := sampleCollections()
	want.Tasks[2].Duration = 5
	if !reflect.DeepEqual(updated.Tasks, want.Tasks) {
		t.Errorf("unexpected task collection after apply: %v", updated.Tasks)
	}
	if !reflect.DeepEqual(updated.Clients, want.Clients) || !reflect.DeepEqual(updated.Workers, want.Workers) {
		t.Error("expected other collections to be unchanged")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	cols := sampleCollections()
	before := sampleCollections()

	if _, err := Apply(cols, models.EntityTasks, 0, "TaskName", "Trim"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cols, before) {
		t.Error("expected input collections to be left unmodified")
	}
}

func TestApply_ListCellSplit(t *testing.T) {
	cols := sampleCollections()

	updated, err := Apply(cols, models.EntityClients, 0, "RequestedTaskIDs", "T1, T2 ,T3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(updated.Clients[0].RequestedTaskIDs, []string{"T1", "T2", "T3"}) {
		t.Errorf("expected split task IDs, got %v", updated.Clients[0].RequestedTaskIDs)
	}
}

func TestApply_RawCellKeptVerbatim(t *testing.T) {
	cols := sampleCollections()

	// A still-broken value is accepted at apply time; the next validation
	// pass re-surfaces the finding.
	updated, err := Apply(cols, models.EntityWorkers, 0, "AvailableSlots", "[1,-2]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Workers[0].AvailableSlots != "[1,-2]" {
		t.Errorf("expected raw slots to be stored verbatim, got %q", updated.Workers[0].AvailableSlots)
	}

	report := validation.New().ValidateAll(updated.Clients, updated.Workers, updated.Tasks)
	if report.ErrorCount() == 0 {
		t.Error("expected the bad value to be caught on re-validation")
	}
}

func TestApply_RowOutOfBounds(t *testing.T) {
	cols := sampleCollections()

	if _, err := Apply(cols, models.EntityWorkers, 5, "WorkerName", "Bo"); err == nil {
		t.Error("expected out-of-bounds row to be rejected")
	}
	if _, err := Apply(cols, models.EntityClients, -1, "ClientName", "Bo"); err == nil {
		t.Error("expected negative row to be rejected")
	}
}

func TestApply_UnknownColumn(t *testing.T) {
	cols := sampleCollections()

	if _, err := Apply(cols, models.EntityTasks, 0, "NoSuchColumn", "x"); err == nil {
		t.Error("expected unknown column to be rejected")
	}
}

func TestResolves(t *testing.T) {
	cases := []struct {
		name      string
		finding   validation.Finding
		candidate string
		want      bool
	}{
		{
			name:      "phase list fixed",
			finding:   validation.Finding{Kind: validation.KindMalformedList, Column: "PreferredPhases"},
			candidate: "1-3",
			want:      true,
		},
		{
			name:      "phase list still broken",
			finding:   validation.Finding{Kind: validation.KindMalformedList, Column: "PreferredPhases"},
			candidate: "3-1",
			want:      false,
		},
		{
			name:      "slots fixed",
			finding:   validation.Finding{Kind: validation.KindMalformedList, Column: "AvailableSlots"},
			candidate: "1, 2, 3",
			want:      true,
		},
		{
			name:      "priority in range",
			finding:   validation.Finding{Kind: validation.KindOutOfRange, Column: "PriorityLevel"},
			candidate: "5",
			want:      true,
		},
		{
			name:      "priority still out of range",
			finding:   validation.Finding{Kind: validation.KindOutOfRange, Column: "PriorityLevel"},
			candidate: "9",
			want:      false,
		},
		{
			name:      "json fixed",
			finding:   validation.Finding{Kind: validation.KindMalformedJSON, Column: "AttributesJSON"},
			candidate: `{"a":1}`,
			want:      true,
		},
		{
			name:      "missing filled",
			finding:   validation.Finding{Kind: validation.KindMissingRequired, Column: "ClientID"},
			candidate: "C9",
			want:      true,
		},
		{
			name:      "duplicate needs full pass",
			finding:   validation.Finding{Kind: validation.KindDuplicateID, Column: "ClientID"},
			candidate: "C9",
			want:      false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Resolves(c.finding, c.candidate); got != c.want {
				t.Errorf("Resolves(%s, %q) = %v, want %v", c.finding.Kind, c.candidate, got, c.want)
			}
		})
	}
}
