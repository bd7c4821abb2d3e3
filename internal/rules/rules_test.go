package rules

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"allocprep/internal/models"
)

func taskSet() []models.Task {
	return []models.Task{
		{ID: "T1", Name: "Cut"},
		{ID: "T2", Name: "Weld"},
	}
}

func TestNew_AssignsIDAndTimestamp(t *testing.T) {
	r := New(models.RuleCoRun)
	if r.ID == "" {
		t.Error("expected rule ID to be assigned")
	}
	if r.Type != models.RuleCoRun {
		t.Errorf("expected coRun type, got %s", r.Type)
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestValidate_CoRun(t *testing.T) {
	r := New(models.RuleCoRun)
	r.TaskIDs = []string{"T1"}
	if err := Validate(r, taskSet()); err == nil {
		t.Error("expected coRun with one task to be rejected")
	}

	r.TaskIDs = []string{"T1", "T9"}
	if err := Validate(r, taskSet()); err == nil {
		t.Error("expected coRun referencing unknown task to be rejected")
	}

	r.TaskIDs = []string{"T1", "T2"}
	if err := Validate(r, taskSet()); err != nil {
		t.Errorf("expected valid coRun to pass, got %v", err)
	}
}

func TestValidate_PhaseWindow(t *testing.T) {
	r := New(models.RulePhaseWindow)
	r.TaskID = "T1"
	r.AllowedPhases = []int{1, 2}
	if err := Validate(r, taskSet()); err != nil {
		t.Errorf("expected valid phaseWindow to pass, got %v", err)
	}

	r.AllowedPhases = []int{0}
	if err := Validate(r, taskSet()); err == nil {
		t.Error("expected phase 0 to be rejected")
	}
}

func TestValidate_PatternMatch(t *testing.T) {
	r := New(models.RulePatternMatch)
	r.Regex = "["
	r.Template = "flag"
	if err := Validate(r, nil); err == nil {
		t.Error("expected invalid regex to be rejected")
	}

	r.Regex = "^T[0-9]+$"
	if err := Validate(r, nil); err != nil {
		t.Errorf("expected valid pattern rule to pass, got %v", err)
	}
}

func TestValidate_GroupRules(t *testing.T) {
	slot := New(models.RuleSlotRestriction)
	slot.Group = "crew-a"
	slot.MinCommonSlots = 0
	if err := Validate(slot, nil); err == nil {
		t.Error("expected minCommonSlots 0 to be rejected")
	}

	load := New(models.RuleLoadLimit)
	load.MaxSlotsPerPhase = 3
	if err := Validate(load, nil); err == nil {
		t.Error("expected loadLimit without group to be rejected")
	}
	load.Group = "crew-a"
	if err := Validate(load, nil); err != nil {
		t.Errorf("expected valid loadLimit to pass, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	ps := Normalize([]models.Priority{
		{Key: "a", Weight: 1},
		{Key: "b", Weight: 3},
	})

	if math.Abs(ps[0].Weight-0.25) > 1e-9 || math.Abs(ps[1].Weight-0.75) > 1e-9 {
		t.Errorf("unexpected normalized weights: %v", ps)
	}

	even := Normalize([]models.Priority{{Key: "a"}, {Key: "b"}})
	if math.Abs(even[0].Weight-0.5) > 1e-9 {
		t.Errorf("expected even split for zero weights, got %v", even)
	}
}

func TestSet(t *testing.T) {
	ps := DefaultPriorities()
	updated := Set(ps, KeyFairness, 0.9)

	if updated[2].Key != KeyFairness || updated[2].Weight != 0.9 {
		t.Errorf("expected fairness weight updated, got %v", updated)
	}
	if ps[2].Weight == 0.9 {
		t.Error("expected original profile to be unmodified")
	}

	appended := Set(ps, "deadline_pressure", 0.3)
	if len(appended) != len(ps)+1 {
		t.Errorf("expected unknown key to be appended, got %v", appended)
	}
}

func TestLoadPresets_MergesOverBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	content := `presets:
  crunch_mode:
    - {key: priority_level, weight: 2}
    - {key: task_fulfillment, weight: 2}
  fair_distribution:
    - {key: fairness, weight: 1}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write preset file: %v", err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	custom, found := presets["crunch_mode"]
	if !found {
		t.Fatal("expected custom preset to be loaded")
	}
	if math.Abs(custom[0].Weight-0.5) > 1e-9 {
		t.Errorf("expected file presets to be normalized, got %v", custom)
	}

	// File entries win on collision.
	if len(presets["fair_distribution"]) != 1 {
		t.Errorf("expected file preset to replace builtin, got %v", presets["fair_distribution"])
	}
	if _, found := presets["maximize_fulfillment"]; !found {
		t.Error("expected untouched builtins to survive the merge")
	}
}

func TestLoadPresets_MissingFile(t *testing.T) {
	if _, err := LoadPresets(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing preset file")
	}
}
