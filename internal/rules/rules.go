package rules

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"allocprep/internal/models"
)

// New creates a rule of the given type with a fresh ID. The caller fills
// in the type-specific fields and should run Validate before storing it.
func New(ruleType models.RuleType) models.Rule {
	return models.Rule{
		ID:        uuid.New().String(),
		Type:      ruleType,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks a rule's internal consistency and its task references.
// Rules are configuration only, so this is the one place they are
// checked; nothing ever executes them against the collections.
func Validate(r models.Rule, tasks []models.Task) error {
	taskIDs := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taskIDs[t.ID] = true
	}

	switch r.Type {
	case models.RuleCoRun:
		if len(r.TaskIDs) < 2 {
			return fmt.Errorf("coRun rule needs at least 2 tasks, got %d", len(r.TaskIDs))
		}
		for _, id := range r.TaskIDs {
			if !taskIDs[id] {
				return fmt.Errorf("coRun rule references unknown task %q", id)
			}
		}
	case models.RuleSlotRestriction:
		if r.Group == "" {
			return fmt.Errorf("slotRestriction rule needs a group")
		}
		if r.MinCommonSlots < 1 {
			return fmt.Errorf("slotRestriction rule needs minCommonSlots >= 1, got %d", r.MinCommonSlots)
		}
	case models.RuleLoadLimit:
		if r.Group == "" {
			return fmt.Errorf("loadLimit rule needs a group")
		}
		if r.MaxSlotsPerPhase < 1 {
			return fmt.Errorf("loadLimit rule needs maxSlotsPerPhase >= 1, got %d", r.MaxSlotsPerPhase)
		}
	case models.RulePhaseWindow:
		if r.TaskID == "" {
			return fmt.Errorf("phaseWindow rule needs a task")
		}
		if !taskIDs[r.TaskID] {
			return fmt.Errorf("phaseWindow rule references unknown task %q", r.TaskID)
		}
		if len(r.AllowedPhases) == 0 {
			return fmt.Errorf("phaseWindow rule needs at least one allowed phase")
		}
		for _, p := range r.AllowedPhases {
			if p < 1 {
				return fmt.Errorf("phaseWindow rule has invalid phase %d", p)
			}
		}
	case models.RulePatternMatch:
		if _, err := regexp.Compile(r.Regex); err != nil {
			return fmt.Errorf("patternMatch rule has invalid regex: %w", err)
		}
		if r.Template == "" {
			return fmt.Errorf("patternMatch rule needs a template")
		}
	case models.RulePrecedence:
		if len(r.TaskIDs) == 0 {
			return fmt.Errorf("precedence rule needs at least one task")
		}
		for _, id := range r.TaskIDs {
			if !taskIDs[id] {
				return fmt.Errorf("precedence rule references unknown task %q", id)
			}
		}
		if r.Priority < 1 {
			return fmt.Errorf("precedence rule needs priority >= 1, got %d", r.Priority)
		}
	default:
		return fmt.Errorf("unknown rule type: %s", r.Type)
	}

	return nil
}

// Priority keys of the allocation profile.
const (
	KeyPriorityLevel   = "priority_level"
	KeyTaskFulfillment = "task_fulfillment"
	KeyFairness        = "fairness"
	KeyWorkloadBalance = "workload_balance"
)

// DefaultPriorities returns the balanced starting profile.
func DefaultPriorities() []models.Priority {
	return []models.Priority{
		{Key: KeyPriorityLevel, Weight: 0.25},
		{Key: KeyTaskFulfillment, Weight: 0.25},
		{Key: KeyFairness, Weight: 0.25},
		{Key: KeyWorkloadBalance, Weight: 0.25},
	}
}

// BuiltinPresets are the shipped priority profiles, keyed by preset name.
var BuiltinPresets = map[string][]models.Priority{
	"maximize_fulfillment": {
		{Key: KeyPriorityLevel, Weight: 0.2},
		{Key: KeyTaskFulfillment, Weight: 0.6},
		{Key: KeyFairness, Weight: 0.1},
		{Key: KeyWorkloadBalance, Weight: 0.1},
	},
	"fair_distribution": {
		{Key: KeyPriorityLevel, Weight: 0.15},
		{Key: KeyTaskFulfillment, Weight: 0.15},
		{Key: KeyFairness, Weight: 0.55},
		{Key: KeyWorkloadBalance, Weight: 0.15},
	},
	"minimize_workload": {
		{Key: KeyPriorityLevel, Weight: 0.15},
		{Key: KeyTaskFulfillment, Weight: 0.15},
		{Key: KeyFairness, Weight: 0.1},
		{Key: KeyWorkloadBalance, Weight: 0.6},
	},
}

type presetFile struct {
	Presets map[string][]models.Priority `yaml:"presets"`
}

// LoadPresets reads a YAML preset file and merges it over the built-in
// presets; file entries win on name collision.
func LoadPresets(path string) (map[string][]models.Priority, error) {
	merged := make(map[string][]models.Priority, len(BuiltinPresets))
	for name, ps := range BuiltinPresets {
		merged[name] = ps
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}

	for name, ps := range file.Presets {
		if len(ps) == 0 {
			return nil, fmt.Errorf("preset %q has no priorities", name)
		}
		merged[name] = Normalize(ps)
	}

	return merged, nil
}

// Normalize rescales weights so they sum to 1. Non-positive totals are
// replaced with an even split.
func Normalize(priorities []models.Priority) []models.Priority {
	total := 0.0
	for _, p := range priorities {
		if p.Weight > 0 {
			total += p.Weight
		}
	}

	out := make([]models.Priority, len(priorities))
	for i, p := range priorities {
		out[i] = p
		if total <= 0 {
			out[i].Weight = 1.0 / float64(len(priorities))
			continue
		}
		if p.Weight < 0 {
			out[i].Weight = 0
		} else {
			out[i].Weight = p.Weight / total
		}
	}
	return out
}

// Set updates one key's weight in a profile, appending the key if absent.
func Set(priorities []models.Priority, key string, weight float64) []models.Priority {
	out := make([]models.Priority, len(priorities))
	copy(out, priorities)
	for i, p := range out {
		if p.Key == key {
			out[i].Weight = weight
			return out
		}
	}
	return append(out, models.Priority{Key: key, Weight: weight})
}
