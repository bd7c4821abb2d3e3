package cli

import (
	"context"
	"fmt"
	"strings"

	"allocprep/internal/models"
	"allocprep/internal/rules"
)

type RuleAddCmd struct {
	Type             string   `arg:"" help:"Rule type (coRun|slotRestriction|loadLimit|phaseWindow|patternMatch|precedence)."`
	Tasks            []string `short:"t" help:"Task IDs for coRun/precedence rules."`
	Group            string   `short:"g" help:"Group tag for slotRestriction/loadLimit rules."`
	MinCommonSlots   int      `help:"Minimum shared slots for slotRestriction rules."`
	MaxSlotsPerPhase int      `help:"Per-phase ceiling for loadLimit rules."`
	Task             string   `help:"Task ID for phaseWindow rules."`
	Phases           []int    `help:"Allowed phases for phaseWindow rules."`
	Regex            string   `help:"Pattern for patternMatch rules."`
	Template         string   `help:"Template name for patternMatch rules."`
	Priority         int      `short:"p" help:"Priority for precedence rules." default:"1"`
	Note             string   `short:"n" help:"Free-form note."`
}

func (c *RuleAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	tasks, err := ctx.Store.GetTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	rule := rules.New(models.RuleType(c.Type))
	rule.TaskIDs = c.Tasks
	rule.Group = c.Group
	rule.MinCommonSlots = c.MinCommonSlots
	rule.MaxSlotsPerPhase = c.MaxSlotsPerPhase
	rule.TaskID = c.Task
	rule.AllowedPhases = c.Phases
	rule.Regex = c.Regex
	rule.Template = c.Template
	rule.Priority = c.Priority
	rule.Note = c.Note

	if err := rules.Validate(rule, tasks); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	if err := ctx.Store.AddRule(rule); err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	fmt.Printf("Added %s rule (ID: %s)\n", rule.Type, rule.ID)
	return nil
}

type RuleListCmd struct{}

func (c *RuleListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	list, err := ctx.Store.GetRules()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No rules defined.")
		return nil
	}

	for _, r := range list {
		fmt.Printf("%s  %-16s %s\n", r.ID, r.Type, describeRule(r))
	}
	return nil
}

func describeRule(r models.Rule) string {
	switch r.Type {
	case models.RuleCoRun:
		return fmt.Sprintf("tasks %s run together", strings.Join(r.TaskIDs, ", "))
	case models.RuleSlotRestriction:
		return fmt.Sprintf("group %s needs %d common slot(s)", r.Group, r.MinCommonSlots)
	case models.RuleLoadLimit:
		return fmt.Sprintf("group %s capped at %d slot(s) per phase", r.Group, r.MaxSlotsPerPhase)
	case models.RulePhaseWindow:
		return fmt.Sprintf("task %s restricted to phases %v", r.TaskID, r.AllowedPhases)
	case models.RulePatternMatch:
		return fmt.Sprintf("pattern %q -> template %s", r.Regex, r.Template)
	case models.RulePrecedence:
		return fmt.Sprintf("tasks %s at priority %d", strings.Join(r.TaskIDs, ", "), r.Priority)
	default:
		return string(r.Type)
	}
}

type RuleRmCmd struct {
	ID string `arg:"" help:"Rule ID to remove."`
}

func (c *RuleRmCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	if err := ctx.Store.DeleteRule(c.ID); err != nil {
		return err
	}
	fmt.Printf("Removed rule %s\n", c.ID)
	return nil
}

type RuleFromTextCmd struct {
	Text string `arg:"" help:"Natural-language rule description."`
}

func (c *RuleFromTextCmd) Run(ctx *Context) error {
	if !ctx.Advisor.Configured() {
		return fmt.Errorf("no AI advisor configured; use 'rule add' with explicit flags")
	}

	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	tasks, err := ctx.Store.GetTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	proposed, err := ctx.Advisor.RuleFromText(context.Background(), c.Text, tasks)
	if err != nil {
		return fmt.Errorf("failed to convert text to a rule: %w", err)
	}

	// The advisor proposal gets the same treatment as a hand-built rule:
	// fresh ID and timestamp, then full validation.
	rule := rules.New(proposed.Type)
	rule.TaskIDs = proposed.TaskIDs
	rule.Group = proposed.Group
	rule.MinCommonSlots = proposed.MinCommonSlots
	rule.MaxSlotsPerPhase = proposed.MaxSlotsPerPhase
	rule.TaskID = proposed.TaskID
	rule.AllowedPhases = proposed.AllowedPhases
	rule.Regex = proposed.Regex
	rule.Template = proposed.Template
	rule.Priority = proposed.Priority
	rule.Note = c.Text

	if err := rules.Validate(rule, tasks); err != nil {
		return fmt.Errorf("advisor proposed an invalid rule: %w", err)
	}
	if err := ctx.Store.AddRule(rule); err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	fmt.Printf("Added %s rule (ID: %s): %s\n", rule.Type, rule.ID, describeRule(rule))
	return nil
}
