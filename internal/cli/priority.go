package cli

import (
	"fmt"
	"sort"

	"allocprep/internal/models"
	"allocprep/internal/rules"
)

type PrioritySetCmd struct {
	Key    string  `arg:"" help:"Priority key (priority_level|task_fulfillment|fairness|workload_balance)."`
	Weight float64 `arg:"" help:"Relative weight. Weights are renormalized to sum to 1."`
}

func (c *PrioritySetCmd) Run(ctx *Context) error {
	if c.Weight < 0 {
		return fmt.Errorf("weight must be non-negative")
	}

	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	current, err := ctx.Store.GetPriorities()
	if err != nil {
		return fmt.Errorf("failed to load priorities: %w", err)
	}
	if len(current) == 0 {
		current = rules.DefaultPriorities()
	}

	updated := rules.Normalize(rules.Set(current, c.Key, c.Weight))
	if err := ctx.Store.SavePriorities(updated); err != nil {
		return fmt.Errorf("failed to save priorities: %w", err)
	}

	printPriorities(updated)
	return nil
}

func printPriorities(priorities []models.Priority) {
	for _, p := range priorities {
		fmt.Printf("  %-18s %.3f\n", p.Key, p.Weight)
	}
}

type PriorityListCmd struct{}

func (c *PriorityListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	current, err := ctx.Store.GetPriorities()
	if err != nil {
		return fmt.Errorf("failed to load priorities: %w", err)
	}
	if len(current) == 0 {
		fmt.Println("No priorities saved; defaults apply:")
		current = rules.DefaultPriorities()
	}

	printPriorities(current)
	return nil
}

type PriorityPresetCmd struct {
	Name string `arg:"" optional:"" help:"Preset name. Omit to list available presets."`
	File string `short:"f" help:"Extra preset definitions (YAML), merged over the built-ins." type:"path"`
}

func (c *PriorityPresetCmd) Run(ctx *Context) error {
	available := rules.BuiltinPresets
	if c.File != "" {
		merged, err := rules.LoadPresets(c.File)
		if err != nil {
			return err
		}
		available = merged
	}

	if c.Name == "" {
		names := make([]string, 0, len(available))
		for name := range available {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Available presets:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	preset, found := available[c.Name]
	if !found {
		return fmt.Errorf("unknown preset %q", c.Name)
	}

	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	normalized := rules.Normalize(preset)
	if err := ctx.Store.SavePriorities(normalized); err != nil {
		return fmt.Errorf("failed to save priorities: %w", err)
	}

	fmt.Printf("Applied preset %s:\n", c.Name)
	printPriorities(normalized)
	return nil
}
