package cli

import (
	"fmt"

	"allocprep/internal/export"
	"allocprep/internal/validation"
)

type ExportCmd struct {
	Out string `short:"o" help:"Output directory." type:"path" default:"./export"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return err
	}
	rules, err := ctx.Store.GetRules()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	priorities, err := ctx.Store.GetPriorities()
	if err != nil {
		return fmt.Errorf("failed to load priorities: %w", err)
	}

	report := validation.New().ValidateAll(clients, workers, tasks)
	if report.HasFindings() {
		fmt.Println(report.FormatReport())
		fmt.Println()
	}

	written, err := export.NewManager(c.Out).Export(&report, clients, workers, tasks, rules, priorities)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d file(s):\n", len(written))
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}
	return nil
}
