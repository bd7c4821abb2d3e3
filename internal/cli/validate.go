package cli

import (
	"fmt"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return err
	}

	report := revalidate(clients, workers, tasks)

	// Findings are reported, not fatal. Export is where errors block.
	if report.HasFindings() {
		fmt.Printf("\n%d error(s), %d warning(s)\n", report.ErrorCount(), report.WarningCount())
	}
	return nil
}
