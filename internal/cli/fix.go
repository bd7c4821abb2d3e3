package cli

import (
	"context"
	"fmt"

	"allocprep/internal/correction"
	"allocprep/internal/models"
	"allocprep/internal/validation"
)

type FixCmd struct {
	Entity string `arg:"" help:"Collection to correct (clients|workers|tasks)."`
	Row    int    `arg:"" help:"Zero-based row index."`
	Column string `arg:"" help:"Canonical column name."`
	Value  string `arg:"" optional:"" help:"Replacement cell value. Omit with --suggest to pick an AI candidate."`

	Suggest bool `help:"Ask the AI advisor for candidate values instead of supplying one."`
}

func (c *FixCmd) Validate() error {
	if c.Value == "" && !c.Suggest {
		return fmt.Errorf("supply a replacement value or pass --suggest")
	}
	return nil
}

func (c *FixCmd) Run(ctx *Context) error {
	entity, err := parseEntity(c.Entity)
	if err != nil {
		return err
	}

	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return err
	}
	cols := correction.Collections{Clients: clients, Workers: workers, Tasks: tasks}

	before := validation.New().ValidateAll(clients, workers, tasks)

	value := c.Value
	if c.Suggest {
		value, err = c.pickSuggestion(ctx, &before, entity, cols)
		if err != nil {
			return err
		}
	}

	fixed, err := correction.Apply(cols, entity, c.Row, c.Column, value)
	if err != nil {
		return err
	}

	switch entity {
	case models.EntityClients:
		err = ctx.Store.SaveClients(fixed.Clients)
	case models.EntityWorkers:
		err = ctx.Store.SaveWorkers(fixed.Workers)
	case models.EntityTasks:
		err = ctx.Store.SaveTasks(fixed.Tasks)
	}
	if err != nil {
		return fmt.Errorf("failed to save corrected %s: %w", entity, err)
	}

	after := validation.New().ValidateAll(fixed.Clients, fixed.Workers, fixed.Tasks)
	fmt.Printf("Applied %s[%d].%s = %q\n", entity, c.Row, c.Column, value)
	fmt.Printf("Errors: %d -> %d, warnings: %d -> %d\n",
		before.ErrorCount(), after.ErrorCount(), before.WarningCount(), after.WarningCount())
	if after.HasFindings() {
		fmt.Println()
		fmt.Println(after.FormatReport())
	}
	return nil
}

// pickSuggestion asks the advisor for candidates for the finding at the
// targeted cell and keeps the first one that would actually resolve it.
// With no advisor or no usable candidate the suggestion set is empty and
// the command fails rather than guessing.
func (c *FixCmd) pickSuggestion(ctx *Context, report *validation.Report, entity models.Entity, cols correction.Collections) (string, error) {
	var target *validation.Finding
	for i := range report.Findings {
		f := &report.Findings[i]
		if f.Entity == entity && f.Row == c.Row && f.Column == c.Column {
			target = f
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("no finding at %s[%d].%s to suggest a fix for", entity, c.Row, c.Column)
	}
	if !ctx.Advisor.Configured() {
		return "", fmt.Errorf("no AI advisor configured; supply the replacement value directly")
	}

	current := currentCell(cols, target.Entity, c.Row, c.Column)
	candidates, err := ctx.Advisor.SuggestFixes(context.Background(), *target, current)
	if err != nil {
		return "", fmt.Errorf("advisor suggestion failed: %w", err)
	}
	for _, candidate := range candidates {
		if correction.Resolves(*target, candidate) {
			fmt.Printf("Using suggested value %q\n", candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("advisor produced no candidate that resolves the finding")
}
