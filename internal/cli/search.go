package cli

import (
	"context"
	"fmt"

	"allocprep/internal/advisor"
)

type SearchCmd struct {
	Entity string `arg:"" help:"Collection to search (clients|workers|tasks)."`
	Query  string `arg:"" help:"Natural-language query (or plain substring without an advisor)."`
}

func (c *SearchCmd) Run(ctx *Context) error {
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
	rows := renderRows(entity, clients, workers, tasks)

	var matches []int
	if ctx.Advisor.Configured() {
		matches, err = ctx.Advisor.Search(context.Background(), c.Query, rows)
		if err != nil {
			fmt.Printf("Note: advisor search failed (%v); falling back to substring match\n", err)
			matches = advisor.FallbackSearch(c.Query, rows)
		}
	} else {
		matches = advisor.FallbackSearch(c.Query, rows)
	}

	if len(matches) == 0 {
		fmt.Printf("No %s match %q\n", entity, c.Query)
		return nil
	}
	fmt.Printf("%d match(es):\n", len(matches))
	for _, i := range matches {
		fmt.Printf("  [%d] %s\n", i, rows[i])
	}
	return nil
}
