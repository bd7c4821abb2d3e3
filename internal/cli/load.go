package cli

import (
	"context"
	"fmt"
	"os"

	"allocprep/internal/constants"
	"allocprep/internal/ingest"
	"allocprep/internal/models"
	"allocprep/internal/snapshot"
)

type LoadCmd struct {
	Clients    string `help:"Path to the clients CSV." type:"path"`
	Workers    string `help:"Path to the workers CSV." type:"path"`
	Tasks      string `help:"Path to the tasks CSV." type:"path"`
	MapHeaders bool   `help:"Ask the AI advisor to place headers that direct matching could not."`
}

func (c *LoadCmd) Validate() error {
	if c.Clients == "" && c.Workers == "" && c.Tasks == "" {
		return fmt.Errorf("nothing to load: pass at least one of --clients, --workers, --tasks")
	}
	return nil
}

func (c *LoadCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	// Loading replaces whole collections, so keep a snapshot to undo a
	// bad import.
	if _, err := os.Stat(ctx.Store.GetConfigPath()); err == nil {
		if path, err := snapshot.NewManager(ctx.Store.GetConfigPath()).Create(); err == nil {
			fmt.Printf("Snapshotted session to %s\n", path)
		}
	}

	if c.Clients != "" {
		grid, err := readGridFile(c.Clients)
		if err != nil {
			return err
		}
		overrides := c.headerOverrides(ctx, models.EntityClients, grid[0], constants.ClientColumns)
		clients := ingest.Clients(grid, overrides)
		if err := ctx.Store.SaveClients(clients); err != nil {
			return fmt.Errorf("failed to save clients: %w", err)
		}
		fmt.Printf("Loaded %d client(s) from %s\n", len(clients), c.Clients)
	}

	if c.Workers != "" {
		grid, err := readGridFile(c.Workers)
		if err != nil {
			return err
		}
		overrides := c.headerOverrides(ctx, models.EntityWorkers, grid[0], constants.WorkerColumns)
		workers := ingest.Workers(grid, overrides)
		if err := ctx.Store.SaveWorkers(workers); err != nil {
			return fmt.Errorf("failed to save workers: %w", err)
		}
		fmt.Printf("Loaded %d worker(s) from %s\n", len(workers), c.Workers)
	}

	if c.Tasks != "" {
		grid, err := readGridFile(c.Tasks)
		if err != nil {
			return err
		}
		overrides := c.headerOverrides(ctx, models.EntityTasks, grid[0], constants.TaskColumns)
		tasks := ingest.Tasks(grid, overrides)
		if err := ctx.Store.SaveTasks(tasks); err != nil {
			return fmt.Errorf("failed to save tasks: %w", err)
		}
		fmt.Printf("Loaded %d task(s) from %s\n", len(tasks), c.Tasks)
	}

	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	revalidate(clients, workers, tasks)
	return nil
}

// headerOverrides asks the advisor for a mapping of the headers that
// exact and normalized matching left unplaced. Advisor failure is
// non-fatal: the unmatched columns just stay empty.
func (c *LoadCmd) headerOverrides(ctx *Context, entity models.Entity, headers []string, canonical []string) map[string]string {
	if !c.MapHeaders {
		return nil
	}

	missing := ingest.MapHeaders(headers, canonical, nil).Missing(canonical)
	if len(missing) == 0 {
		return nil
	}
	if !ctx.Advisor.Configured() {
		fmt.Printf("Note: %d %s column(s) unmatched and no advisor configured: %v\n", len(missing), entity, missing)
		return nil
	}

	overrides, err := ctx.Advisor.MapHeaders(context.Background(), entity, headers, missing)
	if err != nil {
		fmt.Printf("Note: advisor header mapping failed (%v); continuing with direct matches only\n", err)
		return nil
	}
	for raw, col := range overrides {
		fmt.Printf("Mapped header %q -> %s\n", raw, col)
	}
	return overrides
}
