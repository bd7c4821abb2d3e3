package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"allocprep/internal/ingest"
	"allocprep/internal/watch"
)

type WatchCmd struct {
	Clients  string        `help:"Clients CSV to watch." type:"path"`
	Workers  string        `help:"Workers CSV to watch." type:"path"`
	Tasks    string        `help:"Tasks CSV to watch." type:"path"`
	Debounce time.Duration `help:"Settle window before re-validating." default:"500ms"`
}

func (c *WatchCmd) Validate() error {
	if c.Clients == "" && c.Workers == "" && c.Tasks == "" {
		return fmt.Errorf("nothing to watch: pass at least one of --clients, --workers, --tasks")
	}
	return nil
}

func (c *WatchCmd) Run(ctx *Context) error {
	if err := ensureSingleInstance(); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	var paths []string
	for _, p := range []string{c.Clients, c.Workers, c.Tasks} {
		if p != "" {
			paths = append(paths, p)
		}
	}

	reload := func(path string) {
		fmt.Printf("\n%s changed, reloading\n", path)
		if err := c.reloadFile(ctx, path); err != nil {
			fmt.Printf("reload failed: %v\n", err)
			return
		}
		clients, workers, tasks, err := loadCollections(ctx)
		if err != nil {
			fmt.Printf("reload failed: %v\n", err)
			return
		}
		revalidate(clients, workers, tasks)
	}

	w, err := watch.New(paths, c.Debounce, reload)
	if err != nil {
		return err
	}
	w.Start(context.Background())
	defer w.Stop()

	// Initial pass before waiting on events.
	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return err
	}
	revalidate(clients, workers, tasks)
	fmt.Printf("\nWatching %d file(s); press Ctrl+C to stop\n", len(paths))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("\nStopped watching.")
	return nil
}

func (c *WatchCmd) reloadFile(ctx *Context, path string) error {
	grid, err := readGridFile(path)
	if err != nil {
		return err
	}
	switch path {
	case c.Clients:
		return ctx.Store.SaveClients(ingest.Clients(grid, nil))
	case c.Workers:
		return ctx.Store.SaveWorkers(ingest.Workers(grid, nil))
	case c.Tasks:
		return ctx.Store.SaveTasks(ingest.Tasks(grid, nil))
	}
	return fmt.Errorf("unexpected path %s", path)
}
