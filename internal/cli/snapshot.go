package cli

import (
	"fmt"
	"path/filepath"

	"allocprep/internal/snapshot"
)

type SnapshotCreateCmd struct{}

func (c *SnapshotCreateCmd) Run(ctx *Context) error {
	path, err := snapshot.NewManager(ctx.Store.GetConfigPath()).Create()
	if err != nil {
		return err
	}
	fmt.Printf("Created snapshot: %s\n", path)
	return nil
}

type SnapshotListCmd struct{}

func (c *SnapshotListCmd) Run(ctx *Context) error {
	list, err := snapshot.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No snapshots found.")
		return nil
	}
	for _, s := range list {
		fmt.Printf("%s  %s  %d bytes\n", s.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(s.Path), s.Size)
	}
	return nil
}

type SnapshotRestoreCmd struct {
	Path string `arg:"" help:"Snapshot file to restore." type:"path"`
}

func (c *SnapshotRestoreCmd) Run(ctx *Context) error {
	if err := snapshot.NewManager(ctx.Store.GetConfigPath()).Restore(c.Path); err != nil {
		return err
	}
	fmt.Printf("Restored session from %s\n", c.Path)
	return nil
}
