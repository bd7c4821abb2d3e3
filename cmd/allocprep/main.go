package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"allocprep/internal/advisor"
	"allocprep/internal/cli"
	"allocprep/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Session storage path. A .json extension selects JSON storage, anything else SQLite." type:"path" default:"~/.config/allocprep/session.db"`
	APIKey  string `help:"Gemini API key for the optional AI advisor." env:"GEMINI_API_KEY"`
	Model   string `help:"Gemini model for the optional AI advisor." env:"GEMINI_MODEL"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize session storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Load     cli.LoadCmd     `cmd:"" help:"Load CSV files into the session."`
	Validate cli.ValidateCmd `cmd:"" help:"Run the full validation pass."`
	Fix      cli.FixCmd      `cmd:"" help:"Apply a single-cell correction."`
	Search   cli.SearchCmd   `cmd:"" help:"Search a collection."`
	Watch    cli.WatchCmd    `cmd:"" help:"Re-validate whenever watched CSV files change."`
	Export   cli.ExportCmd   `cmd:"" help:"Export cleaned CSVs and rules.json."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health diagnostics."`
	Snapshot struct {
		Create  cli.SnapshotCreateCmd  `cmd:"" help:"Snapshot the session file."`
		List    cli.SnapshotListCmd    `cmd:"" help:"List session snapshots."`
		Restore cli.SnapshotRestoreCmd `cmd:"" help:"Restore a session snapshot."`
	} `cmd:"" help:"Manage session snapshots."`
	Rule struct {
		Add      cli.RuleAddCmd      `cmd:"" help:"Add an allocation rule."`
		List     cli.RuleListCmd     `cmd:"" help:"List allocation rules."`
		Rm       cli.RuleRmCmd       `cmd:"" help:"Remove an allocation rule."`
		FromText cli.RuleFromTextCmd `cmd:"" name:"from-text" help:"Convert a sentence into a rule (needs the AI advisor)."`
	} `cmd:"" help:"Manage allocation rules."`
	Priority struct {
		Set    cli.PrioritySetCmd    `cmd:"" help:"Set one priority weight."`
		List   cli.PriorityListCmd   `cmd:"" help:"Show priority weights."`
		Preset cli.PriorityPresetCmd `cmd:"" help:"Apply or list priority presets."`
	} `cmd:"" help:"Manage priority weights."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("allocprep"),
		kong.Description("Validation and cleanup workbench for resource-allocation spreadsheets"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Determine storage type based on extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Store:   store,
		Advisor: advisor.New(CLI.APIKey, CLI.Model),
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
