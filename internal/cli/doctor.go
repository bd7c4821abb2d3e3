package cli

import (
	"fmt"
	"time"

	"allocprep/internal/export"
	"allocprep/internal/storage"
	"allocprep/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
		defer ctx.Store.Close()
	}

	if storeReachable {
		report, err := checkData(ctx)
		switch {
		case err != nil:
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		case report.ErrorCount() > 0:
			fmt.Printf("⚠ Data validation: %d error(s), %d warning(s)\n", report.ErrorCount(), report.WarningCount())
		default:
			fmt.Printf("✓ Data validation: OK (%d warning(s))\n", report.WarningCount())
		}

		if err := checkExportReady(ctx); err != nil {
			fmt.Printf("⚠ Export readiness: %v\n", err)
		} else {
			fmt.Printf("✓ Export readiness: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
		fmt.Printf("⊘ Export readiness: SKIPPED (storage not reachable)\n")
	}

	if ctx.Advisor.Configured() {
		fmt.Printf("✓ AI advisor: configured\n")
	} else {
		fmt.Printf("⊘ AI advisor: not configured (deterministic fallbacks in use)\n")
	}

	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	// For SQLite, also try a simple query.
	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkData(ctx *Context) (validation.Report, error) {
	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return validation.Report{}, err
	}
	return validation.New().ValidateAll(clients, workers, tasks), nil
}

func checkExportReady(ctx *Context) error {
	clients, workers, tasks, err := loadCollections(ctx)
	if err != nil {
		return err
	}
	report := validation.New().ValidateAll(clients, workers, tasks)
	return export.Gate(&report, clients, workers, tasks)
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
