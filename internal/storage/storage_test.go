package storage

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"allocprep/internal/models"
)

func providers(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	return map[string]Provider{
		"sqlite": NewSQLiteStore(filepath.Join(dir, "session.db")),
		"json":   NewJSONStore(filepath.Join(dir, "session.json")),
	}
}

func TestProvider_CollectionsRoundTripPreservesOrder(t *testing.T) {
	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("init failed: %v", err)
			}
			defer store.Close()

			clients := []models.Client{
				{ID: "C2", Name: "Globex", PriorityLevel: 4, RequestedTaskIDs: []string{"T1", "T2"}, AttributesJSON: `{"vip":true}`},
				{ID: "C1", Name: "Acme", PriorityLevel: 1},
			}
			if err := store.SaveClients(clients); err != nil {
				t.Fatalf("save clients failed: %v", err)
			}

			got, err := store.GetClients()
			if err != nil {
				t.Fatalf("get clients failed: %v", err)
			}
			if !reflect.DeepEqual(got, clients) {
				t.Errorf("clients changed across round trip:\n got %+v\nwant %+v", got, clients)
			}

			workers := []models.Worker{
				{ID: "W1", Name: "Ada", Skills: []string{"welding", "cutting"}, AvailableSlots: "[1,2]", MaxLoadPerPhase: 2, QualificationLevel: 3},
			}
			if err := store.SaveWorkers(workers); err != nil {
				t.Fatalf("save workers failed: %v", err)
			}
			gotWorkers, err := store.GetWorkers()
			if err != nil {
				t.Fatalf("get workers failed: %v", err)
			}
			if !reflect.DeepEqual(gotWorkers, workers) {
				t.Errorf("workers changed across round trip: %+v", gotWorkers)
			}

			tasks := []models.Task{
				{ID: "T1", Name: "Cut", Duration: 2, RequiredSkills: []string{"cutting"}, PreferredPhases: "1-2", MaxConcurrent: 1},
			}
			if err := store.SaveTasks(tasks); err != nil {
				t.Fatalf("save tasks failed: %v", err)
			}
			gotTasks, err := store.GetTasks()
			if err != nil {
				t.Fatalf("get tasks failed: %v", err)
			}
			if !reflect.DeepEqual(gotTasks, tasks) {
				t.Errorf("tasks changed across round trip: %+v", gotTasks)
			}
		})
	}
}

func TestProvider_SaveReplacesWholeCollection(t *testing.T) {
	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("init failed: %v", err)
			}
			defer store.Close()

			first := []models.Task{{ID: "T1", Name: "Cut", Duration: 1, PreferredPhases: "1", MaxConcurrent: 1}}
			second := []models.Task{{ID: "T2", Name: "Weld", Duration: 2, PreferredPhases: "2", MaxConcurrent: 1}}

			if err := store.SaveTasks(first); err != nil {
				t.Fatalf("first save failed: %v", err)
			}
			if err := store.SaveTasks(second); err != nil {
				t.Fatalf("second save failed: %v", err)
			}

			got, err := store.GetTasks()
			if err != nil {
				t.Fatalf("get tasks failed: %v", err)
			}
			if len(got) != 1 || got[0].ID != "T2" {
				t.Errorf("expected second save to replace the collection, got %+v", got)
			}
		})
	}
}

func TestProvider_Rules(t *testing.T) {
	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("init failed: %v", err)
			}
			defer store.Close()

			rule := models.Rule{
				ID:        "r-1",
				Type:      models.RuleCoRun,
				TaskIDs:   []string{"T1", "T2"},
				CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			}
			if err := store.AddRule(rule); err != nil {
				t.Fatalf("add rule failed: %v", err)
			}

			got, err := store.GetRules()
			if err != nil {
				t.Fatalf("get rules failed: %v", err)
			}
			if len(got) != 1 || !reflect.DeepEqual(got[0], rule) {
				t.Errorf("rule changed across round trip: %+v", got)
			}

			if err := store.DeleteRule("r-1"); err != nil {
				t.Fatalf("delete rule failed: %v", err)
			}
			if err := store.DeleteRule("r-1"); err == nil {
				t.Error("expected deleting a missing rule to fail")
			}
		})
	}
}

func TestProvider_Priorities(t *testing.T) {
	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("init failed: %v", err)
			}
			defer store.Close()

			priorities := []models.Priority{
				{Key: "priority_level", Weight: 0.5},
				{Key: "fairness", Weight: 0.5},
			}
			if err := store.SavePriorities(priorities); err != nil {
				t.Fatalf("save priorities failed: %v", err)
			}

			got, err := store.GetPriorities()
			if err != nil {
				t.Fatalf("get priorities failed: %v", err)
			}
			if !reflect.DeepEqual(got, priorities) {
				t.Errorf("priorities changed across round trip: %+v", got)
			}
		})
	}
}

func TestJSONStore_LoadWithoutInit(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected load of uninitialized storage to fail")
	}
}
