package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"allocprep/internal/models"
)

type Store struct {
	Version    int               `json:"version"`
	Clients    []models.Client   `json:"clients"`
	Workers    []models.Worker   `json:"workers"`
	Tasks      []models.Task     `json:"tasks"`
	Rules      []models.Rule     `json:"rules"`
	Priorities []models.Priority `json:"priorities"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{Version: 1}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'allocprep init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) SaveClients(clients []models.Client) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Clients = clients
	return s.save()
}

func (s *JSONStore) GetClients() ([]models.Client, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return s.store.Clients, nil
}

func (s *JSONStore) SaveWorkers(workers []models.Worker) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Workers = workers
	return s.save()
}

func (s *JSONStore) GetWorkers() ([]models.Worker, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return s.store.Workers, nil
}

func (s *JSONStore) SaveTasks(tasks []models.Task) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Tasks = tasks
	return s.save()
}

func (s *JSONStore) GetTasks() ([]models.Task, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return s.store.Tasks, nil
}

func (s *JSONStore) AddRule(rule models.Rule) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Rules = append(s.store.Rules, rule)
	return s.save()
}

func (s *JSONStore) GetRules() ([]models.Rule, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return s.store.Rules, nil
}

func (s *JSONStore) DeleteRule(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	for i, r := range s.store.Rules {
		if r.ID == id {
			s.store.Rules = append(s.store.Rules[:i], s.store.Rules[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("rule not found: %s", id)
}

func (s *JSONStore) SavePriorities(priorities []models.Priority) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Priorities = priorities
	return s.save()
}

func (s *JSONStore) GetPriorities() ([]models.Priority, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return s.store.Priorities, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
