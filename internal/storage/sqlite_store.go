package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"allocprep/internal/models"
)

// schemaVersion is bumped whenever the table layout changes; Load
// refuses databases written by a newer build.
const schemaVersion = 1

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'allocprep init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", version, schemaVersion)
	}
	if version < schemaVersion {
		// Forward-create any tables a fresh schema would have.
		if err := s.createSchema(); err != nil {
			return fmt.Errorf("failed to upgrade schema: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		row_pos INTEGER PRIMARY KEY,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL,
		priority_level INTEGER NOT NULL,
		requested_task_ids TEXT NOT NULL,
		group_tag TEXT NOT NULL,
		attributes_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS workers (
		row_pos INTEGER PRIMARY KEY,
		worker_id TEXT NOT NULL,
		worker_name TEXT NOT NULL,
		skills TEXT NOT NULL,
		available_slots TEXT NOT NULL,
		max_load_per_phase INTEGER NOT NULL,
		worker_group TEXT NOT NULL,
		qualification_level INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tasks (
		row_pos INTEGER PRIMARY KEY,
		task_id TEXT NOT NULL,
		task_name TEXT NOT NULL,
		category TEXT NOT NULL,
		duration INTEGER NOT NULL,
		required_skills TEXT NOT NULL,
		preferred_phases TEXT NOT NULL,
		max_concurrent INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS priorities (
		key TEXT PRIMARY KEY,
		weight REAL NOT NULL,
		position INTEGER NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// replaceAll swaps a whole table inside one transaction so a failed save
// never leaves a half-written collection behind.
func (s *SQLiteStore) replaceAll(table string, insert func(*sql.Tx) error) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return err
	}
	if err := insert(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveClients(clients []models.Client) error {
	return s.replaceAll("clients", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO clients (row_pos, client_id, client_name, priority_level, requested_task_ids, group_tag, attributes_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for pos, c := range clients {
			reqJSON, err := json.Marshal(c.RequestedTaskIDs)
			if err != nil {
				return fmt.Errorf("failed to marshal requested task IDs: %w", err)
			}
			if _, err := stmt.Exec(pos, c.ID, c.Name, c.PriorityLevel, string(reqJSON), c.GroupTag, c.AttributesJSON); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetClients() ([]models.Client, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query(`
		SELECT client_id, client_name, priority_level, requested_task_ids, group_tag, attributes_json
		FROM clients ORDER BY row_pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		var reqJSON string
		if err := rows.Scan(&c.ID, &c.Name, &c.PriorityLevel, &reqJSON, &c.GroupTag, &c.AttributesJSON); err != nil {
			return nil, err
		}
		if reqJSON != "" {
			if err := json.Unmarshal([]byte(reqJSON), &c.RequestedTaskIDs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal requested task IDs: %w", err)
			}
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *SQLiteStore) SaveWorkers(workers []models.Worker) error {
	return s.replaceAll("workers", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO workers (row_pos, worker_id, worker_name, skills, available_slots, max_load_per_phase, worker_group, qualification_level)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for pos, w := range workers {
			skillsJSON, err := json.Marshal(w.Skills)
			if err != nil {
				return fmt.Errorf("failed to marshal skills: %w", err)
			}
			if _, err := stmt.Exec(pos, w.ID, w.Name, string(skillsJSON), w.AvailableSlots, w.MaxLoadPerPhase, w.WorkerGroup, w.QualificationLevel); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetWorkers() ([]models.Worker, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query(`
		SELECT worker_id, worker_name, skills, available_slots, max_load_per_phase, worker_group, qualification_level
		FROM workers ORDER BY row_pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		var w models.Worker
		var skillsJSON string
		if err := rows.Scan(&w.ID, &w.Name, &skillsJSON, &w.AvailableSlots, &w.MaxLoadPerPhase, &w.WorkerGroup, &w.QualificationLevel); err != nil {
			return nil, err
		}
		if skillsJSON != "" {
			if err := json.Unmarshal([]byte(skillsJSON), &w.Skills); err != nil {
				return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
			}
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *SQLiteStore) SaveTasks(tasks []models.Task) error {
	return s.replaceAll("tasks", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO tasks (row_pos, task_id, task_name, category, duration, required_skills, preferred_phases, max_concurrent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for pos, t := range tasks {
			skillsJSON, err := json.Marshal(t.RequiredSkills)
			if err != nil {
				return fmt.Errorf("failed to marshal required skills: %w", err)
			}
			if _, err := stmt.Exec(pos, t.ID, t.Name, t.Category, t.Duration, string(skillsJSON), t.PreferredPhases, t.MaxConcurrent); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetTasks() ([]models.Task, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query(`
		SELECT task_id, task_name, category, duration, required_skills, preferred_phases, max_concurrent
		FROM tasks ORDER BY row_pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var skillsJSON string
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Duration, &skillsJSON, &t.PreferredPhases, &t.MaxConcurrent); err != nil {
			return nil, err
		}
		if skillsJSON != "" {
			if err := json.Unmarshal([]byte(skillsJSON), &t.RequiredSkills); err != nil {
				return nil, fmt.Errorf("failed to unmarshal required skills: %w", err)
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) AddRule(rule models.Rule) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	payload, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("failed to marshal rule: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO rules (id, payload, created_at) VALUES (?, ?, ?)",
		rule.ID, string(payload), rule.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	)
	return err
}

func (s *SQLiteStore) GetRules() ([]models.Rule, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query("SELECT payload FROM rules ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Rule
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r models.Rule
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRule(id string) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	result, err := s.db.Exec("DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("rule not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) SavePriorities(priorities []models.Priority) error {
	return s.replaceAll("priorities", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT INTO priorities (key, weight, position) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for pos, p := range priorities {
			if _, err := stmt.Exec(p.Key, p.Weight, pos); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetPriorities() ([]models.Priority, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query("SELECT key, weight FROM priorities ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Priority
	for rows.Next() {
		var p models.Priority
		if err := rows.Scan(&p.Key, &p.Weight); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
