package storage

import "allocprep/internal/models"

// Provider persists one preparation session: the three entity
// collections (order-preserving, replaced wholesale), captured rules,
// and the priority profile.
//
// Concurrency note:
//   - Providers are not safe for concurrent use by multiple goroutines
//     without external synchronization.
//   - Running multiple allocprep processes against the same config path
//     at the same time is not supported.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Collections. Save* replaces the whole collection; row order is the
	// positional address space of validation findings and must survive a
	// round trip.
	SaveClients([]models.Client) error
	GetClients() ([]models.Client, error)
	SaveWorkers([]models.Worker) error
	GetWorkers() ([]models.Worker, error)
	SaveTasks([]models.Task) error
	GetTasks() ([]models.Task, error)

	// Rules
	AddRule(models.Rule) error
	GetRules() ([]models.Rule, error)
	DeleteRule(id string) error

	// Priorities
	SavePriorities([]models.Priority) error
	GetPriorities() ([]models.Priority, error)

	// Utils
	GetConfigPath() string
}
