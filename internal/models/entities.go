package models

// Entity identifies one of the three record collections.
type Entity string

const (
	EntityClients Entity = "clients"
	EntityWorkers Entity = "workers"
	EntityTasks   Entity = "tasks"
)

// Client is one row of the client collection. PriorityLevel is parsed at
// ingest time; a value outside 1-5 (including the zero left behind by an
// unparseable cell) is caught by validation, not here.
type Client struct {
	ID               string   `json:"ClientID"`
	Name             string   `json:"ClientName"`
	PriorityLevel    int      `json:"PriorityLevel"`
	RequestedTaskIDs []string `json:"RequestedTaskIDs"`
	GroupTag         string   `json:"GroupTag,omitempty"`
	AttributesJSON   string   `json:"AttributesJSON,omitempty"`
}

// Worker is one row of the worker collection. AvailableSlots keeps the
// raw cell text because both "[1,2,3]" and "1, 2, 3" are legal encodings;
// decoding happens during validation.
type Worker struct {
	ID                 string   `json:"WorkerID"`
	Name               string   `json:"WorkerName"`
	Skills             []string `json:"Skills"`
	AvailableSlots     string   `json:"AvailableSlots"`
	MaxLoadPerPhase    int      `json:"MaxLoadPerPhase"`
	WorkerGroup        string   `json:"WorkerGroup,omitempty"`
	QualificationLevel int      `json:"QualificationLevel"`
}

// Task is one row of the task collection. PreferredPhases keeps the raw
// cell text ("[1,2,3]", "1-3", or "1,2,3" are all legal).
type Task struct {
	ID              string   `json:"TaskID"`
	Name            string   `json:"TaskName"`
	Category        string   `json:"Category,omitempty"`
	Duration        int      `json:"Duration"`
	RequiredSkills  []string `json:"RequiredSkills"`
	PreferredPhases string   `json:"PreferredPhases"`
	MaxConcurrent   int      `json:"MaxConcurrent"`
}
