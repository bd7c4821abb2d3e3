package constants

// Canonical column names. Ingest maps raw CSV headers onto these, and
// validation findings reference them, so they must stay in sync with the
// struct fields in internal/models.
const (
	ColClientID         = "ClientID"
	ColClientName       = "ClientName"
	ColPriorityLevel    = "PriorityLevel"
	ColRequestedTaskIDs = "RequestedTaskIDs"
	ColGroupTag         = "GroupTag"
	ColAttributesJSON   = "AttributesJSON"

	ColWorkerID           = "WorkerID"
	ColWorkerName         = "WorkerName"
	ColSkills             = "Skills"
	ColAvailableSlots     = "AvailableSlots"
	ColMaxLoadPerPhase    = "MaxLoadPerPhase"
	ColWorkerGroup        = "WorkerGroup"
	ColQualificationLevel = "QualificationLevel"

	ColTaskID          = "TaskID"
	ColTaskName        = "TaskName"
	ColCategory        = "Category"
	ColDuration        = "Duration"
	ColRequiredSkills  = "RequiredSkills"
	ColPreferredPhases = "PreferredPhases"
	ColMaxConcurrent   = "MaxConcurrent"
)

// ClientColumns, WorkerColumns, and TaskColumns list each entity's
// canonical columns in on-disk order (upload and export both use it).
var (
	ClientColumns = []string{
		ColClientID, ColClientName, ColPriorityLevel,
		ColRequestedTaskIDs, ColGroupTag, ColAttributesJSON,
	}
	WorkerColumns = []string{
		ColWorkerID, ColWorkerName, ColSkills, ColAvailableSlots,
		ColMaxLoadPerPhase, ColWorkerGroup, ColQualificationLevel,
	}
	TaskColumns = []string{
		ColTaskID, ColTaskName, ColCategory, ColDuration,
		ColRequiredSkills, ColPreferredPhases, ColMaxConcurrent,
	}
)
