package core

// TaskStatus is the lifecycle state of an ingestion task.
type TaskStatus string

const (
	TaskSubmitted  TaskStatus = "submitted"
	TaskProcessing TaskStatus = "processing"
	TaskReady      TaskStatus = "ready"
	TaskFailed     TaskStatus = "failed"
)

// Terminal reports whether polling can stop.
func (s TaskStatus) Terminal() bool {
	return s == TaskReady || s == TaskFailed
}

// IngestionTask is the provider's handle for a video-processing job.
// It lives only for the duration of a single submission and is never persisted.
type IngestionTask struct {
	TaskID  string
	IndexID string
	Status  TaskStatus
	// ProviderStatus is the raw status string reported by the provider (e.g. "indexing").
	ProviderStatus string
	// AssetID is populated only when Status is TaskReady.
	AssetID string
}

// EventType represents the type of change observed on the note store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents an external change to the durable note document.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}
