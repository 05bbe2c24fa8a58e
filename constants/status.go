package constants

// TaskStatus is the canonical status for upload tasks and their per-file entries.
type TaskStatus string

// Stable values (store these exact strings).
const (
	TaskPending    TaskStatus = "pending"    // accepted, no file picked up yet
	TaskProcessing TaskStatus = "processing" // at least one file in flight
	TaskCompleted  TaskStatus = "completed"  // every file reached a terminal state
	TaskFailed     TaskStatus = "failed"     // terminal failure
)

// Terminal reports whether a status is a terminal state.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskType distinguishes what kind of documents a batch carries.
type TaskType string

const (
	TaskTypeCertificate  TaskType = "certificate"
	TaskTypeSurveyReport TaskType = "survey-report"
)

// ProcessingType records which extraction branch handled a file.
type ProcessingType string

const (
	ProcessingTextLayer  ProcessingType = "text_layer"
	ProcessingDocumentAI ProcessingType = "document_ai"
)
