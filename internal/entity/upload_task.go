package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/oracle"
)

// UploadTask tracks a batch certificate upload for one ship. The batch
// completes only when every file has reached a terminal status.
type UploadTask struct {
	ID          uuid.UUID            `json:"id"`
	ShipID      uuid.UUID            `json:"ship_id"`
	Type        constants.TaskType   `json:"type"`
	Status      constants.TaskStatus `json:"status"`
	TotalFiles  int                  `json:"total_files"`
	DoneFiles   int                  `json:"done_files"`
	FailedFiles int                  `json:"failed_files"`
	Files       []FileTaskStatus     `json:"files"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// FileTaskStatus is the per-file progress record inside an UploadTask.
type FileTaskStatus struct {
	ID             uuid.UUID                 `json:"id"`
	TaskID         uuid.UUID                 `json:"task_id"`
	Filename       string                    `json:"filename"`
	Status         constants.TaskStatus      `json:"status"`
	ProcessingType constants.ProcessingType  `json:"processing_type,omitempty"`
	Progress       int                       `json:"progress"`
	CharCount      int                       `json:"char_count"`
	Fields         *oracle.ExtractedFieldSet `json:"fields,omitempty"`
	CertificateID  *uuid.UUID                `json:"certificate_id,omitempty"`
	ErrorMessage   *string                   `json:"error_message,omitempty"`
	StartedAt      *time.Time                `json:"started_at,omitempty"`
	FinishedAt     *time.Time                `json:"finished_at,omitempty"`
}
