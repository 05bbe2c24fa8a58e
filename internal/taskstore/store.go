// Package taskstore tracks upload tasks in memory. Task progress is
// transient operational state; certificates themselves are persisted
// in the database.
package taskstore

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/entity"
	"github.com/fleetdocs/certintake/internal/oracle"
)

// Per-file progress checkpoints. Terminal records are always 100.
const (
	ProgressStarted  = 10
	ProgressAnalyzed = 80
	ProgressDone     = 100
)

// FileResult is the terminal payload for one file: either a persisted
// certificate reference plus the extracted fields, or a captured error.
// A failed upload still carries the certificate reference when the row
// was already persisted.
type FileResult struct {
	ProcessingType constants.ProcessingType
	CertificateID  *uuid.UUID
	CharCount      int
	Fields         *oracle.ExtractedFieldSet
	Err            error
}

// Store is an in-memory store for upload tasks.
type Store struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*entity.UploadTask
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		tasks:  make(map[uuid.UUID]*entity.UploadTask),
		logger: logger,
	}
}

// Create registers a new batch task with one pending file record per
// filename and returns a copy of the stored task.
func (s *Store) Create(shipID uuid.UUID, taskType constants.TaskType, filenames []string) entity.UploadTask {
	now := time.Now().UTC()
	task := &entity.UploadTask{
		ID:         uuid.New(),
		ShipID:     shipID,
		Type:       taskType,
		Status:     constants.TaskPending,
		TotalFiles: len(filenames),
		Files:      make([]entity.FileTaskStatus, 0, len(filenames)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, name := range filenames {
		task.Files = append(task.Files, entity.FileTaskStatus{
			ID:       uuid.New(),
			TaskID:   task.ID,
			Filename: name,
			Status:   constants.TaskPending,
		})
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()

	s.logger.Info("taskstore.create", "task_id", task.ID, "ship_id", shipID, "files", len(filenames))
	return snapshot(task)
}

// Get returns a copy of the task, or ErrNotFound.
func (s *Store) Get(id uuid.UUID) (entity.UploadTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return entity.UploadTask{}, common.ErrNotFound
	}
	return snapshot(task), nil
}

// MarkFileProcessing moves one file record to processing and, on the
// first such transition, the whole task as well.
func (s *Store) MarkFileProcessing(taskID, fileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	for i := range task.Files {
		if task.Files[i].ID == fileID {
			task.Files[i].Status = constants.TaskProcessing
			task.Files[i].Progress = ProgressStarted
			task.Files[i].StartedAt = &now
			break
		}
	}
	if task.Status == constants.TaskPending {
		task.Status = constants.TaskProcessing
	}
	task.UpdatedAt = now
}

// SetFileProgress updates one file's progress checkpoint. Terminal
// records are left alone.
func (s *Store) SetFileProgress(taskID, fileID uuid.UUID, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return
	}
	for i := range task.Files {
		if task.Files[i].ID == fileID {
			if !task.Files[i].Status.Terminal() {
				task.Files[i].Progress = progress
				task.UpdatedAt = time.Now().UTC()
			}
			return
		}
	}
}

// CompleteFile records a terminal outcome for one file and joins the
// batch: when the last file finishes, the task flips to completed, or
// failed if every file failed. It reports whether the batch is now
// terminal.
func (s *Store) CompleteFile(taskID, fileID uuid.UUID, res FileResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return false
	}
	now := time.Now().UTC()
	for i := range task.Files {
		if task.Files[i].ID != fileID {
			continue
		}
		f := &task.Files[i]
		if f.Status.Terminal() {
			return task.Status.Terminal() // duplicate completion
		}
		f.FinishedAt = &now
		f.Progress = ProgressDone
		f.CharCount = res.CharCount
		f.Fields = res.Fields
		f.CertificateID = res.CertificateID
		if res.ProcessingType != "" {
			f.ProcessingType = res.ProcessingType
		}
		if res.Err != nil {
			msg := res.Err.Error()
			f.Status = constants.TaskFailed
			f.ErrorMessage = &msg
			task.FailedFiles++
		} else {
			f.Status = constants.TaskCompleted
		}
		task.DoneFiles++
		break
	}
	task.UpdatedAt = now

	if task.DoneFiles < task.TotalFiles {
		return false
	}
	if task.FailedFiles == task.TotalFiles {
		task.Status = constants.TaskFailed
	} else {
		task.Status = constants.TaskCompleted
	}
	s.logger.Info("taskstore.batch_done",
		"task_id", task.ID,
		"status", task.Status,
		"failed", task.FailedFiles,
		"total", task.TotalFiles,
	)
	return true
}

// snapshot copies the task so callers never alias store internals.
func snapshot(task *entity.UploadTask) entity.UploadTask {
	out := *task
	out.Files = make([]entity.FileTaskStatus, len(task.Files))
	copy(out.Files, task.Files)
	return out
}
