// Package orchestrator accepts certificate upload batches and drives
// each file through storage and the extraction pipeline on a bounded
// worker pool. Batch endpoints return immediately; progress is read
// back from the task store.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/entity"
	"github.com/fleetdocs/certintake/internal/pipeline"
	"github.com/fleetdocs/certintake/internal/retry"
	"github.com/fleetdocs/certintake/internal/storage"
	"github.com/fleetdocs/certintake/internal/taskstore"
)

// FileUpload is one file of an incoming batch.
type FileUpload struct {
	Filename string
	Data     []byte
}

type Orchestrator struct {
	tasks      *taskstore.Store
	processor  *pipeline.Processor
	store      storage.Service
	retry      retry.Policy
	folderPath string
	logger     *slog.Logger

	queue *Queue
}

func New(tasks *taskstore.Store, processor *pipeline.Processor, store storage.Service, policy retry.Policy, folderPath string, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		tasks:      tasks,
		processor:  processor,
		store:      store,
		retry:      policy,
		folderPath: folderPath,
		logger:     logger,
	}
	o.queue = NewQueue(o.processJob, logger, opts...)
	return o
}

// AcceptBatch validates the upload, registers a task with one pending
// entry per file, enqueues the files, and returns without waiting for
// processing.
func (o *Orchestrator) AcceptBatch(ctx context.Context, shipID uuid.UUID, taskType constants.TaskType, files []FileUpload) (entity.UploadTask, error) {
	if len(files) == 0 {
		return entity.UploadTask{}, common.NewAppError("EMPTY_BATCH", "batch contains no files", common.ErrInvalidInput)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if !constants.ExtAllowed(filepath.Ext(f.Filename)) {
			return entity.UploadTask{}, common.NewAppError("BAD_FILE_TYPE",
				fmt.Sprintf("unsupported file type: %s", f.Filename), common.ErrInvalidInput)
		}
		if len(f.Data) == 0 {
			return entity.UploadTask{}, common.NewAppError("EMPTY_FILE",
				fmt.Sprintf("empty file: %s", f.Filename), common.ErrInvalidInput)
		}
		names = append(names, f.Filename)
	}

	task := o.tasks.Create(shipID, taskType, names)
	for i, f := range files {
		_ = o.queue.Enqueue(ctx, Job{
			TaskID:   task.ID,
			FileID:   task.Files[i].ID,
			ShipID:   shipID,
			Filename: f.Filename,
			Data:     f.Data,
		})
	}
	o.logger.Info("orchestrator.batch_accepted", "task_id", task.ID, "ship_id", shipID, "files", len(files))
	return task, nil
}

// GetTask returns the current state of a batch.
func (o *Orchestrator) GetTask(id uuid.UUID) (entity.UploadTask, error) {
	return o.tasks.Get(id)
}

// Shutdown drains the worker pool.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	o.queue.Shutdown(ctx)
}

// processJob is the worker body: run the extraction pipeline and
// persist the certificate row first (fast, local), then upload the
// backing file to the object store with bounded retries. A storage
// failure after retries fails only this file record, never the batch,
// and never rolls back the already-created certificate. An uploaded
// object whose reference cannot be recorded is removed again, behind
// the same retry policy.
func (o *Orchestrator) processJob(ctx context.Context, job Job) {
	o.tasks.MarkFileProcessing(job.TaskID, job.FileID)

	out, err := o.processor.ProcessFile(ctx, job.ShipID, job.Filename, job.Data)
	if err != nil {
		o.tasks.CompleteFile(job.TaskID, job.FileID, taskstore.FileResult{
			ProcessingType: out.ProcessingType,
			CharCount:      out.CharCount,
			Err:            err,
		})
		return
	}
	certID := &out.Certificate.ID
	fields := out.Fields
	o.tasks.SetFileProgress(job.TaskID, job.FileID, taskstore.ProgressAnalyzed)

	mimeType := constants.MimeForExt(filepath.Ext(job.Filename))
	var fileID string
	uploadErr := o.retry.Do(ctx, "storage.upload", func() error {
		var err error
		fileID, err = o.store.Upload(ctx, job.Data, job.Filename, o.folderPath, mimeType)
		return err
	})
	if uploadErr != nil {
		o.logger.Error("orchestrator.upload_failed", "task_id", job.TaskID, "filename", job.Filename, "error", uploadErr)
		o.tasks.CompleteFile(job.TaskID, job.FileID, taskstore.FileResult{
			ProcessingType: out.ProcessingType,
			CertificateID:  certID,
			CharCount:      out.CharCount,
			Fields:         &fields,
			Err:            fmt.Errorf("upload: %w", uploadErr),
		})
		return
	}

	if err := o.processor.AttachFile(ctx, *certID, fileID); err != nil {
		delErr := o.retry.Do(ctx, "storage.delete", func() error {
			return o.store.Delete(ctx, fileID)
		})
		if delErr != nil {
			o.logger.Warn("orchestrator.cleanup_failed", "file_id", fileID, "error", delErr)
		}
		o.tasks.CompleteFile(job.TaskID, job.FileID, taskstore.FileResult{
			ProcessingType: out.ProcessingType,
			CertificateID:  certID,
			CharCount:      out.CharCount,
			Fields:         &fields,
			Err:            fmt.Errorf("attach file: %w", err),
		})
		return
	}

	o.tasks.CompleteFile(job.TaskID, job.FileID, taskstore.FileResult{
		ProcessingType: out.ProcessingType,
		CertificateID:  certID,
		CharCount:      out.CharCount,
		Fields:         &fields,
	})
}
