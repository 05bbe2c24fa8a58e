// Package server exposes the HTTP API: one-shot document analysis,
// batch certificate upload, task progress, and the survey-schedule
// export. Handlers do transport-level validation only; domain rules
// live in the pipeline and orchestrator.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/export"
	"github.com/fleetdocs/certintake/internal/orchestrator"
	"github.com/fleetdocs/certintake/internal/pipeline"
)

// maxUploadBytes bounds a single multipart upload.
const maxUploadBytes = 32 << 20

type Server struct {
	analyzer *pipeline.Analyzer
	orch     *orchestrator.Orchestrator
	exporter *export.Service
	logger   *slog.Logger
}

func New(analyzer *pipeline.Analyzer, orch *orchestrator.Orchestrator, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{analyzer: analyzer, orch: orch, exporter: exporter, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.MaxMultipartMemory = maxUploadBytes

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/certificates/analyze", s.analyzeCertificate)
		api.POST("/ships/:id/certificates/batch", s.uploadBatch)
		api.GET("/tasks/:id", s.getTask)
		api.GET("/ships/:id/schedule.xlsx", s.exportSchedule)
	}
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

// analyzeCertificate runs classification and extraction on one file
// without persisting anything. Used for previewing a document before
// committing it to a ship.
func (s *Server) analyzeCertificate(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	defer file.Close()

	if !allowedFilename(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	res, _ := s.analyzer.AnalyzeFile(c.Request.Context(), header.Filename, data)
	c.JSON(http.StatusOK, gin.H{
		"filename":        header.Filename,
		"processing_type": res.ProcessingType,
		"char_count":      res.CharCount,
		"fields":          res.Fields,
	})
}

// uploadBatch accepts a multipart batch for a ship and returns the
// pending task immediately; clients poll the task endpoint.
func (s *Server) uploadBatch(c *gin.Context) {
	shipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ship id"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	files := make([]orchestrator.FileUpload, 0, len(headers))
	for _, h := range headers {
		if !allowedFilename(h.Filename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + h.Filename})
			return
		}
		f, err := h.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file: " + h.Filename})
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file: " + h.Filename})
			return
		}
		files = append(files, orchestrator.FileUpload{Filename: h.Filename, Data: data})
	}

	taskType := constants.TaskTypeCertificate
	if c.Query("type") == string(constants.TaskTypeSurveyReport) {
		taskType = constants.TaskTypeSurveyReport
	}

	task, err := s.orch.AcceptBatch(c.Request.Context(), shipID, taskType, files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, task)
}

func (s *Server) getTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	task, err := s.orch.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) exportSchedule(c *gin.Context) {
	shipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ship id"})
		return
	}
	out, err := s.exporter.ExportScheduleXLSX(c.Request.Context(), shipID)
	if err != nil {
		s.logger.Error("http.export_failed", "ship_id", shipID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="schedule-`+shipID.String()+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

func allowedFilename(name string) bool {
	return constants.ExtAllowed(filepath.Ext(name))
}
