package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// MaxDocumentSizeBytes is the maximum document size sent to Document AI (20MB).
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// DocumentAIConfig locates the processor that OCRs scanned certificates.
type DocumentAIConfig struct {
	ProjectID       string
	Location        string // e.g. "us" or "eu"
	ProcessorID     string
	CredentialsFile string
	Timeout         time.Duration // default 120s
}

// DocumentAIReader implements DocumentReader using Google Document AI.
type DocumentAIReader struct {
	client *documentai.DocumentProcessorClient
	cfg    DocumentAIConfig
	logger *slog.Logger
}

func NewDocumentAIReader(ctx context.Context, cfg DocumentAIConfig, logger *slog.Logger) (*DocumentAIReader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("document ai: project id is required")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	var opts []option.ClientOption
	if cfg.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create document ai client: %w", err)
	}
	return &DocumentAIReader{client: client, cfg: cfg, logger: logger}, nil
}

// NewDocumentAIReaderWithClient injects an existing client (for tests).
func NewDocumentAIReaderWithClient(cfg DocumentAIConfig, client *documentai.DocumentProcessorClient, logger *slog.Logger) *DocumentAIReader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &DocumentAIReader{client: client, cfg: cfg, logger: logger}
}

// ReadDocument runs the scanned document through Document AI and returns
// the recognized text. The call carries a bounded timeout; a deadline is
// treated by callers like any other extraction failure.
func (r *DocumentAIReader) ReadDocument(ctx context.Context, raw []byte, mimeType string) (string, error) {
	start := time.Now()

	if len(raw) > MaxDocumentSizeBytes {
		return "", fmt.Errorf("document too large for document ai: %d bytes", len(raw))
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	resp, err := r.client.ProcessDocument(callCtx, &documentaipb.ProcessRequest{
		Name: r.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  raw,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		r.logger.Error("docai.process.failed",
			"error", err,
			"bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("document ai process: %w", err)
	}
	if resp.Document == nil {
		return "", fmt.Errorf("document ai: no document in response")
	}

	r.logger.Info("docai.process.ok",
		"bytes", len(raw),
		"text_len", len(resp.Document.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp.Document.Text, nil
}

func (r *DocumentAIReader) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		r.cfg.ProjectID, r.cfg.Location, r.cfg.ProcessorID)
}
