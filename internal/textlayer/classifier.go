// Package textlayer decides whether an uploaded document carries a
// usable embedded text layer or needs the Document-AI slow path.
package textlayer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MinTextChars is the trimmed character count below which a PDF is
// treated as scanned/image-based. The gate runs before any external
// network call so text-native PDFs never pay for OCR.
const MinTextChars = 100

// Classification is the outcome of inspecting a document's text layer.
type Classification struct {
	HasSufficientText bool
	CharCount         int
	Text              string
	Duration          time.Duration
}

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MinChars  int    // 0 -> MinTextChars
}

type Classifier struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewClassifier(cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = MinTextChars
	}
	return &Classifier{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Classify extracts the embedded text layer from the PDF bytes and
// reports whether it is substantial enough for direct extraction.
// Non-PDF payloads (images) have no text layer and always classify as
// insufficient.
func (c *Classifier) Classify(ctx context.Context, file []byte) (Classification, error) {
	start := time.Now()

	if !isPDF(file) {
		res := Classification{Duration: time.Since(start)}
		c.logger.Debug("classify.not_pdf", "bytes", len(file))
		return res, nil
	}

	tmpDir, err := os.MkdirTemp("", "ci-cls-*")
	if err != nil {
		return Classification{}, fmt.Errorf("classify temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			c.logger.Warn("classify.tmp_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	path := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(path, file, 0o600); err != nil {
		return Classification{}, fmt.Errorf("classify write temp: %w", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := c.runner.Run(ctx, c.cfg.Pdftotext, c.logger,
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Classification{Duration: time.Since(start)},
			fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}

	text := string(out)
	count := len(strings.TrimSpace(text))
	res := Classification{
		HasSufficientText: count >= c.cfg.MinChars,
		CharCount:         count,
		Text:              text,
		Duration:          time.Since(start),
	}
	c.logger.Info("classify.ok",
		"char_count", count,
		"sufficient", res.HasSufficientText,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 4 && string(b[:4]) == "%PDF"
}
