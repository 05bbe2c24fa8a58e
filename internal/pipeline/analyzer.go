// Package pipeline coordinates the per-document flow: text-layer
// classification, field extraction, normalization, survey scheduling,
// and persistence.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/oracle"
	"github.com/fleetdocs/certintake/internal/textlayer"
)

// AnalysisResult is the outcome of analyzing one document. Fields is
// never empty-handed: when extraction fails at any point it carries the
// filename-derived fallback with ExtractionError set.
type AnalysisResult struct {
	ProcessingType constants.ProcessingType
	Fields         oracle.ExtractedFieldSet
	Text           string
	CharCount      int
	Elapsed        time.Duration
}

// TextClassifier decides whether a document's embedded text layer is
// usable. Satisfied by *textlayer.Classifier.
type TextClassifier interface {
	Classify(ctx context.Context, file []byte) (textlayer.Classification, error)
}

// Analyzer classifies a document and extracts certificate fields from
// it. The slow path (scanned documents) is optional; without a reader
// such documents go straight to the filename fallback.
type Analyzer struct {
	Classifier TextClassifier
	Extractor  oracle.FieldExtractor
	Reader     oracle.DocumentReader
	Logger     *slog.Logger
}

func NewAnalyzer(classifier TextClassifier, extractor oracle.FieldExtractor, reader oracle.DocumentReader, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{Classifier: classifier, Extractor: extractor, Reader: reader, Logger: logger}
}

// AnalyzeFile never returns an unusable result: every failure mode
// degrades to the filename fallback rather than an error. The returned
// error, when non-nil, describes the degradation but the result stays
// valid.
func (a *Analyzer) AnalyzeFile(ctx context.Context, filename string, data []byte) (AnalysisResult, error) {
	start := time.Now()

	cls, err := a.Classifier.Classify(ctx, data)
	if err != nil {
		a.Logger.Warn("pipeline.classify.failed", "filename", filename, "error", err)
		return a.fallback(filename, constants.ProcessingTextLayer, start), err
	}

	res := AnalysisResult{CharCount: cls.CharCount}
	if cls.HasSufficientText {
		res.ProcessingType = constants.ProcessingTextLayer
		res.Text = cls.Text
	} else {
		res.ProcessingType = constants.ProcessingDocumentAI
		if a.Reader == nil {
			a.Logger.Warn("pipeline.read.unavailable", "filename", filename, "chars", cls.CharCount)
			return a.fallback(filename, res.ProcessingType, start), nil
		}
		text, err := a.Reader.ReadDocument(ctx, data, constants.MimeForExt(filepath.Ext(filename)))
		if err != nil {
			a.Logger.Warn("pipeline.read.failed", "filename", filename, "error", err)
			return a.fallback(filename, res.ProcessingType, start), err
		}
		res.Text = text
	}

	fields, _, err := a.Extractor.ExtractFields(ctx, oracle.ExtractRequest{
		Text:     res.Text,
		Filename: filename,
	})
	if err != nil {
		a.Logger.Warn("pipeline.extract.failed", "filename", filename, "error", err)
		out := a.fallback(filename, res.ProcessingType, start)
		out.Text = res.Text
		out.CharCount = res.CharCount
		return out, err
	}

	res.Fields = fields
	res.Elapsed = time.Since(start)
	a.Logger.Info("pipeline.analyze.ok",
		"filename", filename,
		"processing_type", res.ProcessingType,
		"chars", res.CharCount,
		"confidence", fields.Confidence,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

func (a *Analyzer) fallback(filename string, pt constants.ProcessingType, start time.Time) AnalysisResult {
	return AnalysisResult{
		ProcessingType: pt,
		Fields:         oracle.FallbackFromFilename(filename),
		Elapsed:        time.Since(start),
	}
}
