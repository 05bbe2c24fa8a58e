package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetdocs/certintake/internal/abbrev"
	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/dates"
	"github.com/fleetdocs/certintake/internal/oracle"
	"github.com/fleetdocs/certintake/internal/pipeline"
	"github.com/fleetdocs/certintake/internal/survey"
	"github.com/fleetdocs/certintake/internal/textlayer"
)

// certanalyze runs the analysis pipeline on one local document and
// prints the extracted, normalized fields as JSON. Nothing is uploaded
// or persisted.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "certanalyze <file>")
		os.Exit(2)
	}
	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if cfg.Oracle.APIKey == "" {
		logger.Error("OPENAI_API_KEY required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	extractor := oracle.NewClient(oracle.Config{
		APIKey:      cfg.Oracle.APIKey,
		Model:       cfg.Oracle.Model,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
	}, logger)

	var reader oracle.DocumentReader
	if cfg.DocumentAI.ProjectID != "" && cfg.DocumentAI.ProcessorID != "" {
		r, err := oracle.NewDocumentAIReader(ctx, oracle.DocumentAIConfig{
			ProjectID:       cfg.DocumentAI.ProjectID,
			Location:        cfg.DocumentAI.Location,
			ProcessorID:     cfg.DocumentAI.ProcessorID,
			CredentialsFile: cfg.DocumentAI.CredentialsFile,
			Timeout:         cfg.DocumentAI.Timeout,
		}, logger)
		if err != nil {
			logger.Error("document ai init", "error", err)
			os.Exit(1)
		}
		reader = r
	}

	classifier := textlayer.NewClassifier(textlayer.Config{}, logger)
	analyzer := pipeline.NewAnalyzer(classifier, extractor, reader, logger)

	res, analyzeErr := analyzer.AnalyzeFile(ctx, filepath.Base(path), data)

	registry := abbrev.NewRegistry()
	if cfg.Registry.Path != "" {
		if err := registry.LoadFile(cfg.Registry.Path); err != nil {
			logger.Error("registry file", "path", cfg.Registry.Path, "error", err)
			os.Exit(1)
		}
	}

	validDate := parseDate(res.Fields.ValidDate)
	endorseDate := parseDate(res.Fields.LastEndorseDate)
	sched := survey.Compute(res.Fields.CertificateType, validDate, endorseDate)

	out := map[string]any{
		"filename":          filepath.Base(path),
		"processing_type":   res.ProcessingType,
		"char_count":        res.CharCount,
		"fields":            res.Fields,
		"abbreviation":      registry.CertificateAbbreviation(res.Fields.CertificateName),
		"issuing_authority": registry.NormalizeAuthority(res.Fields.IssuingAuthority),
		"next_survey":       sched.Display,
		"next_survey_type":  sched.Type,
	}
	if analyzeErr != nil {
		out["degraded"] = analyzeErr.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := dates.Parse(raw)
	if err != nil {
		return nil
	}
	return &t
}
