package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/abbrev"
	"github.com/fleetdocs/certintake/internal/dates"
	"github.com/fleetdocs/certintake/internal/entity"
	"github.com/fleetdocs/certintake/internal/oracle"
	"github.com/fleetdocs/certintake/internal/repository"
)

// reviewConfidenceFloor flags low-confidence extractions for a human
// pass.
const reviewConfidenceFloor = 0.5

// Processor turns one uploaded document into a persisted certificate:
// analyze, normalize, schedule the next survey, store.
type Processor struct {
	Analyzer *Analyzer
	Registry *abbrev.Registry
	Certs    repository.CertificateRepository
	Logger   *slog.Logger
}

func NewProcessor(analyzer *Analyzer, registry *abbrev.Registry, certs repository.CertificateRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Analyzer: analyzer, Registry: registry, Certs: certs, Logger: logger}
}

// Outcome reports what happened to one processed document.
type Outcome struct {
	Certificate    *entity.Certificate
	ProcessingType constants.ProcessingType
	Fields         oracle.ExtractedFieldSet
	CharCount      int
	Degraded       bool
}

// ProcessFile analyzes the document and persists the resulting
// certificate synchronously, before any object-store upload happens;
// the file reference is attached later via AttachFile. The certificate
// is persisted even when extraction degraded to the filename fallback;
// such records are flagged for review instead of being dropped.
func (p *Processor) ProcessFile(ctx context.Context, shipID uuid.UUID, filename string, data []byte) (Outcome, error) {
	res, analyzeErr := p.Analyzer.AnalyzeFile(ctx, filename, data)
	if analyzeErr != nil {
		p.Logger.Warn("pipeline.process.degraded", "filename", filename, "error", analyzeErr)
	}

	cert := p.buildCertificate(shipID, res.Fields)
	cert.RecomputeSurvey()

	stored, err := p.Certs.Create(ctx, cert)
	if err != nil {
		p.Logger.Error("pipeline.persist.failed", "filename", filename, "ship_id", shipID, "error", err)
		return Outcome{
			ProcessingType: res.ProcessingType,
			Fields:         res.Fields,
			CharCount:      res.CharCount,
			Degraded:       analyzeErr != nil,
		}, err
	}

	p.Logger.Info("pipeline.process.ok",
		"filename", filename,
		"certificate_id", stored.ID,
		"abbreviation", stored.Abbreviation,
		"next_survey", stored.NextSurveyDisplay,
		"needs_review", stored.NeedsReview,
	)
	return Outcome{
		Certificate:    stored,
		ProcessingType: res.ProcessingType,
		Fields:         res.Fields,
		CharCount:      res.CharCount,
		Degraded:       analyzeErr != nil,
	}, nil
}

// AttachFile records the object-store reference on a certificate whose
// row was persisted before its backing file finished uploading.
func (p *Processor) AttachFile(ctx context.Context, certID uuid.UUID, fileID string) error {
	if err := p.Certs.SetFileID(ctx, certID, fileID); err != nil {
		p.Logger.Error("pipeline.attach_file.failed", "certificate_id", certID, "file_id", fileID, "error", err)
		return err
	}
	return nil
}

// buildCertificate normalizes extracted fields into the stored shape:
// dates parsed day-first, authority collapsed to its registry
// abbreviation, certificate name abbreviated.
func (p *Processor) buildCertificate(shipID uuid.UUID, f oracle.ExtractedFieldSet) *entity.Certificate {
	cert := &entity.Certificate{
		ShipID:              shipID,
		Name:                strings.TrimSpace(f.CertificateName),
		Type:                strings.TrimSpace(f.CertificateType),
		IssuingAuthority:    p.Registry.NormalizeAuthority(f.IssuingAuthority),
		ExtractedConfidence: f.Confidence,
		NeedsReview:         f.ExtractionError || f.Confidence < reviewConfidenceFloor,
	}
	cert.Abbreviation = p.Registry.CertificateAbbreviation(cert.Name)

	if n := strings.TrimSpace(f.CertificateNumber); n != "" {
		cert.Number = &n
	}
	cert.IssueDate = parseOptionalDate(f.IssueDate, "issue_date", p.Logger)
	cert.ValidDate = parseOptionalDate(f.ValidDate, "valid_date", p.Logger)
	cert.LastEndorseDate = parseOptionalDate(f.LastEndorseDate, "last_endorsement_date", p.Logger)
	return cert
}

func parseOptionalDate(raw, field string, logger *slog.Logger) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := dates.Parse(raw)
	if err != nil {
		logger.Warn("pipeline.date.unparseable", "field", field, "value", raw)
		return nil
	}
	return &t
}
