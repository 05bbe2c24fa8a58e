package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/abbrev"
	"github.com/fleetdocs/certintake/internal/oracle"
	"github.com/fleetdocs/certintake/internal/repository"
	"github.com/fleetdocs/certintake/internal/textlayer"
)

type stubClassifier struct {
	cls textlayer.Classification
	err error
}

func (s stubClassifier) Classify(context.Context, []byte) (textlayer.Classification, error) {
	return s.cls, s.err
}

type stubExtractor struct {
	fields oracle.ExtractedFieldSet
	err    error
	gotReq oracle.ExtractRequest
}

func (s *stubExtractor) ExtractFields(_ context.Context, req oracle.ExtractRequest) (oracle.ExtractedFieldSet, []byte, error) {
	s.gotReq = req
	return s.fields, nil, s.err
}

type stubReader struct {
	text string
	err  error
}

func (s stubReader) ReadDocument(context.Context, []byte, string) (string, error) {
	return s.text, s.err
}

func sufficient(text string) textlayer.Classification {
	return textlayer.Classification{HasSufficientText: true, CharCount: len(text), Text: text}
}

func TestAnalyzeFastPathUsesTextLayer(t *testing.T) {
	ext := &stubExtractor{fields: oracle.ExtractedFieldSet{CertificateName: "Safety Management Certificate", Confidence: 0.9}}
	a := NewAnalyzer(stubClassifier{cls: sufficient("INTERNATIONAL CONVENTION ...")}, ext, stubReader{}, nil)

	res, err := a.AnalyzeFile(context.Background(), "smc.pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.ProcessingType != constants.ProcessingTextLayer {
		t.Errorf("ProcessingType = %v, want text_layer", res.ProcessingType)
	}
	if ext.gotReq.Text == "" {
		t.Errorf("extractor should receive the text layer")
	}
	if res.Fields.CertificateName != "Safety Management Certificate" {
		t.Errorf("unexpected fields: %+v", res.Fields)
	}
}

func TestAnalyzeSlowPathUsesReader(t *testing.T) {
	ext := &stubExtractor{fields: oracle.ExtractedFieldSet{CertificateName: "Certificate of Class", Confidence: 0.8}}
	a := NewAnalyzer(
		stubClassifier{cls: textlayer.Classification{HasSufficientText: false, CharCount: 12}},
		ext,
		stubReader{text: "scanned text recovered by ocr"},
		nil,
	)

	res, err := a.AnalyzeFile(context.Background(), "scan.pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.ProcessingType != constants.ProcessingDocumentAI {
		t.Errorf("ProcessingType = %v, want document_ai", res.ProcessingType)
	}
	if ext.gotReq.Text != "scanned text recovered by ocr" {
		t.Errorf("extractor got %q, want reader output", ext.gotReq.Text)
	}
}

func TestAnalyzeFallsBackWhenExtractorFails(t *testing.T) {
	ext := &stubExtractor{err: errors.New("oracle down")}
	a := NewAnalyzer(stubClassifier{cls: sufficient("some certificate text")}, ext, stubReader{}, nil)

	res, err := a.AnalyzeFile(context.Background(), "IOPP_2024.pdf", []byte("%PDF-"))
	if err == nil {
		t.Fatalf("expected degradation error to be reported")
	}
	if !res.Fields.ExtractionError {
		t.Errorf("fallback result must flag ExtractionError")
	}
	if res.Fields.CertificateName == "" {
		t.Errorf("fallback must still name the certificate")
	}
}

func TestAnalyzeFallsBackWhenReaderMissing(t *testing.T) {
	ext := &stubExtractor{fields: oracle.ExtractedFieldSet{CertificateName: "x"}}
	a := NewAnalyzer(
		stubClassifier{cls: textlayer.Classification{HasSufficientText: false}},
		ext, nil, nil,
	)

	res, err := a.AnalyzeFile(context.Background(), "scan.pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("missing reader should degrade, not error: %v", err)
	}
	if !res.Fields.ExtractionError {
		t.Errorf("expected fallback fields when no reader is configured")
	}
}

func TestProcessFileNormalizesAndPersists(t *testing.T) {
	ext := &stubExtractor{fields: oracle.ExtractedFieldSet{
		CertificateName:  "International Oil Pollution Prevention Certificate",
		CertificateType:  "Full Term",
		CertificateNumber: "PMA-1234",
		ValidDate:        "07/05/2027",
		IssuingAuthority: "Republic of Panama Maritime Authority",
		Confidence:       0.93,
	}}
	repo := repository.NewMemoryCertificateRepository()
	p := NewProcessor(
		NewAnalyzer(stubClassifier{cls: sufficient("certificate body")}, ext, nil, nil),
		abbrev.NewRegistry(),
		repo,
		nil,
	)

	shipID := uuid.New()
	out, err := p.ProcessFile(context.Background(), shipID, "iopp.pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if out.ProcessingType != constants.ProcessingTextLayer {
		t.Errorf("ProcessingType = %v, want text_layer", out.ProcessingType)
	}
	if out.Fields.CertificateName != "International Oil Pollution Prevention Certificate" {
		t.Errorf("outcome should carry the extracted fields, got %+v", out.Fields)
	}

	cert := out.Certificate
	if cert.Abbreviation != "IOPP" {
		t.Errorf("Abbreviation = %q, want IOPP", cert.Abbreviation)
	}
	if cert.IssuingAuthority != "PMA" {
		t.Errorf("IssuingAuthority = %q, want PMA", cert.IssuingAuthority)
	}
	// 07/05/2027 is day-first: 7 May 2027.
	if cert.ValidDate == nil || !cert.ValidDate.Equal(time.Date(2027, time.May, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ValidDate = %v, want 2027-05-07", cert.ValidDate)
	}
	// Full Term without endorsement schedules an intermediate survey.
	if cert.NextSurveyType != "Intermediate" {
		t.Errorf("NextSurveyType = %q, want Intermediate", cert.NextSurveyType)
	}
	if cert.NextSurveyDisplay != "07/11/2024 (±6M)" {
		t.Errorf("NextSurveyDisplay = %q", cert.NextSurveyDisplay)
	}
	if cert.FileID != nil {
		t.Errorf("FileID must be empty before the upload finishes, got %v", *cert.FileID)
	}
	if cert.NeedsReview {
		t.Errorf("high-confidence extraction should not need review")
	}

	stored, err := repo.GetByID(context.Background(), cert.ID)
	if err != nil {
		t.Fatalf("certificate not persisted: %v", err)
	}
	if stored.ShipID != shipID {
		t.Errorf("persisted ShipID = %v, want %v", stored.ShipID, shipID)
	}

	if err := p.AttachFile(context.Background(), cert.ID, "certificates/abc.pdf"); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	stored, _ = repo.GetByID(context.Background(), cert.ID)
	if stored.FileID == nil || *stored.FileID != "certificates/abc.pdf" {
		t.Errorf("FileID not recorded after upload")
	}
}

func TestProcessFilePersistsFallbackForReview(t *testing.T) {
	ext := &stubExtractor{err: errors.New("oracle down")}
	repo := repository.NewMemoryCertificateRepository()
	p := NewProcessor(
		NewAnalyzer(stubClassifier{cls: sufficient("text")}, ext, nil, nil),
		abbrev.NewRegistry(),
		repo,
		nil,
	)

	out, err := p.ProcessFile(context.Background(), uuid.New(), "load_line_cert.pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("fallback path must still persist: %v", err)
	}
	if !out.Degraded {
		t.Errorf("outcome should be marked degraded")
	}
	cert := out.Certificate
	if !cert.NeedsReview {
		t.Errorf("fallback certificate must be flagged for review")
	}
	if cert.NextSurveyDisplay != "-" {
		t.Errorf("no dates means placeholder survey display, got %q", cert.NextSurveyDisplay)
	}
}
