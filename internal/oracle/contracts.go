// Package oracle turns unstructured certificate text into a structured
// field set using an external AI oracle, with a filename-based fallback
// so callers always receive a usable result.
package oracle

import "context"

// ExtractedFieldSet is the normalized shape we want from the oracle.
// All fields are best-effort; date fields stay raw strings until the
// date normalizer runs. It is never persisted as-is.
type ExtractedFieldSet struct {
	CertificateName   string  `json:"certificate_name"`
	CertificateType   string  `json:"certificate_type,omitempty"`
	CertificateNumber string  `json:"certificate_number,omitempty"`
	IssueDate         string  `json:"issue_date,omitempty"`          // raw date string
	ValidDate         string  `json:"valid_date,omitempty"`          // raw date string
	LastEndorseDate   string  `json:"last_endorsement_date,omitempty"` // raw date string
	IssuingAuthority  string  `json:"issuing_authority,omitempty"`
	Confidence        float32 `json:"confidence,omitempty"` // 0..1
	ExtractionError   bool    `json:"extraction_error,omitempty"`
}

// ExtractRequest carries everything the oracle needs for one document.
type ExtractRequest struct {
	Text     string // normalized text layer (fast path) or Document AI summary (slow path)
	Filename string
}

// FieldExtractor is the interface the intake pipeline depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (ExtractedFieldSet, []byte /*rawJSON*/, error)
}

// DocumentReader is the slow-path text provider for documents without a
// usable embedded text layer.
type DocumentReader interface {
	ReadDocument(ctx context.Context, raw []byte, mimeType string) (string, error)
}
