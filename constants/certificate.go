package constants

import "strings"

// CertType is the canonical certificate-type label stored on certificates.
type CertType string

const (
	CertFullTerm    CertType = "Full Term"
	CertInterim     CertType = "Interim"
	CertProvisional CertType = "Provisional"
	CertShortTerm   CertType = "Short Term"
	CertConditional CertType = "Conditional"
	CertOther       CertType = "Other"
)

// CertTypes holds the allowed certificate types in display order.
var CertTypes = []CertType{
	CertFullTerm,
	CertInterim,
	CertProvisional,
	CertShortTerm,
	CertConditional,
	CertOther,
}

// CanonicalizeCertType maps a free-text label to a canonical CertType.
// Unknown labels resolve to CertOther; the second return reports whether
// the label matched a known type.
func CanonicalizeCertType(label string) (CertType, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	for _, t := range CertTypes {
		if s == strings.ToLower(string(t)) {
			return t, true
		}
	}
	// common shorthand seen on scanned certificates
	switch s {
	case "full", "fullterm", "full-term":
		return CertFullTerm, true
	case "short", "shortterm", "short-term":
		return CertShortTerm, true
	}
	return CertOther, false
}

// SurveyType is the regulatory inspection category for the next survey.
type SurveyType string

const (
	SurveyAnnual       SurveyType = "Annual"
	SurveyIntermediate SurveyType = "Intermediate"
	SurveyRenewal      SurveyType = "Renewal"
	SurveySpecial      SurveyType = "Special Survey"
	SurveyUnknown      SurveyType = "Unknown"
)
