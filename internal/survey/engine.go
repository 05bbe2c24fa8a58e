// Package survey computes the next mandatory survey date for a
// certificate according to type-specific maritime regulatory rules.
package survey

import (
	"fmt"
	"strings"
	"time"

	"github.com/fleetdocs/certintake/constants"
	"github.com/fleetdocs/certintake/internal/dates"
)

// Window annotations. Renewal and Special Survey windows are a hard
// deadline (the survey must occur on or before the computed date);
// ordinary annual/intermediate windows tolerate a survey N months
// either side of the anchor.
const (
	WindowRenewal      = "-3M"
	WindowIntermediate = "±6M"
	WindowDefault      = "±3M"
)

// offsets in months subtracted from the validity date per rule.
const (
	renewalOffsetMonths      = 3
	intermediateOffsetMonths = 30
	annualOffsetMonths       = 12
)

// specialSurveyLabel triggers the Special Survey regime regardless of
// the canonical type table.
const specialSurveyLabel = "special survey"

// placeholderDisplay is shown when no survey date can be computed.
const placeholderDisplay = "-"

// Result is the derived survey schedule for one certificate. RawDate is
// the unannotated instant retained for sorting and filtering; Display is
// the human-readable "DD/MM/YYYY (window)" form. The two are always
// derived together.
type Result struct {
	RawDate time.Time
	Type    constants.SurveyType
	Window  string
	Display string
}

// Compute derives the next survey from the certificate-type label, the
// validity date, and the last endorsement date. Missing or ambiguous
// input resolves to SurveyUnknown with a placeholder display; it is
// never an error.
func Compute(certTypeLabel string, validDate, lastEndorse *time.Time) Result {
	if validDate == nil || validDate.IsZero() {
		return unknown()
	}
	valid := validDate.UTC()

	if strings.EqualFold(strings.TrimSpace(certTypeLabel), specialSurveyLabel) {
		// Special Survey anchors on the renewal deadline and is never
		// symmetric.
		anchor := subMonths(valid, renewalOffsetMonths)
		return annotated(anchor, constants.SurveySpecial, WindowRenewal)
	}

	label := strings.TrimSpace(certTypeLabel)
	if label == "" {
		return unknown()
	}
	certType, known := constants.CanonicalizeCertType(label)
	if !known {
		// Free-text type we cannot place in the table.
		return unknown()
	}

	switch certType {
	case constants.CertFullTerm:
		if lastEndorse != nil && !lastEndorse.IsZero() {
			anchor := subMonths(valid, renewalOffsetMonths)
			return annotated(anchor, constants.SurveyRenewal, WindowRenewal)
		}
		anchor := subMonths(valid, intermediateOffsetMonths)
		return annotated(anchor, constants.SurveyIntermediate, WindowIntermediate)
	case constants.CertInterim, constants.CertProvisional,
		constants.CertShortTerm, constants.CertConditional, constants.CertOther:
		anchor := subMonths(valid, annualOffsetMonths)
		return annotated(anchor, constants.SurveyAnnual, WindowDefault)
	default:
		return unknown()
	}
}

func annotated(anchor time.Time, st constants.SurveyType, window string) Result {
	return Result{
		RawDate: anchor,
		Type:    st,
		Window:  window,
		Display: fmt.Sprintf("%s (%s)", dates.Display(anchor), window),
	}
}

func unknown() Result {
	return Result{Type: constants.SurveyUnknown, Display: placeholderDisplay}
}

// subMonths subtracts n calendar months from t, clamping an overflowing
// day-of-month to the last valid day of the resulting month so that e.g.
// 31 August minus 2 months is 30 June, never "31 June".
func subMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	months := int(m) - 1 - n
	y += months / 12
	months %= 12
	if months < 0 {
		months += 12
		y--
	}
	target := time.Month(months + 1)

	if last := daysIn(y, target); d > last {
		d = last
	}
	return time.Date(y, target, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
