package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/internal/survey"
)

// Certificate represents a ship certificate for data transfer between layers.
type Certificate struct {
	ID                  uuid.UUID  `json:"id"`
	ShipID              uuid.UUID  `json:"ship_id"`
	Name                string     `json:"name"`
	Abbreviation        string     `json:"abbreviation"`
	Type                string     `json:"type"`
	Number              *string    `json:"number,omitempty"`
	IssueDate           *time.Time `json:"issue_date,omitempty"`
	ValidDate           *time.Time `json:"valid_date,omitempty"`
	LastEndorseDate     *time.Time `json:"last_endorse_date,omitempty"`
	IssuingAuthority    string     `json:"issuing_authority"`
	FileID              *string    `json:"file_id,omitempty"`
	NextSurveyDate      *time.Time `json:"next_survey_date,omitempty"`
	NextSurveyType      string     `json:"next_survey_type"`
	NextSurveyDisplay   string     `json:"next_survey_display"`
	ExtractedConfidence float32    `json:"extracted_confidence"`
	NeedsReview         bool       `json:"needs_review"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// RecomputeSurvey derives the three next-survey fields from the
// certificate's type and dates. They are only ever written together
// so readers never observe a date paired with a stale type or label.
func (c *Certificate) RecomputeSurvey() {
	res := survey.Compute(c.Type, c.ValidDate, c.LastEndorseDate)
	if res.RawDate.IsZero() {
		c.NextSurveyDate = nil
	} else {
		d := res.RawDate
		c.NextSurveyDate = &d
	}
	c.NextSurveyType = string(res.Type)
	c.NextSurveyDisplay = res.Display
}
