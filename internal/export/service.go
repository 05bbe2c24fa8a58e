package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fleetdocs/certintake/internal/dates"
	"github.com/fleetdocs/certintake/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes
// for survey-schedule exports.
type Service struct {
	certsRepo repository.CertificateRepository
	logger    *slog.Logger
}

func NewService(certs repository.CertificateRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{certsRepo: certs, logger: logger}
}

// ExportScheduleXLSX returns an XLSX workbook (as bytes) listing the
// ship's certificates and their next surveys, ordered the way the
// repository returns them (soonest survey first).
func (s *Service) ExportScheduleXLSX(ctx context.Context, shipID uuid.UUID) ([]byte, error) {
	start := time.Now()

	certs, err := s.certsRepo.ListByShip(ctx, shipID)
	if err != nil {
		return nil, fmt.Errorf("query certificates: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Survey Schedule"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on the schedule.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Certificate",
		"Abbreviation",
		"Type",
		"Number",
		"Issuing Authority",
		"Issue Date",
		"Valid Until",
		"Last Endorsement",
		"Next Survey",
		"Survey Type",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range certs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.Name)
		write(2, c.Abbreviation)
		write(3, c.Type)
		if c.Number != nil {
			write(4, *c.Number)
		}
		write(5, c.IssuingAuthority)
		write(6, formatDate(c.IssueDate))
		write(7, formatDate(c.ValidDate))
		write(8, formatDate(c.LastEndorseDate))
		write(9, c.NextSurveyDisplay)
		write(10, c.NextSurveyType)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 48) // name
	_ = f.SetColWidth(sheet, "B", "B", 14) // abbreviation
	_ = f.SetColWidth(sheet, "C", "C", 14) // type
	_ = f.SetColWidth(sheet, "D", "D", 18) // number
	_ = f.SetColWidth(sheet, "E", "E", 20) // authority
	_ = f.SetColWidth(sheet, "F", "H", 16) // dates
	_ = f.SetColWidth(sheet, "I", "I", 22) // next survey
	_ = f.SetColWidth(sheet, "J", "J", 14) // survey type

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"ship_id", shipID.String(),
		"rows", len(certs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return dates.Display(*t)
}
