package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fleetdocs/certintake/internal/entity"
	"github.com/fleetdocs/certintake/internal/repository"
)

func TestExportScheduleXLSX(t *testing.T) {
	repo := repository.NewMemoryCertificateRepository()
	shipID := uuid.New()

	valid := time.Date(2027, time.May, 7, 0, 0, 0, 0, time.UTC)
	cert := &entity.Certificate{
		ShipID:    shipID,
		Name:      "International Oil Pollution Prevention Certificate",
		Type:      "Full Term",
		ValidDate: &valid,
	}
	cert.Abbreviation = "IOPP"
	cert.IssuingAuthority = "PMA"
	cert.RecomputeSurvey()
	if _, err := repo.Create(context.Background(), cert); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewService(repo, nil)
	out, err := svc.ExportScheduleXLSX(context.Background(), shipID)
	if err != nil {
		t.Fatalf("ExportScheduleXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Survey Schedule")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "Certificate" {
		t.Errorf("header[0] = %q", rows[0][0])
	}
	got := rows[1]
	if got[0] != "International Oil Pollution Prevention Certificate" || got[1] != "IOPP" {
		t.Errorf("row = %v", got)
	}
	if got[8] != "07/11/2024 (±6M)" {
		t.Errorf("next survey cell = %q", got[8])
	}
}

func TestExportScheduleXLSXEmptyShip(t *testing.T) {
	svc := NewService(repository.NewMemoryCertificateRepository(), nil)
	out, err := svc.ExportScheduleXLSX(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ExportScheduleXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Survey Schedule")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
}
