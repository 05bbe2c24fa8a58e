package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/entity"
)

type CertificateRepository interface {
	Create(ctx context.Context, cert *entity.Certificate) (*entity.Certificate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Certificate, error)
	ListByShip(ctx context.Context, shipID uuid.UUID) ([]*entity.Certificate, error)
	SetFileID(ctx context.Context, id uuid.UUID, fileID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type certificateRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCertificateRepository(pool *pgxpool.Pool, logger *slog.Logger) CertificateRepository {
	return &certificateRepository{pool: pool, logger: logger}
}

const certificateColumns = `id, ship_id, name, abbreviation, type, number,
	issue_date, valid_date, last_endorse_date, issuing_authority, file_id,
	next_survey_date, next_survey_type, next_survey_display,
	extracted_confidence, needs_review, created_at, updated_at`

func (r *certificateRepository) Create(ctx context.Context, cert *entity.Certificate) (*entity.Certificate, error) {
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	now := time.Now().UTC()
	cert.CreatedAt = now
	cert.UpdatedAt = now

	const q = `INSERT INTO certificates (` + certificateColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	_, err := r.pool.Exec(ctx, q,
		cert.ID, cert.ShipID, cert.Name, cert.Abbreviation, cert.Type, cert.Number,
		cert.IssueDate, cert.ValidDate, cert.LastEndorseDate, cert.IssuingAuthority, cert.FileID,
		cert.NextSurveyDate, cert.NextSurveyType, cert.NextSurveyDisplay,
		cert.ExtractedConfidence, cert.NeedsReview, cert.CreatedAt, cert.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create certificate", "ship_id", cert.ShipID, "error", err)
		return nil, common.NewAppError("DB_INSERT", "failed to create certificate", err)
	}
	return cert, nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Certificate, error) {
	const q = `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	cert, err := scanCertificate(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get certificate", "id", id, "error", err)
		return nil, common.NewAppError("DB_QUERY", "failed to get certificate", err)
	}
	return cert, nil
}

func (r *certificateRepository) ListByShip(ctx context.Context, shipID uuid.UUID) ([]*entity.Certificate, error) {
	const q = `SELECT ` + certificateColumns + ` FROM certificates
		WHERE ship_id = $1
		ORDER BY next_survey_date NULLS LAST, name`
	rows, err := r.pool.Query(ctx, q, shipID)
	if err != nil {
		r.logger.Error("failed to list certificates", "ship_id", shipID, "error", err)
		return nil, common.NewAppError("DB_QUERY", "failed to list certificates", err)
	}
	defer rows.Close()

	var out []*entity.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, common.NewAppError("DB_SCAN", "failed to scan certificate", err)
		}
		out = append(out, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_QUERY", "failed to list certificates", err)
	}
	return out, nil
}

// SetFileID attaches the object-store reference to an already-created
// certificate once its backing file finished uploading.
func (r *certificateRepository) SetFileID(ctx context.Context, id uuid.UUID, fileID string) error {
	const q = `UPDATE certificates SET file_id = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, fileID, time.Now().UTC())
	if err != nil {
		r.logger.Error("failed to set certificate file", "id", id, "error", err)
		return common.NewAppError("DB_UPDATE", "failed to set certificate file", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *certificateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete certificate", "id", id, "error", err)
		return common.NewAppError("DB_DELETE", "failed to delete certificate", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanCertificate(row pgx.Row) (*entity.Certificate, error) {
	var c entity.Certificate
	err := row.Scan(
		&c.ID, &c.ShipID, &c.Name, &c.Abbreviation, &c.Type, &c.Number,
		&c.IssueDate, &c.ValidDate, &c.LastEndorseDate, &c.IssuingAuthority, &c.FileID,
		&c.NextSurveyDate, &c.NextSurveyType, &c.NextSurveyDisplay,
		&c.ExtractedConfidence, &c.NeedsReview, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
