package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
)

type hospitalRepository struct {
	BaseRepository
}

func NewHospitalRepository(base BaseRepository) repository.HospitalRepository {
	return &hospitalRepository{base}
}

func (r *hospitalRepository) Create(ctx context.Context, h *model.Hospital) error {
	query := `
		INSERT INTO hospitals (
			id, name, triage_contact_name, triage_phone, triage_whatsapp,
			triage_email, preferred_notification_method, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query,
		h.ID,
		h.Name,
		h.TriageContactName,
		h.TriagePhone,
		h.TriageWhatsApp,
		h.TriageEmail,
		h.PreferredMethod,
		h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `SELECT * FROM hospitals WHERE id = $1`
	var h model.Hospital
	err := sqlx.GetContext(ctx, r.ext(ctx), &h, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &h, nil
}

func (r *hospitalRepository) Update(ctx context.Context, h *model.Hospital) error {
	query := `
		UPDATE hospitals SET
			name = $1, triage_contact_name = $2, triage_phone = $3,
			triage_whatsapp = $4, triage_email = $5, preferred_notification_method = $6
		WHERE id = $7
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		h.Name,
		h.TriageContactName,
		h.TriagePhone,
		h.TriageWhatsApp,
		h.TriageEmail,
		h.PreferredMethod,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("hospital", sql.ErrNoRows)
	}
	return nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := `SELECT * FROM hospitals ORDER BY name ASC`
	hospitals := []*model.Hospital{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &hospitals, query); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}
