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

type caseRepository struct {
	BaseRepository
}

func NewCaseRepository(base BaseRepository) repository.CaseRepository {
	return &caseRepository{base}
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) error {
	query := `
		INSERT INTO cases (
			id, member_id, patient_name, age, sex, emergency_type,
			location_text, latitude, longitude, transport_method, estimated_eta,
			status, hospital_id, notes, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query,
		c.ID,
		c.MemberID,
		c.PatientName,
		c.Age,
		c.Sex,
		c.EmergencyType,
		c.LocationText,
		c.Latitude,
		c.Longitude,
		c.TransportMethod,
		c.EstimatedETA,
		c.Status,
		c.HospitalID,
		c.Notes,
		c.CreatedAt,
		c.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

func (r *caseRepository) Get(ctx context.Context, id uuid.UUID) (*model.Case, error) {
	query := `SELECT * FROM cases WHERE id = $1`
	var c model.Case
	err := sqlx.GetContext(ctx, r.ext(ctx), &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("case", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

// Update writes the mutable case fields only. Status moves through
// UpdateStatus and RecordNotification; created_at/created_by never move.
func (r *caseRepository) Update(ctx context.Context, c *model.Case) error {
	query := `
		UPDATE cases SET
			member_id = $1, patient_name = $2, age = $3, sex = $4,
			emergency_type = $5, location_text = $6, latitude = $7, longitude = $8,
			transport_method = $9, estimated_eta = $10, hospital_id = $11, notes = $12
		WHERE id = $13
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		c.MemberID,
		c.PatientName,
		c.Age,
		c.Sex,
		c.EmergencyType,
		c.LocationText,
		c.Latitude,
		c.Longitude,
		c.TransportMethod,
		c.EstimatedETA,
		c.HospitalID,
		c.Notes,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	return r.requireRow(result, "case")
}

func (r *caseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CaseStatus) error {
	query := `UPDATE cases SET status = $1 WHERE id = $2`
	result, err := r.ext(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update case status: %w", err)
	}
	return r.requireRow(result, "case")
}

func (r *caseRepository) RecordNotification(ctx context.Context, c *model.Case) error {
	query := `UPDATE cases SET status = $1, notified_at = $2, notified_via = $3 WHERE id = $4`
	result, err := r.ext(ctx).ExecContext(ctx, query, c.Status, c.NotifiedAt, c.NotifiedVia, c.ID)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return r.requireRow(result, "case")
}

func (r *caseRepository) List(ctx context.Context, filter *model.CaseFilter) ([]*model.Case, error) {
	query := `SELECT * FROM cases`
	var args []interface{}

	if filter != nil && filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	} else {
		query += ` WHERE status != $1`
		args = append(args, model.CaseStatusClosed)
	}
	query += ` ORDER BY created_at DESC`

	var cases []*model.Case
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &cases, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

func (r *caseRepository) requireRow(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound(resource, sql.ErrNoRows)
	}
	return nil
}
