package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
)

type memberRepository struct {
	BaseRepository
}

func NewMemberRepository(base BaseRepository) repository.MemberRepository {
	return &memberRepository{base}
}

func (r *memberRepository) Create(ctx context.Context, m *model.Member) error {
	query := `
		INSERT INTO members (
			id, full_name, date_of_birth, phone, emergency_contact,
			allergies, medications, medical_conditions,
			preferred_hospital_id, consent_flag, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query,
		m.ID,
		m.FullName,
		m.DateOfBirth,
		m.Phone,
		m.EmergencyContact,
		m.Allergies,
		m.Medications,
		m.MedicalConditions,
		m.PreferredHospitalID,
		m.ConsentFlag,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *memberRepository) Get(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	query := `SELECT * FROM members WHERE id = $1`
	var m model.Member
	err := sqlx.GetContext(ctx, r.ext(ctx), &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("member", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

func (r *memberRepository) Update(ctx context.Context, m *model.Member) error {
	query := `
		UPDATE members SET
			full_name = $1, date_of_birth = $2, phone = $3, emergency_contact = $4,
			allergies = $5, medications = $6, medical_conditions = $7,
			preferred_hospital_id = $8, consent_flag = $9
		WHERE id = $10
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		m.FullName,
		m.DateOfBirth,
		m.Phone,
		m.EmergencyContact,
		m.Allergies,
		m.Medications,
		m.MedicalConditions,
		m.PreferredHospitalID,
		m.ConsentFlag,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("member", sql.ErrNoRows)
	}
	return nil
}

// Search matches the name case-insensitively and the phone by raw substring.
// A blank query returns the whole registry ordered by name.
func (r *memberRepository) Search(ctx context.Context, query string) ([]*model.Member, error) {
	members := []*model.Member{}

	if strings.TrimSpace(query) == "" {
		q := `SELECT * FROM members ORDER BY full_name ASC`
		if err := sqlx.SelectContext(ctx, r.ext(ctx), &members, q); err != nil {
			return nil, fmt.Errorf("failed to search members: %w", err)
		}
		return members, nil
	}

	q := `
		SELECT * FROM members
		WHERE LOWER(full_name) LIKE '%' || LOWER($1) || '%'
		   OR phone LIKE '%' || $1 || '%'
		ORDER BY full_name ASC
	`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &members, q, query); err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	return members, nil
}

// GetByPhone treats phone as a natural key. If duplicates exist, the
// earliest-registered member wins.
func (r *memberRepository) GetByPhone(ctx context.Context, phone string) (*model.Member, error) {
	query := `
		SELECT * FROM members
		WHERE phone = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	var m model.Member
	err := sqlx.GetContext(ctx, r.ext(ctx), &m, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("member", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up member by phone: %w", err)
	}
	return &m, nil
}
