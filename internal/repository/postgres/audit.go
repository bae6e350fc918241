package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

// Create appends one ledger entry. The bigserial id preserves insertion
// order, which is the tie-break when two entries share a timestamp.
func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (case_id, action, performed_by, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := sqlx.GetContext(ctx, r.ext(ctx), &entry.ID, query,
		entry.CaseID,
		entry.Action,
		entry.PerformedBy,
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) ListForCase(ctx context.Context, caseID uuid.UUID) ([]*model.AuditLog, error) {
	query := `
		SELECT * FROM audit_logs
		WHERE case_id = $1
		ORDER BY created_at DESC, id DESC
	`
	logs := []*model.AuditLog{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &logs, query, caseID); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return logs, nil
}
