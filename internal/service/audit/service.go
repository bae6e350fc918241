package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
)

// Service is the append-only audit ledger. Entries are written once and
// never touched again; retrieval is newest-first.
type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Record appends one entry. The timestamp is assigned here, at write time,
// never taken from the caller. Record participates in whatever transaction
// the context carries, so it commits or fails with the triggering mutation.
func (s *Service) Record(ctx context.Context, action, actorID string, caseID *uuid.UUID, details string) error {
	if action == "" {
		return fmt.Errorf("audit action is required")
	}
	if actorID == "" {
		return fmt.Errorf("audit actor is required")
	}

	entry := &model.AuditLog{
		CaseID:      caseID,
		Action:      action,
		PerformedBy: actorID,
		CreatedAt:   time.Now().UTC(),
	}
	if details != "" {
		entry.Details = &details
	}

	return s.repo.Create(ctx, entry)
}

// CaseHistory returns the case's entries newest-first. An unknown case id
// yields an empty slice, not an error.
func (s *Service) CaseHistory(ctx context.Context, caseID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.ListForCase(ctx, caseID)
}
