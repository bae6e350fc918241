package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/model"
)

// Transactor runs fn inside a single database transaction. The transaction
// travels in the context, so every repository call made through that context
// writes through the same commit. A case mutation and its audit append share
// one Transactor scope; neither is visible without the other.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CaseRepository interface {
	Create(ctx context.Context, c *model.Case) error
	Get(ctx context.Context, id uuid.UUID) (*model.Case, error)
	Update(ctx context.Context, c *model.Case) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CaseStatus) error
	RecordNotification(ctx context.Context, c *model.Case) error
	List(ctx context.Context, filter *model.CaseFilter) ([]*model.Case, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListForCase(ctx context.Context, caseID uuid.UUID) ([]*model.AuditLog, error)
}

type MemberRepository interface {
	Create(ctx context.Context, m *model.Member) error
	Get(ctx context.Context, id uuid.UUID) (*model.Member, error)
	Update(ctx context.Context, m *model.Member) error
	Search(ctx context.Context, query string) ([]*model.Member, error)
	GetByPhone(ctx context.Context, phone string) (*model.Member, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, h *model.Hospital) error
	Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	Update(ctx context.Context, h *model.Hospital) error
	List(ctx context.Context) ([]*model.Hospital, error)
}
