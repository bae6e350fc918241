package member

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
)

// Service is the member registry: patient profiles with medical history
// consulted when building a case.
type Service struct {
	repo repository.MemberRepository
}

func NewService(repo repository.MemberRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *model.Member) (*model.Member, error) {
	if m.FullName == "" {
		return nil, apperrors.Validation("full name is required")
	}
	if m.Phone == "" {
		return nil, apperrors.Validation("phone is required")
	}

	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *model.Member) error {
	if m.FullName == "" {
		return apperrors.Validation("full name is required")
	}
	if m.Phone == "" {
		return apperrors.Validation("phone is required")
	}
	return s.repo.Update(ctx, m)
}

// Search matches case-insensitively against the full name and by substring
// against the raw phone. A blank query lists everyone ordered by name.
func (s *Service) Search(ctx context.Context, query string) ([]*model.Member, error) {
	return s.repo.Search(ctx, query)
}

// LookupByPhone resolves an exact phone match to at most one member.
func (s *Service) LookupByPhone(ctx context.Context, phone string) (*model.Member, error) {
	if phone == "" {
		return nil, apperrors.Validation("phone is required")
	}
	return s.repo.GetByPhone(ctx, phone)
}
