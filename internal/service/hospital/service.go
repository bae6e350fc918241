package hospital

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
)

const listCacheKey = "hospitals:list"

// Service is the hospital directory. The full listing is read on nearly
// every case screen, so it sits behind a short-lived cache invalidated on
// any write.
type Service struct {
	repo  repository.HospitalRepository
	cache *gocache.Cache
}

func NewService(repo repository.HospitalRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

func (s *Service) List(ctx context.Context) ([]*model.Hospital, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.Hospital), nil
	}

	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(listCacheKey, hospitals)
	return hospitals, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, h *model.Hospital) (*model.Hospital, error) {
	if h.Name == "" {
		return nil, apperrors.Validation("hospital name is required")
	}
	if h.PreferredMethod == "" {
		h.PreferredMethod = model.NotifyViaCall
	}
	if !h.PreferredMethod.Valid() {
		return nil, apperrors.Validation("unknown notification method")
	}

	h.ID = uuid.New()
	h.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	return h, nil
}

func (s *Service) Update(ctx context.Context, h *model.Hospital) error {
	if h.Name == "" {
		return apperrors.Validation("hospital name is required")
	}
	if !h.PreferredMethod.Valid() {
		return apperrors.Validation("unknown notification method")
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return err
	}
	s.cache.Delete(listCacheKey)
	return nil
}
