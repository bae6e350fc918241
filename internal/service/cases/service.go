package cases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/repository"
	"github.com/resqlink/dispatch-api/internal/service/audit"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
	"github.com/resqlink/dispatch-api/pkg/metrics"
)

// CaseService is the case lifecycle manager. Every mutation and its audit
// append run inside one transaction: both commit or neither does.
type CaseService interface {
	Create(ctx context.Context, draft *model.Case, actorID string) (*model.Case, error)
	Update(ctx context.Context, c *model.Case, actorID string) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.CaseStatus, actorID string) error
	LogNotification(ctx context.Context, id uuid.UUID, method model.NotificationMethod, note *string, actorID string) error
	ListActive(ctx context.Context, filterStatus *model.CaseStatus) ([]*model.Case, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CaseDetail, error)
}

type Service struct {
	tx        repository.Transactor
	repo      repository.CaseRepository
	members   repository.MemberRepository
	hospitals repository.HospitalRepository
	auditor   *audit.Service
	metrics   *metrics.Metrics
}

func NewService(
	tx repository.Transactor,
	repo repository.CaseRepository,
	members repository.MemberRepository,
	hospitals repository.HospitalRepository,
	auditor *audit.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		tx:        tx,
		repo:      repo,
		members:   members,
		hospitals: hospitals,
		auditor:   auditor,
		metrics:   m,
	}
}

// Create persists a new case. The draft's status is ignored: every case
// starts Open. CreatedAt and CreatedBy are stamped here and never mutated
// afterward.
func (s *Service) Create(ctx context.Context, draft *model.Case, actorID string) (*model.Case, error) {
	if err := validateDraft(draft, actorID); err != nil {
		return nil, err
	}

	draft.ID = uuid.New()
	draft.Status = model.CaseStatusOpen
	draft.CreatedAt = time.Now().UTC()
	draft.CreatedBy = actorID
	draft.NotifiedAt = nil
	draft.NotifiedVia = nil

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, draft); err != nil {
			return err
		}
		detail := fmt.Sprintf("Case created for patient %s", draft.PatientName)
		return s.record(ctx, model.AuditActionCreated, actorID, draft.ID, detail)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CasesCreated.Inc()
	}
	return draft, nil
}

// Update persists caller-supplied changes to the mutable fields as-is.
func (s *Service) Update(ctx context.Context, c *model.Case, actorID string) error {
	if actorID == "" {
		return apperrors.Validation("actor id is required")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}
		return s.record(ctx, model.AuditActionUpdated, actorID, c.ID, "Case details updated")
	})
}

// ChangeStatus overwrites the case status. Any status may follow any other;
// the permissive table is deliberate.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status model.CaseStatus, actorID string) error {
	if actorID == "" {
		return apperrors.Validation("actor id is required")
	}
	if !status.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown status %q", status))
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	oldStatus := existing.Status

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		detail := fmt.Sprintf("Status changed: %s → %s", oldStatus, status)
		return s.record(ctx, model.AuditActionStatusChanged, actorID, id, detail)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(oldStatus), string(status)).Inc()
	}
	return nil
}

// LogNotification stamps NotifiedAt/NotifiedVia unconditionally and advances
// the status only from Open to Notified. A case that already progressed past
// Open keeps its status; notifications never move a case backward.
func (s *Service) LogNotification(ctx context.Context, id uuid.UUID, method model.NotificationMethod, note *string, actorID string) error {
	if actorID == "" {
		return apperrors.Validation("actor id is required")
	}
	if !method.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown notification method %q", method))
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	existing.NotifiedAt = &now
	existing.NotifiedVia = &method
	if existing.Status == model.CaseStatusOpen {
		existing.Status = model.CaseStatusNotified
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.RecordNotification(ctx, existing); err != nil {
			return err
		}
		detail := fmt.Sprintf("Hospital notified via %s", method)
		if note != nil && *note != "" {
			detail += ": " + *note
		}
		return s.record(ctx, model.AuditActionNotified, actorID, id, detail)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.NotificationsLogged.WithLabelValues(string(method)).Inc()
	}
	return nil
}

// ListActive returns cases newest-created-first. With no filter, closed
// cases are excluded; with a filter, exactly the matching cases return,
// closed ones included when asked for.
func (s *Service) ListActive(ctx context.Context, filterStatus *model.CaseStatus) ([]*model.Case, error) {
	return s.repo.List(ctx, &model.CaseFilter{Status: filterStatus})
}

// GetByID resolves the case with its hospital, member, and audit history
// for detail views. Dangling directory references resolve to nil.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*model.CaseDetail, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.CaseDetail{Case: *c}

	if c.HospitalID != nil {
		hospital, err := s.hospitals.Get(ctx, *c.HospitalID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		detail.Hospital = hospital
	}

	if c.MemberID != nil {
		member, err := s.members.Get(ctx, *c.MemberID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		detail.Member = member
	}

	history, err := s.auditor.CaseHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.History = history

	return detail, nil
}

func (s *Service) record(ctx context.Context, action, actorID string, caseID uuid.UUID, detail string) error {
	if err := s.auditor.Record(ctx, action, actorID, &caseID, detail); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.AuditEntriesWritten.WithLabelValues(action).Inc()
	}
	return nil
}

func validateDraft(draft *model.Case, actorID string) error {
	if draft == nil {
		return apperrors.Validation("case is required")
	}
	if draft.PatientName == "" {
		return apperrors.Validation("patient name is required")
	}
	if draft.EmergencyType == "" {
		return apperrors.Validation("emergency type is required")
	}
	if actorID == "" {
		return apperrors.Validation("actor id is required")
	}
	return nil
}
