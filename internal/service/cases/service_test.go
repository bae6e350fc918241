package cases

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/service/audit"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
)

type fakeCaseRepo struct {
	cases      map[uuid.UUID]model.Case
	order      []uuid.UUID
	failCreate bool
	failUpdate bool
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[uuid.UUID]model.Case)}
}

func (r *fakeCaseRepo) Create(_ context.Context, c *model.Case) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.cases[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *fakeCaseRepo) Get(_ context.Context, id uuid.UUID) (*model.Case, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, apperrors.NotFound("case", nil)
	}
	copied := c
	return &copied, nil
}

func (r *fakeCaseRepo) Update(_ context.Context, c *model.Case) error {
	if r.failUpdate {
		return errors.New("update failed")
	}
	existing, ok := r.cases[c.ID]
	if !ok {
		return apperrors.NotFound("case", nil)
	}
	updated := *c
	updated.Status = existing.Status
	updated.NotifiedAt = existing.NotifiedAt
	updated.NotifiedVia = existing.NotifiedVia
	updated.CreatedAt = existing.CreatedAt
	updated.CreatedBy = existing.CreatedBy
	r.cases[c.ID] = updated
	return nil
}

func (r *fakeCaseRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.CaseStatus) error {
	c, ok := r.cases[id]
	if !ok {
		return apperrors.NotFound("case", nil)
	}
	c.Status = status
	r.cases[id] = c
	return nil
}

func (r *fakeCaseRepo) RecordNotification(_ context.Context, c *model.Case) error {
	existing, ok := r.cases[c.ID]
	if !ok {
		return apperrors.NotFound("case", nil)
	}
	existing.Status = c.Status
	existing.NotifiedAt = c.NotifiedAt
	existing.NotifiedVia = c.NotifiedVia
	r.cases[c.ID] = existing
	return nil
}

func (r *fakeCaseRepo) List(_ context.Context, filter *model.CaseFilter) ([]*model.Case, error) {
	var out []*model.Case
	// newest-created-first: insertion order reversed
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.cases[r.order[i]]
		if filter != nil && filter.Status != nil {
			if c.Status != *filter.Status {
				continue
			}
		} else if c.Status == model.CaseStatusClosed {
			continue
		}
		copied := c
		out = append(out, &copied)
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
	nextID  int64
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListForCase(_ context.Context, caseID uuid.UUID) ([]*model.AuditLog, error) {
	out := []*model.AuditLog{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.CaseID != nil && *e.CaseID == caseID {
			copied := e
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeTransactor mirrors the rollback contract: when fn fails, neither the
// case write nor the audit append survives.
type fakeTransactor struct {
	cases *fakeCaseRepo
	audit *fakeAuditRepo
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	casesSnap := make(map[uuid.UUID]model.Case, len(t.cases.cases))
	for k, v := range t.cases.cases {
		casesSnap[k] = v
	}
	orderSnap := append([]uuid.UUID(nil), t.cases.order...)
	auditSnap := append([]model.AuditLog(nil), t.audit.entries...)
	auditID := t.audit.nextID

	if err := fn(ctx); err != nil {
		t.cases.cases = casesSnap
		t.cases.order = orderSnap
		t.audit.entries = auditSnap
		t.audit.nextID = auditID
		return err
	}
	return nil
}

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]model.Hospital
}

func (r *fakeHospitalRepo) Create(_ context.Context, h *model.Hospital) error {
	r.hospitals[h.ID] = *h
	return nil
}

func (r *fakeHospitalRepo) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	h, ok := r.hospitals[id]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	copied := h
	return &copied, nil
}

func (r *fakeHospitalRepo) Update(_ context.Context, h *model.Hospital) error {
	r.hospitals[h.ID] = *h
	return nil
}

func (r *fakeHospitalRepo) List(_ context.Context) ([]*model.Hospital, error) {
	return nil, nil
}

type fakeMemberRepo struct {
	members map[uuid.UUID]model.Member
}

func (r *fakeMemberRepo) Create(_ context.Context, m *model.Member) error {
	r.members[m.ID] = *m
	return nil
}

func (r *fakeMemberRepo) Get(_ context.Context, id uuid.UUID) (*model.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, apperrors.NotFound("member", nil)
	}
	copied := m
	return &copied, nil
}

func (r *fakeMemberRepo) Update(_ context.Context, m *model.Member) error {
	r.members[m.ID] = *m
	return nil
}

func (r *fakeMemberRepo) Search(_ context.Context, _ string) ([]*model.Member, error) {
	return nil, nil
}

func (r *fakeMemberRepo) GetByPhone(_ context.Context, _ string) (*model.Member, error) {
	return nil, apperrors.NotFound("member", nil)
}

type testEnv struct {
	svc       *Service
	caseRepo  *fakeCaseRepo
	auditRepo *fakeAuditRepo
	members   *fakeMemberRepo
	hospitals *fakeHospitalRepo
}

func newTestEnv() *testEnv {
	caseRepo := newFakeCaseRepo()
	auditRepo := &fakeAuditRepo{}
	members := &fakeMemberRepo{members: make(map[uuid.UUID]model.Member)}
	hospitals := &fakeHospitalRepo{hospitals: make(map[uuid.UUID]model.Hospital)}
	tx := &fakeTransactor{cases: caseRepo, audit: auditRepo}
	svc := NewService(tx, caseRepo, members, hospitals, audit.NewService(auditRepo), nil)
	return &testEnv{
		svc:       svc,
		caseRepo:  caseRepo,
		auditRepo: auditRepo,
		members:   members,
		hospitals: hospitals,
	}
}

func draft(name, emergency string) *model.Case {
	return &model.Case{PatientName: name, EmergencyType: emergency}
}

func TestCreateForcesOpenStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	d := draft("A. Reyes", "Fall")
	d.Status = model.CaseStatusClosed // caller-supplied status must be ignored

	created, err := env.svc.Create(ctx, d, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusOpen, created.Status)
	assert.Equal(t, "u1", created.CreatedBy)
	assert.NotZero(t, created.CreatedAt)
	assert.Nil(t, created.NotifiedAt)
	assert.Nil(t, created.NotifiedVia)

	history, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, model.AuditActionCreated, history.History[0].Action)
	assert.Equal(t, "u1", history.History[0].PerformedBy)
	require.NotNil(t, history.History[0].Details)
	assert.Equal(t, "Case created for patient A. Reyes", *history.History[0].Details)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.Create(ctx, draft("", "Fall"), "u1")
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.svc.Create(ctx, draft("A. Reyes", ""), "u1")
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.svc.Create(ctx, draft("A. Reyes", "Fall"), "")
	assert.True(t, apperrors.IsValidation(err))

	// rejected before any persistence or audit write
	assert.Empty(t, env.caseRepo.cases)
	assert.Empty(t, env.auditRepo.entries)
}

func TestNotificationLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draft("A. Reyes", "Fall"), "u1")
	require.NoError(t, err)

	note := "ok"
	require.NoError(t, env.svc.LogNotification(ctx, created.ID, model.NotifyViaCall, &note, "u1"))

	detail, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusNotified, detail.Status)
	require.NotNil(t, detail.NotifiedVia)
	assert.Equal(t, model.NotifyViaCall, *detail.NotifiedVia)
	require.NotNil(t, detail.NotifiedAt)
	require.Len(t, detail.History, 2)
	assert.Equal(t, model.AuditActionNotified, detail.History[0].Action)
	assert.Equal(t, "Hospital notified via Call: ok", *detail.History[0].Details)

	require.NoError(t, env.svc.ChangeStatus(ctx, created.ID, model.CaseStatusEnRoute, "u2"))

	detail, err = env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusEnRoute, detail.Status)
	require.Len(t, detail.History, 3)
	assert.Equal(t, model.AuditActionStatusChanged, detail.History[0].Action)
	assert.Equal(t, "u2", detail.History[0].PerformedBy)
	assert.Equal(t, "Status changed: Notified → EnRoute", *detail.History[0].Details)

	// a later notification never reverts the status
	require.NoError(t, env.svc.LogNotification(ctx, created.ID, model.NotifyViaWhatsApp, nil, "u1"))

	detail, err = env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusEnRoute, detail.Status)
	require.NotNil(t, detail.NotifiedVia)
	assert.Equal(t, model.NotifyViaWhatsApp, *detail.NotifiedVia)
	require.Len(t, detail.History, 4)
	assert.Equal(t, model.AuditActionNotified, detail.History[0].Action)
	assert.Equal(t, "Hospital notified via WhatsApp", *detail.History[0].Details)
}

func TestHistoryNewestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draft("B. Cruz", "Stroke"), "u1")
	require.NoError(t, err)
	require.NoError(t, env.svc.LogNotification(ctx, created.ID, model.NotifyViaCall, nil, "u1"))
	require.NoError(t, env.svc.ChangeStatus(ctx, created.ID, model.CaseStatusEnRoute, "u1"))

	detail, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.History, 3)
	assert.Equal(t, model.AuditActionStatusChanged, detail.History[0].Action)
	assert.Equal(t, model.AuditActionNotified, detail.History[1].Action)
	assert.Equal(t, model.AuditActionCreated, detail.History[2].Action)
	// the created entry is always the oldest
	assert.Less(t, detail.History[2].ID, detail.History[1].ID)
}

func TestOperationsOnMissingCase(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	missing := uuid.New()

	err := env.svc.ChangeStatus(ctx, missing, model.CaseStatusClosed, "u1")
	assert.True(t, apperrors.IsNotFound(err))

	err = env.svc.LogNotification(ctx, missing, model.NotifyViaCall, nil, "u1")
	assert.True(t, apperrors.IsNotFound(err))

	err = env.svc.Update(ctx, &model.Case{ID: missing, PatientName: "X", EmergencyType: "Y"}, "u1")
	assert.True(t, apperrors.IsNotFound(err))

	// failed operations must not leave audit entries behind
	assert.Empty(t, env.auditRepo.entries)
}

func TestFailedMutationWritesNoAudit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.caseRepo.failCreate = true
	_, err := env.svc.Create(ctx, draft("A. Reyes", "Fall"), "u1")
	require.Error(t, err)
	assert.Empty(t, env.caseRepo.cases)
	assert.Empty(t, env.auditRepo.entries)

	env.caseRepo.failCreate = false
	created, err := env.svc.Create(ctx, draft("A. Reyes", "Fall"), "u1")
	require.NoError(t, err)

	env.caseRepo.failUpdate = true
	err = env.svc.Update(ctx, &model.Case{ID: created.ID, PatientName: "A. Reyes", EmergencyType: "Fall"}, "u1")
	require.Error(t, err)

	history, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history.History, 1) // only the created entry
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draft("A. Reyes", "Fall"), "u1")
	require.NoError(t, err)

	err = env.svc.ChangeStatus(ctx, created.ID, model.CaseStatus("Teleported"), "u1")
	assert.True(t, apperrors.IsValidation(err))
}

func TestChangeStatusIsPermissive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draft("A. Reyes", "Fall"), "u1")
	require.NoError(t, err)

	// any status may follow any other, including reopening a closed case
	require.NoError(t, env.svc.ChangeStatus(ctx, created.ID, model.CaseStatusClosed, "u1"))
	require.NoError(t, env.svc.ChangeStatus(ctx, created.ID, model.CaseStatusOpen, "u1"))

	detail, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusOpen, detail.Status)
	assert.Equal(t, "Status changed: Closed → Open", *detail.History[0].Details)
}

func TestListActiveExcludesClosed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.svc.Create(ctx, draft("First", "Fall"), "u1")
	require.NoError(t, err)
	second, err := env.svc.Create(ctx, draft("Second", "Burn"), "u1")
	require.NoError(t, err)
	third, err := env.svc.Create(ctx, draft("Third", "Stroke"), "u1")
	require.NoError(t, err)

	require.NoError(t, env.svc.ChangeStatus(ctx, second.ID, model.CaseStatusClosed, "u1"))

	active, err := env.svc.ListActive(ctx, nil)
	require.NoError(t, err)
	require.Len(t, active, 2)
	// newest-created-first
	assert.Equal(t, third.ID, active[0].ID)
	assert.Equal(t, first.ID, active[1].ID)

	closed := model.CaseStatusClosed
	closedList, err := env.svc.ListActive(ctx, &closed)
	require.NoError(t, err)
	require.Len(t, closedList, 1)
	assert.Equal(t, second.ID, closedList[0].ID)
}

func TestGetByIDResolvesReferences(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	hospitalID := uuid.New()
	env.hospitals.hospitals[hospitalID] = model.Hospital{ID: hospitalID, Name: "General Hospital"}
	memberID := uuid.New()
	env.members.members[memberID] = model.Member{ID: memberID, FullName: "Juan Dela Cruz", Phone: "+1-555-0002"}

	d := draft("Juan Dela Cruz", "Fall")
	d.HospitalID = &hospitalID
	d.MemberID = &memberID

	created, err := env.svc.Create(ctx, d, "u1")
	require.NoError(t, err)

	detail, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Hospital)
	assert.Equal(t, "General Hospital", detail.Hospital.Name)
	require.NotNil(t, detail.Member)
	assert.Equal(t, "Juan Dela Cruz", detail.Member.FullName)
}

func TestGetByIDToleratesDanglingReferences(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	goneHospital := uuid.New()
	d := draft("A. Reyes", "Fall")
	d.HospitalID = &goneHospital

	created, err := env.svc.Create(ctx, d, "u1")
	require.NoError(t, err)

	detail, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Hospital)
}

func TestCreatedByImmutableThroughUpdate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draft("A. Reyes", "Fall"), "u1")
	require.NoError(t, err)

	update := &model.Case{ID: created.ID, PatientName: "A. Reyes-Santos", EmergencyType: "Fall"}
	require.NoError(t, env.svc.Update(ctx, update, "u2"))

	detail, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A. Reyes-Santos", detail.PatientName)
	assert.Equal(t, "u1", detail.CreatedBy)
	assert.Equal(t, created.CreatedAt, detail.CreatedAt)
	assert.Equal(t, model.AuditActionUpdated, detail.History[0].Action)
}
