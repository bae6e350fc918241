package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resqlink/dispatch-api/internal/model"
)

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

func TestRecordAssignsTimestampAtWrite(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)
	caseID := uuid.New()

	before := time.Now().UTC()
	require.NoError(t, svc.Record(context.Background(), model.AuditActionCreated, "u1", &caseID, "Case created"))
	after := time.Now().UTC()

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.False(t, entry.CreatedAt.Before(before))
	assert.False(t, entry.CreatedAt.After(after))
	assert.Equal(t, "u1", entry.PerformedBy)
	require.NotNil(t, entry.Details)
	assert.Equal(t, "Case created", *entry.Details)
}

func TestRecordRequiresActionAndActor(t *testing.T) {
	svc := NewService(&fakeAuditRepo{})

	assert.Error(t, svc.Record(context.Background(), "", "u1", nil, ""))
	assert.Error(t, svc.Record(context.Background(), model.AuditActionUpdated, "", nil, ""))
}

func TestRecordWithoutCaseOrDetails(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.Record(context.Background(), "login", "u1", nil, ""))
	require.Len(t, repo.entries, 1)
	assert.Nil(t, repo.entries[0].CaseID)
	assert.Nil(t, repo.entries[0].Details)
}

func TestCaseHistoryNewestFirst(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)
	caseID := uuid.New()

	for _, action := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Record(context.Background(), action, "u1", &caseID, ""))
	}

	history, err := svc.CaseHistory(context.Background(), caseID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "C", history[0].Action)
	assert.Equal(t, "B", history[1].Action)
	assert.Equal(t, "A", history[2].Action)
}

func TestCaseHistoryUnknownCaseIsEmpty(t *testing.T) {
	svc := NewService(&fakeAuditRepo{})

	history, err := svc.CaseHistory(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, history)
}
