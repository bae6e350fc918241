package member

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resqlink/dispatch-api/internal/model"
	apperrors "github.com/resqlink/dispatch-api/pkg/errors"
)

// fakeMemberRepo mirrors the SQL search contract: case-insensitive name
// containment, raw substring phone containment, name-ordered results, and
// earliest-registered-wins phone lookup.
type fakeMemberRepo struct {
	members []model.Member
}

func (r *fakeMemberRepo) Create(_ context.Context, m *model.Member) error {
	r.members = append(r.members, *m)
	return nil
}

func (r *fakeMemberRepo) Get(_ context.Context, id uuid.UUID) (*model.Member, error) {
	for _, m := range r.members {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("member", nil)
}

func (r *fakeMemberRepo) Update(_ context.Context, m *model.Member) error {
	for i := range r.members {
		if r.members[i].ID == m.ID {
			r.members[i] = *m
			return nil
		}
	}
	return apperrors.NotFound("member", nil)
}

func (r *fakeMemberRepo) Search(_ context.Context, query string) ([]*model.Member, error) {
	out := []*model.Member{}
	trimmed := strings.TrimSpace(query)
	for _, m := range r.members {
		if trimmed == "" ||
			strings.Contains(strings.ToLower(m.FullName), strings.ToLower(query)) ||
			strings.Contains(m.Phone, query) {
			copied := m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *fakeMemberRepo) GetByPhone(_ context.Context, phone string) (*model.Member, error) {
	var match *model.Member
	for i := range r.members {
		m := r.members[i]
		if m.Phone != phone {
			continue
		}
		if match == nil || m.CreatedAt.Before(match.CreatedAt) {
			copied := m
			match = &copied
		}
	}
	if match == nil {
		return nil, apperrors.NotFound("member", nil)
	}
	return match, nil
}

func seedRegistry(t *testing.T, svc *Service) {
	t.Helper()
	for _, m := range []model.Member{
		{FullName: "Juan Dela Cruz", Phone: "+1-555-0002"},
		{FullName: "Maria Santos", Phone: "+1-555-0003"},
		{FullName: "Ana Cruz", Phone: "+1-555-0104"},
	} {
		member := m
		_, err := svc.Create(context.Background(), &member)
		require.NoError(t, err)
	}
}

func TestSearchNameIsCaseInsensitive(t *testing.T) {
	svc := NewService(&fakeMemberRepo{})
	seedRegistry(t, svc)

	results, err := svc.Search(context.Background(), "juan")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Juan Dela Cruz", results[0].FullName)
}

func TestSearchPhoneBySubstring(t *testing.T) {
	svc := NewService(&fakeMemberRepo{})
	seedRegistry(t, svc)

	results, err := svc.Search(context.Background(), "0002")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "+1-555-0002", results[0].Phone)
}

func TestBlankSearchListsAllByName(t *testing.T) {
	svc := NewService(&fakeMemberRepo{})
	seedRegistry(t, svc)

	results, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Ana Cruz", results[0].FullName)
	assert.Equal(t, "Juan Dela Cruz", results[1].FullName)
	assert.Equal(t, "Maria Santos", results[2].FullName)
}

func TestLookupByPhoneExactMatch(t *testing.T) {
	svc := NewService(&fakeMemberRepo{})
	seedRegistry(t, svc)

	m, err := svc.LookupByPhone(context.Background(), "+1-555-0003")
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", m.FullName)

	// substring is not enough for the exact lookup
	_, err = svc.LookupByPhone(context.Background(), "0003")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.LookupByPhone(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := NewService(&fakeMemberRepo{})

	_, err := svc.Create(context.Background(), &model.Member{Phone: "+1-555-0001"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), &model.Member{FullName: "No Phone"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateAssignsIDAndPreservesConsent(t *testing.T) {
	svc := NewService(&fakeMemberRepo{})

	created, err := svc.Create(context.Background(), &model.Member{
		FullName:    "Juan Dela Cruz",
		Phone:       "+1-555-0002",
		ConsentFlag: true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.ConsentFlag)
	assert.NotZero(t, created.CreatedAt)
}
