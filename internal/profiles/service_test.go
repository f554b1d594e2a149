package profiles

import (
	"context"
	"testing"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
	updated  *models.Profile
}

func (s *stubProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	s.updated = profile
	s.profiles[profile.ID] = profile
	return nil
}

func newStubProfileRepo(profiles ...*models.Profile) *stubProfileRepo {
	repo := &stubProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func TestServiceGetOwnProfile(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "a@campus.edu", FullName: "Ada", Role: enums.ProfileRoleUser}
	svc, err := NewService(newStubProfileRepo(profile))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), policy.Actor{ProfileID: profile.ID}, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)
	assert.Equal(t, "Ada", got.FullName)
}

func TestServiceGetOtherProfileHidden(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "a@campus.edu"}
	svc, err := NewService(newStubProfileRepo(profile))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), policy.Actor{ProfileID: uuid.New()}, profile.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceUpdateFullName(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "a@campus.edu", FullName: "Ada"}
	repo := newStubProfileRepo(profile)
	svc, err := NewService(repo)
	require.NoError(t, err)

	name := "Ada Lovelace"
	got, err := svc.Update(context.Background(), policy.Actor{ProfileID: profile.ID}, profile.ID, UpdateProfileInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "Ada Lovelace", repo.updated.FullName)
}

func TestServiceUpdateRejectsEmptyName(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), FullName: "Ada"}
	svc, err := NewService(newStubProfileRepo(profile))
	require.NoError(t, err)

	name := "   "
	_, err = svc.Update(context.Background(), policy.Actor{ProfileID: profile.ID}, profile.ID, UpdateProfileInput{FullName: &name})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceUpdateForeignProfileForbidden(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), FullName: "Ada"}
	svc, err := NewService(newStubProfileRepo(profile))
	require.NoError(t, err)

	name := "Eve"
	_, err = svc.Update(context.Background(), policy.Actor{ProfileID: uuid.New()}, profile.ID, UpdateProfileInput{FullName: &name})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}
