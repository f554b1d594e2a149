package auth

import (
	"context"
	"testing"

	"github.com/campusprint/campusprint-backend/internal/identities"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/campusprint/campusprint-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type registerStubTxRunner struct{}

func (registerStubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

// stubRegisterIdentityRepo mimics the provisioning trigger: inserting an
// identity makes a matching profile row appear in the paired profile stub.
type stubRegisterIdentityRepo struct {
	byEmail  map[string]*models.Identity
	profiles *stubRegisterProfileRepo
	created  *models.Identity
}

func (s *stubRegisterIdentityRepo) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	if identity, ok := s.byEmail[email]; ok {
		return identity, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterIdentityRepo) CreateWithTx(tx *gorm.DB, dto identities.CreateDTO) (*models.Identity, error) {
	identity := &models.Identity{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		RawMeta:      dto.RawMeta,
	}
	s.byEmail[dto.Email] = identity
	s.created = identity

	role := enums.ProfileRoleUser
	if raw, ok := dto.RawMeta["role"].(string); ok {
		if parsed, err := enums.ParseProfileRole(raw); err == nil {
			role = parsed
		}
	}
	fullName, _ := dto.RawMeta["full_name"].(string)
	s.profiles.byID[identity.ID] = &models.Profile{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: fullName,
		Role:     role,
	}
	return identity, nil
}

type stubRegisterProfileRepo struct {
	byID map[uuid.UUID]*models.Profile
}

func (s *stubRegisterProfileRepo) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := s.byID[id]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newRegisterTestService(t *testing.T) (*stubRegisterIdentityRepo, RegisterService) {
	t.Helper()

	profileRepo := &stubRegisterProfileRepo{byID: map[uuid.UUID]*models.Profile{}}
	identityRepo := &stubRegisterIdentityRepo{
		byEmail:  map[string]*models.Identity{},
		profiles: profileRepo,
	}

	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: registerStubTxRunner{},
		IdentityRepoFactory: func(tx *gorm.DB) registerIdentityRepository {
			return identityRepo
		},
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return profileRepo
		},
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return identityRepo, svc
}

func TestRegisterProvisionsProfile(t *testing.T) {
	identityRepo, svc := newRegisterTestService(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Email:    " Sam@Campus.edu ",
		Password: "correct horse battery",
		FullName: "Sam Student",
	})
	require.NoError(t, err)

	require.NotNil(t, identityRepo.created)
	assert.Equal(t, "sam@campus.edu", identityRepo.created.Email)
	assert.Equal(t, identityRepo.created.ID, dto.ID)
	assert.Equal(t, "Sam Student", dto.FullName)
	assert.Equal(t, enums.ProfileRoleUser, dto.Role)

	valid, err := security.VerifyPassword("correct horse battery", identityRepo.created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestRegisterMerchantRole(t *testing.T) {
	_, svc := newRegisterTestService(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "shop@campus.edu",
		Password: "correct horse battery",
		FullName: "Print Hub",
		Role:     "merchant",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ProfileRoleMerchant, dto.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newRegisterTestService(t)

	req := RegisterRequest{
		Email:    "sam@campus.edu",
		Password: "correct horse battery",
		FullName: "Sam Student",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRegisterValidation(t *testing.T) {
	_, svc := newRegisterTestService(t)

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "correct horse battery", FullName: "Sam"}},
		{"short password", RegisterRequest{Email: "sam@campus.edu", Password: "short", FullName: "Sam"}},
		{"missing full name", RegisterRequest{Email: "sam@campus.edu", Password: "correct horse battery"}},
		{"bogus role", RegisterRequest{Email: "sam@campus.edu", Password: "correct horse battery", FullName: "Sam", Role: "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.req)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr, "expected typed error, got %v", err)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}
