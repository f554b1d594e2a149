package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/campusprint/campusprint-backend/internal/identities"
	"github.com/campusprint/campusprint-backend/internal/profiles"
	"github.com/campusprint/campusprint-backend/pkg/config"
	"github.com/campusprint/campusprint-backend/pkg/db"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/campusprint/campusprint-backend/pkg/security"
	"github.com/campusprint/campusprint-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// RegisterRequest contains the payload required to sign up.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role,omitempty"`
}

// RegisterService handles the signup transaction. Profile rows are provisioned
// by a database trigger when the identity row lands, so the service only
// writes the identity and reads the profile back.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*profiles.ProfileDTO, error)
}

type registerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerIdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	CreateWithTx(tx *gorm.DB, dto identities.CreateDTO) (*models.Identity, error)
}

type registerProfileRepository interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Profile, error)
}

// RegisterServiceParams packages the dependencies for the signup flow.
type RegisterServiceParams struct {
	TxRunner            registerTxRunner
	IdentityRepoFactory func(tx *gorm.DB) registerIdentityRepository
	ProfileRepoFactory  func(tx *gorm.DB) registerProfileRepository
	PasswordConfig      config.PasswordConfig
}

type registerService struct {
	tx            registerTxRunner
	identityRepos func(tx *gorm.DB) registerIdentityRepository
	profileRepos  func(tx *gorm.DB) registerProfileRepository
	passwordCfg   config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.IdentityRepoFactory == nil {
		params.IdentityRepoFactory = func(tx *gorm.DB) registerIdentityRepository {
			return identities.NewRepository(tx)
		}
	}
	if params.ProfileRepoFactory == nil {
		params.ProfileRepoFactory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	return &registerService{
		tx:            params.TxRunner,
		identityRepos: params.IdentityRepoFactory,
		profileRepos:  params.ProfileRepoFactory,
		passwordCfg:   params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*profiles.ProfileDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}

	role := enums.ProfileRoleUser
	if trimmed := strings.TrimSpace(req.Role); trimmed != "" {
		parsed, err := enums.ParseProfileRole(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var profile *models.Profile
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		identityRepo := s.identityRepos(tx)
		profileRepo := s.profileRepos(tx)

		if _, err := identityRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check identity email")
		}

		identity, err := identityRepo.CreateWithTx(tx, identities.CreateDTO{
			Email:        email,
			PasswordHash: passwordHash,
			RawMeta: types.JSONMap{
				"full_name": fullName,
				"role":      role.String(),
			},
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create identity")
		}

		row, err := profileRepo.FindByIDWithTx(tx, identity.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load provisioned profile")
		}
		profile = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles.FromModel(profile), nil
}
