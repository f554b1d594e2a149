package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// Service exposes profile operations.
type Service interface {
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
}

type service struct {
	repo profileRepository
}

// NewService builds a profile service with the provided repository.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateProfileInput captures the profile fields a user may change.
// Email and role are managed by the identity layer and stay immutable here.
type UpdateProfileInput struct {
	FullName *string
}

func (s *service) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ProfileDTO, error) {
	if err := policy.EnsureProfileVisible(actor, id); err != nil {
		return nil, err
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	if err := policy.EnsureProfileWritable(actor, id); err != nil {
		return nil, err
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		profile.FullName = name
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return FromModel(profile), nil
}
