package profiles

import (
	"context"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles profile persistence. Profiles are created by the
// identity provisioning trigger, never by application inserts.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a profile by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIDWithTx loads a profile using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Profile, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var profile models.Profile
	if err := tx.First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves the provided profile.
func (r *Repository) Update(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(profile).Error
}
