package identities

import (
	"context"
	"time"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes identity persistence operations. Profile rows are
// provisioned by a database trigger when an identity is inserted, so this
// repo never writes to profiles directly.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an identities repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateDTO holds the data required to persist a new identity.
type CreateDTO struct {
	Email        string
	PasswordHash string
	RawMeta      types.JSONMap
}

// CreateWithTx inserts an identity inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateDTO) (*models.Identity, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	meta := dto.RawMeta
	if meta == nil {
		meta = types.JSONMap{}
	}
	identity := &models.Identity{
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		RawMeta:      meta,
	}
	if err := tx.Create(identity).Error; err != nil {
		return nil, err
	}
	return identity, nil
}

// FindByEmail retrieves the identity matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindByID loads an identity by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// UpdateLastLogin refreshes the identity's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
