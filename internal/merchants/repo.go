package merchants

import (
	"context"
	"fmt"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles merchant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to merchant operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new merchant row. The unique constraint on user_id
// guarantees at most one merchant per profile.
func (r *Repository) Create(ctx context.Context, dto CreateMerchantDTO) (*models.Merchant, error) {
	merchant := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(merchant).Error; err != nil {
		return nil, err
	}
	return merchant, nil
}

// FindByID loads a merchant by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// FindByUserID loads the merchant owned by the provided profile.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// ListActive returns all active merchants ordered by shop name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Merchant, error) {
	var merchants []models.Merchant
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("shop_name ASC").
		Find(&merchants).Error; err != nil {
		return nil, err
	}
	return merchants, nil
}

// Update saves the provided merchant.
func (r *Repository) Update(ctx context.Context, merchant *models.Merchant) error {
	if merchant == nil {
		return fmt.Errorf("merchant is required")
	}
	return r.db.WithContext(ctx).Save(merchant).Error
}

// OwnerIDWithTx resolves the owning profile for a merchant inside a transaction.
func (r *Repository) OwnerIDWithTx(tx *gorm.DB, merchantID uuid.UUID) (uuid.UUID, error) {
	if tx == nil {
		return uuid.Nil, gorm.ErrInvalidTransaction
	}
	var merchant models.Merchant
	if err := tx.Select("user_id").First(&merchant, "id = ?", merchantID).Error; err != nil {
		return uuid.Nil, err
	}
	return merchant.UserID, nil
}
