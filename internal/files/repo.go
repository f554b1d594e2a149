package files

import (
	"context"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository answers the merchant side of the file read rule: a shop owner
// may read an object only when one of the shop's orders references it.
type Repository interface {
	MerchantOwnsOrderFile(ctx context.Context, ownerID uuid.UUID, fileURL string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a files repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MerchantOwnsOrderFile(ctx context.Context, ownerID uuid.UUID, fileURL string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PrintOrder{}).
		Joins("JOIN merchants ON merchants.id = print_orders.merchant_id").
		Where("print_orders.file_url = ?", fileURL).
		Where("merchants.user_id = ?", ownerID).
		Count(&count).Error
	return count > 0, err
}
