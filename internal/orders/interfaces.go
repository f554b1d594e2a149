package orders

import (
	"context"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/campusprint/campusprint-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for print orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.PrintOrder) (*models.PrintOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PrintOrder, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdateDetails(ctx context.Context, order *models.PrintOrder) error
}
