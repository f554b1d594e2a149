package orders

import (
	"context"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/campusprint/campusprint-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.PrintOrder) (*models.PrintOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PrintOrder, error) {
	var order models.PrintOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error) {
	return r.list(ctx, "user_id = ?", userID, params)
}

func (r *repository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error) {
	return r.list(ctx, "merchant_id = ?", merchantID, params)
}

func (r *repository) list(ctx context.Context, where string, arg any, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.PrintOrder{}).Where(where, arg)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.PrintOrder
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

// UpdateDetails persists the customer-editable fields; status is driven
// through UpdateStatus so the transition check cannot be bypassed.
func (r *repository) UpdateDetails(ctx context.Context, order *models.PrintOrder) error {
	return r.db.WithContext(ctx).
		Model(&models.PrintOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"copies":         order.Copies,
			"notes":          order.Notes,
			"estimated_cost": order.EstimatedCost,
		}).Error
}

// Updates rather than UpdateColumn so autoUpdateTime refreshes updated_at,
// mirroring the touch_updated_at trigger.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PrintOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status}).Error
}
