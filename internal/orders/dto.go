package orders

import (
	"time"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/campusprint/campusprint-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrintOrderDTO is the transport shape for order responses.
type PrintOrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	MerchantID    uuid.UUID         `json:"merchant_id"`
	FileName      string            `json:"file_name"`
	FileURL       string            `json:"file_url"`
	FileSize      *int64            `json:"file_size,omitempty"`
	Pages         int               `json:"pages"`
	Copies        int               `json:"copies"`
	Notes         *string           `json:"notes,omitempty"`
	Status        enums.OrderStatus `json:"status"`
	EstimatedCost *decimal.Decimal  `json:"estimated_cost,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// OrderList pairs a page of orders with the cursor for the next page.
type OrderList struct {
	Orders     []PrintOrderDTO `json:"orders"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

func FromModel(o *models.PrintOrder) *PrintOrderDTO {
	if o == nil {
		return nil
	}

	return &PrintOrderDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		MerchantID:    o.MerchantID,
		FileName:      o.FileName,
		FileURL:       o.FileURL,
		FileSize:      o.FileSize,
		Pages:         o.Pages,
		Copies:        o.Copies,
		Notes:         o.Notes,
		Status:        o.Status,
		EstimatedCost: o.EstimatedCost,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func buildOrderList(rows []models.PrintOrder, next *pagination.Cursor) *OrderList {
	list := &OrderList{Orders: make([]PrintOrderDTO, 0, len(rows))}
	for i := range rows {
		list.Orders = append(list.Orders, *FromModel(&rows[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		list.NextCursor = &encoded
	}
	return list
}
