package merchants

import (
	"time"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MerchantDTO is the transport shape for merchant responses.
type MerchantDTO struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	ShopName     string           `json:"shop_name"`
	Description  *string          `json:"description,omitempty"`
	Location     *string          `json:"location,omitempty"`
	IsActive     bool             `json:"is_active"`
	PricePerPage *decimal.Decimal `json:"price_per_page,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CreateMerchantDTO holds the data required by the repo to persist a merchant.
type CreateMerchantDTO struct {
	UserID       uuid.UUID
	ShopName     string
	Description  *string
	Location     *string
	PricePerPage *decimal.Decimal
}

func FromModel(m *models.Merchant) *MerchantDTO {
	if m == nil {
		return nil
	}

	return &MerchantDTO{
		ID:           m.ID,
		UserID:       m.UserID,
		ShopName:     m.ShopName,
		Description:  m.Description,
		Location:     m.Location,
		IsActive:     m.IsActive,
		PricePerPage: &m.PricePerPage,
		CreatedAt:    m.CreatedAt,
	}
}

func FromModels(rows []models.Merchant) []MerchantDTO {
	out := make([]MerchantDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateMerchantDTO) ToModel() *models.Merchant {
	m := &models.Merchant{
		UserID:      c.UserID,
		ShopName:    c.ShopName,
		Description: c.Description,
		Location:    c.Location,
		IsActive:    true,
	}
	if c.PricePerPage != nil {
		m.PricePerPage = *c.PricePerPage
	}
	return m
}
