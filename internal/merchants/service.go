package merchants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusprint/campusprint-backend/internal/policy"
	dbpkg "github.com/campusprint/campusprint-backend/pkg/db"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type merchantRepository interface {
	Create(ctx context.Context, dto CreateMerchantDTO) (*models.Merchant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	ListActive(ctx context.Context) ([]models.Merchant, error)
	Update(ctx context.Context, merchant *models.Merchant) error
}

// Service exposes merchant operations.
type Service interface {
	Create(ctx context.Context, actor policy.Actor, input CreateMerchantInput) (*MerchantDTO, error)
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*MerchantDTO, error)
	List(ctx context.Context) ([]MerchantDTO, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateMerchantInput) (*MerchantDTO, error)
}

type service struct {
	repo merchantRepository
}

// NewService builds a merchant service with the provided repository.
func NewService(repo merchantRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("merchant repository required")
	}
	return &service{repo: repo}, nil
}

// CreateMerchantInput captures the data needed to open a print shop.
type CreateMerchantInput struct {
	ShopName     string
	Description  *string
	Location     *string
	PricePerPage *decimal.Decimal
}

// UpdateMerchantInput captures the merchant fields allowed to change.
type UpdateMerchantInput struct {
	ShopName     *string
	Description  *string
	Location     *string
	IsActive     *bool
	PricePerPage *decimal.Decimal
}

func (s *service) Create(ctx context.Context, actor policy.Actor, input CreateMerchantInput) (*MerchantDTO, error) {
	if err := policy.EnsureMerchantCreatable(actor, actor.ProfileID); err != nil {
		return nil, err
	}

	shopName := strings.TrimSpace(input.ShopName)
	if shopName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if input.PricePerPage != nil && input.PricePerPage.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per page cannot be negative")
	}

	merchant, err := s.repo.Create(ctx, CreateMerchantDTO{
		UserID:       actor.ProfileID,
		ShopName:     shopName,
		Description:  input.Description,
		Location:     input.Location,
		PricePerPage: input.PricePerPage,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "profile already has a merchant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merchant")
	}
	return FromModel(merchant), nil
}

func (s *service) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*MerchantDTO, error) {
	merchant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	if err := policy.EnsureMerchantVisible(actor, merchant); err != nil {
		return nil, err
	}
	return FromModel(merchant), nil
}

func (s *service) List(ctx context.Context) ([]MerchantDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list merchants")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateMerchantInput) (*MerchantDTO, error) {
	merchant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}

	if err := policy.EnsureMerchantWritable(actor, merchant); err != nil {
		return nil, err
	}

	if input.ShopName != nil {
		shopName := strings.TrimSpace(*input.ShopName)
		if shopName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name cannot be empty")
		}
		merchant.ShopName = shopName
	}
	if input.Description != nil {
		merchant.Description = input.Description
	}
	if input.Location != nil {
		merchant.Location = input.Location
	}
	if input.IsActive != nil {
		merchant.IsActive = *input.IsActive
	}
	if input.PricePerPage != nil {
		if input.PricePerPage.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per page cannot be negative")
		}
		merchant.PricePerPage = *input.PricePerPage
	}

	if err := s.repo.Update(ctx, merchant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update merchant")
	}
	return FromModel(merchant), nil
}
