package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/config"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/campusprint/campusprint-backend/pkg/outbox"
	"github.com/campusprint/campusprint-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type merchantReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Merchant, error)
	OwnerIDWithTx(tx *gorm.DB, merchantID uuid.UUID) (uuid.UUID, error)
}

// Service exposes print order operations.
type Service interface {
	Create(ctx context.Context, actor policy.Actor, input CreateOrderInput) (*PrintOrderDTO, error)
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*PrintOrderDTO, error)
	ListMine(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderList, error)
	ListForMerchant(ctx context.Context, actor policy.Actor, merchantID uuid.UUID, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, next enums.OrderStatus) (*PrintOrderDTO, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateOrderInput) (*PrintOrderDTO, error)
}

type service struct {
	repo      Repository
	merchants merchantReader
	tx        txRunner
	outbox    outboxPublisher
	files     config.FilesConfig
}

// NewService builds an orders service with the provided dependencies.
func NewService(repo Repository, merchants merchantReader, tx txRunner, outboxSvc outboxPublisher, files config.FilesConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if merchants == nil {
		return nil, fmt.Errorf("merchants repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:      repo,
		merchants: merchants,
		tx:        tx,
		outbox:    outboxSvc,
		files:     files,
	}, nil
}

// CreateOrderInput captures the data needed to submit a print job.
type CreateOrderInput struct {
	MerchantID uuid.UUID
	FileName   string
	FileURL    string
	FileSize   *int64
	Pages      int
	Copies     int
	Notes      *string
}

func (s *service) Create(ctx context.Context, actor policy.Actor, input CreateOrderInput) (*PrintOrderDTO, error) {
	if err := policy.EnsureOrderCreatable(actor, actor.ProfileID); err != nil {
		return nil, err
	}
	if err := s.validateCreateInput(input); err != nil {
		return nil, err
	}

	merchant, err := s.merchants.FindByID(ctx, input.MerchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	if !merchant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant is not accepting orders")
	}

	order := &models.PrintOrder{
		UserID:        actor.ProfileID,
		MerchantID:    merchant.ID,
		FileName:      strings.TrimSpace(input.FileName),
		FileURL:       strings.TrimSpace(input.FileURL),
		FileSize:      input.FileSize,
		Pages:         input.Pages,
		Copies:        input.Copies,
		Notes:         input.Notes,
		Status:        enums.OrderStatusPending,
		EstimatedCost: estimateCost(&merchant.PricePerPage, input.Pages, input.Copies),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderCreated,
			AggregateType: enums.OutboxAggregatePrintOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data:          orderEventData(order),
			Version:       1,
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*PrintOrderDTO, error) {
	order, merchantOwnerID, err := s.loadOrderWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.EnsureOrderVisible(actor, order, merchantOwnerID); err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) ListMine(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderList, error) {
	if actor.ProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, next, err := s.repo.ListByUser(ctx, actor.ProfileID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildOrderList(rows, next), nil
}

func (s *service) ListForMerchant(ctx context.Context, actor policy.Actor, merchantID uuid.UUID, params pagination.Params) (*OrderList, error) {
	merchant, err := s.merchants.FindByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	if merchant.UserID != actor.ProfileID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another merchant's queue")
	}

	rows, next, err := s.repo.ListByMerchant(ctx, merchantID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list merchant orders")
	}
	return buildOrderList(rows, next), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, next enums.OrderStatus) (*PrintOrderDTO, error) {
	var updated *models.PrintOrder

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		merchantOwnerID, err := s.merchants.OwnerIDWithTx(tx, order.MerchantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve merchant owner")
		}

		if err := policy.EnsureStatusChangeAllowed(actor, order, merchantOwnerID, next); err != nil {
			return err
		}

		previous := order.Status
		if err := repo.UpdateStatus(ctx, order.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = next
		updated = order

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderStatusChanged,
			AggregateType: enums.OutboxAggregatePrintOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: map[string]any{
				"order_id": order.ID.String(),
				"from":     previous.String(),
				"to":       next.String(),
			},
			Version: 1,
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// UpdateOrderInput captures the fields a customer may edit before printing starts.
type UpdateOrderInput struct {
	Copies *int
	Notes  *string
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateOrderInput) (*PrintOrderDTO, error) {
	order, merchantOwnerID, err := s.loadOrderWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.EnsureOrderVisible(actor, order, merchantOwnerID); err != nil {
		return nil, err
	}
	if order.UserID != actor.ProfileID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the customer can edit order details")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order details can only change while pending")
	}

	if input.Copies != nil {
		if *input.Copies <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "copies must be positive")
		}
		order.Copies = *input.Copies
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}

	merchant, err := s.merchants.FindByID(ctx, order.MerchantID)
	switch {
	case err == nil:
		order.EstimatedCost = estimateCost(&merchant.PricePerPage, order.Pages, order.Copies)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}

	if err := s.repo.UpdateDetails(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return FromModel(order), nil
}

func (s *service) loadOrderWithOwner(ctx context.Context, id uuid.UUID) (*models.PrintOrder, uuid.UUID, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	merchant, err := s.merchants.FindByID(ctx, order.MerchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, uuid.Nil, nil
		}
		return nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return order, merchant.UserID, nil
}

func (s *service) validateCreateInput(input CreateOrderInput) error {
	if input.MerchantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return pkgerrors.New(pkgerrors.CodeValidation, "only PDF files can be printed")
	}
	if strings.TrimSpace(input.FileURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file url is required")
	}
	if input.Pages <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "pages must be positive")
	}
	if input.Copies <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "copies must be positive")
	}
	if input.FileSize != nil {
		if *input.FileSize <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "file size must be positive")
		}
		if s.files.MaxUploadBytes > 0 && *input.FileSize > s.files.MaxUploadBytes {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %d byte limit", s.files.MaxUploadBytes))
		}
	}
	return nil
}

func estimateCost(pricePerPage *decimal.Decimal, pages, copies int) *decimal.Decimal {
	if pricePerPage == nil {
		return nil
	}
	total := pricePerPage.Mul(decimal.NewFromInt(int64(pages))).Mul(decimal.NewFromInt(int64(copies)))
	return &total
}

func buildActor(actor policy.Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		ProfileID: actor.ProfileID,
		Role:      actor.Role.String(),
	}
}

func orderEventData(order *models.PrintOrder) map[string]any {
	data := map[string]any{
		"order_id":    order.ID.String(),
		"user_id":     order.UserID.String(),
		"merchant_id": order.MerchantID.String(),
		"status":      order.Status.String(),
		"pages":       order.Pages,
		"copies":      order.Copies,
	}
	if order.EstimatedCost != nil {
		data["estimated_cost"] = order.EstimatedCost.String()
	}
	return data
}
