package orders

import (
	"context"
	"testing"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/config"
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/campusprint/campusprint-backend/pkg/outbox"
	"github.com/campusprint/campusprint-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	orders map[uuid.UUID]*models.PrintOrder
}

func newStubOrdersRepo(orders ...*models.PrintOrder) *stubOrdersRepo {
	repo := &stubOrdersRepo{orders: map[uuid.UUID]*models.PrintOrder{}}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.PrintOrder) (*models.PrintOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PrintOrder, error) {
	if o, ok := s.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error) {
	var out []models.PrintOrder
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil, nil
}

func (s *stubOrdersRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.PrintOrder, *pagination.Cursor, error) {
	var out []models.PrintOrder
	for _, o := range s.orders {
		if o.MerchantID == merchantID {
			out = append(out, *o)
		}
	}
	return out, nil, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if o, ok := s.orders[id]; ok {
		o.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) UpdateDetails(ctx context.Context, order *models.PrintOrder) error {
	if o, ok := s.orders[order.ID]; ok {
		o.Copies = order.Copies
		o.Notes = order.Notes
		o.EstimatedCost = order.EstimatedCost
		return nil
	}
	return gorm.ErrRecordNotFound
}

type stubMerchantReader struct {
	merchants map[uuid.UUID]*models.Merchant
}

func newStubMerchantReader(merchants ...*models.Merchant) *stubMerchantReader {
	reader := &stubMerchantReader{merchants: map[uuid.UUID]*models.Merchant{}}
	for _, m := range merchants {
		reader.merchants[m.ID] = m
	}
	return reader
}

func (s *stubMerchantReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	if m, ok := s.merchants[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMerchantReader) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Merchant, error) {
	for _, m := range s.merchants {
		if m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMerchantReader) OwnerIDWithTx(tx *gorm.DB, merchantID uuid.UUID) (uuid.UUID, error) {
	if m, ok := s.merchants[merchantID]; ok {
		return m.UserID, nil
	}
	return uuid.Nil, gorm.ErrRecordNotFound
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func testFilesConfig() config.FilesConfig {
	return config.FilesConfig{MaxUploadBytes: 52428800}
}

func validCreateInput(merchantID uuid.UUID) CreateOrderInput {
	size := int64(1024)
	return CreateOrderInput{
		MerchantID: merchantID,
		FileName:   "essay.pdf",
		FileURL:    "https://storage.googleapis.com/print-files/essay.pdf",
		FileSize:   &size,
		Pages:      10,
		Copies:     2,
	}
}

func TestServiceCreateOrder(t *testing.T) {
	price := decimal.NewFromFloat(0.10)
	merchant := &models.Merchant{ID: uuid.New(), UserID: uuid.New(), IsActive: true, PricePerPage: price}
	repo := newStubOrdersRepo()
	publisher := &stubOutboxPublisher{}

	svc, err := NewService(repo, newStubMerchantReader(merchant), stubTxRunner{}, publisher, testFilesConfig())
	require.NoError(t, err)

	actor := policy.Actor{ProfileID: uuid.New(), Role: enums.ProfileRoleUser}
	dto, err := svc.Create(context.Background(), actor, validCreateInput(merchant.ID))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, dto.Status)
	assert.Equal(t, actor.ProfileID, dto.UserID)
	require.NotNil(t, dto.EstimatedCost)
	assert.True(t, dto.EstimatedCost.Equal(decimal.NewFromFloat(2.0)), "10 pages x 2 copies x 0.10")

	require.Len(t, publisher.events, 1)
	assert.Equal(t, enums.OutboxEventOrderCreated, publisher.events[0].EventType)
	assert.Equal(t, dto.ID, publisher.events[0].AggregateID)
}

func TestServiceCreateOrderValidation(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), UserID: uuid.New(), IsActive: true}
	svc, err := NewService(newStubOrdersRepo(), newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	actor := policy.Actor{ProfileID: uuid.New(), Role: enums.ProfileRoleUser}

	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"zero copies", func(in *CreateOrderInput) { in.Copies = 0 }},
		{"zero pages", func(in *CreateOrderInput) { in.Pages = 0 }},
		{"negative copies", func(in *CreateOrderInput) { in.Copies = -1 }},
		{"missing file name", func(in *CreateOrderInput) { in.FileName = "" }},
		{"non pdf file", func(in *CreateOrderInput) { in.FileName = "photo.png" }},
		{"missing file url", func(in *CreateOrderInput) { in.FileURL = "" }},
		{"oversized file", func(in *CreateOrderInput) { size := int64(52428801); in.FileSize = &size }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput(merchant.ID)
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), actor, input)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr, "expected typed error, got %v", err)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestServiceCreateOrderInactiveMerchant(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), UserID: uuid.New(), IsActive: false}
	svc, err := NewService(newStubOrdersRepo(), newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	actor := policy.Actor{ProfileID: uuid.New()}
	_, err = svc.Create(context.Background(), actor, validCreateInput(merchant.ID))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceGetOrderVisibility(t *testing.T) {
	customer := uuid.New()
	merchantOwner := uuid.New()
	merchant := &models.Merchant{ID: uuid.New(), UserID: merchantOwner, IsActive: true}
	order := &models.PrintOrder{
		ID:         uuid.New(),
		UserID:     customer,
		MerchantID: merchant.ID,
		Status:     enums.OrderStatusPending,
	}

	svc, err := NewService(newStubOrdersRepo(order), newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	ctx := context.Background()

	got, err := svc.GetByID(ctx, policy.Actor{ProfileID: customer}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	got, err = svc.GetByID(ctx, policy.Actor{ProfileID: merchantOwner}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetByID(ctx, policy.Actor{ProfileID: uuid.New()}, order.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceUpdateStatusLifecycle(t *testing.T) {
	customer := uuid.New()
	merchantOwner := uuid.New()
	merchant := &models.Merchant{ID: uuid.New(), UserID: merchantOwner, IsActive: true}
	order := &models.PrintOrder{
		ID:         uuid.New(),
		UserID:     customer,
		MerchantID: merchant.ID,
		Status:     enums.OrderStatusPending,
	}

	repo := newStubOrdersRepo(order)
	publisher := &stubOutboxPublisher{}
	svc, err := NewService(repo, newStubMerchantReader(merchant), stubTxRunner{}, publisher, testFilesConfig())
	require.NoError(t, err)

	ctx := context.Background()
	merchantActor := policy.Actor{ProfileID: merchantOwner, Role: enums.ProfileRoleMerchant}

	dto, err := svc.UpdateStatus(ctx, merchantActor, order.ID, enums.OrderStatusPrinting)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPrinting, dto.Status)

	dto, err = svc.UpdateStatus(ctx, merchantActor, order.ID, enums.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, dto.Status)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, enums.OutboxEventOrderStatusChanged, publisher.events[0].EventType)

	// terminal state rejects further changes
	_, err = svc.UpdateStatus(ctx, merchantActor, order.ID, enums.OrderStatusPrinting)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestServiceUpdateStatusRoleRules(t *testing.T) {
	customer := uuid.New()
	merchantOwner := uuid.New()
	merchant := &models.Merchant{ID: uuid.New(), UserID: merchantOwner, IsActive: true}

	newPendingOrder := func() (*stubOrdersRepo, uuid.UUID) {
		order := &models.PrintOrder{
			ID:         uuid.New(),
			UserID:     customer,
			MerchantID: merchant.ID,
			Status:     enums.OrderStatusPending,
		}
		return newStubOrdersRepo(order), order.ID
	}

	ctx := context.Background()
	customerActor := policy.Actor{ProfileID: customer, Role: enums.ProfileRoleUser}
	strangerActor := policy.Actor{ProfileID: uuid.New(), Role: enums.ProfileRoleUser}

	repo, orderID := newPendingOrder()
	svc, err := NewService(repo, newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	// customer cancels their own pending order
	dto, err := svc.UpdateStatus(ctx, customerActor, orderID, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, dto.Status)

	// customer cannot advance to printing
	repo, orderID = newPendingOrder()
	svc, err = NewService(repo, newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, customerActor, orderID, enums.OrderStatusPrinting)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	// third parties cannot see the order at all
	_, err = svc.UpdateStatus(ctx, strangerActor, orderID, enums.OrderStatusCancelled)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	// unknown statuses are rejected
	_, err = svc.UpdateStatus(ctx, customerActor, orderID, enums.OrderStatus("shipped"))
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceListForMerchantOwnership(t *testing.T) {
	merchantOwner := uuid.New()
	merchant := &models.Merchant{ID: uuid.New(), UserID: merchantOwner, IsActive: true}
	order := &models.PrintOrder{ID: uuid.New(), UserID: uuid.New(), MerchantID: merchant.ID}

	svc, err := NewService(newStubOrdersRepo(order), newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	ctx := context.Background()

	list, err := svc.ListForMerchant(ctx, policy.Actor{ProfileID: merchantOwner}, merchant.ID, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1)

	_, err = svc.ListForMerchant(ctx, policy.Actor{ProfileID: uuid.New()}, merchant.ID, pagination.Params{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestServiceUpdateOrderDetails(t *testing.T) {
	customer := uuid.New()
	price := decimal.NewFromFloat(0.10)
	merchant := &models.Merchant{ID: uuid.New(), UserID: uuid.New(), IsActive: true, PricePerPage: price}
	order := &models.PrintOrder{
		ID:         uuid.New(),
		UserID:     customer,
		MerchantID: merchant.ID,
		Pages:      10,
		Copies:     2,
		Status:     enums.OrderStatusPending,
	}

	repo := newStubOrdersRepo(order)
	svc, err := NewService(repo, newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	ctx := context.Background()
	copies := 5
	notes := "double sided please"

	dto, err := svc.Update(ctx, policy.Actor{ProfileID: customer}, order.ID, UpdateOrderInput{Copies: &copies, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Copies)
	require.NotNil(t, dto.EstimatedCost)
	assert.True(t, dto.EstimatedCost.Equal(decimal.NewFromFloat(5.0)), "10 pages x 5 copies x 0.10")
	require.NotNil(t, repo.orders[order.ID].Notes)
	assert.Equal(t, notes, *repo.orders[order.ID].Notes)

	// zero copies rejected
	zero := 0
	_, err = svc.Update(ctx, policy.Actor{ProfileID: customer}, order.ID, UpdateOrderInput{Copies: &zero})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	// the merchant may not edit details
	_, err = svc.Update(ctx, policy.Actor{ProfileID: merchant.UserID}, order.ID, UpdateOrderInput{Notes: &notes})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	// strangers get not found
	_, err = svc.Update(ctx, policy.Actor{ProfileID: uuid.New()}, order.ID, UpdateOrderInput{Notes: &notes})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceUpdateOrderDetailsLockedAfterPending(t *testing.T) {
	customer := uuid.New()
	merchant := &models.Merchant{ID: uuid.New(), UserID: uuid.New(), IsActive: true}
	order := &models.PrintOrder{
		ID:         uuid.New(),
		UserID:     customer,
		MerchantID: merchant.ID,
		Pages:      1,
		Copies:     1,
		Status:     enums.OrderStatusPrinting,
	}

	svc, err := NewService(newStubOrdersRepo(order), newStubMerchantReader(merchant), stubTxRunner{}, &stubOutboxPublisher{}, testFilesConfig())
	require.NoError(t, err)

	copies := 3
	_, err = svc.Update(context.Background(), policy.Actor{ProfileID: customer}, order.ID, UpdateOrderInput{Copies: &copies})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}
