package policy

import (
	"testing"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEnsureStatusChangeAllowed(t *testing.T) {
	customer := uuid.New()
	merchantOwner := uuid.New()

	orderWithStatus := func(status enums.OrderStatus) *models.PrintOrder {
		return &models.PrintOrder{
			ID:         uuid.New(),
			UserID:     customer,
			MerchantID: uuid.New(),
			Status:     status,
		}
	}

	customerActor := Actor{ProfileID: customer, Role: enums.ProfileRoleUser}
	merchantActor := Actor{ProfileID: merchantOwner, Role: enums.ProfileRoleMerchant}
	strangerActor := Actor{ProfileID: uuid.New(), Role: enums.ProfileRoleUser}

	cases := []struct {
		name     string
		actor    Actor
		status   enums.OrderStatus
		next     enums.OrderStatus
		wantCode pkgerrors.Code
	}{
		{"merchant starts printing", merchantActor, enums.OrderStatusPending, enums.OrderStatusPrinting, ""},
		{"merchant completes", merchantActor, enums.OrderStatusPrinting, enums.OrderStatusCompleted, ""},
		{"customer cancels pending", customerActor, enums.OrderStatusPending, enums.OrderStatusCancelled, ""},
		{"customer cannot start printing", customerActor, enums.OrderStatusPending, enums.OrderStatusPrinting, pkgerrors.CodeForbidden},
		{"merchant cannot cancel", merchantActor, enums.OrderStatusPending, enums.OrderStatusCancelled, pkgerrors.CodeForbidden},
		{"cannot skip to completed", merchantActor, enums.OrderStatusPending, enums.OrderStatusCompleted, pkgerrors.CodeStateConflict},
		{"cannot cancel while printing", customerActor, enums.OrderStatusPrinting, enums.OrderStatusCancelled, pkgerrors.CodeStateConflict},
		{"completed is terminal", merchantActor, enums.OrderStatusCompleted, enums.OrderStatusPrinting, pkgerrors.CodeStateConflict},
		{"cancelled is terminal", customerActor, enums.OrderStatusCancelled, enums.OrderStatusPending, pkgerrors.CodeStateConflict},
		{"unknown status rejected", merchantActor, enums.OrderStatusPending, enums.OrderStatus("shipped"), pkgerrors.CodeValidation},
		{"stranger sees not found", strangerActor, enums.OrderStatusPending, enums.OrderStatusPrinting, pkgerrors.CodeNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := EnsureStatusChangeAllowed(tc.actor, orderWithStatus(tc.status), merchantOwner, tc.next)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			requireCode(t, err, tc.wantCode)
		})
	}
}

func TestEnsureStatusChangeAllowedMissingOrder(t *testing.T) {
	actor := Actor{ProfileID: uuid.New()}
	requireCode(t, EnsureStatusChangeAllowed(actor, nil, uuid.Nil, enums.OrderStatusPrinting), pkgerrors.CodeNotFound)
}
