package policy

import (
	"fmt"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
)

// EnsureStatusChangeAllowed checks both halves of a status change: the state
// machine (pending -> printing -> completed, pending -> cancelled) and who may
// drive each edge. Customers may only cancel their own pending orders;
// merchants drive printing and completed on orders addressed to them.
func EnsureStatusChangeAllowed(actor Actor, order *models.PrintOrder, merchantOwnerID uuid.UUID, next enums.OrderStatus) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}

	isCustomer := order.UserID == actor.ProfileID
	isMerchant := merchantOwnerID != uuid.Nil && merchantOwnerID == actor.ProfileID
	if !isCustomer && !isMerchant {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if !order.Status.CanTransitionTo(next) {
		return pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next),
		)
	}

	switch next {
	case enums.OrderStatusCancelled:
		if !isCustomer {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the customer can cancel an order")
		}
	case enums.OrderStatusPrinting, enums.OrderStatusCompleted:
		if !isMerchant {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the fulfilling merchant can advance an order")
		}
	}

	return nil
}
