package policy

import (
	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/google/uuid"
)

// Actor is the authenticated principal evaluated against every rule.
type Actor struct {
	ProfileID uuid.UUID
	Role      enums.ProfileRole
}

// Denied reads return NOT_FOUND rather than FORBIDDEN so callers cannot
// probe for the existence of rows they do not own. Denied writes return
// FORBIDDEN; the caller already proved the row exists by reading it.

// EnsureProfileVisible allows a profile to be read only by its owner.
func EnsureProfileVisible(actor Actor, profileID uuid.UUID) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ProfileID != profileID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return nil
}

// EnsureProfileWritable allows a profile to be updated only by its owner.
func EnsureProfileWritable(actor Actor, profileID uuid.UUID) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ProfileID != profileID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another profile")
	}
	return nil
}

// EnsureMerchantCreatable requires the merchant row to be bound to the actor.
func EnsureMerchantCreatable(actor Actor, userID uuid.UUID) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ProfileID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "merchant must belong to the requesting profile")
	}
	return nil
}

// EnsureMerchantVisible allows anyone to read an active shop. Inactive shops
// stay visible to their owner so the owner can reactivate them.
func EnsureMerchantVisible(actor Actor, merchant *models.Merchant) error {
	if merchant == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
	}
	if merchant.IsActive {
		return nil
	}
	if actor.ProfileID != uuid.Nil && actor.ProfileID == merchant.UserID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
}

// EnsureMerchantWritable allows merchant updates only by the owning profile.
func EnsureMerchantWritable(actor Actor, merchant *models.Merchant) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if merchant == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
	}
	if merchant.UserID != actor.ProfileID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another merchant")
	}
	return nil
}

// EnsureOrderVisible allows the customer who placed the order or the profile
// owning the fulfilling merchant to read it. Everyone else sees NOT_FOUND.
func EnsureOrderVisible(actor Actor, order *models.PrintOrder, merchantOwnerID uuid.UUID) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.UserID == actor.ProfileID {
		return nil
	}
	if merchantOwnerID != uuid.Nil && merchantOwnerID == actor.ProfileID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// EnsureOrderCreatable requires orders to be placed by the requesting profile.
func EnsureOrderCreatable(actor Actor, userID uuid.UUID) error {
	if actor.ProfileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ProfileID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "orders must be placed by the requesting profile")
	}
	return nil
}
