package middleware

import (
	"context"

	"github.com/campusprint/campusprint-backend/internal/policy"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxProfileID contextKey = "profile_id"
	ctxRole      contextKey = "actor_role"
	ctxAccessID  contextKey = "access_id"
)

func ProfileIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxProfileID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext assembles the policy actor seeded by the auth middleware.
func ActorFromContext(ctx context.Context) policy.Actor {
	actor := policy.Actor{}
	if id, err := uuid.Parse(ProfileIDFromContext(ctx)); err == nil {
		actor.ProfileID = id
	}
	actor.Role = enums.ProfileRole(RoleFromContext(ctx))
	return actor
}

// WithProfileID injects the profile identifier into the context.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfileID, profileID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithAccessID injects the session identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
