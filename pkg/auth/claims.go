package auth

import (
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ProfileID uuid.UUID
	Role      enums.ProfileRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	ProfileID uuid.UUID         `json:"profile_id"`
	Role      enums.ProfileRole `json:"role"`
	jwt.RegisteredClaims
}
