package profiles

import (
	"time"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProfileDTO is the transport shape for profile responses.
type ProfileDTO struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	Role      enums.ProfileRole `json:"role"`
	CreatedAt time.Time         `json:"created_at"`
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}
