package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// UpdateAccessRequest changes a user's role and/or status, guarded by the
// version the admin last read
type UpdateAccessRequest struct {
	Version int                  `json:"version" binding:"required,min=1"`
	Role    *identity.Role       `json:"role" binding:"omitempty,oneof=admin staff customer"`
	Status  *identity.UserStatus `json:"status" binding:"omitempty,oneof=active locked deactivated"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID           `json:"id"`
	Username  string              `json:"username"`
	Email     string              `json:"email"`
	Role      identity.Role       `json:"role"`
	Status    identity.UserStatus `json:"status"`
	Version   int                 `json:"version"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		Version:   u.Version,
		UpdatedAt: u.UpdatedAt,
	}
}
