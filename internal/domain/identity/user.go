package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// IsValid checks if the status is a known value
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusLocked, UserStatusDeactivated:
		return true
	}
	return false
}

// Role is the name of a role managed by the external permission store
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// User is a back office or storefront account. Credentials live with the
// authentication provider; this aggregate only carries role and status.
type User struct {
	shared.BaseAggregateRoot
	Username string
	Email    string
	Role     Role
	Status   UserStatus
}

// NewUser creates an active user
func NewUser(username, email string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewValidationError("Username cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Unknown role %q", role)
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Role:              role,
		Status:            UserStatusActive,
	}, nil
}

// AccessChanges is an edit of a user's role and/or status
type AccessChanges struct {
	Role   *Role
	Status *UserStatus
}

// Apply validates and applies an access edit, advancing the version.
func (u *User) Apply(c AccessChanges) error {
	if c.Role == nil && c.Status == nil {
		return shared.NewValidationError("No user fields to update")
	}
	if c.Role != nil {
		if !c.Role.IsValid() {
			return shared.NewValidationError("Unknown role %q", *c.Role)
		}
		u.Role = *c.Role
	}
	if c.Status != nil {
		if !c.Status.IsValid() {
			return shared.NewValidationError("Unknown status %q", *c.Status)
		}
		u.Status = *c.Status
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Create inserts a new user
	Create(ctx context.Context, user *User) error

	// SaveWithLock persists role and status if the stored version is
	// user.Version-1, otherwise it returns shared.ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, user *User) error
}
