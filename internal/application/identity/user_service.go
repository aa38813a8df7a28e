package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// TokenRevoker invalidates the access tokens a user already holds
type TokenRevoker interface {
	RevokeUserTokens(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
}

// UserService manages user access. Role and status edits use the same
// version guard as product edits.
type UserService struct {
	scope     uow.TransactionScope
	logger    *zap.Logger
	revoker   TokenRevoker
	revokeTTL time.Duration
}

// NewUserService creates a new UserService
func NewUserService(scope uow.TransactionScope, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{scope: scope, logger: logger}
}

// SetTokenRevoker makes access edits revoke the user's outstanding tokens.
// ttl must cover the longest access token lifetime.
func (s *UserService) SetTokenRevoker(revoker TokenRevoker, ttl time.Duration) {
	s.revoker = revoker
	s.revokeTTL = ttl
}

// GetByID returns a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	var resp UserResponse
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		user, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToUserResponse(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateAccess applies a role/status edit if req.Version is still current
func (s *UserService) UpdateAccess(ctx context.Context, id uuid.UUID, req UpdateAccessRequest) (*UserResponse, error) {
	var user *identity.User
	var previousRole identity.Role
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		user, err = repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := user.CheckVersion("user", req.Version); err != nil {
			return err
		}
		previousRole = user.Role
		if err := user.Apply(identity.AccessChanges{Role: req.Role, Status: req.Status}); err != nil {
			return err
		}
		return repos.Users().SaveWithLock(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User access updated",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)),
		zap.Int("version", user.Version),
	)

	// Tokens carry the role, so a demoted or locked user must sign in again
	if s.revoker != nil && (user.Role != previousRole || user.Status != identity.UserStatusActive) {
		if err := s.revoker.RevokeUserTokens(ctx, user.ID, s.revokeTTL); err != nil {
			s.logger.Warn("Failed to revoke user tokens",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}

	resp := ToUserResponse(user)
	return &resp, nil
}
