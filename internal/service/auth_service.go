package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/staffsync"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// preloadTimeout bounds the post-login bulk fetch.
const preloadTimeout = 30 * time.Second

// AuthService orchestrates the console login flow: primary directory first,
// then at most one escalation to the local fallback on a network failure.
// The fallback is a capability explicitly granted by configuration, never
// inferred from a request failing.
type AuthService struct {
	primary  directory.Authenticator
	fallback directory.Authenticator
	staff    *staffsync.Sync
	logger   *zap.Logger
}

// NewAuthService builds the service. fallback may be nil when the
// escalation capability is disabled.
func NewAuthService(primary, fallback directory.Authenticator, staff *staffsync.Sync, logger *zap.Logger) *AuthService {
	return &AuthService{primary: primary, fallback: fallback, staff: staff, logger: logger}
}

// Login authenticates and, on success, kicks off the staff preload with the
// fresh credential. A NETWORK failure escalates once to the fallback; a
// fallback failure reports plain invalid credentials so backend availability
// does not leak to the login screen.
func (s *AuthService) Login(ctx context.Context, username, password string) (*directory.LoginResult, error) {
	if username == "" || password == "" {
		details := map[string]any{}
		if username == "" {
			details["username"] = "Username is required"
		}
		if password == "" {
			details["password"] = "Password is required"
		}
		return nil, apperrors.NewValidationError("username and password required", details)
	}

	result, err := s.primary.Login(ctx, username, password)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeNetwork) || s.fallback == nil {
			return nil, err
		}
		s.logger.Warn("staff directory unreachable, escalating login to local fallback", zap.Error(err))
		result, err = s.fallback.Login(ctx, username, password)
		if err != nil {
			return nil, apperrors.NewUnauthorized("Invalid credentials")
		}
	}

	s.preloadAsync(result.Token)
	return result, nil
}

// Logout invalidates the remote session best-effort and always clears the
// cached staff snapshot. A remote failure never blocks the local logout.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.primary.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed, continuing with local session clear", zap.Error(err))
	}
	s.staff.Invalidate()
}

// preloadAsync warms the staff snapshot in the background so the first
// listing after login is served without a round trip.
func (s *AuthService) preloadAsync(credential string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()
		ctx = auth.WithCredential(ctx, credential)
		_ = s.staff.Preload(ctx)
	}()
}
