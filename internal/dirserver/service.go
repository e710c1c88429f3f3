// Package dirserver implements the authoritative staff directory: the
// remote boundary the console's decode-without-verify gate defers to. Every
// call here verifies the token signature for real.
package dirserver

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/repository"
	"github.com/spec-kit/admin-console/internal/token"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// Service coordinates directory auth and staff management.
type Service struct {
	repo       repository.StaffRepository
	codec      *token.Codec
	denylist   *TokenDenylist
	dispatch   events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// NewService builds the service. dispatch may be nil to disable audit events.
func NewService(repo repository.StaffRepository, codec *token.Codec, denylist *TokenDenylist, dispatch events.Dispatcher, bcryptCost int, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		codec:      codec,
		denylist:   denylist,
		dispatch:   dispatch,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) publish(ctx context.Context, eventType events.EventType, staff *domain.Staff, actorID *int64) {
	if s.dispatch == nil {
		return
	}
	_ = s.dispatch.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staff.ID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.StaffMutationPayload{
			Username: staff.Username,
			Status:   staff.Status,
			Deleted:  staff.Deleted,
		},
	})
}

// Login authenticates a staff account and issues a signed credential. The
// rejection message never distinguishes unknown accounts from bad passwords
// or disabled accounts.
func (s *Service) Login(ctx context.Context, username, password string) (*directory.LoginResult, error) {
	staff, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("Invalid username or password")
		}
		return nil, apperrors.MapError(err)
	}
	if staff.Locked || staff.Status != domain.StaffStatusActive {
		return nil, apperrors.NewUnauthorized("Invalid username or password")
	}
	if err := auth.ComparePassword(staff.Password, password); err != nil {
		return nil, apperrors.NewUnauthorized("Invalid username or password")
	}

	credential, _, err := s.codec.Issue(staff.ID, staff.Username, staff.Name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventStaffLogin, staff, nil)
	return &directory.LoginResult{Token: credential, Staff: staff.Sanitized()}, nil
}

// Logout denylists the presented credential for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, credential string) error {
	expiresAt := time.Now().Add(time.Hour)
	if claims, ok := s.codec.Decode(credential); ok && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, credential, expiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	if claims, ok := s.codec.Decode(credential); ok {
		s.publish(ctx, events.EventStaffLogout, &domain.Staff{ID: claims.ID, Username: claims.Username}, nil)
	}
	return nil
}

// VerifyCredential checks signature, expiry and the denylist, then loads the
// live account behind the claims. Used by the auth middleware.
func (s *Service) VerifyCredential(ctx context.Context, credential string) (*domain.Staff, error) {
	claims, err := s.codec.ParseVerified(credential)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	revoked, err := s.denylist.IsRevoked(ctx, credential)
	if err != nil {
		s.logger.Warn("denylist lookup failed", zap.Error(err))
	} else if revoked {
		return nil, apperrors.NewUnauthorized("token revoked")
	}

	staff, err := s.repo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("staff not found")
		}
		return nil, apperrors.MapError(err)
	}
	if staff.Deleted || staff.Locked || staff.Status != domain.StaffStatusActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	return staff, nil
}

// GetAll lists live staff with search/status filters and paging.
func (s *Service) GetAll(ctx context.Context, filter directory.Filter) (*directory.Listing, error) {
	filter = filter.Normalized()

	repoFilter := repository.StaffFilter{
		Search:    filter.Search,
		Limit:     filter.Limit,
		Offset:    (filter.Page - 1) * filter.Limit,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}
	if filter.Status != "" {
		status := filter.Status
		repoFilter.Status = &status
	}

	items, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sanitized := make([]domain.Staff, 0, len(items))
	for _, staff := range items {
		sanitized = append(sanitized, staff.Sanitized())
	}
	return &directory.Listing{
		Items:       sanitized,
		TotalCount:  total,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		CurrentPage: filter.Page,
	}, nil
}

// GetByID resolves an account by id, tombstones included.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	sanitized := staff.Sanitized()
	return &sanitized, nil
}

// Create adds an account, enforcing username uniqueness among live records.
func (s *Service) Create(ctx context.Context, actorID int64, draft directory.CreateDraft) (*domain.Staff, error) {
	if draft.Name == "" || draft.Username == "" || draft.Password == "" || !draft.Status.Valid() {
		return nil, apperrors.NewValidationError("name, username, password and status required", nil)
	}

	if _, err := s.repo.GetByUsername(ctx, draft.Username); err == nil {
		return nil, apperrors.NewValidationError("username already exists", map[string]any{"username": draft.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(draft.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	staff := &domain.Staff{
		Name:             draft.Name,
		Username:         draft.Username,
		Password:         hash,
		Status:           draft.Status,
		CreatedByStaffID: &actorID,
		UpdatedByStaffID: &actorID,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		// A concurrent create can slip past the pre-check and hit the
		// partial unique index instead.
		if isUniqueViolation(err) {
			return nil, apperrors.NewValidationError("username already exists", map[string]any{"username": draft.Username})
		}
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffCreated, staff, &actorID)
	created := staff.Sanitized()
	return &created, nil
}

// Update applies a partial update to a live account. Username is immutable
// post-creation.
func (s *Service) Update(ctx context.Context, actorID, id int64, patch directory.UpdatePatch) (*domain.Staff, error) {
	staff, err := s.liveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Username != nil && *patch.Username != staff.Username {
		return nil, apperrors.NewValidationError("username cannot be changed", map[string]any{"username": *patch.Username})
	}
	if patch.Name != nil {
		staff.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		staff.Password = hash
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
		}
		staff.Status = *patch.Status
	}
	staff.UpdatedByStaffID = &actorID

	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffUpdated, staff, &actorID)
	updated := staff.Sanitized()
	return &updated, nil
}

// Delete tombstones a live account and returns it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) (*domain.Staff, error) {
	staff, err := s.liveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.Deleted = true
	staff.UpdatedByStaffID = &actorID

	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffDeleted, staff, &actorID)
	deleted := staff.Sanitized()
	return &deleted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Service) liveByID(ctx context.Context, id int64) (*domain.Staff, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if staff.Deleted {
		return nil, apperrors.NewNotFound("staff", map[string]any{"id": id})
	}
	return staff, nil
}
