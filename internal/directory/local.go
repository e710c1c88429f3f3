package directory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/token"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// localActorID attributes mock mutations to the seeded admin account.
const localActorID int64 = 1

// Local is an in-memory stand-in for the remote directory, used for offline
// development and as the login fallback. The record store is owned by the
// instance and injected at construction, never shared module-level state.
// Simulated latency keeps timing-dependent callers honest in tests.
type Local struct {
	mu      sync.Mutex
	records []domain.Staff
	nextID  int64
	latency time.Duration
	codec   *token.Codec
}

// NewLocal builds a fallback directory over its own copy of the seed records.
func NewLocal(seed []domain.Staff, latency time.Duration, codec *token.Codec) *Local {
	records := make([]domain.Staff, len(seed))
	copy(records, seed)

	var maxID int64
	for _, record := range records {
		if record.ID > maxID {
			maxID = record.ID
		}
	}
	return &Local{
		records: records,
		nextID:  maxID + 1,
		latency: latency,
		codec:   codec,
	}
}

// SeedStaff returns the default development accounts.
func SeedStaff() []domain.Staff {
	actor := localActorID
	seededAt := time.Date(2025, time.November, 10, 10, 0, 0, 0, time.UTC)
	mk := func(id int64, name, username, password string, status domain.StaffStatus, offsetDays int) domain.Staff {
		at := seededAt.AddDate(0, 0, offsetDays)
		return domain.Staff{
			ID:               id,
			Name:             name,
			Username:         username,
			Password:         password,
			Status:           status,
			CreatedAt:        at,
			UpdatedAt:        at,
			CreatedByStaffID: &actor,
			UpdatedByStaffID: &actor,
		}
	}
	return []domain.Staff{
		mk(1, "Admin User", "mock", "mockpass", domain.StaffStatusActive, 0),
		mk(2, "Staff Member", "staffmock", "staff123", domain.StaffStatusActive, 1),
		mk(3, "Test Staff", "abcmock", "123mock", domain.StaffStatusActive, 2),
		mk(4, "Inactive Staff", "inactive", "test123", domain.StaffStatusInactive, 3),
	}
}

// wait simulates bounded network latency while honoring cancellation.
func (l *Local) wait(ctx context.Context) error {
	if l.latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return apperrors.NewNetworkError("request cancelled", ctx.Err())
	case <-time.After(l.latency):
		return nil
	}
}

// Login authenticates against the seeded records and issues a credential.
func (l *Local) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, record := range l.records {
		if record.Username != username || record.Password != password {
			continue
		}
		if record.Deleted || record.Locked || record.Status != domain.StaffStatusActive {
			continue
		}
		credential, _, err := l.codec.Issue(record.ID, record.Username, record.Name)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &LoginResult{Token: credential, Staff: record.Sanitized()}, nil
	}
	return nil, apperrors.NewUnauthorized("Invalid username or password")
}

// Logout is a no-op: the local directory keeps no server-side session state.
func (l *Local) Logout(ctx context.Context) error {
	return l.wait(ctx)
}

// GetAll lists non-deleted records with search, status filter and paging.
func (l *Local) GetAll(ctx context.Context, filter Filter) (*Listing, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	l.mu.Lock()
	records := make([]domain.Staff, 0, len(l.records))
	for _, record := range l.records {
		records = append(records, record.Sanitized())
	}
	l.mu.Unlock()

	return ApplyFilter(records, filter), nil
}

// GetByID resolves a record by id, tombstones included.
func (l *Local) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, record := range l.records {
		if record.ID == id {
			found := record.Sanitized()
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFound("staff", map[string]any{"id": id})
}

// Create adds a record, enforcing username uniqueness among live records.
func (l *Local) Create(ctx context.Context, draft CreateDraft) (*domain.Staff, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, record := range l.records {
		if !record.Deleted && record.Username == draft.Username {
			return nil, apperrors.NewValidationError("username already exists", map[string]any{"username": draft.Username})
		}
	}

	actor := localActorID
	now := time.Now().UTC()
	record := domain.Staff{
		ID:               l.nextID,
		Name:             draft.Name,
		Username:         draft.Username,
		Password:         draft.Password,
		Status:           draft.Status,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedByStaffID: &actor,
		UpdatedByStaffID: &actor,
	}
	l.nextID++
	l.records = append(l.records, record)

	created := record.Sanitized()
	return &created, nil
}

// Update applies a partial update to a live record.
func (l *Local) Update(ctx context.Context, id int64, patch UpdatePatch) (*domain.Staff, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		record := &l.records[i]
		if record.ID != id || record.Deleted {
			continue
		}
		if patch.Username != nil && *patch.Username != record.Username {
			return nil, apperrors.NewValidationError("username cannot be changed", map[string]any{"username": *patch.Username})
		}
		if patch.Name != nil {
			record.Name = *patch.Name
		}
		if patch.Password != nil {
			record.Password = *patch.Password
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
			}
			record.Status = *patch.Status
		}
		actor := localActorID
		record.UpdatedAt = time.Now().UTC()
		record.UpdatedByStaffID = &actor

		updated := record.Sanitized()
		return &updated, nil
	}
	return nil, apperrors.NewNotFound("staff", map[string]any{"id": id})
}

// Delete tombstones a live record and returns it.
func (l *Local) Delete(ctx context.Context, id int64) (*domain.Staff, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		record := &l.records[i]
		if record.ID != id || record.Deleted {
			continue
		}
		actor := localActorID
		record.Deleted = true
		record.UpdatedAt = time.Now().UTC()
		record.UpdatedByStaffID = &actor

		deleted := record.Sanitized()
		return &deleted, nil
	}
	return nil, apperrors.NewNotFound("staff", map[string]any{"id": id})
}

func validateDraft(draft CreateDraft) error {
	details := map[string]any{}
	if draft.Name == "" {
		details["name"] = "name is required"
	}
	if draft.Username == "" {
		details["username"] = "username is required"
	}
	if draft.Password == "" {
		details["password"] = "password is required"
	}
	if !draft.Status.Valid() {
		details["status"] = "status must be ACTIVE or INACTIVE"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid staff draft", details)
	}
	return nil
}

