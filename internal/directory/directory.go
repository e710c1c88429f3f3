// Package directory defines the staff directory boundary: the remote
// authoritative service and the local in-memory fallback expose the same
// contract, so the console behaves identically under either.
package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/spec-kit/admin-console/internal/domain"
)

// Filter narrows and pages a staff listing.
type Filter struct {
	Search    string
	Status    domain.StaffStatus
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Normalized returns the filter with paging defaults applied.
func (f Filter) Normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.SortOrder != "desc" {
		f.SortOrder = "asc"
	}
	return f
}

// Listing is a page of staff records with pagination metadata.
type Listing struct {
	Items       []domain.Staff
	TotalCount  int
	TotalPages  int
	CurrentPage int
}

// CreateDraft carries the fields required to create a staff account.
type CreateDraft struct {
	Name     string
	Username string
	Password string
	Status   domain.StaffStatus
}

// UpdatePatch carries a partial update; nil fields are left untouched.
// Username is immutable post-creation and is rejected if changed.
type UpdatePatch struct {
	Name     *string
	Username *string
	Password *string
	Status   *domain.StaffStatus
}

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	Token string
	Staff domain.Staff
}

// Directory is the staff record contract shared by remote and local backends.
// GetByID resolves soft-deleted records so audit lookups keep working;
// GetAll never returns them.
type Directory interface {
	GetAll(ctx context.Context, filter Filter) (*Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	Create(ctx context.Context, draft CreateDraft) (*domain.Staff, error)
	Update(ctx context.Context, id int64, patch UpdatePatch) (*domain.Staff, error)
	Delete(ctx context.Context, id int64) (*domain.Staff, error)
}

// Authenticator is the login boundary exposed by both backends.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
}

// ApplyFilter evaluates a filter over an in-memory record set: tombstones
// are dropped, search is a case-insensitive substring match over name and
// username, then sorting and paging are applied. Both the local fallback and
// the preload snapshot use this, so listings behave the same wherever the
// records currently live.
func ApplyFilter(records []domain.Staff, filter Filter) *Listing {
	filter = filter.Normalized()

	matched := make([]domain.Staff, 0, len(records))
	for _, record := range records {
		if record.Deleted {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !matchesSearch(record, filter.Search) {
			continue
		}
		matched = append(matched, record)
	}

	sortStaff(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	totalPages := (total + filter.Limit - 1) / filter.Limit
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &Listing{
		Items:       matched[start:end],
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
	}
}

func matchesSearch(record domain.Staff, term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(record.Name), needle) ||
		strings.Contains(strings.ToLower(record.Username), needle)
}

func sortStaff(items []domain.Staff, sortBy, sortOrder string) {
	if sortBy == "" {
		return
	}
	less := func(a, b domain.Staff) bool { return a.ID < b.ID }
	switch sortBy {
	case "name":
		less = func(a, b domain.Staff) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "username":
		less = func(a, b domain.Staff) bool { return strings.ToLower(a.Username) < strings.ToLower(b.Username) }
	case "created_at", "createdAt":
		less = func(a, b domain.Staff) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "id":
	default:
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
