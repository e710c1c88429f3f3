// Package staffsync reconciles a bulk-preloaded staff snapshot with
// incremental CRUD results. The snapshot is the single cached source of
// truth for listings; every mutation that succeeds invalidates it so the
// next read re-fetches.
package staffsync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/domain"
)

// preloadLimit fetches the whole directory in one page after login.
const preloadLimit = 1000

// Snapshot is the cached bulk listing plus its load metadata.
type Snapshot struct {
	Staff         []domain.Staff
	IsLoading     bool
	IsLoaded      bool
	LastFetchedAt time.Time
	Err           error
}

// usable reports whether reads should prefer the snapshot over a fresh
// fetch: loaded and non-empty, trading staleness for fewer round trips.
func (s Snapshot) usable() bool {
	return s.IsLoaded && len(s.Staff) > 0
}

// Sync owns the snapshot and dispatches writes to the directory.
type Sync struct {
	dir    directory.Directory
	logger *zap.Logger

	mu   sync.Mutex
	snap Snapshot
}

// New builds a synchronization layer over the given directory.
func New(dir directory.Directory, logger *zap.Logger) *Sync {
	return &Sync{dir: dir, logger: logger}
}

// Preload fetches the bulk snapshot. Concurrent calls collapse into one:
// a second caller returns immediately while a load is in flight.
func (s *Sync) Preload(ctx context.Context) error {
	s.mu.Lock()
	if s.snap.IsLoading {
		s.mu.Unlock()
		return nil
	}
	s.snap.IsLoading = true
	s.snap.Err = nil
	s.mu.Unlock()

	listing, err := s.dir.GetAll(ctx, directory.Filter{Limit: preloadLimit})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.IsLoading = false
	if err != nil {
		s.snap.Err = err
		s.logger.Warn("staff preload failed", zap.Error(err))
		return err
	}
	s.snap.Staff = listing.Items
	s.snap.IsLoaded = true
	s.snap.LastFetchedAt = time.Now()
	s.logger.Info("staff preload complete", zap.Int("count", len(listing.Items)))
	return nil
}

// Snapshot returns a copy of the current snapshot state.
func (s *Sync) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	snap.Staff = append([]domain.Staff(nil), s.snap.Staff...)
	return snap
}

// Invalidate drops the snapshot so the next read re-fetches.
func (s *Sync) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Staff = nil
	s.snap.IsLoaded = false
	s.snap.LastFetchedAt = time.Time{}
	s.snap.Err = nil
}

// List serves a filtered listing, preferring the loaded snapshot and falling
// back to a fresh directory fetch otherwise.
func (s *Sync) List(ctx context.Context, filter directory.Filter) (*directory.Listing, error) {
	s.mu.Lock()
	snap := s.snap
	staff := append([]domain.Staff(nil), s.snap.Staff...)
	s.mu.Unlock()

	if snap.usable() {
		return directory.ApplyFilter(staff, filter), nil
	}
	return s.dir.GetAll(ctx, filter)
}

// Search filters the currently-held list by a case-insensitive substring
// match over name and username. Without a usable snapshot it runs against a
// freshly-fetched listing.
func (s *Sync) Search(ctx context.Context, term string) ([]domain.Staff, error) {
	s.mu.Lock()
	snap := s.snap
	staff := append([]domain.Staff(nil), s.snap.Staff...)
	s.mu.Unlock()

	if !snap.usable() {
		listing, err := s.dir.GetAll(ctx, directory.Filter{Limit: preloadLimit})
		if err != nil {
			return nil, err
		}
		staff = listing.Items
	}
	return directory.ApplyFilter(staff, directory.Filter{Search: term, Limit: preloadLimit}).Items, nil
}

// Create dispatches a create and invalidates the snapshot on success.
func (s *Sync) Create(ctx context.Context, draft directory.CreateDraft) (*domain.Staff, error) {
	created, err := s.dir.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.Invalidate()
	return created, nil
}

// Update dispatches a partial update and invalidates the snapshot on success.
func (s *Sync) Update(ctx context.Context, id int64, patch directory.UpdatePatch) (*domain.Staff, error) {
	updated, err := s.dir.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.Invalidate()
	return updated, nil
}

// SoftDelete tombstones a record and invalidates the snapshot on success.
func (s *Sync) SoftDelete(ctx context.Context, id int64) (*domain.Staff, error) {
	deleted, err := s.dir.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Invalidate()
	return deleted, nil
}

// ResolveByID passes through to the directory; tombstones resolve too, so
// "created by" lookups keep working after a soft delete.
func (s *Sync) ResolveByID(ctx context.Context, id int64) (*domain.Staff, error) {
	return s.dir.GetByID(ctx, id)
}
