package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

// ProjectStore owns the canonical project list and mirrors it to the key-value
// store as a single JSON blob. Newest batch first; the list is never re-sorted.
type ProjectStore struct {
	kv  kv.Store
	now func() time.Time

	mu       sync.RWMutex
	projects []domain.Project
	lastID   int64
	epoch    uint64
}

// ErrStaleBatch is returned by CommitIf when the batch was superseded before it
// could be stored.
var ErrStaleBatch = errors.New("batch superseded before commit")

type Option func(*ProjectStore)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ProjectStore) { s.now = now }
}

func NewProjectStore(store kv.Store, opts ...Option) *ProjectStore {
	s := &ProjectStore{kv: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Materialize turns ideas into projects, puts the batch in front of the existing
// collection and returns it. Ids start at the current Unix millisecond, or one past
// the last issued id if that is larger, and increase by one per idea.
func (s *ProjectStore) Materialize(ideas []domain.Idea, constraints domain.ConstraintSet) []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.materializeLocked(ideas, constraints)
}

func (s *ProjectStore) materializeLocked(ideas []domain.Idea, constraints domain.ConstraintSet) []domain.Project {
	now := s.now().UTC().Truncate(time.Millisecond)

	base := now.UnixMilli()
	if base <= s.lastID {
		base = s.lastID + 1
	}

	batch := make([]domain.Project, len(ideas))
	for i, idea := range ideas {
		batch[i] = domain.Project{
			ID:          base + int64(i),
			Idea:        idea,
			CreatedAt:   now,
			Constraints: constraints.Clone(),
		}
	}
	if len(batch) > 0 {
		s.lastID = base + int64(len(batch)) - 1
	}

	merged := make([]domain.Project, 0, len(batch)+len(s.projects))
	merged = append(merged, batch...)
	s.projects = append(merged, s.projects...)

	return append([]domain.Project(nil), batch...)
}

// Commit materializes ideas and persists the result. If persisting fails the
// in-memory collection is rolled back so memory and storage stay equal.
func (s *ProjectStore) Commit(ctx context.Context, ideas []domain.Idea, constraints domain.ConstraintSet) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked(ctx, ideas, constraints)
}

// Epoch identifies the current collection. Clear and Import start a new epoch.
func (s *ProjectStore) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.epoch
}

// CommitIf commits like Commit, but only while the collection is still at epoch
// and current reports true. Both are checked under the store lock, so a batch
// rejected here never reaches memory or storage. current may be nil and must
// not call back into the store.
func (s *ProjectStore) CommitIf(ctx context.Context, epoch uint64, current func() bool, ideas []domain.Idea, constraints domain.ConstraintSet) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return nil, fmt.Errorf("%w: project collection was replaced", ErrStaleBatch)
	}
	if current != nil && !current() {
		return nil, ErrStaleBatch
	}
	return s.commitLocked(ctx, ideas, constraints)
}

func (s *ProjectStore) commitLocked(ctx context.Context, ideas []domain.Idea, constraints domain.ConstraintSet) ([]domain.Project, error) {
	prev, prevLast := s.projects, s.lastID
	batch := s.materializeLocked(ideas, constraints)

	if err := s.persistLocked(ctx); err != nil {
		s.projects, s.lastID = prev, prevLast
		return nil, err
	}
	return batch, nil
}

// Persist writes the whole collection under KeyProjects, replacing what was there.
func (s *ProjectStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.persistLocked(ctx)
}

func (s *ProjectStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(nonNil(s.projects))
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	if err := s.kv.Set(ctx, KeyProjects, string(data)); err != nil {
		return fmt.Errorf("failed to persist projects: %w", err)
	}
	return nil
}

// Restore loads the persisted collection. A missing or unreadable blob leaves the
// store empty; Restore never fails. It returns the number of projects loaded.
func (s *ProjectStore) Restore(ctx context.Context) int {
	logger := logging.NewLogger(ctx)

	var loaded []domain.Project
	raw, err := s.kv.Get(ctx, KeyProjects)
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		logger.LogWarnf("restore_projects", "read failed, starting empty: %v", err)
	default:
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			logger.LogWarnf("restore_projects", "stored projects are malformed, starting empty: %v", err)
			loaded = nil
		} else if err := checkIDs(loaded); err != nil {
			logger.LogWarnf("restore_projects", "stored projects are malformed, starting empty: %v", err)
			loaded = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = loaded
	s.lastID = maxID(loaded, s.lastID)
	s.epoch++
	return len(loaded)
}

// Clear erases every persisted key of the application and empties the collection.
// It refuses to run without confirmation. Clearing twice is harmless.
func (s *ProjectStore) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear stored data: %w", err)
	}
	s.projects = nil
	s.epoch++
	return nil
}

// ExportSnapshot returns the collection as indented JSON.
func (s *ProjectStore) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return json.MarshalIndent(nonNil(s.projects), "", "  ")
}

// Import replaces the whole collection with an exported snapshot. Input that is
// not a JSON array of projects with distinct, non-zero ids is rejected without
// touching the store.
func (s *ProjectStore) Import(ctx context.Context, data []byte) (int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, fmt.Errorf("%w: expected a JSON array of projects", domain.ErrInvalidImport)
	}

	var incoming []domain.Project
	if err := json.Unmarshal(trimmed, &incoming); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}

	if err := checkIDs(incoming); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevLast := s.projects, s.lastID
	s.projects = incoming
	s.lastID = maxID(incoming, s.lastID)

	if err := s.persistLocked(ctx); err != nil {
		s.projects, s.lastID = prev, prevLast
		return 0, err
	}
	s.epoch++
	return len(incoming), nil
}

// List returns a copy of the collection in stored order.
func (s *ProjectStore) List() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Project{}, s.projects...)
}

// Recent returns the first n projects in stored order.
func (s *ProjectStore) Recent(n int) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.projects) {
		n = len(s.projects)
	}
	if n < 0 {
		n = 0
	}
	return append([]domain.Project{}, s.projects[:n]...)
}

func (s *ProjectStore) Get(id int64) (domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Project{}, domain.ErrProjectNotFound
}

func (s *ProjectStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.projects)
}

// checkIDs reports the first project with a zero or repeated id.
func checkIDs(projects []domain.Project) error {
	seen := make(map[int64]struct{}, len(projects))
	for i, p := range projects {
		if p.ID == 0 {
			return fmt.Errorf("project %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func maxID(projects []domain.Project, floor int64) int64 {
	m := floor
	for _, p := range projects {
		if p.ID > m {
			m = p.ID
		}
	}
	return m
}

func nonNil(p []domain.Project) []domain.Project {
	if p == nil {
		return []domain.Project{}
	}
	return p
}
