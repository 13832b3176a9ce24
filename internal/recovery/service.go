package recovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlens/internal/models"
)

// HistoryStore persists recovery snapshots. The history is append-only and
// pruned to the retention window; Clear is a wholesale, irreversible reset.
type HistoryStore interface {
	Append(ctx context.Context, s Snapshot) error
	Recent(ctx context.Context, since time.Time) ([]Snapshot, error)
	Prune(ctx context.Context, before time.Time) error
	Clear(ctx context.Context) error
}

// Service wraps the pure model with snapshot persistence. It is the only
// component with durable state; the history read-modify-write is serialized
// through a single mutex so concurrent analysis calls cannot lose entries.
type Service struct {
	store HistoryStore
	log   *slog.Logger

	mu sync.Mutex
}

// NewService creates a recovery service backed by the given history store.
func NewService(store HistoryStore, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Analyze computes the current recovery snapshot and appends it to the
// persisted history, pruning entries older than the retention window. A
// store failure is logged and does not fail the analysis: the computed
// snapshot is still returned so callers degrade instead of aborting.
func (s *Service) Analyze(ctx context.Context, sessions []models.WorkoutSession, now time.Time) Snapshot {
	snapshot := Analyze(sessions, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Append(ctx, snapshot); err != nil {
		s.log.Warn("recovery history append failed", "error", err)
		return snapshot
	}
	if err := s.store.Prune(ctx, now.AddDate(0, 0, -HistoryRetentionDays)); err != nil {
		s.log.Warn("recovery history prune failed", "error", err)
	}
	return snapshot
}

// History returns the persisted snapshots within the retention window,
// oldest first.
func (s *Service) History(ctx context.Context, now time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Recent(ctx, now.AddDate(0, 0, -HistoryRetentionDays))
}

// Clear wipes the entire snapshot history. Destructive and irreversible.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}
