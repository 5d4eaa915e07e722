package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/repscope/internal/hevy"
)

// Service implements the query operations exposed as MCP tools: workout
// summarization, lift-progression analysis, and exercise-name resolution.
type Service struct {
	ds    DataSource
	cache *TemplateCache
	log   *slog.Logger
}

// NewService creates a Service backed by the given remote data source.
// snap may be nil to disable catalog snapshotting.
func NewService(ds DataSource, snap SnapshotStore, snapMaxAge time.Duration, log *slog.Logger) *Service {
	return &Service{
		ds:    ds,
		cache: NewTemplateCache(ds, snap, snapMaxAge, log),
		log:   log,
	}
}

// ResolveExerciseName returns the display name for an exercise template id,
// or the id itself when the catalog has no entry for it.
func (s *Service) ResolveExerciseName(ctx context.Context, id string) (string, error) {
	return s.cache.NameOf(ctx, id)
}

// SearchExercises returns catalog templates whose titles contain the query,
// case-insensitively, in catalog order. An empty query returns the full
// catalog.
func (s *Service) SearchExercises(ctx context.Context, query string) ([]hevy.ExerciseTemplate, error) {
	return s.cache.Search(ctx, query)
}
