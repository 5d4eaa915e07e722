package analytics

import (
	"context"
	"time"

	"github.com/claude/repscope/internal/hevy"
)

// DataSource abstracts the remote fitness service for the analytics layer.
// *hevy.Client is the production implementation; tests substitute fakes.
type DataSource interface {
	GetWorkoutsPage(ctx context.Context, page, pageSize int) (hevy.WorkoutsPage, error)
	GetWorkout(ctx context.Context, id string) (*hevy.Workout, error)
	GetExerciseTemplatesPage(ctx context.Context, page, pageSize int) ([]hevy.ExerciseTemplate, error)
	GetExerciseStats(ctx context.Context, id string) (*hevy.ExerciseStats, error)
	GetExerciseProgress(ctx context.Context, id string, since time.Time, limit int) ([]hevy.ProgressEntry, error)
}

// Compile-time check: *hevy.Client satisfies DataSource.
var _ DataSource = (*hevy.Client)(nil)

// SnapshotStore persists the exercise-template catalog between runs so a
// restart does not repeat the full paginated fetch. Optional.
type SnapshotStore interface {
	LoadTemplates(maxAge time.Duration) ([]hevy.ExerciseTemplate, error)
	SaveTemplates(templates []hevy.ExerciseTemplate) error
}
