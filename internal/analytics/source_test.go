package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/claude/repscope/internal/hevy"
)

// fakeSource is an in-memory DataSource for tests. Listings are served
// with offset pagination over the backing slices.
type fakeSource struct {
	templates     []hevy.ExerciseTemplate
	templatesErr  error
	templateCalls int

	listing []hevy.WorkoutListItem
	listErr error

	details   map[string]*hevy.Workout
	detailErr map[string]error

	stats    map[string]*hevy.ExerciseStats
	statsErr error

	progress    map[string][]hevy.ProgressEntry
	progressErr error
}

func (f *fakeSource) GetWorkoutsPage(_ context.Context, page, pageSize int) (hevy.WorkoutsPage, error) {
	if f.listErr != nil {
		return hevy.WorkoutsPage{}, f.listErr
	}
	start := (page - 1) * pageSize
	if start > len(f.listing) {
		start = len(f.listing)
	}
	end := min(start+pageSize, len(f.listing))
	return hevy.WorkoutsPage{Page: page, Workouts: f.listing[start:end]}, nil
}

func (f *fakeSource) GetWorkout(_ context.Context, id string) (*hevy.Workout, error) {
	if err, ok := f.detailErr[id]; ok {
		return nil, err
	}
	w, ok := f.details[id]
	if !ok {
		return nil, errors.New("no such workout: " + id)
	}
	return w, nil
}

func (f *fakeSource) GetExerciseTemplatesPage(_ context.Context, page, pageSize int) ([]hevy.ExerciseTemplate, error) {
	f.templateCalls++
	if f.templatesErr != nil {
		return nil, f.templatesErr
	}
	start := (page - 1) * pageSize
	if start > len(f.templates) {
		start = len(f.templates)
	}
	end := min(start+pageSize, len(f.templates))
	return f.templates[start:end], nil
}

func (f *fakeSource) GetExerciseStats(_ context.Context, id string) (*hevy.ExerciseStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if s, ok := f.stats[id]; ok {
		return s, nil
	}
	return &hevy.ExerciseStats{ExerciseTemplateID: id}, nil
}

func (f *fakeSource) GetExerciseProgress(_ context.Context, id string, _ time.Time, _ int) ([]hevy.ProgressEntry, error) {
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	return f.progress[id], nil
}

// fakeSnapshot is an in-memory SnapshotStore.
type fakeSnapshot struct {
	templates []hevy.ExerciseTemplate
	loadErr   error
	saved     [][]hevy.ExerciseTemplate
}

func (f *fakeSnapshot) LoadTemplates(time.Duration) ([]hevy.ExerciseTemplate, error) {
	return f.templates, f.loadErr
}

func (f *fakeSnapshot) SaveTemplates(templates []hevy.ExerciseTemplate) error {
	f.saved = append(f.saved, templates)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(ds DataSource) *Service {
	return NewService(ds, nil, 0, testLogger())
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func set(weight float64, reps int) hevy.Set {
	return hevy.Set{Type: hevy.SetNormal, WeightKg: fptr(weight), Reps: iptr(reps)}
}

func warmup(weight float64, reps int) hevy.Set {
	return hevy.Set{Type: hevy.SetWarmup, WeightKg: fptr(weight), Reps: iptr(reps)}
}
