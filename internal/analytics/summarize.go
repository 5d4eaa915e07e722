package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repscope/internal/hevy"
	"golang.org/x/sync/errgroup"
)

// MaxSummaryCount caps how many workouts one summarization call covers.
const MaxSummaryCount = 10

// detailFetchLimit bounds concurrent workout-detail requests.
const detailFetchLimit = 4

// ExerciseSummary is one exercise within a summarized workout.
type ExerciseSummary struct {
	Name       string     `json:"name"`
	ExerciseID string     `json:"exerciseId"`
	Sets       []hevy.Set `json:"sets"`
	BestSet    *hevy.Set  `json:"bestSet,omitempty"`
}

// WorkoutSummary is a derived, presentation-ready view of one workout.
type WorkoutSummary struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Date      string            `json:"date"`
	Duration  string            `json:"duration"`
	Exercises []ExerciseSummary `json:"exercises"`
}

// SummarizeRecentWorkouts summarizes the most recent count workouts,
// optionally keeping only exercises whose resolved names contain filter.
// Workouts left with no matching exercises after filtering are dropped.
// Any detail-fetch failure fails the whole call.
func (s *Service) SummarizeRecentWorkouts(ctx context.Context, count int, filter string) ([]WorkoutSummary, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxSummaryCount {
		count = MaxSummaryCount
	}

	// Name resolution below needs the catalog; load it before fanning out
	// so a catalog failure surfaces once, up front.
	if err := s.cache.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	items, err := s.listRecent(ctx, count)
	if err != nil {
		return nil, err
	}

	// Fetch details concurrently, then re-sequence into listing order.
	details := make([]*hevy.Workout, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)
	for i, item := range items {
		g.Go(func() error {
			w, err := s.ds.GetWorkout(gctx, item.ID)
			if err != nil {
				return fmt.Errorf("workout %s: %w", item.ID, err)
			}
			details[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]WorkoutSummary, 0, len(details))
	for _, w := range details {
		summary, err := s.summarize(ctx, w, filter)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}
	return summaries, nil
}

// listRecent pages workout summaries until count items are collected or a
// short page signals the service has no more data.
func (s *Service) listRecent(ctx context.Context, count int) ([]hevy.WorkoutListItem, error) {
	var items []hevy.WorkoutListItem
	for page := 1; len(items) < count; page++ {
		size := min(count-len(items), hevy.MaxWorkoutPageSize)
		pg, err := s.ds.GetWorkoutsPage(ctx, page, size)
		if err != nil {
			return nil, err
		}
		items = append(items, pg.Workouts...)
		if len(pg.Workouts) < size {
			break
		}
	}
	if len(items) > count {
		items = items[:count]
	}
	return items, nil
}

func (s *Service) summarize(ctx context.Context, w *hevy.Workout, filter string) (*WorkoutSummary, error) {
	exercises := make([]ExerciseSummary, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		name, err := s.cache.NameOf(ctx, ex.ExerciseTemplateID)
		if err != nil {
			return nil, err
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
			continue
		}
		exercises = append(exercises, ExerciseSummary{
			Name:       name,
			ExerciseID: ex.ExerciseTemplateID,
			Sets:       ex.Sets,
			BestSet:    bestSet(ex.Sets),
		})
	}
	if filter != "" && len(exercises) == 0 {
		return nil, nil
	}

	return &WorkoutSummary{
		ID:        w.ID,
		Title:     w.Title,
		Date:      w.StartTime.Format("2006-01-02"),
		Duration:  formatDuration(w.EndTime.Sub(w.StartTime)),
		Exercises: exercises,
	}, nil
}

// bestSet returns the qualifying set with the highest weight, first
// occurrence winning ties, or nil when no set qualifies.
func bestSet(sets []hevy.Set) *hevy.Set {
	var best *hevy.Set
	for i := range sets {
		set := &sets[i]
		if !qualifies(*set) {
			continue
		}
		if best == nil || *set.WeightKg > *best.WeightKg {
			best = set
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// qualifies reports whether a set is eligible for strength analytics:
// weight and reps recorded, and not a warm-up.
func qualifies(set hevy.Set) bool {
	return set.WeightKg != nil && set.Reps != nil && set.Type != hevy.SetWarmup
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
