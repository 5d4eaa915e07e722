package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/claude/repscope/internal/hevy"
)

const (
	// DefaultLookbackDays is the progress window when the caller gives none.
	DefaultLookbackDays = 90
	minLookbackDays     = 7
	maxLookbackDays     = 365

	// progressFetchLimit bounds how many history entries one exercise pulls.
	progressFetchLimit = 50

	// trendThresholdKg separates plateau from improvement/decline. The
	// boundary is strict: a delta of exactly ±2.5 kg is still a plateau.
	trendThresholdKg = 2.5

	recentSessionCount = 5
	topSetsPerSession  = 3
)

// NotFoundID marks a goal whose name matched no catalog template.
const NotFoundID = "NOT_FOUND"

// Trend classifies estimated-1RM movement over the lookback window.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendPlateau          Trend = "plateau"
	TrendInsufficientData Trend = "insufficient_data"
)

// FetchStatus records the outcome of an optional per-exercise sub-fetch,
// keeping "failed" distinguishable from "never attempted".
type FetchStatus string

const (
	FetchOK      FetchStatus = "ok"
	FetchFailed  FetchStatus = "failed"
	FetchSkipped FetchStatus = "skipped"
)

// LiftGoal is one requested exercise, by search term, with an optional
// target weight.
type LiftGoal struct {
	Name   string   `json:"name"`
	GoalKg *float64 `json:"goal_kg,omitempty"`
}

// SessionSet is a weight/reps pair reported for a recent session.
type SessionSet struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}

// RecentSession is one recent training session with its heaviest
// qualifying sets.
type RecentSession struct {
	Date string       `json:"date"`
	Sets []SessionSet `json:"sets"`
}

// LiftProgression is the per-goal analysis result.
type LiftProgression struct {
	ExerciseName        string                `json:"exerciseName"`
	ExerciseID          string                `json:"exerciseId"`
	GoalKg              *float64              `json:"goalKg,omitempty"`
	CurrentEstimated1RM *float64              `json:"currentEstimated1RM,omitempty"`
	ProgressPercent     *int                  `json:"progressPercent,omitempty"`
	RemainingKg         *float64              `json:"remainingKg,omitempty"`
	PersonalRecords     []hevy.PersonalRecord `json:"personalRecords"`
	Trend               Trend                 `json:"trend"`
	TrendDeltaKg        *float64              `json:"trendDeltaKg,omitempty"`
	RecentSessions      []RecentSession       `json:"recentSessions"`
	StatsStatus         FetchStatus           `json:"statsStatus"`
	ProgressStatus      FetchStatus           `json:"progressStatus"`
}

// AnalyzeLiftProgression analyzes each goal against the lookback window.
// Goals are processed sequentially to bound load on the remote service.
// A goal that resolves to no template yields a NOT_FOUND sentinel entry;
// stats or history fetch failures degrade that goal's result rather than
// failing the call. Only a catalog-load failure aborts everything.
func (s *Service) AnalyzeLiftProgression(ctx context.Context, goals []LiftGoal, lookbackDays int) ([]LiftProgression, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if lookbackDays < minLookbackDays {
		lookbackDays = minLookbackDays
	}
	if lookbackDays > maxLookbackDays {
		lookbackDays = maxLookbackDays
	}

	if err := s.cache.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -lookbackDays)
	results := make([]LiftProgression, 0, len(goals))
	for _, goal := range goals {
		results = append(results, s.analyzeGoal(ctx, goal, since))
	}
	return results, nil
}

func (s *Service) analyzeGoal(ctx context.Context, goal LiftGoal, since time.Time) LiftProgression {
	matches, err := s.cache.Search(ctx, goal.Name)
	if err != nil || len(matches) == 0 {
		// The cache is already loaded here, so Search cannot fail; a miss
		// is a reportable outcome, not an error.
		return LiftProgression{
			ExerciseName:    goal.Name,
			ExerciseID:      NotFoundID,
			GoalKg:          goal.GoalKg,
			PersonalRecords: []hevy.PersonalRecord{},
			Trend:           TrendInsufficientData,
			RecentSessions:  []RecentSession{},
			StatsStatus:     FetchSkipped,
			ProgressStatus:  FetchSkipped,
		}
	}

	// First catalog match wins. Ambiguous partial names resolve by catalog
	// order, not closest match.
	tmpl := matches[0]

	result := LiftProgression{
		ExerciseName:    tmpl.Title,
		ExerciseID:      tmpl.ID,
		GoalKg:          goal.GoalKg,
		PersonalRecords: []hevy.PersonalRecord{},
		Trend:           TrendInsufficientData,
		RecentSessions:  []RecentSession{},
		StatsStatus:     FetchOK,
		ProgressStatus:  FetchOK,
	}

	stats, err := s.ds.GetExerciseStats(ctx, tmpl.ID)
	if err != nil {
		s.log.Warn("exercise stats fetch failed", "exercise", tmpl.ID, "error", err)
		result.StatsStatus = FetchFailed
	} else {
		result.CurrentEstimated1RM = stats.OneRepMaxKg
		if stats.PersonalRecords != nil {
			result.PersonalRecords = stats.PersonalRecords
		}
	}

	if goal.GoalKg != nil && result.CurrentEstimated1RM != nil {
		percent := int(math.Round(*result.CurrentEstimated1RM / *goal.GoalKg * 100))
		remaining := math.Max(0, roundTenth(*goal.GoalKg-*result.CurrentEstimated1RM))
		result.ProgressPercent = &percent
		result.RemainingKg = &remaining
	}

	history, err := s.ds.GetExerciseProgress(ctx, tmpl.ID, since, progressFetchLimit)
	if err != nil {
		s.log.Warn("exercise progress fetch failed", "exercise", tmpl.ID, "error", err)
		result.ProgressStatus = FetchFailed
		return result
	}

	result.Trend, result.TrendDeltaKg = classifyTrend(history)
	result.RecentSessions = recentSessions(history)
	return result
}

// classifyTrend splits the reverse-chronological history at its midpoint
// and compares the best estimated 1RM of the newer half against the older
// half. The remote ordering is trusted; entries are not re-sorted.
func classifyTrend(history []hevy.ProgressEntry) (Trend, *float64) {
	if len(history) < 2 {
		return TrendInsufficientData, nil
	}

	mid := len(history) / 2
	newerMax := maxEstimated(history[:mid])
	olderMax := maxEstimated(history[mid:])
	if newerMax == 0 || olderMax == 0 {
		return TrendInsufficientData, nil
	}

	delta := roundTenth(newerMax - olderMax)
	switch {
	case delta > trendThresholdKg:
		return TrendImproving, &delta
	case delta < -trendThresholdKg:
		return TrendDeclining, &delta
	default:
		return TrendPlateau, &delta
	}
}

func maxEstimated(entries []hevy.ProgressEntry) float64 {
	var best float64
	for _, entry := range entries {
		for _, set := range entry.Sets {
			if !qualifies(set) {
				continue
			}
			if est := EstimateOneRepMax(*set.WeightKg, *set.Reps); est > best {
				best = est
			}
		}
	}
	return best
}

// EstimateOneRepMax projects a maximum single-rep weight from a submaximal
// set. Single reps are exact; the Brzycki formula covers 2-12 reps; above
// 12 reps Brzycki degrades badly, so a linear Epley-style extrapolation is
// used instead.
func EstimateOneRepMax(weightKg float64, reps int) float64 {
	switch {
	case reps <= 0:
		return 0
	case reps == 1:
		return weightKg
	case reps > 12:
		return weightKg * (1 + float64(reps)/30)
	default:
		return weightKg * 36 / (37 - float64(reps))
	}
}

// recentSessions shapes the most recent history entries for display: up to
// recentSessionCount sessions, each with its heaviest qualifying sets.
func recentSessions(history []hevy.ProgressEntry) []RecentSession {
	n := min(len(history), recentSessionCount)
	sessions := make([]RecentSession, 0, n)
	for _, entry := range history[:n] {
		var sets []SessionSet
		for _, set := range entry.Sets {
			if qualifies(set) {
				sets = append(sets, SessionSet{WeightKg: *set.WeightKg, Reps: *set.Reps})
			}
		}
		sort.SliceStable(sets, func(i, j int) bool { return sets[i].WeightKg > sets[j].WeightKg })
		if len(sets) > topSetsPerSession {
			sets = sets[:topSetsPerSession]
		}
		sessions = append(sessions, RecentSession{Date: entry.Date, Sets: sets})
	}
	return sessions
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
