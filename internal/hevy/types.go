package hevy

import "time"

// SetType classifies a logged set.
type SetType string

const (
	SetNormal  SetType = "normal"
	SetWarmup  SetType = "warmup"
	SetDropset SetType = "dropset"
	SetFailure SetType = "failure"
)

// Set is a single logged set within an exercise. Weight/reps/distance/
// duration are optional because the service records many exercise kinds
// (cardio, timed holds) with different field combinations.
type Set struct {
	Type            SetType  `json:"type"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	DistanceMeters  *float64 `json:"distance_meters,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	RPE             *float64 `json:"rpe,omitempty"`
}

// WorkoutExercise is one exercise block within a workout.
type WorkoutExercise struct {
	ExerciseTemplateID string `json:"exercise_template_id"`
	Title              string `json:"title,omitempty"`
	Sets               []Set  `json:"sets"`
}

// Workout is a fully detailed workout record.
type Workout struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Exercises []WorkoutExercise `json:"exercises"`
}

// WorkoutListItem is the abbreviated form returned by the paged workout
// listing. Full sets live behind GetWorkout.
type WorkoutListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// WorkoutsPage is one page of the workout listing.
type WorkoutsPage struct {
	Page      int               `json:"page"`
	PageCount int               `json:"page_count"`
	Workouts  []WorkoutListItem `json:"workouts"`
}

// ExerciseTemplate names a class of exercise (e.g. "Bench Press (Barbell)").
type ExerciseTemplate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PersonalRecord is a remote-supplied best historical performance marker.
type PersonalRecord struct {
	Type     string   `json:"type"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Date     string   `json:"date,omitempty"`
}

// ExerciseStats holds per-exercise aggregate statistics.
type ExerciseStats struct {
	ExerciseTemplateID string           `json:"exercise_template_id"`
	OneRepMaxKg        *float64         `json:"one_rep_max_kg,omitempty"`
	PersonalRecords    []PersonalRecord `json:"personal_records"`
}

// ProgressEntry is one training session for an exercise. The service
// returns entries most recent first; the date is kept as the service's
// YYYY-MM-DD string since it is display data, not computed on.
type ProgressEntry struct {
	Date      string `json:"date"`
	WorkoutID string `json:"workout_id"`
	Sets      []Set  `json:"sets"`
}
