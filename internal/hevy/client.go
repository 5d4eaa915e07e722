package hevy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxWorkoutPageSize is the largest page the workout listing accepts.
	MaxWorkoutPageSize = 10
	// MaxTemplatePageSize is the largest page the template listing accepts.
	MaxTemplatePageSize = 100
)

// Client calls the remote fitness-tracking REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL, authenticating
// every request with the given API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("hevy: create request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hevy: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hevy: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hevy: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func pageParams(page, pageSize int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(pageSize))
	return v
}

// GetWorkoutsPage retrieves one page of workout summaries. Pages are
// 1-based; pageSize is capped by the service at MaxWorkoutPageSize.
func (c *Client) GetWorkoutsPage(ctx context.Context, page, pageSize int) (WorkoutsPage, error) {
	body, err := c.get(ctx, "/v1/workouts", pageParams(page, pageSize))
	if err != nil {
		return WorkoutsPage{}, err
	}

	var pg WorkoutsPage
	if err := json.Unmarshal(body, &pg); err != nil {
		return WorkoutsPage{}, fmt.Errorf("hevy: decode workouts page: %w", err)
	}
	return pg, nil
}

// GetWorkout retrieves the full detail of a single workout.
func (c *Client) GetWorkout(ctx context.Context, id string) (*Workout, error) {
	body, err := c.get(ctx, "/v1/workouts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var w Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("hevy: decode workout: %w", err)
	}
	return &w, nil
}

// GetExerciseTemplatesPage retrieves one page of the exercise template
// catalog. Pages are 1-based; pageSize is capped at MaxTemplatePageSize.
func (c *Client) GetExerciseTemplatesPage(ctx context.Context, page, pageSize int) ([]ExerciseTemplate, error) {
	body, err := c.get(ctx, "/v1/exercise_templates", pageParams(page, pageSize))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Templates []ExerciseTemplate `json:"exercise_templates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("hevy: decode exercise templates: %w", err)
	}
	return resp.Templates, nil
}

// GetExerciseStats retrieves aggregate statistics for one exercise template.
func (c *Client) GetExerciseStats(ctx context.Context, id string) (*ExerciseStats, error) {
	body, err := c.get(ctx, "/v1/exercise_templates/"+url.PathEscape(id)+"/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats ExerciseStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("hevy: decode exercise stats: %w", err)
	}
	return &stats, nil
}

// GetExerciseProgress retrieves session history for one exercise template,
// bounded to sessions on or after since, most recent first, at most limit
// entries.
func (c *Client) GetExerciseProgress(ctx context.Context, id string, since time.Time, limit int) ([]ProgressEntry, error) {
	params := url.Values{}
	params.Set("start_date", since.Format("2006-01-02"))
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/v1/exercise_templates/"+url.PathEscape(id)+"/progress", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Progress []ProgressEntry `json:"progress"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("hevy: decode exercise progress: %w", err)
	}
	return resp.Progress, nil
}
