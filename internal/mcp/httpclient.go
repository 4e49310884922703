package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/models"
)

// HTTPClient implements DataSource by calling the IronQuant REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func dateParams(start, end string) url.Values {
	v := url.Values{}
	v.Set("start", start)
	v.Set("end", end)
	return v
}

func (c *HTTPClient) QueryWorkouts(ctx context.Context, _ string, start, end string) ([]models.Workout, error) {
	var out []models.Workout
	if err := c.get(ctx, "/api/v1/workouts", dateParams(start, end), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) LatestWorkout(ctx context.Context, _ string) (*models.Workout, error) {
	var out models.Workout
	if err := c.get(ctx, "/api/v1/workouts/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) QueryConditions(ctx context.Context, _ string, start, end string) ([]models.DailyCondition, error) {
	var out []models.DailyCondition
	if err := c.get(ctx, "/api/v1/conditions", dateParams(start, end), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, _ string) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/api/v1/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCouncilInput assembles the council snapshot from the remote API,
// mirroring what the server-side store builds locally.
func (c *HTTPClient) FetchCouncilInput(ctx context.Context, userID string, now time.Time, loc *time.Location) (*council.Input, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	local := now.In(loc)
	today := local.Format("2006-01-02")
	wStart := local.AddDate(0, 0, -27).Format("2006-01-02")
	cStart := local.AddDate(0, 0, -13).Format("2006-01-02")

	workouts, err := c.QueryWorkouts(ctx, userID, wStart, today)
	if err != nil {
		return nil, err
	}
	conditions, err := c.QueryConditions(ctx, userID, cStart, today)
	if err != nil {
		return nil, err
	}

	in := &council.Input{
		Now: now,
		User: council.User{
			ID:            user.ID,
			Mode:          user.GoalMode,
			WeightKg:      user.BodyWeightOrDefault(),
			CurrentStreak: user.CurrentStreak,
		},
	}
	for _, w := range workouts {
		in.Workouts = append(in.Workouts, council.Workout{
			Date:              w.WorkoutDate,
			TotalVolume:       w.TotalVolume,
			AverageRPE:        w.AverageRPE,
			DurationMinutes:   w.DurationMinutes,
			EstimatedCalories: w.EstimatedCalories,
			CardioDistanceKm:  w.CardioDistanceKm,
		})
	}
	for _, cond := range conditions {
		in.Conditions = append(in.Conditions, council.Condition{
			Date:          cond.ConditionDate,
			SleepHours:    cond.SleepHours,
			FatigueScore:  cond.FatigueScore,
			StressScore:   cond.StressScore,
			SorenessScore: cond.SorenessScore,
			RestingHR:     cond.RestingHR,
		})
	}
	return in, nil
}
