package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/ratelimit"
	"github.com/claude/ironquant/internal/storage"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	user       models.User
	workouts   []models.Workout
	conditions []models.DailyCondition
	streak     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		user: models.User{
			ID:       models.DefaultUserID,
			GoalMode: models.GoalFatLoss,
			WeightKg: 75,
			Timezone: "UTC",
		},
	}
}

func (f *fakeStore) InsertWorkout(_ context.Context, w models.Workout) error {
	f.workouts = append(f.workouts, w)
	return nil
}

func (f *fakeStore) GetWorkout(_ context.Context, id uuid.UUID, _ string) (*models.Workout, error) {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			w := f.workouts[i]
			return &w, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) LatestWorkout(_ context.Context, _ string) (*models.Workout, error) {
	if len(f.workouts) == 0 {
		return nil, storage.ErrNotFound
	}
	w := f.workouts[len(f.workouts)-1]
	return &w, nil
}

func (f *fakeStore) QueryWorkouts(_ context.Context, _, start, end string) ([]models.Workout, error) {
	var out []models.Workout
	for _, w := range f.workouts {
		if w.WorkoutDate >= start && w.WorkoutDate <= end {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) AllWorkouts(_ context.Context, _ string) ([]models.Workout, error) {
	return f.workouts, nil
}

func (f *fakeStore) UpdateWorkout(_ context.Context, w models.Workout) error {
	for i := range f.workouts {
		if f.workouts[i].ID == w.ID {
			f.workouts[i] = w
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) DeleteWorkout(_ context.Context, id uuid.UUID, _ string) error {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			f.workouts = append(f.workouts[:i], f.workouts[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) GetUser(_ context.Context, _ string) (*models.User, error) {
	u := f.user
	return &u, nil
}

func (f *fakeStore) SetGoalMode(_ context.Context, _ string, mode models.GoalMode) error {
	f.user.GoalMode = mode
	return nil
}

func (f *fakeStore) UpdateWeight(_ context.Context, _ string, weightKg float64) error {
	f.user.WeightKg = weightKg
	return nil
}

func (f *fakeStore) ApplyBig3(_ context.Context, _ string, squat, bench, dead float64) error {
	if squat > f.user.Squat1RM {
		f.user.Squat1RM = squat
	}
	if bench > f.user.Bench1RM {
		f.user.Bench1RM = bench
	}
	if dead > f.user.Dead1RM {
		f.user.Dead1RM = dead
	}
	return nil
}

func (f *fakeStore) UpsertCondition(_ context.Context, c models.DailyCondition) error {
	for i := range f.conditions {
		if f.conditions[i].ConditionDate == c.ConditionDate {
			f.conditions[i] = c
			return nil
		}
	}
	f.conditions = append(f.conditions, c)
	return nil
}

func (f *fakeStore) QueryConditions(_ context.Context, _, start, end string) ([]models.DailyCondition, error) {
	var out []models.DailyCondition
	for _, c := range f.conditions {
		if c.ConditionDate >= start && c.ConditionDate <= end {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchCouncilInput(_ context.Context, _ string, now time.Time, _ *time.Location) (*council.Input, error) {
	in := &council.Input{
		Now: now,
		User: council.User{
			ID:       f.user.ID,
			Mode:     f.user.GoalMode,
			WeightKg: f.user.WeightKg,
		},
	}
	for _, w := range f.workouts {
		in.Workouts = append(in.Workouts, council.Workout{
			Date:        w.WorkoutDate,
			TotalVolume: w.TotalVolume,
			AverageRPE:  w.AverageRPE,
		})
	}
	return in, nil
}

func (f *fakeStore) RecomputeStreak(_ context.Context, _ string, _ time.Time, _ *time.Location) (int, error) {
	return f.streak, nil
}

func newTestServer(store *fakeStore) *Server {
	s := New(store, "test-key", ratelimit.New(20, time.Minute), time.UTC, slog.Default())
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestSubmitLogs verifies the happy path: text in, parsed workout out, with
// the 1RM estimate applied to the profile.
func TestSubmitLogs(t *testing.T) {
	store := newFakeStore()
	store.streak = 3
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/v1/logs", submitRequest{
		Text: "스쿼트 100 5 3\n벤치프레스 80 5 3\nnice session today",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Workout == nil {
		t.Fatal("workout missing in response")
	}
	if got := len(resp.Workout.Logs); got != 2 {
		t.Fatalf("logs = %d, want 2", got)
	}
	if resp.Report.Parsed != 2 {
		t.Errorf("report.parsed = %d, want 2", resp.Report.Parsed)
	}
	if resp.Report.Skipped != 1 {
		t.Errorf("report.skipped = %d, want 1 (note line)", resp.Report.Skipped)
	}
	if resp.Streak != 3 {
		t.Errorf("streak = %d, want 3", resp.Streak)
	}
	// Volume: 100*5*3 + 80*5*3 = 2700
	if resp.Workout.TotalVolume != 2700 {
		t.Errorf("total_volume = %v, want 2700", resp.Workout.TotalVolume)
	}
	// Epley with 5 reps: squat 100*(1+5/30) ≈ 117
	if store.user.Squat1RM < 116 || store.user.Squat1RM > 118 {
		t.Errorf("squat 1RM = %v, want ≈117", store.user.Squat1RM)
	}
	if len(store.workouts) != 1 {
		t.Fatalf("stored workouts = %d, want 1", len(store.workouts))
	}
}

// TestSubmitLogsRateLimited verifies the caller-supplied limiter gates log
// submission once its budget is spent.
func TestSubmitLogsRateLimited(t *testing.T) {
	store := newFakeStore()
	s := New(store, "test-key", ratelimit.New(1, time.Minute), time.UTC, slog.Default())

	req := submitRequest{Text: "스쿼트 100 5 3"}
	if rec := doRequest(s, http.MethodPost, "/api/v1/logs", req); rec.Code != http.StatusCreated {
		t.Fatalf("first submission status = %d, want 201", rec.Code)
	}

	rec := doRequest(s, http.MethodPost, "/api/v1/logs", req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second submission status = %d, want 429", rec.Code)
	}
	if len(store.workouts) != 1 {
		t.Errorf("stored workouts = %d, want 1", len(store.workouts))
	}
}

// TestSubmitLogsBadLines verifies that lines with digits that fail to parse
// come back in the report, capped with a "+N more" overflow count client-side.
func TestSubmitLogsBadLines(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/v1/logs", submitRequest{
		Text: "스쿼트 100 5 3\n123\n456\n789\n12\n34\n56\n78",
	})
	// One failing line voids the whole submission.
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}
	var resp submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Report.Bad != 7 {
		t.Errorf("report.bad = %d, want 7", resp.Report.Bad)
	}
	if len(resp.Report.BadLines) != 5 {
		t.Errorf("report.bad_lines = %d examples, want 5", len(resp.Report.BadLines))
	}
	if len(store.workouts) != 0 {
		t.Errorf("stored workouts = %d, want 0 (all-or-nothing)", len(store.workouts))
	}
}

// TestSubmitLogsNothingParsed verifies that all-garbage input gets 422 and
// nothing is persisted.
func TestSubmitLogsNothingParsed(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/v1/logs", submitRequest{Text: "12 34"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if len(store.workouts) != 0 {
		t.Errorf("stored workouts = %d, want 0", len(store.workouts))
	}
}

// TestEditWorkoutWithinWindow verifies that a fresh workout can be replaced
// and keeps its identity and date.
func TestEditWorkoutWithinWindow(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/v1/logs", submitRequest{Text: "스쿼트 100 5 3"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}
	var created submitResponse
	json.NewDecoder(rec.Body).Decode(&created)
	id := created.Workout.ID

	rec = doRequest(s, http.MethodPut, "/api/v1/workouts/"+id.String(), editRequest{Text: "스쿼트 110 5 3"})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	var edited submitResponse
	json.NewDecoder(rec.Body).Decode(&edited)
	if edited.Workout.ID != id {
		t.Errorf("edit changed the workout ID")
	}
	if edited.Workout.TotalVolume != 110*5*3 {
		t.Errorf("total_volume = %v, want %v", edited.Workout.TotalVolume, 110*5*3)
	}
}

// TestEditWorkoutAfterWindow verifies that rows older than the edit window
// are immutable.
func TestEditWorkoutAfterWindow(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	old := models.Workout{
		ID:          uuid.New(),
		UserID:      models.DefaultUserID,
		WorkoutDate: "2026-08-01",
		CreatedAt:   time.Now().Add(-models.EditWindow - time.Minute),
	}
	store.workouts = append(store.workouts, old)

	rec := doRequest(s, http.MethodPut, "/api/v1/workouts/"+old.ID.String(), editRequest{Text: "스쿼트 100 5 3"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	rec = doRequest(s, http.MethodDelete, "/api/v1/workouts/"+old.ID.String(), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("delete status = %d, want 409", rec.Code)
	}
}

// TestDeleteWorkoutWithinWindow verifies undo of a fresh submission.
func TestDeleteWorkoutWithinWindow(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/v1/logs", submitRequest{Text: "데드리프트 140 3 3"})
	var created submitResponse
	json.NewDecoder(rec.Body).Decode(&created)

	rec = doRequest(s, http.MethodDelete, "/api/v1/workouts/"+created.Workout.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(store.workouts) != 0 {
		t.Errorf("stored workouts = %d, want 0", len(store.workouts))
	}
}

// TestCouncilEndpoint verifies the advice endpoint returns a non-empty top
// list even with no history.
func TestCouncilEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodGet, "/api/v1/council", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res council.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(res.Top) == 0 {
		t.Fatal("council returned no advice")
	}
	if res.Primary == nil {
		t.Fatal("council returned no primary advice")
	}
}

// TestPatchUserGoalMode verifies mode switching and rejection of unknown modes.
func TestPatchUserGoalMode(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPatch, "/api/v1/user", map[string]string{"goal_mode": "muscle_gain"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if store.user.GoalMode != models.GoalMuscleGain {
		t.Errorf("goal_mode = %q, want muscle_gain", store.user.GoalMode)
	}

	rec = doRequest(s, http.MethodPatch, "/api/v1/user", map[string]string{"goal_mode": "bulk"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown mode", rec.Code)
	}
}

// TestConditionRoundTrip verifies condition submission and range query.
func TestConditionRoundTrip(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/v1/conditions", map[string]any{
		"sleep_hours":   5.5,
		"fatigue_score": 7,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/conditions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("query status = %d, want 200", rec.Code)
	}
	var got []models.DailyCondition
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("conditions = %d, want 1", len(got))
	}
	if got[0].SleepHours != 5.5 {
		t.Errorf("sleep_hours = %v, want 5.5", got[0].SleepHours)
	}
}

// TestExportCSV verifies the export endpoint emits CSV with a header row.
func TestExportCSV(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	doRequest(s, http.MethodPost, "/api/v1/logs", submitRequest{Text: "스쿼트 100 5 3"})

	rec := doRequest(s, http.MethodGet, "/api/v1/export?format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("content-type = %q", ct)
	}
	body := rec.Body.String()
	if !bytes.Contains([]byte(body), []byte("workout_date")) {
		t.Error("CSV header row missing")
	}
}

// TestAuthRequired verifies that API routes reject unauthenticated requests.
func TestAuthRequired(t *testing.T) {
	s := newTestServer(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
