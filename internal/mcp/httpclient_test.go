package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/ironquant/internal/models"
)

// newRESTServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths,
// query params, and the API key header.
func newRESTServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("X-API-Key = %q, want test-key", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestClientQueryWorkouts verifies the client sends date params and parses
// the workout array response.
func TestClientQueryWorkouts(t *testing.T) {
	ts := newRESTServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got != "2026-08-01" {
				t.Errorf("start=%q, want 2026-08-01", got)
			}
			if got := r.URL.Query().Get("end"); got != "2026-08-30" {
				t.Errorf("end=%q, want 2026-08-30", got)
			}
			writeTestJSON(t, w, []models.Workout{
				{WorkoutDate: "2026-08-29", TotalVolume: 2700},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	workouts, err := client.QueryWorkouts(context.Background(), models.DefaultUserID, "2026-08-01", "2026-08-30")
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 {
		t.Fatalf("got %d workouts, want 1", len(workouts))
	}
	if workouts[0].TotalVolume != 2700 {
		t.Errorf("total_volume=%v, want 2700", workouts[0].TotalVolume)
	}
}

// TestClientGetUser verifies single-struct decoding.
func TestClientGetUser(t *testing.T) {
	ts := newRESTServer(t, map[string]http.HandlerFunc{
		"/api/v1/user": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.User{
				ID:       models.DefaultUserID,
				GoalMode: models.GoalMuscleGain,
				WeightKg: 72,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	user, err := client.GetUser(context.Background(), models.DefaultUserID)
	if err != nil {
		t.Fatal(err)
	}
	if user.GoalMode != models.GoalMuscleGain {
		t.Errorf("goal_mode=%q, want muscle_gain", user.GoalMode)
	}
	if user.WeightKg != 72 {
		t.Errorf("weight=%v, want 72", user.WeightKg)
	}
}

// TestClientErrorStatus verifies non-200 responses surface as errors with the
// body included.
func TestClientErrorStatus(t *testing.T) {
	ts := newRESTServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts/latest": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no workouts yet"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	_, err := client.LatestWorkout(context.Background(), models.DefaultUserID)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
}

// TestClientFetchCouncilInput verifies the client assembles the snapshot from
// three endpoints.
func TestClientFetchCouncilInput(t *testing.T) {
	ts := newRESTServer(t, map[string]http.HandlerFunc{
		"/api/v1/user": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.User{ID: models.DefaultUserID, GoalMode: models.GoalFatLoss, WeightKg: 80})
		},
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.Workout{{WorkoutDate: "2026-08-28", TotalVolume: 2000, AverageRPE: 7.5}})
		},
		"/api/v1/conditions": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.DailyCondition{{ConditionDate: "2026-08-29", SleepHours: 7}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	in, err := client.FetchCouncilInput(context.Background(), models.DefaultUserID, now, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if in.User.WeightKg != 80 {
		t.Errorf("user weight=%v, want 80", in.User.WeightKg)
	}
	if len(in.Workouts) != 1 || in.Workouts[0].AverageRPE != 7.5 {
		t.Errorf("workouts = %+v, want one row with RPE 7.5", in.Workouts)
	}
	if len(in.Conditions) != 1 || in.Conditions[0].SleepHours != 7 {
		t.Errorf("conditions = %+v, want one row with 7h sleep", in.Conditions)
	}
}
