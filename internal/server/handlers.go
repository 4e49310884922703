package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/export"
	"github.com/claude/ironquant/internal/intake"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/prs"
	"github.com/claude/ironquant/internal/reports"
	"github.com/claude/ironquant/internal/storage"
)

type submitRequest struct {
	Text string `json:"text"`
	Mood string `json:"mood,omitempty"`
	Date string `json:"date,omitempty"` // YYYY-MM-DD override, defaults to today
}

type submitResponse struct {
	Workout *models.Workout `json:"workout"`
	Report  intake.Report   `json:"report"`
	Streak  int             `json:"streak"`
}

func (s *Server) handleSubmitLogs(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	user, err := s.store.GetUser(r.Context(), models.DefaultUserID)
	if err != nil {
		s.internalError(w, "fetching user", err)
		return
	}

	workout, report := intake.Build(req.Text, user.BodyWeightOrDefault(), s.now(), s.loc)
	if workout == nil {
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Report: report})
		return
	}
	workout.Mood = req.Mood
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		workout.WorkoutDate = req.Date
	}

	if err := s.store.InsertWorkout(r.Context(), *workout); err != nil {
		s.internalError(w, "inserting workout", err)
		return
	}

	if big3 := prs.EstimateBig3(workout.Logs); !big3.Empty() {
		if err := s.store.ApplyBig3(r.Context(), user.ID, big3.Squat, big3.Bench, big3.Dead); err != nil {
			s.log.Error("applying 1RM estimates", "error", err)
		}
	}
	streak, err := s.store.RecomputeStreak(r.Context(), user.ID, s.now(), s.loc)
	if err != nil {
		s.log.Error("recomputing streak", "error", err)
	}

	writeJSON(w, http.StatusCreated, submitResponse{Workout: workout, Report: report, Streak: streak})
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, s.now().In(s.loc))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	workouts, err := s.store.QueryWorkouts(r.Context(), models.DefaultUserID, start, end)
	if err != nil {
		s.internalError(w, "querying workouts", err)
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleLatestWorkout(w http.ResponseWriter, r *http.Request) {
	workout, err := s.store.LatestWorkout(r.Context(), models.DefaultUserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no workouts yet"})
			return
		}
		s.internalError(w, "querying latest workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}
	workout, err := s.store.GetWorkout(r.Context(), id, models.DefaultUserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
			return
		}
		s.internalError(w, "querying workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

type editRequest struct {
	Text string `json:"text"`
	Mood string `json:"mood,omitempty"`
}

// handleEditWorkout re-parses replacement text for a recent workout. Rows
// outside the edit window are immutable and get 409.
func (s *Server) handleEditWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	existing, err := s.store.GetWorkout(r.Context(), id, models.DefaultUserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
			return
		}
		s.internalError(w, "querying workout", err)
		return
	}
	if !existing.Editable(s.now()) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "edit window has closed"})
		return
	}

	user, err := s.store.GetUser(r.Context(), models.DefaultUserID)
	if err != nil {
		s.internalError(w, "fetching user", err)
		return
	}

	replacement, report := intake.Build(req.Text, user.BodyWeightOrDefault(), s.now(), s.loc)
	if replacement == nil {
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Report: report})
		return
	}

	// Identity and date survive the edit; only the parsed content changes.
	replacement.ID = existing.ID
	replacement.UserID = existing.UserID
	replacement.WorkoutDate = existing.WorkoutDate
	replacement.CreatedAt = existing.CreatedAt
	if req.Mood != "" {
		replacement.Mood = req.Mood
	} else {
		replacement.Mood = existing.Mood
	}

	if err := s.store.UpdateWorkout(r.Context(), *replacement); err != nil {
		s.internalError(w, "updating workout", err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Workout: replacement, Report: report})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}
	existing, err := s.store.GetWorkout(r.Context(), id, models.DefaultUserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
			return
		}
		s.internalError(w, "querying workout", err)
		return
	}
	if !existing.Editable(s.now()) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "edit window has closed"})
		return
	}
	if err := s.store.DeleteWorkout(r.Context(), id, models.DefaultUserID); err != nil {
		s.internalError(w, "deleting workout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCouncil(w http.ResponseWriter, r *http.Request) {
	in, err := s.store.FetchCouncilInput(r.Context(), models.DefaultUserID, s.now(), s.loc)
	if err != nil {
		s.internalError(w, "fetching council input", err)
		return
	}
	writeJSON(w, http.StatusOK, council.Consult(*in))
}

func (s *Server) handleSubmitCondition(w http.ResponseWriter, r *http.Request) {
	var c models.DailyCondition
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	c.UserID = models.DefaultUserID
	if c.ConditionDate == "" {
		c.ConditionDate = s.now().In(s.loc).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", c.ConditionDate); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "condition_date must be YYYY-MM-DD"})
		return
	}
	if err := s.store.UpsertCondition(r.Context(), c); err != nil {
		s.internalError(w, "upserting condition", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleQueryConditions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, s.now().In(s.loc))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	conditions, err := s.store.QueryConditions(r.Context(), models.DefaultUserID, start, end)
	if err != nil {
		s.internalError(w, "querying conditions", err)
		return
	}
	if conditions == nil {
		conditions = []models.DailyCondition{}
	}
	writeJSON(w, http.StatusOK, conditions)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.AllWorkouts(r.Context(), models.DefaultUserID)
	if err != nil {
		s.internalError(w, "querying workouts", err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "json":
		out, err := export.JSON(workouts)
		if err != nil {
			s.internalError(w, "encoding export", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="workouts.json"`)
		w.Write([]byte(out))
	case "csv", "":
		out, err := export.CSV(workouts)
		if err != nil {
			s.internalError(w, "encoding export", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="workouts.csv"`)
		w.Write([]byte(out))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be csv or json"})
	}
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.loc)
	start := now.AddDate(0, 0, -6).Format("2006-01-02")
	end := now.Format("2006-01-02")
	workouts, err := s.store.QueryWorkouts(r.Context(), models.DefaultUserID, start, end)
	if err != nil {
		s.internalError(w, "querying workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": reports.Weekly(s.now(), s.loc, workouts)})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.loc)
	year, month := now.Year(), now.Month()
	if y := r.URL.Query().Get("year"); y != "" {
		if v, err := strconv.Atoi(y); err == nil {
			year = v
		}
	}
	if m := r.URL.Query().Get("month"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v >= 1 && v <= 12 {
			month = time.Month(v)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	start := first.AddDate(0, -1, 0).Format("2006-01-02")
	end := first.AddDate(0, 1, -1).Format("2006-01-02")
	all, err := s.store.QueryWorkouts(r.Context(), models.DefaultUserID, start, end)
	if err != nil {
		s.internalError(w, "querying workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": reports.Monthly(year, month, all, all)})
}

// handleRecompute rebuilds derived profile stats (1RM estimates, streak)
// from the full history. Useful after a restore or bulk edit.
func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.AllWorkouts(r.Context(), models.DefaultUserID)
	if err != nil {
		s.internalError(w, "querying workouts", err)
		return
	}

	var best prs.Big3
	for _, wk := range workouts {
		b := prs.EstimateBig3(wk.Logs)
		if b.Squat > best.Squat {
			best.Squat = b.Squat
		}
		if b.Bench > best.Bench {
			best.Bench = b.Bench
		}
		if b.Dead > best.Dead {
			best.Dead = b.Dead
		}
	}
	if !best.Empty() {
		if err := s.store.ApplyBig3(r.Context(), models.DefaultUserID, best.Squat, best.Bench, best.Dead); err != nil {
			s.internalError(w, "applying 1RM estimates", err)
			return
		}
	}
	streak, err := s.store.RecomputeStreak(r.Context(), models.DefaultUserID, s.now(), s.loc)
	if err != nil {
		s.internalError(w, "recomputing streak", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workouts": len(workouts),
		"streak":   streak,
		"big3":     best,
	})
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDateRange reads start/end query params (YYYY-MM-DD, inclusive),
// defaulting to the last 28 days.
func parseDateRange(r *http.Request, today time.Time) (start, end string, err error) {
	start = r.URL.Query().Get("start")
	end = r.URL.Query().Get("end")
	if start == "" {
		start = today.AddDate(0, 0, -27).Format("2006-01-02")
	} else if _, perr := time.Parse("2006-01-02", start); perr != nil {
		return "", "", errors.New("start must be YYYY-MM-DD")
	}
	if end == "" {
		end = today.Format("2006-01-02")
	} else if _, perr := time.Parse("2006-01-02", end); perr != nil {
		return "", "", errors.New("end must be YYYY-MM-DD")
	}
	return start, end, nil
}
