package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/ironquant/internal/models"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), models.DefaultUserID)
	if err != nil {
		s.internalError(w, "fetching user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type patchUserRequest struct {
	GoalMode *string  `json:"goal_mode,omitempty"`
	WeightKg *float64 `json:"weight,omitempty"`
}

func (s *Server) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	var req patchUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.GoalMode == nil && req.WeightKg == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	if req.GoalMode != nil {
		mode := models.NormalizeGoalMode(*req.GoalMode)
		if string(mode) != *req.GoalMode {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "goal_mode must be fat_loss or muscle_gain"})
			return
		}
		if err := s.store.SetGoalMode(r.Context(), models.DefaultUserID, mode); err != nil {
			s.internalError(w, "setting goal mode", err)
			return
		}
	}
	if req.WeightKg != nil {
		if *req.WeightKg <= 0 || *req.WeightKg > 400 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight must be in (0, 400] kg"})
			return
		}
		if err := s.store.UpdateWeight(r.Context(), models.DefaultUserID, *req.WeightKg); err != nil {
			s.internalError(w, "updating weight", err)
			return
		}
	}

	user, err := s.store.GetUser(r.Context(), models.DefaultUserID)
	if err != nil {
		s.internalError(w, "fetching user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
