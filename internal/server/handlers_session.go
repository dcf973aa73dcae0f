package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/liftlog/internal/session"
	"github.com/google/uuid"
)

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkoutSetID string `json:"workout_set_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	setID, err := uuid.Parse(body.WorkoutSetID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout set ID"})
		return
	}

	if !s.controller.Start(setID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a workout is already in progress"})
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Status())
}

// handleSessionToggle flips a set entry's completed flag. Policy violations
// (no active session, or the entry belongs to another workout set) are
// rejections the UI shows as a blocking notice, not retried.
func (s *Server) handleSessionToggle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkoutSetID string `json:"workout_set_id"`
		ExerciseID   string `json:"exercise_id"`
		EntryID      string `json:"entry_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	setID, err1 := uuid.Parse(body.WorkoutSetID)
	exerciseID, err2 := uuid.Parse(body.ExerciseID)
	entryID, err3 := uuid.Parse(body.EntryID)
	if err1 != nil || err2 != nil || err3 != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	switch err := s.controller.ToggleCompletion(setID, exerciseID, entryID); {
	case errors.Is(err, session.ErrNotActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "please start a workout before marking sets as completed"})
	case errors.Is(err, session.ErrWrongWorkoutSet):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "you can only mark sets as completed in your active workout"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleSessionFinish(w http.ResponseWriter, r *http.Request) {
	sum, err := s.controller.Finish()
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no workout in progress"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.controller.LastSummary()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no summary to display"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleDismissSummary(w http.ResponseWriter, r *http.Request) {
	s.controller.DismissSummary()
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveSummary acknowledges a save request. There is no workout history
// backend; saving only confirms to the user.
func (s *Server) handleSaveSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.controller.LastSummary(); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no summary to save"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"saved":   true,
		"message": "Workout saved to your history!",
	})
}
