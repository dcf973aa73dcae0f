package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/liftlog/internal/routine"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"selected_id":  s.store.SelectedID(),
		"workout_sets": s.store.Sets(),
	})
}

func (s *Server) handleAddRoutine(w http.ResponseWriter, r *http.Request) {
	ws := s.store.AddWorkoutSet()
	writeJSON(w, http.StatusCreated, ws)
}

func (s *Server) handleRenameRoutine(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	// Unknown ids are silent no-ops, per store semantics.
	s.store.RenameWorkoutSet(setID, body.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectRoutine(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	s.store.Select(setID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	ex, found := s.store.AddExercise(setID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout set not found"})
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	var body struct {
		Name      *string `json:"name"`
		Notes     *string `json:"notes"`
		Equipment *string `json:"equipment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Name != nil {
		s.store.RenameExercise(setID, exerciseID, *body.Name)
	}
	if body.Notes != nil {
		s.store.SetExerciseNotes(setID, exerciseID, *body.Notes)
	}
	if body.Equipment != nil {
		s.store.SetExerciseEquipment(setID, exerciseID, routine.ParseEquipment(*body.Equipment))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	entry, found := s.store.AddSetEntry(setID, exerciseID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	var body struct {
		Field string  `json:"field"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	field := routine.Field(body.Field)
	if field != routine.FieldWeight && field != routine.FieldReps {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "field must be weight or reps"})
		return
	}
	s.store.UpdateSetEntryField(setID, exerciseID, entryID, field, body.Value)
	w.WriteHeader(http.StatusNoContent)
}

// Set entries are removed directly; only workout sets and exercises go
// through the confirmation guard.
func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	setID, ok := pathID(w, r, "setID")
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	s.store.RemoveSetEntry(setID, exerciseID, entryID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePendingDeletion(w http.ResponseWriter, r *http.Request) {
	target, ok := s.guard.Pending()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no deletion pending"})
		return
	}
	writeJSON(w, http.StatusOK, target)
}

func (s *Server) handleRequestDeletion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind         string `json:"kind"`
		WorkoutSetID string `json:"workout_set_id"`
		ExerciseID   string `json:"exercise_id"`
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

	target := routine.DeletionTarget{Kind: routine.TargetKind(body.Kind), WorkoutSetID: setID}
	switch target.Kind {
	case routine.TargetWorkoutSet:
	case routine.TargetExercise:
		exerciseID, err := uuid.Parse(body.ExerciseID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
			return
		}
		target.ExerciseID = exerciseID
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be workout_set or exercise"})
		return
	}

	s.guard.Request(target)
	writeJSON(w, http.StatusAccepted, target)
}

func (s *Server) handleConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	removed := s.guard.Confirm()
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleCancelDeletion(w http.ResponseWriter, r *http.Request) {
	s.guard.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a uuid path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
