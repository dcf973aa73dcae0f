package routine

import (
	"sync"

	"github.com/google/uuid"
)

// TargetKind identifies which entity class a pending deletion refers to.
type TargetKind string

const (
	TargetWorkoutSet TargetKind = "workout_set"
	TargetExercise   TargetKind = "exercise"
)

// DeletionTarget names the entity a deletion has been requested for.
// ExerciseID is set only for TargetExercise.
type DeletionTarget struct {
	Kind         TargetKind `json:"kind"`
	WorkoutSetID uuid.UUID  `json:"workout_set_id"`
	ExerciseID   uuid.UUID  `json:"exercise_id,omitempty"`
}

// Guard is the two-step confirmation in front of destructive store
// operations. At most one deletion is pending at a time across both entity
// classes; a new request replaces any earlier pending one.
type Guard struct {
	mu      sync.Mutex
	store   *Store
	pending *DeletionTarget
}

// NewGuard creates a guard over the given store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Request marks a deletion as pending confirmation.
func (g *Guard) Request(target DeletionTarget) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &target
}

// Pending returns the pending deletion target, if any.
func (g *Guard) Pending() (DeletionTarget, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return DeletionTarget{}, false
	}
	return *g.pending, true
}

// Cancel discards the pending deletion without touching the store.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

// Confirm performs the pending deletion through the store and clears the
// pending state. It reports whether anything was actually removed: false
// when nothing was pending, the target no longer exists, or the store
// refused the removal (last remaining workout set).
func (g *Guard) Confirm() bool {
	g.mu.Lock()
	target := g.pending
	g.pending = nil
	g.mu.Unlock()

	if target == nil {
		return false
	}
	switch target.Kind {
	case TargetWorkoutSet:
		return g.store.RemoveWorkoutSet(target.WorkoutSetID)
	case TargetExercise:
		return g.store.RemoveExercise(target.WorkoutSetID, target.ExerciseID)
	}
	return false
}
