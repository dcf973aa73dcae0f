package routine

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// Defaults for freshly added exercises and entries.
const (
	defaultWeight = 50
	defaultReps   = 10
)

// Field names a mutable numeric field on a SetEntry.
type Field string

const (
	FieldWeight Field = "weight"
	FieldReps   Field = "reps"
)

// Store is the canonical, mutable collection of workout sets. All structural
// edits go through its methods; operations targeting unknown ids are silent
// no-ops. Policy (e.g. completion gating) lives in the session controller,
// not here.
type Store struct {
	mu       sync.Mutex
	sets     []WorkoutSet
	selected uuid.UUID
}

// NewStore creates a store seeded with a single empty workout set. The
// collection never drops below one set: RemoveWorkoutSet refuses to delete
// the last one.
func NewStore() *Store {
	s := &Store{}
	ws := newWorkoutSet()
	s.sets = append(s.sets, ws)
	s.selected = ws.ID
	return s
}

func newWorkoutSet() WorkoutSet {
	return WorkoutSet{ID: uuid.New(), Name: "New Workout"}
}

// Sets returns a deep copy of all workout sets in insertion order.
func (s *Store) Sets() []WorkoutSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WorkoutSet, len(s.sets))
	for i, ws := range s.sets {
		out[i] = copySet(ws)
	}
	return out
}

// Get returns a deep copy of the workout set with the given id.
func (s *Store) Get(id uuid.UUID) (WorkoutSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws := s.findSet(id); ws != nil {
		return copySet(*ws), true
	}
	return WorkoutSet{}, false
}

// SelectedID returns the id of the currently selected workout set.
func (s *Store) SelectedID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select marks a workout set as selected. Unknown ids are ignored.
func (s *Store) Select(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findSet(id) != nil {
		s.selected = id
	}
}

// AddWorkoutSet appends a new workout set with a generated id and the default
// name, makes it the selected set, and returns a copy of it.
func (s *Store) AddWorkoutSet() WorkoutSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := newWorkoutSet()
	s.sets = append(s.sets, ws)
	s.selected = ws.ID
	return copySet(ws)
}

// RenameWorkoutSet sets the name of a workout set.
func (s *Store) RenameWorkoutSet(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws := s.findSet(id); ws != nil {
		ws.Name = name
	}
}

// RemoveWorkoutSet deletes a workout set. It reports false when the id is
// unknown or when only one set remains; the collection always keeps at
// least one. If the removed set was selected, the first remaining set
// becomes selected.
func (s *Store) RemoveWorkoutSet(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sets) <= 1 {
		return false
	}
	idx := -1
	for i := range s.sets {
		if s.sets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.sets = append(s.sets[:idx], s.sets[idx+1:]...)
	if s.selected == id {
		s.selected = s.sets[0].ID
	}
	return true
}

// AddExercise appends an exercise with one default set entry to a workout
// set and returns a copy of it.
func (s *Store) AddExercise(setID uuid.UUID) (Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.findSet(setID)
	if ws == nil {
		return Exercise{}, false
	}
	ex := Exercise{
		ID:        uuid.New(),
		Equipment: Equipment{Kind: EquipmentBarbell},
		Entries: []SetEntry{{
			ID:        uuid.New(),
			SetNumber: 1,
			Weight:    defaultWeight,
			Reps:      defaultReps,
		}},
	}
	ws.Exercises = append(ws.Exercises, ex)
	added := &ws.Exercises[len(ws.Exercises)-1]
	return Exercise{ID: added.ID, Name: added.Name, Equipment: added.Equipment, Entries: copyEntries(added.Entries)}, true
}

// RenameExercise sets the name of an exercise.
func (s *Store) RenameExercise(setID, exerciseID uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ex := s.findExercise(setID, exerciseID); ex != nil {
		ex.Name = name
	}
}

// SetExerciseNotes sets the free-text notes of an exercise.
func (s *Store) SetExerciseNotes(setID, exerciseID uuid.UUID, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ex := s.findExercise(setID, exerciseID); ex != nil {
		ex.Notes = notes
	}
}

// SetExerciseEquipment sets the equipment of an exercise.
func (s *Store) SetExerciseEquipment(setID, exerciseID uuid.UUID, eq Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ex := s.findExercise(setID, exerciseID); ex != nil {
		ex.Equipment = eq
	}
}

// RemoveExercise deletes an exercise from a workout set.
func (s *Store) RemoveExercise(setID, exerciseID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.findSet(setID)
	if ws == nil {
		return false
	}
	for i := range ws.Exercises {
		if ws.Exercises[i].ID == exerciseID {
			ws.Exercises = append(ws.Exercises[:i], ws.Exercises[i+1:]...)
			return true
		}
	}
	return false
}

// AddSetEntry appends an entry to an exercise. The new entry's SetNumber is
// the current count plus one, its weight copies the previous entry's weight
// (or the default when the exercise has none), and reps start at the default.
func (s *Store) AddSetEntry(setID, exerciseID uuid.UUID) (SetEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex := s.findExercise(setID, exerciseID)
	if ex == nil {
		return SetEntry{}, false
	}
	weight := float64(defaultWeight)
	if n := len(ex.Entries); n > 0 {
		weight = ex.Entries[n-1].Weight
	}
	entry := SetEntry{
		ID:        uuid.New(),
		SetNumber: len(ex.Entries) + 1,
		Weight:    weight,
		Reps:      defaultReps,
	}
	ex.Entries = append(ex.Entries, entry)
	return entry, true
}

// UpdateSetEntryField overwrites the weight or reps of an entry. Invalid
// values from the edge are coerced to a safe floor rather than rejected:
// weight to >= 0, reps to >= 1 (rounded to the nearest integer).
func (s *Store) UpdateSetEntryField(setID, exerciseID, entryID uuid.UUID, field Field, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.findEntry(setID, exerciseID, entryID)
	if entry == nil {
		return
	}
	switch field {
	case FieldWeight:
		if value < 0 || math.IsNaN(value) {
			value = 0
		}
		entry.Weight = value
	case FieldReps:
		reps := int(math.Round(value))
		if reps < 1 {
			reps = 1
		}
		entry.Reps = reps
	}
}

// RemoveSetEntry deletes an entry from an exercise. Surviving entries keep
// their original SetNumber values; there is no renumbering.
func (s *Store) RemoveSetEntry(setID, exerciseID, entryID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex := s.findExercise(setID, exerciseID)
	if ex == nil {
		return
	}
	for i := range ex.Entries {
		if ex.Entries[i].ID == entryID {
			ex.Entries = append(ex.Entries[:i], ex.Entries[i+1:]...)
			return
		}
	}
}

// ToggleCompletion flips the completed flag of an entry and reports whether
// the entry was found. Callers are expected to have applied session policy
// first; this is the raw data flip.
func (s *Store) ToggleCompletion(setID, exerciseID, entryID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.findEntry(setID, exerciseID, entryID)
	if entry == nil {
		return false
	}
	entry.Completed = !entry.Completed
	return true
}

// ResetCompletions clears the completed flag on every entry of every
// exercise in a workout set.
func (s *Store) ResetCompletions(setID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.findSet(setID)
	if ws == nil {
		return
	}
	for i := range ws.Exercises {
		for j := range ws.Exercises[i].Entries {
			ws.Exercises[i].Entries[j].Completed = false
		}
	}
}

// Callers must hold s.mu.
func (s *Store) findSet(id uuid.UUID) *WorkoutSet {
	for i := range s.sets {
		if s.sets[i].ID == id {
			return &s.sets[i]
		}
	}
	return nil
}

func (s *Store) findExercise(setID, exerciseID uuid.UUID) *Exercise {
	ws := s.findSet(setID)
	if ws == nil {
		return nil
	}
	for i := range ws.Exercises {
		if ws.Exercises[i].ID == exerciseID {
			return &ws.Exercises[i]
		}
	}
	return nil
}

func (s *Store) findEntry(setID, exerciseID, entryID uuid.UUID) *SetEntry {
	ex := s.findExercise(setID, exerciseID)
	if ex == nil {
		return nil
	}
	for i := range ex.Entries {
		if ex.Entries[i].ID == entryID {
			return &ex.Entries[i]
		}
	}
	return nil
}
