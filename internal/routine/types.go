package routine

import "github.com/google/uuid"

// SetEntry is one planned or performed set of an exercise: a weight and a
// rep count, plus a completion flag toggled during a live session.
type SetEntry struct {
	ID        uuid.UUID `json:"id"`
	SetNumber int       `json:"set_number"`
	Weight    float64   `json:"weight"`
	Reps      int       `json:"reps"`
	Completed bool      `json:"completed"`
}

// Exercise is a named movement within a workout set. Entries keep insertion
// order; SetNumber tracks the position an entry was added at.
type Exercise struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Notes     string     `json:"notes,omitempty"`
	Equipment Equipment  `json:"equipment"`
	Entries   []SetEntry `json:"entries"`
}

// WorkoutSet is a named routine (e.g. "Leg Day") grouping exercises.
type WorkoutSet struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// EquipmentKind is the closed set of equipment choices.
type EquipmentKind string

const (
	EquipmentBarbell    EquipmentKind = "Barbell"
	EquipmentDumbbell   EquipmentKind = "Dumbbell"
	EquipmentMachine    EquipmentKind = "Machine"
	EquipmentCable      EquipmentKind = "Cable"
	EquipmentBodyweight EquipmentKind = "Bodyweight"
	EquipmentKettlebell EquipmentKind = "Kettlebell"
	EquipmentBands      EquipmentKind = "Bands"
	EquipmentOther      EquipmentKind = "Other"
)

// Equipment is a tagged value: one of the enumerated kinds, or Other with a
// free-text label. The zero value means "not set".
type Equipment struct {
	Kind   EquipmentKind `json:"kind,omitempty"`
	Custom string        `json:"custom,omitempty"`
}

var equipmentKinds = map[EquipmentKind]bool{
	EquipmentBarbell:    true,
	EquipmentDumbbell:   true,
	EquipmentMachine:    true,
	EquipmentCable:      true,
	EquipmentBodyweight: true,
	EquipmentKettlebell: true,
	EquipmentBands:      true,
}

// ParseEquipment maps a user-supplied label to an Equipment value. Labels
// outside the enumerated set become Other with the label as custom text.
func ParseEquipment(label string) Equipment {
	if label == "" {
		return Equipment{}
	}
	if equipmentKinds[EquipmentKind(label)] {
		return Equipment{Kind: EquipmentKind(label)}
	}
	return Equipment{Kind: EquipmentOther, Custom: label}
}

// Label returns the display label, or "" when equipment is not set.
func (e Equipment) Label() string {
	if e.Kind == EquipmentOther && e.Custom != "" {
		return e.Custom
	}
	return string(e.Kind)
}

func copyEntries(entries []SetEntry) []SetEntry {
	out := make([]SetEntry, len(entries))
	copy(out, entries)
	return out
}

func copyExercises(exercises []Exercise) []Exercise {
	out := make([]Exercise, len(exercises))
	for i, ex := range exercises {
		out[i] = ex
		out[i].Entries = copyEntries(ex.Entries)
	}
	return out
}

func copySet(ws WorkoutSet) WorkoutSet {
	out := ws
	out.Exercises = copyExercises(ws.Exercises)
	return out
}
