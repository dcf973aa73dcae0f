// Package summary reduces the completed entries of a workout set into the
// end-of-session statistics shown to the user. Reduce is pure: it never
// mutates its input and identical input always yields identical output.
package summary

import (
	"fmt"
	"math"
	"strconv"

	"github.com/claude/liftlog/internal/routine"
)

// ExerciseSummary is the per-exercise line of a workout summary. Reps and
// Weight are the values used in Formatted: the shared values when every
// completed entry is identical, rounded averages otherwise.
type ExerciseSummary struct {
	Name      string  `json:"name"`
	Equipment string  `json:"equipment,omitempty"`
	Sets      int     `json:"sets"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Formatted string  `json:"formatted"`
}

// Workout is the aggregate produced when a session finishes. TotalWeight is
// volume: reps times weight, summed over completed entries.
type Workout struct {
	DurationSeconds int               `json:"duration_seconds"`
	TotalExercises  int               `json:"total_exercises"`
	TotalSets       int               `json:"total_sets"`
	TotalReps       int               `json:"total_reps"`
	TotalWeight     float64           `json:"total_weight"`
	Exercises       []ExerciseSummary `json:"exercises"`
}

// Reduce computes the summary of a workout set at the given frozen duration.
// Exercises with no completed entries contribute nothing, to the totals or
// to the per-exercise list.
func Reduce(set routine.WorkoutSet, durationSeconds int) Workout {
	out := Workout{DurationSeconds: durationSeconds}

	for _, ex := range set.Exercises {
		var completed []routine.SetEntry
		for _, entry := range ex.Entries {
			if entry.Completed {
				completed = append(completed, entry)
			}
		}
		if len(completed) == 0 {
			continue
		}

		sets := len(completed)
		reps := 0
		weight := 0.0
		uniform := true
		for _, entry := range completed {
			reps += entry.Reps
			weight += float64(entry.Reps) * entry.Weight
			if entry.Reps != completed[0].Reps || entry.Weight != completed[0].Weight {
				uniform = false
			}
		}

		var displayReps int
		var displayWeight float64
		if uniform {
			displayReps = completed[0].Reps
			displayWeight = completed[0].Weight
		} else {
			displayReps = int(math.Round(float64(reps) / float64(sets)))
			if reps > 0 {
				displayWeight = math.Round(weight / float64(reps))
			}
		}

		out.Exercises = append(out.Exercises, ExerciseSummary{
			Name:      ex.Name,
			Equipment: ex.Equipment.Label(),
			Sets:      sets,
			Reps:      displayReps,
			Weight:    displayWeight,
			Formatted: fmt.Sprintf("%d X %d X %slb", sets, displayReps, formatWeight(displayWeight)),
		})
		out.TotalExercises++
		out.TotalSets += sets
		out.TotalReps += reps
		out.TotalWeight += weight
	}

	return out
}

// formatWeight renders a weight without trailing zeros (50, not 50.0).
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// FormatDuration renders seconds as m:ss, or h:mm:ss once an hour is passed.
func FormatDuration(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
