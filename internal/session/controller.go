// Package session owns the live-workout state machine: which workout set is
// being performed, the elapsed-time clock, and the gate in front of
// completion toggles.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/routine"
	"github.com/claude/liftlog/internal/summary"
	"github.com/google/uuid"
)

// Policy violations reported to callers. These are rejections, not faults:
// the store is left untouched when they are returned.
var (
	ErrNotActive       = errors.New("no active workout session")
	ErrWrongWorkoutSet = errors.New("workout set is not the active one")
)

// Status is a snapshot of the controller state for display.
type Status struct {
	Active         bool      `json:"active"`
	WorkoutSetID   uuid.UUID `json:"workout_set_id,omitempty"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Elapsed        string    `json:"elapsed"`
}

// Controller is the two-state (Idle / Active) session machine. While Active
// it runs a once-per-second ticker goroutine that recomputes the elapsed
// time; the goroutine is cancelled on Finish and on Close and must never
// outlive the session.
type Controller struct {
	store *routine.Store
	log   *slog.Logger
	clock func() time.Time
	tick  time.Duration

	mu          sync.Mutex
	active      bool
	activeID    uuid.UUID
	startedAt   time.Time
	elapsed     int
	cancel      context.CancelFunc
	done        chan struct{}
	lastSummary *summary.Workout
}

// NewController creates an idle controller over the given store.
func NewController(store *routine.Store, log *slog.Logger) *Controller {
	return &Controller{
		store: store,
		log:   log,
		clock: time.Now,
		tick:  time.Second,
	}
}

// Start begins a session on the given workout set and reports whether it
// actually started. Calling Start while a session is already active is a
// no-op returning false: the first started session wins.
func (c *Controller) Start(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return false
	}
	c.active = true
	c.activeID = id
	c.startedAt = c.clock()
	c.elapsed = 0

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)

	c.log.Info("workout started", "workout_set_id", id)
	return true
}

func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.active {
				c.elapsed = int(c.clock().Sub(c.startedAt) / time.Second)
			}
			c.mu.Unlock()
		}
	}
}

// ToggleCompletion flips an entry's completed flag through the store.
// It is permitted only while a session is active and the entry belongs to
// the active workout set; otherwise the violation is reported and nothing
// changes. Unknown ids within the active set remain silent store no-ops.
func (c *Controller) ToggleCompletion(setID, exerciseID, entryID uuid.UUID) error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return ErrNotActive
	}
	if setID != c.activeID {
		c.mu.Unlock()
		return ErrWrongWorkoutSet
	}
	c.mu.Unlock()

	c.store.ToggleCompletion(setID, exerciseID, entryID)
	return nil
}

// Finish ends the active session: stops the ticker, freezes the elapsed
// time, reduces the active set's current data into a summary, resets every
// completion flag on that set, and returns to Idle. The summary is retained
// for display until dismissed.
//
// If the active workout set was deleted mid-session the reduction runs over
// zero exercises and yields an all-zero summary rather than failing.
func (c *Controller) Finish() (summary.Workout, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return summary.Workout{}, ErrNotActive
	}
	c.cancel()
	c.cancel = nil
	c.elapsed = int(c.clock().Sub(c.startedAt) / time.Second)
	id := c.activeID
	elapsed := c.elapsed
	c.active = false
	c.activeID = uuid.Nil
	c.startedAt = time.Time{}
	c.mu.Unlock()

	ws, ok := c.store.Get(id)
	if !ok {
		c.log.Warn("active workout set no longer exists, producing empty summary", "workout_set_id", id)
	}
	sum := summary.Reduce(ws, elapsed)
	c.store.ResetCompletions(id)

	c.mu.Lock()
	c.lastSummary = &sum
	c.mu.Unlock()

	c.log.Info("workout finished",
		"workout_set_id", id,
		"duration", summary.FormatDuration(elapsed),
		"exercises", sum.TotalExercises,
		"sets", sum.TotalSets,
	)
	return sum, nil
}

// Status returns a display snapshot. After Finish the elapsed time stays
// frozen at the value it reached; Start resets it.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Active:         c.active,
		ElapsedSeconds: c.elapsed,
		Elapsed:        summary.FormatDuration(c.elapsed),
	}
	if c.active {
		st.WorkoutSetID = c.activeID
	}
	return st
}

// LastSummary returns the summary of the most recently finished session,
// if one is awaiting dismissal.
func (c *Controller) LastSummary() (summary.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSummary == nil {
		return summary.Workout{}, false
	}
	return *c.lastSummary, true
}

// DismissSummary discards the retained summary.
func (c *Controller) DismissSummary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSummary = nil
}

// Close releases the ticker if a session is still active. Safe to call
// multiple times and while idle.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
