package pause

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultTickPeriod = 30 * time.Millisecond
	DefaultThreshold  = 0
)

var (
	ErrAlreadyTracked = errors.New("player is already tracked")
	ErrNotTracked     = errors.New("player is not tracked")
)

// ResumeHandler is called when a paused player sends an update, with the time
// the player spent paused.
type ResumeHandler func(id string, paused time.Duration)

// Detector counts, per player, the ticks that pass without a liveness update.
// A player whose count is above the threshold is paused.
type Detector struct {
	mu      sync.Mutex
	idle    map[string]int
	period  time.Duration
	thresh  int
	resumed ResumeHandler
}

type DetectorOpt func(*Detector)

func NewDetector(opts ...DetectorOpt) *Detector {
	d := &Detector{
		idle:   make(map[string]int),
		period: DefaultTickPeriod,
		thresh: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithTickPeriod sets the time one tick represents. It should match the
// period of whatever calls Tick.
func WithTickPeriod(p time.Duration) DetectorOpt {
	return func(d *Detector) {
		d.period = p
	}
}

// WithThreshold sets the number of idle ticks a player may accumulate before
// counting as paused.
func WithThreshold(ticks int) DetectorOpt {
	return func(d *Detector) {
		d.thresh = ticks
	}
}

func WithResumeHandler(h ResumeHandler) DetectorOpt {
	return func(d *Detector) {
		d.resumed = h
	}
}

// TickPeriod returns the duration of one tick.
func (d *Detector) TickPeriod() time.Duration {
	return d.period
}

// Track starts counting for id, in the active state.
func (d *Detector) Track(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.idle[id]; ok {
		return ErrAlreadyTracked
	}
	d.idle[id] = 0
	return nil
}

// Untrack discards id's state. No resume is reported for a paused player.
func (d *Detector) Untrack(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.idle, id)
}

// Tick adds one idle tick to every tracked player.
func (d *Detector) Tick(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id := range d.idle {
		d.idle[id]++
	}
	return nil
}

// Update records a liveness update for id. If id was paused it reports the
// resume and how long the pause lasted.
func (d *Detector) Update(id string) (bool, time.Duration, error) {
	d.mu.Lock()
	ticks, ok := d.idle[id]
	if !ok {
		d.mu.Unlock()
		return false, 0, ErrNotTracked
	}
	d.idle[id] = 0
	handler := d.resumed
	d.mu.Unlock()

	if ticks <= d.thresh {
		return false, 0, nil
	}

	paused := time.Duration(ticks) * d.period
	if handler != nil {
		handler(id, paused)
	}
	return true, paused, nil
}

// IsPaused reports whether id has been idle for more than the threshold.
func (d *Detector) IsPaused(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.idle[id] > d.thresh
}

// PausedFor returns how long id has been idle, or zero when it is active.
func (d *Detector) PausedFor(id string) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticks := d.idle[id]
	if ticks <= d.thresh {
		return 0
	}
	return time.Duration(ticks) * d.period
}

// IdleTicks returns the raw idle counter for id.
func (d *Detector) IdleTicks(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.idle[id]
}

// Tracked returns the number of tracked players.
func (d *Detector) Tracked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.idle)
}
