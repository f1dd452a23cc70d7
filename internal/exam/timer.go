package exam

import (
	"fmt"
	"sync"
	"time"
)

// Level is the advisory urgency of a running countdown.
type Level int

const (
	LevelNone Level = iota
	LevelWarning
	LevelCritical
)

// warning/critical thresholds in whole minutes remaining.
const (
	warningMinutes  = 10
	criticalMinutes = 5
)

// Timer is an optional one-second countdown bound to a session. A zero
// time limit disables it entirely: no countdown, no forced expiry.
//
// Tick drives the countdown one second at a time; Run drives Tick from a
// wall-clock ticker. The expiry callback fires exactly once, and ticks
// after expiry or Stop are no-ops.
type Timer struct {
	mu          sync.Mutex
	limit       int // minutes, 0 = disabled
	secondsLeft int
	expired     bool
	stopped     bool
	onExpire    func()
	quit        chan struct{}
}

// NewTimer creates a countdown of limitMinutes. onExpire is invoked once
// when the countdown reaches zero.
func NewTimer(limitMinutes int, onExpire func()) *Timer {
	t := &Timer{
		limit:    limitMinutes,
		onExpire: onExpire,
		quit:     make(chan struct{}),
	}
	if limitMinutes > 0 {
		t.secondsLeft = limitMinutes * 60
	}
	return t
}

// Enabled reports whether a time limit is set.
func (t *Timer) Enabled() bool {
	return t.limit > 0
}

// SecondsLeft returns the remaining seconds, 0 for a disabled timer.
func (t *Timer) SecondsLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.secondsLeft
}

// Tick advances the countdown by one second. On reaching zero it fires the
// expiry callback and stops decrementing.
func (t *Timer) Tick() {
	t.mu.Lock()
	if t.limit <= 0 || t.expired || t.stopped {
		t.mu.Unlock()
		return
	}
	t.secondsLeft--
	if t.secondsLeft > 0 {
		t.mu.Unlock()
		return
	}
	t.secondsLeft = 0
	t.expired = true
	cb := t.onExpire
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Run starts a goroutine ticking once per second until expiry or Stop.
// Disabled timers never start one.
func (t *Timer) Run() {
	if t.limit <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-ticker.C:
				t.Tick()
				t.mu.Lock()
				done := t.expired
				t.mu.Unlock()
				if done {
					return
				}
			}
		}
	}()
}

// Stop cancels the countdown and releases the ticking goroutine. Safe to
// call more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()
	close(t.quit)
}

// Display formats the remaining time as MM:SS. Disabled timers return an
// empty string; callers substitute their "no limit" label.
func (t *Timer) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limit <= 0 {
		return ""
	}
	return FormatClock(t.secondsLeft)
}

// Level reports the advisory threshold: warning under ten remaining
// minutes, critical under five, none once time runs out or for disabled
// timers.
func (t *Timer) Level() Level {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limit <= 0 || t.secondsLeft <= 0 {
		return LevelNone
	}
	switch minutes := t.secondsLeft / 60; {
	case minutes < criticalMinutes:
		return LevelCritical
	case minutes < warningMinutes:
		return LevelWarning
	default:
		return LevelNone
	}
}

// FormatClock renders a second count as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
