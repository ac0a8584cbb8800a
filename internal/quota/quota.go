// Package quota tracks the shared call budget against the generative-AI
// service. One Tracker is shared by every caller in the process; access is
// mutex-serialized so concurrent requests cannot over-admit calls.
package quota

import (
	"sync"
	"time"
)

// Default budgets match the free-tier limits of the Gemini API.
const (
	DefaultPerMinute = 10
	DefaultPerDay    = 1500
)

// Info reports the quota state returned by CheckAndConsume and Status.
type Info struct {
	Allowed         bool          `json:"allowed"`
	MinuteRemaining int           `json:"minute_remaining"`
	DayRemaining    int           `json:"day_remaining"`
	ResetIn         time.Duration `json:"-"`
	ResetInSeconds  int           `json:"reset_in_seconds"`
}

// Tracker enforces per-minute and per-day call budgets using fixed windows.
// Consumption is fail-closed: if the AI call fails after a token was
// consumed, the token is not refunded.
type Tracker struct {
	mu sync.Mutex

	minuteLimit int
	dayLimit    int

	minuteCount int
	dayCount    int
	minuteStart time.Time
	dayStart    time.Time

	now func() time.Time
}

// New creates a Tracker with the given per-minute and per-day limits.
// Non-positive limits fall back to the defaults.
func New(perMinute, perDay int) *Tracker {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	if perDay <= 0 {
		perDay = DefaultPerDay
	}
	return &Tracker{
		minuteLimit: perMinute,
		dayLimit:    perDay,
		now:         time.Now,
	}
}

// CheckAndConsume consumes one call from both windows if budget remains.
// When the minute budget is exhausted it returns Allowed=false with the
// time until the minute window resets; the caller must not make the AI call.
func (t *Tracker) CheckAndConsume() Info {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.roll()

	if t.minuteCount >= t.minuteLimit || t.dayCount >= t.dayLimit {
		return t.info(false)
	}

	t.minuteCount++
	t.dayCount++
	return t.info(true)
}

// Status reports the current quota state without consuming a call.
func (t *Tracker) Status() Info {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.roll()
	return t.info(t.minuteCount < t.minuteLimit && t.dayCount < t.dayLimit)
}

// roll resets any window whose period has elapsed. Caller holds t.mu.
func (t *Tracker) roll() {
	now := t.now()
	if t.minuteStart.IsZero() || now.Sub(t.minuteStart) >= time.Minute {
		t.minuteStart = now
		t.minuteCount = 0
	}
	if t.dayStart.IsZero() || now.Sub(t.dayStart) >= 24*time.Hour {
		t.dayStart = now
		t.dayCount = 0
	}
}

// info builds an Info snapshot. Caller holds t.mu.
func (t *Tracker) info(allowed bool) Info {
	resetIn := time.Minute - t.now().Sub(t.minuteStart)
	if resetIn < 0 {
		resetIn = 0
	}
	return Info{
		Allowed:         allowed,
		MinuteRemaining: t.minuteLimit - t.minuteCount,
		DayRemaining:    t.dayLimit - t.dayCount,
		ResetIn:         resetIn,
		ResetInSeconds:  int(resetIn.Round(time.Second).Seconds()),
	}
}
