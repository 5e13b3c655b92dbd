// Package ratelimit limits requests per client with sliding windows.
package ratelimit

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WindowParameters sizes a sliding window: at most RequestCount requests are
// accepted in any Duration-long interval.
type WindowParameters struct {
	Duration     time.Duration
	RequestCount int
}

// Validate reports whether the parameters describe a usable window.
func (p WindowParameters) Validate() error {
	if p.RequestCount <= 0 {
		return errors.New("window request count must be positive")
	}
	if p.Duration <= 0 {
		return errors.New("window duration must be positive")
	}
	return nil
}

// A Window contains a fixed number of request slots. Each accepted request
// occupies one slot until it is older than the window duration.
type Window struct {
	duration time.Duration
	slots    []time.Time
	lastSeen time.Time
	mutex    sync.Mutex
}

// NewWindow returns an empty window.
func NewWindow(params WindowParameters) (*Window, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Window{
		duration: params.Duration,
		slots:    make([]time.Time, params.RequestCount),
	}, nil
}

// AllowRequest records a request at now and returns false if it should be
// rate limited. Rejected requests do not occupy a slot.
func (w *Window) AllowRequest(now time.Time) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.lastSeen = now

	// An empty slot accepts immediately; otherwise reuse the oldest slot
	// whose request has left the window.
	candidate := -1
	for i, at := range w.slots {
		if at.IsZero() {
			w.slots[i] = now
			return true
		}
		if now.Sub(at) >= w.duration && (candidate == -1 || at.Before(w.slots[candidate])) {
			candidate = i
		}
	}
	if candidate == -1 {
		return false
	}
	w.slots[candidate] = now
	return true
}

// RetryAfter returns how long until a slot frees up, or zero if one is free.
func (w *Window) RetryAfter(now time.Time) time.Duration {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	var oldest time.Time
	for _, at := range w.slots {
		if at.IsZero() {
			return 0
		}
		if oldest.IsZero() || at.Before(oldest) {
			oldest = at
		}
	}
	wait := w.duration - now.Sub(oldest)
	if wait < 0 {
		return 0
	}
	return wait
}

func (w *Window) idleSince(now time.Time) time.Duration {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return now.Sub(w.lastSeen)
}

// Limiter keeps one window per client key.
type Limiter struct {
	params  WindowParameters
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.Mutex
	windows map[string]*Window
	// sweepAt bounds how often idle windows are dropped.
	sweepAt time.Time
}

// NewLimiter returns a limiter whose per-key windows use params.
func NewLimiter(params WindowParameters, logger *zap.Logger) (*Limiter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		params:  params,
		logger:  logger,
		now:     time.Now,
		windows: make(map[string]*Window),
	}, nil
}

// Allow reports whether a request from key is accepted. When it is not, the
// returned duration says how long the client should wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	window := l.window(key, now)
	if window.AllowRequest(now) {
		return true, 0
	}
	l.logger.Debug("rate limited", zap.String("client", key))
	return false, window.RetryAfter(now)
}

func (l *Limiter) window(key string, now time.Time) *Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.After(l.sweepAt) {
		l.sweepLocked(now)
		l.sweepAt = now.Add(l.params.Duration)
	}
	window, ok := l.windows[key]
	if !ok {
		// Parameters were validated by NewLimiter.
		window, _ = NewWindow(l.params)
		l.windows[key] = window
	}
	return window
}

func (l *Limiter) sweepLocked(now time.Time) {
	for key, window := range l.windows {
		if window.idleSince(now) >= l.params.Duration {
			delete(l.windows, key)
		}
	}
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
