package session

import (
	"sync"
	"time"
)

// ActivityKind classifies a user-interaction signal reported to the
// inactivity watchdog.
type ActivityKind int

const (
	ActivityPointerPress ActivityKind = iota
	ActivityKeyPress
	ActivityTouchStart
	ActivityClick
	ActivityPointerMove
	ActivityScroll
)

// highPriority reports whether the kind re-arms the countdown without
// throttling. Pointer movement and scrolling are too chatty for that and go
// through the throttle window instead.
func (k ActivityKind) highPriority() bool {
	switch k {
	case ActivityPointerPress, ActivityKeyPress, ActivityTouchStart, ActivityClick:
		return true
	}
	return false
}

// Activity is one interaction signal. FromEmbeddedFrame marks signals
// originating inside embedded third-party frames; those are ignored to keep
// cross-origin noise from holding a session open.
type Activity struct {
	Kind              ActivityKind
	FromEmbeddedFrame bool
}

// watchdog terminates a session after a period without qualifying activity.
// It runs only while the session is authenticated.
type watchdog struct {
	mu        sync.Mutex
	timeout   time.Duration
	throttle  time.Duration
	disabled  bool
	onExpire  func()
	timer     *time.Timer
	active    bool
	lastRearm time.Time

	now func() time.Time // test seam
}

func newWatchdog(timeout, throttle time.Duration, disabled bool, onExpire func()) *watchdog {
	return &watchdog{
		timeout:  timeout,
		throttle: throttle,
		disabled: disabled,
		onExpire: onExpire,
		now:      time.Now,
	}
}

// setActive starts or cancels the countdown on session transitions.
// Becoming active always arms a fresh timer, regardless of throttling.
func (w *watchdog) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.active = active
	if !active {
		w.stopTimerLocked()
		return
	}
	w.rearmLocked()
}

// signal reports one interaction. Signals from embedded frames never count;
// low-priority signals count at most once per throttle window.
func (w *watchdog) signal(a Activity) {
	if a.FromEmbeddedFrame {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active || w.disabled {
		return
	}

	if !a.Kind.highPriority() && w.now().Sub(w.lastRearm) < w.throttle {
		return
	}

	w.rearmLocked()
}

func (w *watchdog) rearmLocked() {
	if w.disabled {
		return
	}
	w.lastRearm = w.now()
	w.stopTimerLocked()
	w.timer = time.AfterFunc(w.timeout, w.expire)
}

func (w *watchdog) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *watchdog) expire() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return
	}
	w.active = false
	w.timer = nil
	w.mu.Unlock()

	w.onExpire()
}
