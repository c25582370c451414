// Package leaktest checks that background workers exit when stopped.
package leaktest

import (
	"runtime"
	"strings"
	"time"
)

const (
	pollInterval   = 10 * time.Millisecond
	defaultTimeout = 2 * time.Second
)

// Reporter is the part of testing.TB a Tracker needs
type Reporter interface {
	Helper()
	Errorf(format string, args ...any)
}

// Tracker remembers the goroutine count at the start of a test
type Tracker struct {
	t        Reporter
	baseline int
	timeout  time.Duration
}

// Track records the current goroutine count
func Track(t Reporter) *Tracker {
	t.Helper()
	runtime.Gosched()
	return &Tracker{t: t, baseline: runtime.NumGoroutine(), timeout: defaultTimeout}
}

// WithTimeout changes how long Settle waits for goroutines to exit
func (tr *Tracker) WithTimeout(d time.Duration) *Tracker {
	tr.timeout = d
	return tr
}

// Leaked is the number of goroutines above the baseline right now
func (tr *Tracker) Leaked() int {
	return runtime.NumGoroutine() - tr.baseline
}

// Settle waits until at most tolerance extra goroutines remain and reports
// the surviving stacks if they do not exit in time
func (tr *Tracker) Settle(tolerance int) bool {
	tr.t.Helper()

	deadline := time.Now().Add(tr.timeout)
	for {
		if tr.Leaked() <= tolerance {
			return true
		}
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(pollInterval)
	}

	tr.t.Errorf("goroutine leak: baseline=%d now=%d tolerance=%d\n%s",
		tr.baseline, runtime.NumGoroutine(), tolerance, stacks())
	return false
}

// stacks dumps every goroutine except the caller's own
func stacks() string {
	buf := make([]byte, 1<<16)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	parts := strings.Split(string(buf), "\n\n")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, "\n\n")
}
