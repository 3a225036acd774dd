// Package anticheat tracks client-reported tab switches during an exam
// session. The watcher is an explicitly constructed, explicitly owned
// component: one per server process, holding only in-memory warning
// history, never package-level state.
package anticheat

import (
	"sync"
	"time"
)

// Watcher counts tab-switch reports per submission and decides when a
// submission has burned through its allowance.
type Watcher struct {
	mu       sync.Mutex
	limit    int
	warnings map[string][]time.Time // submission ID -> warning times
}

// NewWatcher allows limit switches before Record reports auto-submit.
// A limit of 2 means: first switch warns, second forces submission.
func NewWatcher(limit int) *Watcher {
	if limit <= 0 {
		limit = 2
	}
	return &Watcher{limit: limit, warnings: map[string][]time.Time{}}
}

// Record notes one tab switch for a submission and returns the running
// count plus whether the submission should now be force-submitted.
func (w *Watcher) Record(submissionID string) (count int, autoSubmit bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings[submissionID] = append(w.warnings[submissionID], time.Now())
	count = len(w.warnings[submissionID])
	return count, count >= w.limit
}

// Warnings returns the recorded warning times for a submission.
func (w *Watcher) Warnings(submissionID string) []time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]time.Time, len(w.warnings[submissionID]))
	copy(out, w.warnings[submissionID])
	return out
}

// Forget drops a submission's history once it is graded.
func (w *Watcher) Forget(submissionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.warnings, submissionID)
}
