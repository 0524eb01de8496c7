package service

import (
	"sync"
	"time"
)

type reminderKey struct {
	TaskID string
	Bucket int
	Date   string
}

// ReminderLedger records which (task, bucket) reminders already went out on a
// given date, so a sweep never sends the same reminder twice. Keys carry the
// calendar date: entries from a previous day are ignored by lookups done with
// today's date even before the nightly cleanup evicts them.
//
// The ledger lives in process memory only; a restart forgets the current day
// and a reminder close to the boundary may repeat.
type ReminderLedger struct {
	mu    sync.Mutex
	fired map[reminderKey]time.Time
}

func NewReminderLedger() *ReminderLedger {
	return &ReminderLedger{fired: make(map[reminderKey]time.Time)}
}

// HasFired reports whether the (task, bucket) reminder already went out on date.
func (l *ReminderLedger) HasFired(taskID string, bucket int, date string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.fired[reminderKey{TaskID: taskID, Bucket: bucket, Date: date}]
	return ok
}

// MarkFired records a sent reminder. Marking the same key twice is a no-op.
func (l *ReminderLedger) MarkFired(taskID string, bucket int, date string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := reminderKey{TaskID: taskID, Bucket: bucket, Date: date}
	if _, ok := l.fired[key]; ok {
		return
	}
	l.fired[key] = time.Now()
}

// Cleanup evicts every entry dated before today and returns how many were
// removed. ISO dates compare correctly as strings.
func (l *ReminderLedger) Cleanup(today string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key := range l.fired {
		if key.Date < today {
			delete(l.fired, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (l *ReminderLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fired)
}
