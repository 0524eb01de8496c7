package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agenda-bjj/internal/timeutil"
)

func TestLedgerMarkFiredIdempotent(t *testing.T) {
	ledger := NewReminderLedger()

	assert.False(t, ledger.HasFired("task-1", timeutil.Bucket15, "2026-03-02"))

	ledger.MarkFired("task-1", timeutil.Bucket15, "2026-03-02")
	assert.True(t, ledger.HasFired("task-1", timeutil.Bucket15, "2026-03-02"))
	assert.Equal(t, 1, ledger.Len())

	// Marking twice leaves a single entry and HasFired still true.
	ledger.MarkFired("task-1", timeutil.Bucket15, "2026-03-02")
	assert.True(t, ledger.HasFired("task-1", timeutil.Bucket15, "2026-03-02"))
	assert.Equal(t, 1, ledger.Len())
}

func TestLedgerKeysAreDateQualified(t *testing.T) {
	ledger := NewReminderLedger()
	ledger.MarkFired("task-1", timeutil.Bucket5, "2026-03-01")

	// Yesterday's entry does not suppress today's reminder even before
	// cleanup runs.
	assert.False(t, ledger.HasFired("task-1", timeutil.Bucket5, "2026-03-02"))
	assert.True(t, ledger.HasFired("task-1", timeutil.Bucket5, "2026-03-01"))
}

func TestLedgerDistinguishesBuckets(t *testing.T) {
	ledger := NewReminderLedger()
	ledger.MarkFired("task-1", timeutil.Bucket15, "2026-03-02")

	assert.False(t, ledger.HasFired("task-1", timeutil.Bucket5, "2026-03-02"))
	assert.False(t, ledger.HasFired("task-1", timeutil.Bucket0, "2026-03-02"))
	assert.False(t, ledger.HasFired("task-2", timeutil.Bucket15, "2026-03-02"))
}

func TestLedgerCleanup(t *testing.T) {
	ledger := NewReminderLedger()
	ledger.MarkFired("task-1", timeutil.Bucket15, "2026-03-01")
	ledger.MarkFired("task-1", timeutil.Bucket5, "2026-03-01")
	ledger.MarkFired("task-2", timeutil.Bucket15, "2026-03-02")

	removed := ledger.Cleanup("2026-03-02")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.HasFired("task-2", timeutil.Bucket15, "2026-03-02"))
	assert.False(t, ledger.HasFired("task-1", timeutil.Bucket15, "2026-03-01"))
}
