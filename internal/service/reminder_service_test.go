package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendCapture struct {
	sent []string
	fail bool
}

func (c *sendCapture) send(text string, _ bool) error {
	if c.fail {
		return errors.New("gateway down")
	}
	c.sent = append(c.sent, text)
	return nil
}

func TestSweepFiresEachBucketOnce(t *testing.T) {
	svc, items := newTestService(t)
	seedTask(t, items, "A1B2", "2026-03-02", "10:00", "11:00", false)

	reminders := NewReminderService(svc, NewReminderLedger(), time.UTC)
	capture := &sendCapture{}
	ctx := context.Background()

	// 09:46, 14 minutes before start: the 15-minute reminder fires.
	now := time.Date(2026, 3, 2, 9, 46, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	require.Len(t, capture.sent, 1)
	assert.Contains(t, capture.sent[0], "15 minutos")

	// A duplicate sweep one minute later must not re-send.
	now = time.Date(2026, 3, 2, 9, 47, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	assert.Len(t, capture.sent, 1)

	// 09:56, 4 minutes before start: the 5-minute reminder fires once.
	now = time.Date(2026, 3, 2, 9, 56, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	require.Len(t, capture.sent, 2)
	assert.Contains(t, capture.sent[1], "5 minutos")

	// 10:01, 1 minute in: the start reminder fires once.
	now = time.Date(2026, 3, 2, 10, 1, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	require.Len(t, capture.sent, 3)
	assert.Contains(t, capture.sent[2], "AGORA")

	// Well past start, nothing else fires.
	now = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	assert.Len(t, capture.sent, 3)
}

func TestSweepSkipsCompletedTasks(t *testing.T) {
	svc, items := newTestService(t)
	seedTask(t, items, "D0NE", "2026-03-02", "10:00", "11:00", true)

	reminders := NewReminderService(svc, NewReminderLedger(), time.UTC)
	capture := &sendCapture{}

	now := time.Date(2026, 3, 2, 9, 46, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(context.Background(), now, capture.send))
	assert.Empty(t, capture.sent)
}

func TestSweepRetriesAfterGatewayFailure(t *testing.T) {
	svc, items := newTestService(t)
	seedTask(t, items, "A1B2", "2026-03-02", "10:00", "11:00", false)

	ledger := NewReminderLedger()
	reminders := NewReminderService(svc, ledger, time.UTC)
	capture := &sendCapture{fail: true}
	ctx := context.Background()

	// Failed send is swallowed and the reminder is not marked fired.
	now := time.Date(2026, 3, 2, 9, 46, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	assert.Empty(t, capture.sent)
	assert.Equal(t, 0, ledger.Len())

	// The next sweep delivers it.
	capture.fail = false
	now = time.Date(2026, 3, 2, 9, 51, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(ctx, now, capture.send))
	require.Len(t, capture.sent, 1)
	assert.Contains(t, capture.sent[0], "15 minutos")
}

func TestSweepIndependentTasks(t *testing.T) {
	svc, items := newTestService(t)
	seedTask(t, items, "A1B2", "2026-03-02", "10:00", "10:05", false)
	seedTask(t, items, "C3D4", "2026-03-02", "10:05", "11:30", false)

	reminders := NewReminderService(svc, NewReminderLedger(), time.UTC)
	capture := &sendCapture{}

	// 10:00 is 0 minutes out for A1B2 and 5 minutes out for C3D4.
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, reminders.Sweep(context.Background(), now, capture.send))
	require.Len(t, capture.sent, 2)
	assert.Contains(t, capture.sent[0], "AGORA")
	assert.Contains(t, capture.sent[1], "5 minutos")
}

func TestSendDailyDigest(t *testing.T) {
	svc, items := newTestService(t)
	seedTask(t, items, "A1B2", "2026-03-02", "19:00", "20:00", false)
	seedTask(t, items, "D0NE", "2026-03-02", "08:00", "09:00", true)

	reminders := NewReminderService(svc, NewReminderLedger(), time.UTC)
	capture := &sendCapture{}

	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	require.NoError(t, reminders.SendDailyDigest(context.Background(), now, capture.send))
	require.Len(t, capture.sent, 1)
	// Completed tasks stay out of the morning digest.
	assert.Contains(t, capture.sent[0], "A1B2")
	assert.NotContains(t, capture.sent[0], "D0NE")
}

func TestSendDailyDigestEmptyDay(t *testing.T) {
	svc, _ := newTestService(t)
	reminders := NewReminderService(svc, NewReminderLedger(), time.UTC)
	capture := &sendCapture{}

	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	require.NoError(t, reminders.SendDailyDigest(context.Background(), now, capture.send))
	require.Len(t, capture.sent, 1)
	assert.Contains(t, capture.sent[0], "não há tarefas pendentes")
}
