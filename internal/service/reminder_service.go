package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"agenda-bjj/internal/timeutil"
)

// SendFunc delivers one composed message to the administrative channel.
// disablePreview suppresses link-preview rendering for messages with maps
// links.
type SendFunc func(text string, disablePreview bool) error

// ReminderService drives the two outbound notification flows: the weekday
// morning digest and the 5-minute reminder sweep. It owns no transport; the
// caller injects the send function.
type ReminderService struct {
	schedule *ScheduleService
	ledger   *ReminderLedger
	loc      *time.Location
}

func NewReminderService(schedule *ScheduleService, ledger *ReminderLedger, loc *time.Location) *ReminderService {
	return &ReminderService{schedule: schedule, ledger: ledger, loc: loc}
}

// SendDailyDigest sends today's agenda, or the no-tasks variant when the day
// is free.
func (s *ReminderService) SendDailyDigest(ctx context.Context, now time.Time, send SendFunc) error {
	date := timeutil.DateOf(now, s.loc)
	views, err := s.schedule.ActiveTasksFor(ctx, date)
	if err != nil {
		return fmt.Errorf("load digest tasks: %w", err)
	}
	if err := send(ComposeDigest(views, date), true); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Printf("[info] daily digest sent date=%s tasks=%d", date, len(views))
	return nil
}

// Sweep walks today's active tasks, classifies each against the reminder
// buckets and sends the unfired reminders. A reminder is marked in the ledger
// only after a successful send, so a failed delivery is retried on the next
// sweep. One failing task never stops the rest of the sweep.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time, send SendFunc) error {
	date := timeutil.DateOf(now, s.loc)
	nowMinutes := timeutil.MinutesOf(now, s.loc)

	views, err := s.schedule.ActiveTasksFor(ctx, date)
	if err != nil {
		return fmt.Errorf("load sweep tasks: %w", err)
	}

	for _, v := range views {
		startMinutes, err := timeutil.ToMinutes(v.Start)
		if err != nil {
			log.Printf("sweep: task %s has bad start %q: %v", v.Code, v.Start, err)
			continue
		}
		bucket, ok := timeutil.ReminderBucket(nowMinutes, startMinutes)
		if !ok {
			continue
		}
		if s.ledger.HasFired(v.ID, bucket, date) {
			continue
		}
		if err := send(ComposeReminder(v, bucket), true); err != nil {
			log.Printf("sweep: send reminder task=%s bucket=%d: %v", v.Code, bucket, err)
			continue
		}
		s.ledger.MarkFired(v.ID, bucket, date)
		log.Printf("[info] reminder sent task=%s bucket=%d date=%s", v.Code, bucket, date)
	}
	return nil
}

// CleanupLedger evicts reminder records from days before now.
func (s *ReminderService) CleanupLedger(now time.Time) {
	today := timeutil.DateOf(now, s.loc)
	removed := s.ledger.Cleanup(today)
	log.Printf("[info] ledger cleanup removed=%d remaining=%d", removed, s.ledger.Len())
}
