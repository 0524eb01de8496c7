// Package timeutil holds the pure time helpers the agenda works with:
// "HH:MM" strings mapped to minutes since midnight, half-open interval
// overlap and reminder lead-time buckets.
package timeutil

import (
	"fmt"
	"time"
)

// Reminder lead-time buckets, in minutes before the slot start.
const (
	Bucket15 = 15
	Bucket5  = 5
	Bucket0  = 0
)

// ToMinutes parses a zero-padded 24-hour "HH:MM" string into minutes since
// midnight.
func ToMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	hour, err := twoDigits(hhmm[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := twoDigits(hhmm[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", hhmm)
	}
	return hour*60 + minute, nil
}

// FromMinutes renders minutes since midnight as a zero-padded "HH:MM" string.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ReminderBucket classifies how far a slot start is from now into one of the
// reminder buckets. The bands are disjoint: 15 when 10 < start-now <= 15,
// 5 when 0 < start-now <= 5, 0 when -5 < start-now <= 0. ok is false when the
// delta falls outside every band.
//
// The 5-minute-wide bands assume the reminder sweep runs at least every
// 5 minutes; a coarser cadence can step over a band entirely.
func ReminderBucket(nowMinutes, startMinutes int) (bucket int, ok bool) {
	delta := startMinutes - nowMinutes
	switch {
	case delta > 10 && delta <= 15:
		return Bucket15, true
	case delta > 0 && delta <= 5:
		return Bucket5, true
	case delta > -5 && delta <= 0:
		return Bucket0, true
	default:
		return 0, false
	}
}

// DateOf renders t in loc as an ISO "yyyy-mm-dd" date string.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// NextDate renders the day after t in loc as an ISO date string.
func NextDate(t time.Time, loc *time.Location) string {
	return t.In(loc).AddDate(0, 0, 1).Format("2006-01-02")
}

// MinutesOf returns t's position in its day as minutes since midnight.
func MinutesOf(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

var weekdayNames = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatDate renders an ISO date string as a long Portuguese date, e.g.
// "segunda-feira, 2 de março de 2026". Malformed input is returned as-is.
func FormatDate(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		weekdayNames[int(t.Weekday())], t.Day(), monthNames[int(t.Month())-1], t.Year())
}

func twoDigits(s string) (int, error) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("not numeric")
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}
