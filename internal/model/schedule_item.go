package model

import "time"

// ScheduleItem is one bookable slot in the academy agenda.
//
// Start and End are zero-padded 24-hour "HH:MM" strings within a single day;
// Date is an ISO "yyyy-mm-dd" string. Code is a 4-character uppercase hex
// identifier relayed over chat, independent from the internal ID.
type ScheduleItem struct {
	ID                string  `gorm:"primaryKey"`
	Code              string  `gorm:"uniqueIndex;size:4"`
	Title             string  `gorm:"not null"`
	Description       string
	Date              string  `gorm:"index;not null"`
	Start             string  `gorm:"not null"`
	End               string  `gorm:"not null"`
	CategoryID        *string `gorm:"index"`
	CreatedBy         string
	AssignedTo        *string `gorm:"index"`
	MapsLink          string
	RescheduledReason string
	IsCompleted       bool    `gorm:"default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
