package model

import "time"

// User is a staff member who creates or receives schedule items.
type User struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Username  string `gorm:"uniqueIndex"`
	Role      string // admin or staff
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
