package model

import "time"

// Category groups schedule items by activity (kids class, private lesson, ...).
type Category struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	Icon      string
	Color     string
	IsActive  bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
