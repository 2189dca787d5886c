package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotModel maps the schedule_slots table. The composite unique index on
// (date, start_time) is what makes concurrent initialization idempotent.
type SlotModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:idx_slot_date_start"`
	StartTime       string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_slot_date_start"`
	EndTime         string    `gorm:"type:varchar(5);not null"`
	Capacity        int       `gorm:"not null"`
	CurrentBookings int       `gorm:"not null;default:0"`
	IsBlocked       bool      `gorm:"not null;default:false"`
	IsAvailable     bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (SlotModel) TableName() string {
	return "schedule_slots"
}
