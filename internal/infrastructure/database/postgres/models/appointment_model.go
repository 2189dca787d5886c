package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeadID      string    `gorm:"type:varchar(64);not null;index"`
	SlotID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Slot        SlotModel `gorm:"foreignKey:SlotID"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	IsSameDay   bool      `gorm:"not null;default:false"`
	Address     string    `gorm:"type:text;not null"`
	DeviceValue float64   `gorm:"not null;default:0"`
	Priority    string    `gorm:"type:varchar(10);not null;default:'medium'"`
	Notes       *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (AppointmentModel) TableName() string {
	return "appointments"
}

// StateLogModel is append-only; rows are never updated or deleted.
type StateLogModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	FromState     string    `gorm:"type:varchar(20);not null"`
	ToState       string    `gorm:"type:varchar(20);not null"`
	Reason        string    `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (StateLogModel) TableName() string {
	return "state_logs"
}
