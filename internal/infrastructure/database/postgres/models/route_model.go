package models

import (
	"time"

	"github.com/google/uuid"
)

type RouteModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date                 time.Time `gorm:"type:date;not null;index"`
	Status               string    `gorm:"type:varchar(20);not null"`
	EstimatedDistanceKm  float64   `gorm:"not null;default:0"`
	EstimatedDurationMin int       `gorm:"not null;default:0"`
	ActualDistanceKm     *float64
	ActualDurationMin    *int
	FuelCost             float64   `gorm:"not null;default:0"`
	Efficiency           string    `gorm:"type:varchar(10)"`
	TotalValue           float64   `gorm:"not null;default:0"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`

	Pickups []RoutePickupModel `gorm:"foreignKey:RouteID"`
}

func (RouteModel) TableName() string {
	return "routes"
}

type RoutePickupModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RouteID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;not null"`
	LeadID        string     `gorm:"type:varchar(64);not null"`
	Sequence      int        `gorm:"not null"`
	Address       string     `gorm:"type:text;not null"`
	Lat           *float64
	Lng           *float64
	WindowStart   *time.Time
	WindowEnd     *time.Time
	Priority      string     `gorm:"type:varchar(10);not null"`
	DeviceValue   float64    `gorm:"not null;default:0"`
	Status        string     `gorm:"type:varchar(20);not null"`
	ETA           *time.Time
	Notes         *string    `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (RoutePickupModel) TableName() string {
	return "route_pickups"
}
