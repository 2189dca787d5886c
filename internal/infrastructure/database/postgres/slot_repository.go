package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buyback-logistics/internal/database"
	"buyback-logistics/internal/domain/schedule"
	"buyback-logistics/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlotRepository struct {
	db *database.DB
}

func NewSlotRepository(db *database.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// EnsureSlots inserts any missing slots for the rolling window. Conflicts on
// (date, start_time) are skipped, so concurrent initializers are safe.
func (r *SlotRepository) EnsureSlots(ctx context.Context, slots []*schedule.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	dbModels := make([]models.SlotModel, 0, len(slots))
	for _, s := range slots {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		dbModels = append(dbModels, *toSlotModel(s))
	}

	result := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "start_time"}},
			DoNothing: true,
		}).
		Create(&dbModels)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to ensure slots: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}

func (r *SlotRepository) GetByID(ctx context.Context, slotID uuid.UUID) (*schedule.Slot, error) {
	var dbModel models.SlotModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", slotID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schedule.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return toSlotEntity(&dbModel), nil
}

func (r *SlotRepository) GetByDateTime(ctx context.Context, date time.Time, startTime string) (*schedule.Slot, error) {
	var dbModel models.SlotModel
	err := r.db.DB.WithContext(ctx).
		Where("date = ? AND start_time = ?", date.Format(schedule.DateFormat), startTime).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schedule.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return toSlotEntity(&dbModel), nil
}

func (r *SlotRepository) ListByDate(ctx context.Context, date time.Time) ([]*schedule.Slot, error) {
	var dbModels []models.SlotModel
	err := r.db.DB.WithContext(ctx).
		Where("date = ?", date.Format(schedule.DateFormat)).
		Order("start_time asc").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	slots := make([]*schedule.Slot, 0, len(dbModels))
	for i := range dbModels {
		slots = append(slots, toSlotEntity(&dbModels[i]))
	}

	return slots, nil
}

func (r *SlotRepository) SetBlocked(ctx context.Context, slotID uuid.UUID, blocked bool) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.SlotModel{}).
		Where("id = ?", slotID).
		Update("is_blocked", blocked)

	if result.Error != nil {
		return fmt.Errorf("failed to update slot block flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return schedule.ErrSlotNotFound
	}

	return nil
}

// Reserve increments current_bookings only while below capacity. The
// conditional UPDATE serializes concurrent bookings on the row itself, so
// two racing requests can never jointly exceed capacity.
func (r *SlotRepository) Reserve(ctx context.Context, slotID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.SlotModel{}).
		Where("id = ? AND current_bookings < capacity", slotID).
		UpdateColumn("current_bookings", gorm.Expr("current_bookings + 1"))

	if result.Error != nil {
		return fmt.Errorf("failed to reserve slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.DB.WithContext(ctx).
			Model(&models.SlotModel{}).
			Where("id = ?", slotID).
			Count(&exists).Error; err != nil {
			return fmt.Errorf("failed to reserve slot: %w", err)
		}
		if exists == 0 {
			return schedule.ErrSlotNotFound
		}
		return schedule.ErrSlotFull
	}

	return nil
}

func (r *SlotRepository) Release(ctx context.Context, slotID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.SlotModel{}).
		Where("id = ? AND current_bookings > 0", slotID).
		UpdateColumn("current_bookings", gorm.Expr("current_bookings - 1"))

	if result.Error != nil {
		return fmt.Errorf("failed to release slot: %w", result.Error)
	}

	return nil
}

func toSlotModel(s *schedule.Slot) *models.SlotModel {
	return &models.SlotModel{
		ID:              s.ID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Capacity:        s.Capacity,
		CurrentBookings: s.CurrentBookings,
		IsBlocked:       s.IsBlocked,
		IsAvailable:     s.IsAvailable,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toSlotEntity(m *models.SlotModel) *schedule.Slot {
	return &schedule.Slot{
		ID:              m.ID,
		Date:            m.Date,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		Capacity:        m.Capacity,
		CurrentBookings: m.CurrentBookings,
		IsBlocked:       m.IsBlocked,
		IsAvailable:     m.IsAvailable,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
