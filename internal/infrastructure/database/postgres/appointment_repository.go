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
)

type AppointmentRepository struct {
	db *database.DB
}

func NewAppointmentRepository(db *database.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *schedule.Appointment) error {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()
	if appt.Status == "" {
		appt.Status = schedule.StatusScheduled
	}

	dbModel := toAppointmentModel(appt)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, apptID uuid.UUID) (*schedule.Appointment, error) {
	var dbModel models.AppointmentModel
	err := r.db.DB.WithContext(ctx).
		Preload("Slot").
		Where("id = ?", apptID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schedule.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return toAppointmentEntity(&dbModel), nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, apptID uuid.UUID, status schedule.AppointmentStatus) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.AppointmentModel{}).
		Where("id = ?", apptID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return schedule.ErrAppointmentNotFound
	}

	return nil
}

func (r *AppointmentRepository) ListConfirmedByDate(ctx context.Context, date time.Time) ([]*schedule.Appointment, error) {
	var dbModels []models.AppointmentModel
	err := r.db.DB.WithContext(ctx).
		Preload("Slot").
		Joins("JOIN schedule_slots ON schedule_slots.id = appointments.slot_id").
		Where("schedule_slots.date = ? AND appointments.status = ?",
			date.Format(schedule.DateFormat), string(schedule.StatusConfirmed)).
		Order("schedule_slots.start_time asc").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed appointments: %w", err)
	}

	appts := make([]*schedule.Appointment, 0, len(dbModels))
	for i := range dbModels {
		appts = append(appts, toAppointmentEntity(&dbModels[i]))
	}

	return appts, nil
}

func (r *AppointmentRepository) AppendStateLog(ctx context.Context, entry *schedule.StateLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	dbModel := &models.StateLogModel{
		ID:            entry.ID,
		AppointmentID: entry.AppointmentID,
		FromState:     entry.FromState,
		ToState:       entry.ToState,
		Reason:        entry.Reason,
		CreatedAt:     entry.CreatedAt,
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to append state log: %w", err)
	}

	return nil
}

func (r *AppointmentRepository) ListStateLogs(ctx context.Context, apptID uuid.UUID) ([]*schedule.StateLog, error) {
	var dbModels []models.StateLogModel
	err := r.db.DB.WithContext(ctx).
		Where("appointment_id = ?", apptID).
		Order("created_at asc").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list state logs: %w", err)
	}

	logs := make([]*schedule.StateLog, 0, len(dbModels))
	for i := range dbModels {
		m := &dbModels[i]
		logs = append(logs, &schedule.StateLog{
			ID:            m.ID,
			AppointmentID: m.AppointmentID,
			FromState:     m.FromState,
			ToState:       m.ToState,
			Reason:        m.Reason,
			CreatedAt:     m.CreatedAt,
		})
	}

	return logs, nil
}

func toAppointmentModel(a *schedule.Appointment) *models.AppointmentModel {
	return &models.AppointmentModel{
		ID:          a.ID,
		LeadID:      a.LeadID,
		SlotID:      a.SlotID,
		Status:      string(a.Status),
		IsSameDay:   a.IsSameDay,
		Address:     a.Address,
		DeviceValue: a.DeviceValue,
		Priority:    a.Priority,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAppointmentEntity(m *models.AppointmentModel) *schedule.Appointment {
	appt := &schedule.Appointment{
		ID:          m.ID,
		LeadID:      m.LeadID,
		SlotID:      m.SlotID,
		Status:      schedule.AppointmentStatus(m.Status),
		IsSameDay:   m.IsSameDay,
		Address:     m.Address,
		DeviceValue: m.DeviceValue,
		Priority:    m.Priority,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Slot.ID != uuid.Nil {
		appt.Slot = toSlotEntity(&m.Slot)
	}

	return appt
}
