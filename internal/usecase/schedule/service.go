package schedule

import (
	"context"
	"fmt"
	"time"

	"buyback-logistics/internal/config"
	domainSchedule "buyback-logistics/internal/domain/schedule"
	"buyback-logistics/internal/logger"
	appErrors "buyback-logistics/pkg/errors"
	"buyback-logistics/pkg/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"
)

// EventPublisher emits best-effort appointment events for the external
// notification system. Implementations must never block bookings.
type EventPublisher interface {
	PublishAppointmentEvent(event string, appt *domainSchedule.Appointment)
}

// Service manages the rolling slot window and books and cancels
// appointments against it.
type Service struct {
	slotRepo  domainSchedule.SlotRepository
	apptRepo  domainSchedule.AppointmentRepository
	publisher EventPublisher
	cfg       config.ScheduleConfig

	// now is injected so wall-clock rules stay testable.
	now func() time.Time
}

func NewService(
	slotRepo domainSchedule.SlotRepository,
	apptRepo domainSchedule.AppointmentRepository,
	publisher EventPublisher,
	cfg config.ScheduleConfig,
) *Service {
	return &Service{
		slotRepo:  slotRepo,
		apptRepo:  apptRepo,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// EnsureSlotsInitialized creates any missing slots for the rolling window.
// Idempotent and safe to call concurrently with bookings: duplicate rows
// are skipped at the database level.
func (s *Service) EnsureSlotsInitialized(ctx context.Context) (int, error) {
	today := now.New(s.now()).BeginningOfDay()

	slots := make([]*domainSchedule.Slot, 0, s.cfg.WindowDays*(s.cfg.CloseHour-s.cfg.OpenHour))
	for day := 0; day < s.cfg.WindowDays; day++ {
		date := today.AddDate(0, 0, day)
		for hour := s.cfg.OpenHour; hour < s.cfg.CloseHour; hour++ {
			slots = append(slots, &domainSchedule.Slot{
				Date:        date,
				StartTime:   fmt.Sprintf("%02d:00", hour),
				EndTime:     fmt.Sprintf("%02d:00", hour+1),
				Capacity:    s.cfg.SlotCapacity,
				IsAvailable: true,
			})
		}
	}

	created, err := s.slotRepo.EnsureSlots(ctx, slots)
	if err != nil {
		return 0, err
	}

	if created > 0 {
		logger.Info("Schedule slots initialized",
			zap.Int("created", created),
			zap.Int("window_days", s.cfg.WindowDays),
			zap.String("event", "slots_initialized"),
		)
	}

	return created, nil
}

// ListAvailability returns the bookable slots for a date: not past, not
// blocked, not full, and not administratively disabled.
func (s *Service) ListAvailability(ctx context.Context, date time.Time) ([]*SlotResponse, error) {
	slots, err := s.slotRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	current := s.now()
	sameDay := sameCalendarDay(date, current)

	out := make([]*SlotResponse, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsAvailable || slot.IsBlocked {
			continue
		}
		if slot.CurrentBookings >= slot.Capacity {
			continue
		}
		if sameDay && slot.StartHour() <= current.Hour() {
			continue
		}
		if date.Before(now.New(current).BeginningOfDay()) {
			continue
		}
		out = append(out, ToSlotResponse(slot))
	}

	return out, nil
}

// Book validates the request against timing and capacity rules, then
// atomically reserves the slot and creates the appointment. Rejections
// carry a specific reason code so the caller can pick an alternative.
func (s *Service) Book(ctx context.Context, req *BookingRequest) (*AppointmentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid booking input", err)
	}

	slot, err := s.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if err == domainSchedule.ErrSlotNotFound {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Slot not found", err)
		}
		return nil, err
	}

	current := s.now()
	if err := s.checkTiming(slot, current); err != nil {
		return nil, err
	}

	if slot.IsBlocked {
		return nil, appErrors.NewAppError(appErrors.CodeSlotBlocked, "Slot is blocked", domainSchedule.ErrSlotBlocked)
	}
	if !slot.IsAvailable {
		return nil, appErrors.NewAppError(appErrors.CodeSlotBlocked, "Slot is not open for booking", domainSchedule.ErrSlotBlocked)
	}

	// The capacity check and increment happen atomically in the store;
	// a full slot surfaces here no matter how many requests race.
	if err := s.slotRepo.Reserve(ctx, slot.ID); err != nil {
		switch err {
		case domainSchedule.ErrSlotFull:
			return nil, appErrors.NewAppError(appErrors.CodeSlotFull, "Slot is at capacity", err)
		case domainSchedule.ErrSlotNotFound:
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Slot not found", err)
		default:
			return nil, err
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	appt := &domainSchedule.Appointment{
		ID:          uuid.New(),
		LeadID:      req.LeadID,
		SlotID:      slot.ID,
		Status:      domainSchedule.StatusScheduled,
		IsSameDay:   sameCalendarDay(slot.Date, current),
		Address:     req.Address,
		DeviceValue: req.DeviceValue,
		Priority:    priority,
		Notes:       req.Notes,
	}

	if err := s.apptRepo.Create(ctx, appt); err != nil {
		// Give the reserved seat back so the slot does not leak capacity.
		if releaseErr := s.slotRepo.Release(ctx, slot.ID); releaseErr != nil {
			logger.Error("Failed to release slot after booking failure",
				zap.String("slot_id", slot.ID.String()),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}

	s.logTransition(ctx, appt.ID, "", domainSchedule.StatusScheduled, "booked")

	appt.Slot = slot
	logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("lead_id", appt.LeadID),
		zap.String("slot_id", slot.ID.String()),
		zap.Bool("same_day", appt.IsSameDay),
		zap.String("event", "appointment_booked"),
	)

	if s.publisher != nil {
		s.publisher.PublishAppointmentEvent("booked", appt)
	}

	return ToAppointmentResponse(appt), nil
}

// Cancel rejects cancellations inside the notice window; otherwise it marks
// the appointment cancelled, releases the seat and appends a state log.
func (s *Service) Cancel(ctx context.Context, apptID uuid.UUID, reason string) error {
	appt, err := s.apptRepo.GetByID(ctx, apptID)
	if err != nil {
		if err == domainSchedule.ErrAppointmentNotFound {
			return appErrors.NewAppError(appErrors.CodeNotFound, "Appointment not found", err)
		}
		return err
	}

	if err := ValidateStatusTransition(appt.Status, domainSchedule.StatusCancelled); err != nil {
		return err
	}

	if appt.Slot == nil {
		return fmt.Errorf("appointment %s has no slot loaded", apptID)
	}

	startAt, err := appt.Slot.StartAt()
	if err != nil {
		return err
	}

	notice := time.Duration(s.cfg.CancelNoticeHours) * time.Hour
	if startAt.Sub(s.now()) <= notice {
		return appErrors.NewAppError(
			appErrors.CodeCancelWindow,
			fmt.Sprintf("Cancellations require more than %d hours notice", s.cfg.CancelNoticeHours),
			domainSchedule.ErrCancelWindow,
		)
	}

	if err := s.apptRepo.UpdateStatus(ctx, apptID, domainSchedule.StatusCancelled); err != nil {
		return err
	}

	if err := s.slotRepo.Release(ctx, appt.SlotID); err != nil {
		logger.Error("Failed to release slot on cancellation",
			zap.String("slot_id", appt.SlotID.String()),
			zap.Error(err),
		)
	}

	s.logTransition(ctx, apptID, appt.Status, domainSchedule.StatusCancelled, reason)

	logger.Info("Appointment cancelled",
		zap.String("appointment_id", apptID.String()),
		zap.String("reason", reason),
		zap.String("event", "appointment_cancelled"),
	)

	if s.publisher != nil {
		appt.Status = domainSchedule.StatusCancelled
		s.publisher.PublishAppointmentEvent("cancelled", appt)
	}

	return nil
}

// UpdateStatus applies an administrative status transition with validation
// and logging. Cancellations via this path release capacity too.
func (s *Service) UpdateStatus(ctx context.Context, apptID uuid.UUID, newStatus domainSchedule.AppointmentStatus, reason string) error {
	if !newStatus.IsValid() {
		return appErrors.NewAppError(appErrors.CodeValidation, fmt.Sprintf("Unknown status %q", newStatus), nil)
	}

	appt, err := s.apptRepo.GetByID(ctx, apptID)
	if err != nil {
		if err == domainSchedule.ErrAppointmentNotFound {
			return appErrors.NewAppError(appErrors.CodeNotFound, "Appointment not found", err)
		}
		return err
	}

	if err := ValidateStatusTransition(appt.Status, newStatus); err != nil {
		return err
	}

	if err := s.apptRepo.UpdateStatus(ctx, apptID, newStatus); err != nil {
		return err
	}

	if newStatus == domainSchedule.StatusCancelled {
		if err := s.slotRepo.Release(ctx, appt.SlotID); err != nil {
			logger.Error("Failed to release slot on status change",
				zap.String("slot_id", appt.SlotID.String()),
				zap.Error(err),
			)
		}
	}

	s.logTransition(ctx, apptID, appt.Status, newStatus, reason)

	return nil
}

// BlockSlot and UnblockSlot toggle the administrative flag independent of
// booking counts.
func (s *Service) BlockSlot(ctx context.Context, date time.Time, startTime string) error {
	return s.setBlocked(ctx, date, startTime, true)
}

func (s *Service) UnblockSlot(ctx context.Context, date time.Time, startTime string) error {
	return s.setBlocked(ctx, date, startTime, false)
}

func (s *Service) setBlocked(ctx context.Context, date time.Time, startTime string, blocked bool) error {
	slot, err := s.slotRepo.GetByDateTime(ctx, date, startTime)
	if err != nil {
		if err == domainSchedule.ErrSlotNotFound {
			return appErrors.NewAppError(appErrors.CodeNotFound, "Slot not found", err)
		}
		return err
	}

	if err := s.slotRepo.SetBlocked(ctx, slot.ID, blocked); err != nil {
		return err
	}

	logger.Info("Slot block flag changed",
		zap.String("slot_id", slot.ID.String()),
		zap.Bool("blocked", blocked),
		zap.String("event", "slot_block_toggled"),
	)

	return nil
}

// checkTiming enforces past-slot and same-day cutoff rules, evaluated live.
func (s *Service) checkTiming(slot *domainSchedule.Slot, current time.Time) error {
	today := now.New(current).BeginningOfDay()
	slotDay := now.New(slot.Date).BeginningOfDay()

	if slotDay.Before(today) {
		return appErrors.NewAppError(appErrors.CodeSlotInPast, "Slot date has passed", domainSchedule.ErrSlotInPast)
	}

	if slotDay.Equal(today) {
		if slot.StartHour() <= current.Hour() {
			return appErrors.NewAppError(appErrors.CodeSlotInPast, "Slot hour has passed", domainSchedule.ErrSlotInPast)
		}
		// After the cutoff no same-day slot later than the current hour
		// may be booked, which closes same-day booking entirely.
		if current.Hour() >= s.cfg.SameDayCutoffHour {
			return appErrors.NewAppError(
				appErrors.CodeSameDayCutoff,
				fmt.Sprintf("Same-day bookings close at %02d:00", s.cfg.SameDayCutoffHour),
				domainSchedule.ErrSameDayCutoff,
			)
		}
	}

	return nil
}

func (s *Service) logTransition(ctx context.Context, apptID uuid.UUID, from, to domainSchedule.AppointmentStatus, reason string) {
	entry := &domainSchedule.StateLog{
		ID:            uuid.New(),
		AppointmentID: apptID,
		FromState:     string(from),
		ToState:       string(to),
		Reason:        reason,
		CreatedAt:     s.now(),
	}

	if err := s.apptRepo.AppendStateLog(ctx, entry); err != nil {
		logger.Error("Failed to append state log",
			zap.String("appointment_id", apptID.String()),
			zap.Error(err),
		)
	}
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
