package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"buyback-logistics/internal/config"
	domainSchedule "buyback-logistics/internal/domain/schedule"
	appErrors "buyback-logistics/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*domainSchedule.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*domainSchedule.Slot)}
}

func (f *fakeSlotRepo) EnsureSlots(_ context.Context, slots []*domainSchedule.Slot) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := 0
	for _, s := range slots {
		exists := false
		for _, have := range f.slots {
			if have.Date.Equal(s.Date) && have.StartTime == s.StartTime {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		clone := *s
		clone.ID = uuid.New()
		f.slots[clone.ID] = &clone
		created++
	}
	return created, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, slotID uuid.UUID) (*domainSchedule.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok {
		return nil, domainSchedule.ErrSlotNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSlotRepo) GetByDateTime(_ context.Context, date time.Time, startTime string) (*domainSchedule.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.slots {
		if s.Date.Equal(date) && s.StartTime == startTime {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domainSchedule.ErrSlotNotFound
}

func (f *fakeSlotRepo) ListByDate(_ context.Context, date time.Time) ([]*domainSchedule.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domainSchedule.Slot
	for _, s := range f.slots {
		if s.Date.Equal(date) {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) SetBlocked(_ context.Context, slotID uuid.UUID, blocked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok {
		return domainSchedule.ErrSlotNotFound
	}
	s.IsBlocked = blocked
	return nil
}

func (f *fakeSlotRepo) Reserve(_ context.Context, slotID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok {
		return domainSchedule.ErrSlotNotFound
	}
	if s.CurrentBookings >= s.Capacity {
		return domainSchedule.ErrSlotFull
	}
	s.CurrentBookings++
	return nil
}

func (f *fakeSlotRepo) Release(_ context.Context, slotID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok {
		return domainSchedule.ErrSlotNotFound
	}
	if s.CurrentBookings > 0 {
		s.CurrentBookings--
	}
	return nil
}

type fakeApptRepo struct {
	mu     sync.Mutex
	appts  map[uuid.UUID]*domainSchedule.Appointment
	logs   []*domainSchedule.StateLog
	slots  *fakeSlotRepo
	failOn string
}

func newFakeApptRepo(slots *fakeSlotRepo) *fakeApptRepo {
	return &fakeApptRepo{
		appts: make(map[uuid.UUID]*domainSchedule.Appointment),
		slots: slots,
	}
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domainSchedule.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn == "create" {
		return assert.AnError
	}
	clone := *appt
	f.appts[clone.ID] = &clone
	return nil
}

func (f *fakeApptRepo) GetByID(_ context.Context, apptID uuid.UUID) (*domainSchedule.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.appts[apptID]
	if !ok {
		return nil, domainSchedule.ErrAppointmentNotFound
	}
	clone := *a
	if slot, err := f.slots.GetByID(context.Background(), a.SlotID); err == nil {
		clone.Slot = slot
	}
	return &clone, nil
}

func (f *fakeApptRepo) UpdateStatus(_ context.Context, apptID uuid.UUID, status domainSchedule.AppointmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.appts[apptID]
	if !ok {
		return domainSchedule.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeApptRepo) ListConfirmedByDate(_ context.Context, date time.Time) ([]*domainSchedule.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domainSchedule.Appointment
	for _, a := range f.appts {
		if a.Status != domainSchedule.StatusConfirmed {
			continue
		}
		slot, err := f.slots.GetByID(context.Background(), a.SlotID)
		if err != nil || !slot.Date.Equal(date) {
			continue
		}
		clone := *a
		clone.Slot = slot
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeApptRepo) AppendStateLog(_ context.Context, entry *domainSchedule.StateLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeApptRepo) ListStateLogs(_ context.Context, apptID uuid.UUID) ([]*domainSchedule.StateLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domainSchedule.StateLog
	for _, l := range f.logs {
		if l.AppointmentID == apptID {
			out = append(out, l)
		}
	}
	return out, nil
}

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{
		WindowDays:        14,
		OpenHour:          12,
		CloseHour:         20,
		SlotCapacity:      3,
		SameDayCutoffHour: 15,
		CancelNoticeHours: 2,
	}
}

func newTestService(t *testing.T, at time.Time) (*Service, *fakeSlotRepo, *fakeApptRepo) {
	t.Helper()

	slots := newFakeSlotRepo()
	appts := newFakeApptRepo(slots)
	svc := NewService(slots, appts, nil, testScheduleConfig())
	svc.now = func() time.Time { return at }

	_, err := svc.EnsureSlotsInitialized(context.Background())
	require.NoError(t, err)

	return svc, slots, appts
}

func slotAt(t *testing.T, slots *fakeSlotRepo, date time.Time, startTime string) *domainSchedule.Slot {
	t.Helper()
	slot, err := slots.GetByDateTime(context.Background(), date, startTime)
	require.NoError(t, err)
	return slot
}

func day(at time.Time) time.Time {
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
}

func bookingReq(slotID uuid.UUID) *BookingRequest {
	return &BookingRequest{
		LeadID:      "lead-1",
		SlotID:      slotID,
		Address:     "12 Example St, Chermside",
		DeviceValue: 450,
	}
}

func TestEnsureSlotsInitializedIdempotent(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	// 14 days of 8 hourly slots were created by the helper.
	assert.Len(t, slots.slots, 14*8)

	created, err := svc.EnsureSlotsInitialized(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, slots.slots, 14*8)
}

func TestBookFutureDay(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, appts := newTestService(t, at)

	slot := slotAt(t, slots, day(at).AddDate(0, 0, 2), "13:00")

	resp, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.NoError(t, err)

	assert.Equal(t, string(domainSchedule.StatusScheduled), resp.Status)
	assert.False(t, resp.IsSameDay)
	assert.Equal(t, 1, slotAt(t, slots, slot.Date, slot.StartTime).CurrentBookings)

	logs, err := appts.ListStateLogs(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(domainSchedule.StatusScheduled), logs[0].ToState)
}

func TestBookSameDayBeforeCutoff(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 50, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at), "17:00")

	resp, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.NoError(t, err)
	assert.True(t, resp.IsSameDay)
}

func TestBookSameDayAfterCutoff(t *testing.T) {
	at := time.Date(2026, 9, 1, 15, 5, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	// The 17:00 slot is still hours away, but the cutoff has passed.
	slot := slotAt(t, slots, day(at), "17:00")

	_, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSameDayCutoff, appErrors.CodeOf(err))
}

func TestBookPastHourSlot(t *testing.T) {
	at := time.Date(2026, 9, 1, 15, 5, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at), "13:00")

	_, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSlotInPast, appErrors.CodeOf(err))
}

func TestBookBlockedSlot(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at).AddDate(0, 0, 1), "12:00")
	require.NoError(t, svc.BlockSlot(context.Background(), slot.Date, slot.StartTime))

	_, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSlotBlocked, appErrors.CodeOf(err))

	require.NoError(t, svc.UnblockSlot(context.Background(), slot.Date, slot.StartTime))
	_, err = svc.Book(context.Background(), bookingReq(slot.ID))
	assert.NoError(t, err)
}

func TestBookSlotFull(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at).AddDate(0, 0, 1), "14:00")

	for i := 0; i < 3; i++ {
		_, err := svc.Book(context.Background(), bookingReq(slot.ID))
		require.NoError(t, err)
	}

	_, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSlotFull, appErrors.CodeOf(err))
}

func TestBookConcurrentNeverOverbooks(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at).AddDate(0, 0, 1), "16:00")

	const attempts = 20
	var wg sync.WaitGroup
	var succeeded int64
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Book(context.Background(), bookingReq(slot.ID)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), succeeded)
	assert.Equal(t, 3, slotAt(t, slots, slot.Date, slot.StartTime).CurrentBookings)
}

func TestBookReleasesSlotWhenCreateFails(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, appts := newTestService(t, at)
	appts.failOn = "create"

	slot := slotAt(t, slots, day(at).AddDate(0, 0, 1), "18:00")

	_, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.Error(t, err)
	assert.Zero(t, slotAt(t, slots, slot.Date, slot.StartTime).CurrentBookings)
}

func TestCancelWithEnoughNotice(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, appts := newTestService(t, at)

	slot := slotAt(t, slots, day(at), "17:00")
	resp, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), resp.ID, "customer request"))

	appt, err := appts.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domainSchedule.StatusCancelled, appt.Status)
	assert.Zero(t, slotAt(t, slots, slot.Date, slot.StartTime).CurrentBookings)
}

func TestCancelInsideNoticeWindow(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at), "17:00")
	resp, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.NoError(t, err)

	// Move the clock to 16:30, inside the two hour notice window.
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 16, 30, 0, 0, time.Local) }

	err = svc.Cancel(context.Background(), resp.ID, "too late")
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeCancelWindow, appErrors.CodeOf(err))
	assert.Equal(t, 1, slotAt(t, slots, slot.Date, slot.StartTime).CurrentBookings)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, _ := newTestService(t, at)

	slot := slotAt(t, slots, day(at), "19:00")
	resp, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), resp.ID, "first"))

	err = svc.Cancel(context.Background(), resp.ID, "second")
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
}

func TestUpdateStatusTransitions(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	svc, slots, appts := newTestService(t, at)

	slot := slotAt(t, slots, day(at).AddDate(0, 0, 3), "12:00")
	resp, err := svc.Book(context.Background(), bookingReq(slot.ID))
	require.NoError(t, err)

	// scheduled cannot jump straight to completed.
	err = svc.UpdateStatus(context.Background(), resp.ID, domainSchedule.StatusCompleted, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))

	require.NoError(t, svc.UpdateStatus(context.Background(), resp.ID, domainSchedule.StatusConfirmed, "sms confirmed"))
	require.NoError(t, svc.UpdateStatus(context.Background(), resp.ID, domainSchedule.StatusCompleted, "collected"))

	appt, err := appts.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domainSchedule.StatusCompleted, appt.Status)

	logs, err := appts.ListStateLogs(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestListAvailabilityFiltersSameDayPastHours(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 10, 0, 0, time.Local)
	svc, _, _ := newTestService(t, at)

	slots, err := svc.ListAvailability(context.Background(), day(at))
	require.NoError(t, err)

	// Only 15:00 through 19:00 remain bookable at 14:10.
	require.Len(t, slots, 5)
	for _, s := range slots {
		assert.Greater(t, s.StartTime, "14:00")
	}
}
