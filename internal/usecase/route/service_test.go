package route

import (
	"context"
	"sync"
	"testing"
	"time"

	"buyback-logistics/internal/config"
	"buyback-logistics/internal/domain/pickup"
	domainRoute "buyback-logistics/internal/domain/route"
	domainSchedule "buyback-logistics/internal/domain/schedule"
	"buyback-logistics/pkg/cache"
	appErrors "buyback-logistics/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouteRepo struct {
	mu        sync.Mutex
	routes    map[uuid.UUID]*domainRoute.Route
	listCalls int
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[uuid.UUID]*domainRoute.Route)}
}

func (f *fakeRouteRepo) Create(_ context.Context, r *domainRoute.Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[r.ID] = r
	return nil
}

func (f *fakeRouteRepo) GetByID(_ context.Context, routeID uuid.UUID) (*domainRoute.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[routeID]
	if !ok {
		return nil, domainRoute.ErrRouteNotFound
	}
	return r, nil
}

func (f *fakeRouteRepo) ListByDate(_ context.Context, date time.Time) ([]*domainRoute.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []*domainRoute.Route
	for _, r := range f.routes {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) UpdateStatus(_ context.Context, routeID uuid.UUID, status domainRoute.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[routeID]
	if !ok {
		return domainRoute.ErrRouteNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRouteRepo) SetActuals(_ context.Context, routeID uuid.UUID, distanceKm float64, durationMin int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[routeID]
	if !ok {
		return domainRoute.ErrRouteNotFound
	}
	r.ActualDistanceKm = &distanceKm
	r.ActualDurationMin = &durationMin
	return nil
}

func (f *fakeRouteRepo) ReplacePickups(_ context.Context, routeID uuid.UUID, pickups []*pickup.Location, estimatedKm float64, estimatedMin int, fuelCost float64, efficiency string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[routeID]
	if !ok {
		return domainRoute.ErrRouteNotFound
	}
	r.Pickups = pickups
	r.EstimatedDistanceKm = estimatedKm
	r.EstimatedDurationMin = estimatedMin
	r.FuelCost = fuelCost
	r.Efficiency = efficiency
	return nil
}

func (f *fakeRouteRepo) GetPickup(_ context.Context, routeID, pickupID uuid.UUID) (*pickup.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[routeID]
	if !ok {
		return nil, domainRoute.ErrRouteNotFound
	}
	for _, p := range r.Pickups {
		if p.ID == pickupID {
			return p, nil
		}
	}
	return nil, pickup.ErrPickupNotFound
}

func (f *fakeRouteRepo) UpdatePickupStatus(_ context.Context, pickupID uuid.UUID, status pickup.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.routes {
		for _, p := range r.Pickups {
			if p.ID == pickupID {
				p.Status = status
				return nil
			}
		}
	}
	return pickup.ErrPickupNotFound
}

// confirmedLister satisfies the appointment repository with a fixed list of
// confirmed appointments.
type confirmedLister struct {
	appts []*domainSchedule.Appointment
}

func (f *confirmedLister) Create(context.Context, *domainSchedule.Appointment) error { return nil }
func (f *confirmedLister) GetByID(context.Context, uuid.UUID) (*domainSchedule.Appointment, error) {
	return nil, domainSchedule.ErrAppointmentNotFound
}
func (f *confirmedLister) UpdateStatus(context.Context, uuid.UUID, domainSchedule.AppointmentStatus) error {
	return nil
}
func (f *confirmedLister) ListConfirmedByDate(context.Context, time.Time) ([]*domainSchedule.Appointment, error) {
	return f.appts, nil
}
func (f *confirmedLister) AppendStateLog(context.Context, *domainSchedule.StateLog) error { return nil }
func (f *confirmedLister) ListStateLogs(context.Context, uuid.UUID) ([]*domainSchedule.StateLog, error) {
	return nil, nil
}

func routeTestConfig() *config.Config {
	return &config.Config{
		Hub: config.HubConfig{Address: "Hub Depot, CBD"},
		Maps: config.MapsConfig{
			MaxWaypoints: 25,
		},
		Pricing: config.PricingConfig{
			RoadFactor:      1.20,
			AverageSpeedKmh: 35,
		},
		Routing: config.RoutingConfig{
			FuelCostPerKm:  0.18,
			ServiceMinutes: 15,
			TwoOptPasses:   2,
			RouteCacheTTL:  5 * time.Minute,
		},
	}
}

func confirmedAppt(lead, address string, priority string, value float64, date time.Time, startTime string) *domainSchedule.Appointment {
	return &domainSchedule.Appointment{
		ID:          uuid.New(),
		LeadID:      lead,
		Status:      domainSchedule.StatusConfirmed,
		Address:     address,
		DeviceValue: value,
		Priority:    priority,
		Slot: &domainSchedule.Slot{
			Date:      date,
			StartTime: startTime,
			EndTime:   "",
		},
	}
}

func TestBuildRouteOrdersStopsAndPrices(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	appts := &confirmedLister{appts: []*domainSchedule.Appointment{
		confirmedAppt("lead-logan", "9 Main St, Logan", "medium", 300, date, "14:00"),
		confirmedAppt("lead-cbd", "1 Queen St, CBD", "medium", 500, date, "12:00"),
		confirmedAppt("lead-chermside", "3 Gympie Rd, Chermside", "medium", 200, date, "13:00"),
	}}
	repo := newFakeRouteRepo()
	svc := NewService(repo, appts, nil, cache.NewMemoryCache(), routeTestConfig())

	resp, err := svc.Build(context.Background(), date)
	require.NoError(t, err)

	require.Len(t, resp.Pickups, 3)
	// Equal priorities seed at the first appointment; the rest chain by
	// proximity to it.
	assert.Equal(t, "lead-logan", resp.Pickups[0].LeadID)
	assert.Equal(t, "lead-chermside", resp.Pickups[1].LeadID)
	assert.Equal(t, "lead-cbd", resp.Pickups[2].LeadID)
	for i, p := range resp.Pickups {
		assert.Equal(t, i+1, p.Sequence)
		assert.Equal(t, string(pickup.StatusPending), p.Status)
	}

	// Logan->Chermside 21, Chermside->CBD 14; hub legs are not counted.
	assert.Equal(t, 35.0, resp.EstimatedDistanceKm)
	assert.Equal(t, 60+45, resp.EstimatedDurationMin)
	assert.Equal(t, 6.3, resp.FuelCost)
	assert.Equal(t, domainRoute.EfficiencyExcellent, resp.Efficiency)
	assert.Equal(t, 1000.0, resp.TotalValue)
	assert.Equal(t, string(domainRoute.StatusPlanning), resp.Status)
}

func TestBuildRouteNoAppointments(t *testing.T) {
	svc := NewService(newFakeRouteRepo(), &confirmedLister{}, nil, cache.NewMemoryCache(), routeTestConfig())

	_, err := svc.Build(context.Background(), time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local))
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestOptimizeTrivialStopCounts(t *testing.T) {
	svc := NewService(newFakeRouteRepo(), &confirmedLister{}, nil, cache.NewMemoryCache(), routeTestConfig())

	ordered, km, minutes := svc.optimize(context.Background(), nil)
	assert.Empty(t, ordered)
	assert.Zero(t, km)
	assert.Zero(t, minutes)

	lat, lng := -27.40, 153.00
	only := &pickup.Location{
		LeadID:   "only",
		Lat:      &lat,
		Lng:      &lng,
		Priority: pickup.PriorityMedium,
		Status:   pickup.StatusPending,
	}
	ordered, km, minutes = svc.optimize(context.Background(), []*pickup.Location{only})
	require.Len(t, ordered, 1)
	assert.Equal(t, "only", ordered[0].LeadID)
	// A single stop has no inter-stop travel: only its service time.
	assert.Zero(t, km)
	assert.Equal(t, svc.routing.ServiceMinutes, minutes)
}

func TestListByDateUsesCache(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	appts := &confirmedLister{appts: []*domainSchedule.Appointment{
		confirmedAppt("lead-cbd", "1 Queen St, CBD", "medium", 500, date, "12:00"),
	}}
	repo := newFakeRouteRepo()
	svc := NewService(repo, appts, nil, cache.NewMemoryCache(), routeTestConfig())

	_, err := svc.Build(context.Background(), date)
	require.NoError(t, err)

	first, err := svc.ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, 1, repo.listCalls)
}

func TestPickupLifecycleCompletesRoute(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	appts := &confirmedLister{appts: []*domainSchedule.Appointment{
		confirmedAppt("lead-cbd", "1 Queen St, CBD", "medium", 500, date, "12:00"),
		confirmedAppt("lead-logan", "9 Main St, Logan", "medium", 300, date, "14:00"),
	}}
	repo := newFakeRouteRepo()
	svc := NewService(repo, appts, nil, cache.NewMemoryCache(), routeTestConfig())

	built, err := svc.Build(context.Background(), date)
	require.NoError(t, err)
	routeID := uuid.MustParse(built.ID)

	next, err := svc.NextPickup(context.Background(), routeID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "lead-cbd", next.LeadID)

	advance := func(pickupID string, statuses ...string) {
		t.Helper()
		for _, status := range statuses {
			_, err := svc.UpdatePickupStatus(context.Background(), routeID, uuid.MustParse(pickupID), &UpdatePickupStatusRequest{Status: status})
			require.NoError(t, err)
		}
	}

	advance(built.Pickups[0].ID, "en_route")

	r, err := repo.GetByID(context.Background(), routeID)
	require.NoError(t, err)
	assert.Equal(t, domainRoute.StatusActive, r.Status)

	advance(built.Pickups[0].ID, "arrived", "completed")

	next, err = svc.NextPickup(context.Background(), routeID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "lead-logan", next.LeadID)

	advance(built.Pickups[1].ID, "en_route", "arrived", "completed")

	r, err = repo.GetByID(context.Background(), routeID)
	require.NoError(t, err)
	assert.Equal(t, domainRoute.StatusCompleted, r.Status)
	require.NotNil(t, r.ActualDistanceKm)
	require.NotNil(t, r.ActualDurationMin)
	assert.Equal(t, r.EstimatedDistanceKm, *r.ActualDistanceKm)

	next, err = svc.NextPickup(context.Background(), routeID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestUpdatePickupStatusRejectsSkips(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	appts := &confirmedLister{appts: []*domainSchedule.Appointment{
		confirmedAppt("lead-cbd", "1 Queen St, CBD", "medium", 500, date, "12:00"),
	}}
	repo := newFakeRouteRepo()
	svc := NewService(repo, appts, nil, cache.NewMemoryCache(), routeTestConfig())

	built, err := svc.Build(context.Background(), date)
	require.NoError(t, err)
	routeID := uuid.MustParse(built.ID)
	pickupID := uuid.MustParse(built.Pickups[0].ID)

	_, err = svc.UpdatePickupStatus(context.Background(), routeID, pickupID, &UpdatePickupStatusRequest{Status: "completed"})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
}

func TestReoptimizeKeepsVisitedStopsFirst(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	appts := &confirmedLister{appts: []*domainSchedule.Appointment{
		confirmedAppt("lead-cbd", "1 Queen St, CBD", "medium", 500, date, "12:00"),
		confirmedAppt("lead-chermside", "3 Gympie Rd, Chermside", "medium", 200, date, "13:00"),
		confirmedAppt("lead-logan", "9 Main St, Logan", "medium", 300, date, "14:00"),
	}}
	repo := newFakeRouteRepo()
	svc := NewService(repo, appts, nil, cache.NewMemoryCache(), routeTestConfig())

	built, err := svc.Build(context.Background(), date)
	require.NoError(t, err)
	routeID := uuid.MustParse(built.ID)
	firstID := uuid.MustParse(built.Pickups[0].ID)

	for _, status := range []string{"en_route", "arrived", "completed"} {
		_, err := svc.UpdatePickupStatus(context.Background(), routeID, firstID, &UpdatePickupStatusRequest{Status: status})
		require.NoError(t, err)
	}

	resp, err := svc.Reoptimize(context.Background(), routeID)
	require.NoError(t, err)

	require.Len(t, resp.Pickups, 3)
	assert.Equal(t, "lead-cbd", resp.Pickups[0].LeadID)
	assert.Equal(t, string(pickup.StatusCompleted), resp.Pickups[0].Status)
	for i, p := range resp.Pickups {
		assert.Equal(t, i+1, p.Sequence)
	}
}

func TestReoptimizeCompletedRouteRejected(t *testing.T) {
	repo := newFakeRouteRepo()
	routeID := uuid.New()
	repo.routes[routeID] = &domainRoute.Route{
		ID:     routeID,
		Status: domainRoute.StatusCompleted,
	}
	svc := NewService(repo, &confirmedLister{}, nil, cache.NewMemoryCache(), routeTestConfig())

	_, err := svc.Reoptimize(context.Background(), routeID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
}
