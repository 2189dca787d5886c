package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buyback-logistics/internal/database"
	"buyback-logistics/internal/domain/pickup"
	"buyback-logistics/internal/domain/route"
	"buyback-logistics/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RouteRepository struct {
	db *database.DB
}

func NewRouteRepository(db *database.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

func (r *RouteRepository) Create(ctx context.Context, rt *route.Route) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	rt.CreatedAt = time.Now()
	rt.UpdatedAt = time.Now()
	if rt.Status == "" {
		rt.Status = route.StatusPlanning
	}

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toRouteModel(rt)).Error; err != nil {
			return fmt.Errorf("failed to create route: %w", err)
		}

		for _, p := range rt.Pickups {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			p.RouteID = rt.ID
			if err := tx.Create(toPickupModel(p)).Error; err != nil {
				return fmt.Errorf("failed to create route pickup: %w", err)
			}
		}

		return nil
	})
}

func (r *RouteRepository) GetByID(ctx context.Context, routeID uuid.UUID) (*route.Route, error) {
	var dbModel models.RouteModel
	err := r.db.DB.WithContext(ctx).
		Preload("Pickups", func(db *gorm.DB) *gorm.DB {
			return db.Order("route_pickups.sequence asc")
		}).
		Where("id = ?", routeID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, route.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	return toRouteEntity(&dbModel), nil
}

func (r *RouteRepository) ListByDate(ctx context.Context, date time.Time) ([]*route.Route, error) {
	var dbModels []models.RouteModel
	err := r.db.DB.WithContext(ctx).
		Preload("Pickups", func(db *gorm.DB) *gorm.DB {
			return db.Order("route_pickups.sequence asc")
		}).
		Where("date = ?", date.Format("2006-01-02")).
		Order("created_at asc").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	routes := make([]*route.Route, 0, len(dbModels))
	for i := range dbModels {
		routes = append(routes, toRouteEntity(&dbModels[i]))
	}

	return routes, nil
}

func (r *RouteRepository) UpdateStatus(ctx context.Context, routeID uuid.UUID, status route.Status) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.RouteModel{}).
		Where("id = ?", routeID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update route status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return route.ErrRouteNotFound
	}

	return nil
}

func (r *RouteRepository) SetActuals(ctx context.Context, routeID uuid.UUID, distanceKm float64, durationMin int) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.RouteModel{}).
		Where("id = ?", routeID).
		Updates(map[string]interface{}{
			"actual_distance_km":  distanceKm,
			"actual_duration_min": durationMin,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set route actuals: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return route.ErrRouteNotFound
	}

	return nil
}

func (r *RouteRepository) ReplacePickups(ctx context.Context, routeID uuid.UUID, pickups []*pickup.Location, estimatedKm float64, estimatedMin int, fuelCost float64, efficiency string) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", routeID).Delete(&models.RoutePickupModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear route pickups: %w", err)
		}

		for _, p := range pickups {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			p.RouteID = routeID
			if err := tx.Create(toPickupModel(p)).Error; err != nil {
				return fmt.Errorf("failed to recreate route pickup: %w", err)
			}
		}

		result := tx.Model(&models.RouteModel{}).
			Where("id = ?", routeID).
			Updates(map[string]interface{}{
				"estimated_distance_km":  estimatedKm,
				"estimated_duration_min": estimatedMin,
				"fuel_cost":              fuelCost,
				"efficiency":             efficiency,
				"updated_at":             time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update route estimates: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return route.ErrRouteNotFound
		}

		return nil
	})
}

func (r *RouteRepository) GetPickup(ctx context.Context, routeID, pickupID uuid.UUID) (*pickup.Location, error) {
	var dbModel models.RoutePickupModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND route_id = ?", pickupID, routeID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pickup.ErrPickupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pickup: %w", err)
	}

	return toPickupEntity(&dbModel), nil
}

func (r *RouteRepository) UpdatePickupStatus(ctx context.Context, pickupID uuid.UUID, status pickup.Status) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.RoutePickupModel{}).
		Where("id = ?", pickupID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update pickup status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pickup.ErrPickupNotFound
	}

	return nil
}

func toRouteModel(rt *route.Route) *models.RouteModel {
	return &models.RouteModel{
		ID:                   rt.ID,
		Date:                 rt.Date,
		Status:               string(rt.Status),
		EstimatedDistanceKm:  rt.EstimatedDistanceKm,
		EstimatedDurationMin: rt.EstimatedDurationMin,
		ActualDistanceKm:     rt.ActualDistanceKm,
		ActualDurationMin:    rt.ActualDurationMin,
		FuelCost:             rt.FuelCost,
		Efficiency:           rt.Efficiency,
		TotalValue:           rt.TotalValue,
		CreatedAt:            rt.CreatedAt,
		UpdatedAt:            rt.UpdatedAt,
	}
}

func toRouteEntity(m *models.RouteModel) *route.Route {
	rt := &route.Route{
		ID:                   m.ID,
		Date:                 m.Date,
		Status:               route.Status(m.Status),
		EstimatedDistanceKm:  m.EstimatedDistanceKm,
		EstimatedDurationMin: m.EstimatedDurationMin,
		ActualDistanceKm:     m.ActualDistanceKm,
		ActualDurationMin:    m.ActualDurationMin,
		FuelCost:             m.FuelCost,
		Efficiency:           m.Efficiency,
		TotalValue:           m.TotalValue,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	for i := range m.Pickups {
		rt.Pickups = append(rt.Pickups, toPickupEntity(&m.Pickups[i]))
	}

	return rt
}

func toPickupModel(p *pickup.Location) *models.RoutePickupModel {
	return &models.RoutePickupModel{
		ID:            p.ID,
		RouteID:       p.RouteID,
		AppointmentID: p.AppointmentID,
		LeadID:        p.LeadID,
		Sequence:      p.Sequence,
		Address:       p.Address,
		Lat:           p.Lat,
		Lng:           p.Lng,
		WindowStart:   p.WindowStart,
		WindowEnd:     p.WindowEnd,
		Priority:      string(p.Priority),
		DeviceValue:   p.DeviceValue,
		Status:        string(p.Status),
		ETA:           p.ETA,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPickupEntity(m *models.RoutePickupModel) *pickup.Location {
	return &pickup.Location{
		ID:            m.ID,
		RouteID:       m.RouteID,
		AppointmentID: m.AppointmentID,
		LeadID:        m.LeadID,
		Sequence:      m.Sequence,
		Address:       m.Address,
		Lat:           m.Lat,
		Lng:           m.Lng,
		WindowStart:   m.WindowStart,
		WindowEnd:     m.WindowEnd,
		Priority:      pickup.Priority(m.Priority),
		DeviceValue:   m.DeviceValue,
		Status:        pickup.Status(m.Status),
		ETA:           m.ETA,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
