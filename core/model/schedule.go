package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TripType distinguishes revenue service from empty repositioning runs.
type TripType string

const (
	TripTypePassenger TripType = "PASSENGER"
	TripTypeEmpty     TripType = "EMPTY"
)

// StopTime is the scheduled arrival of a trip at a station.
type StopTime struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	TripID int64 `gorm:"not null;index"`
	Trip   *Trip `gorm:"foreignKey:TripID"`

	StationID int64    `gorm:"not null"`
	Station   *Station `gorm:"foreignKey:StationID"`

	ArrivalTime time.Time `gorm:"not null"`
	// DwellDuration is how long the vehicle waits at the station.
	DwellDuration time.Duration `gorm:"not null;default:0"`
}

func (s *StopTime) BeforeSave(_ *gorm.DB) error {
	if s.DwellDuration < 0 {
		return fmt.Errorf("stop time: dwell duration must not be negative")
	}
	return nil
}

// Trip is one run of a vehicle along a route at a scheduled time.
type Trip struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	RouteID int64  `gorm:"not null;index"`
	Route   *Route `gorm:"foreignKey:RouteID"`

	RotationID int64     `gorm:"not null;index"`
	Rotation   *Rotation `gorm:"foreignKey:RotationID"`

	DepartureTime time.Time `gorm:"not null"`
	ArrivalTime   time.Time `gorm:"not null"`

	TripType TripType `gorm:"type:varchar(16);not null"`

	// LoadedMass is the payload in kg carried on this trip. NULL means the
	// consuming tool assumes a default load.
	LoadedMass *float64

	StopTimes []StopTime `gorm:"foreignKey:TripID"`
	Events    []Event    `gorm:"foreignKey:TripID"`
}

// BeforeSave checks the trip's time order and, when stop times are attached,
// that they span the trip exactly and follow the route's station order.
func (t *Trip) BeforeSave(_ *gorm.DB) error {
	if !t.DepartureTime.Before(t.ArrivalTime) {
		return fmt.Errorf("trip: departure must be before arrival")
	}
	if t.LoadedMass != nil && *t.LoadedMass < 0 {
		return fmt.Errorf("trip: loaded mass must not be negative")
	}
	if len(t.StopTimes) == 0 {
		return nil
	}
	stops := t.StopTimes
	if !stops[0].ArrivalTime.Equal(t.DepartureTime) {
		return fmt.Errorf("trip: first stop time must match the departure time")
	}
	last := stops[len(stops)-1]
	if !last.ArrivalTime.Add(last.DwellDuration).Equal(t.ArrivalTime) {
		return fmt.Errorf("trip: last stop time must end at the arrival time")
	}
	for i := 1; i < len(stops); i++ {
		prev := stops[i-1].ArrivalTime.Add(stops[i-1].DwellDuration)
		if stops[i].ArrivalTime.Before(prev) {
			return fmt.Errorf("trip: stop times out of order at stop %d", i)
		}
	}
	if t.Route != nil && len(t.Route.AssocRouteStations) == len(stops) {
		for i, st := range stops {
			if rs := t.Route.AssocRouteStations[i]; st.StationID != 0 && rs.StationID != 0 && st.StationID != rs.StationID {
				return fmt.Errorf("trip: stop %d does not match the route's station order", i)
			}
		}
	}
	return nil
}

// Rotation is a block of consecutive trips served by one vehicle between
// leaving and returning to the depot.
type Rotation struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name *string

	VehicleTypeID int64        `gorm:"not null"`
	VehicleType   *VehicleType `gorm:"foreignKey:VehicleTypeID"`

	// VehicleID is filled in once the depot simulation has assigned a
	// concrete vehicle.
	VehicleID *int64
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleID"`

	AllowOpportunityCharging bool `gorm:"not null"`

	Trips []Trip `gorm:"foreignKey:RotationID"`
}

// BeforeSave reports gaps in the trip chain through the session logger.
// Discontinuities are tolerated because consuming tools insert deadhead trips
// later, but they usually indicate bad input data.
func (r *Rotation) BeforeSave(tx *gorm.DB) error {
	for i := 1; i < len(r.Trips); i++ {
		prev, cur := r.Trips[i-1], r.Trips[i]
		if cur.DepartureTime.Before(prev.ArrivalTime) {
			tx.Logger.Warn(tx.Statement.Context,
				"rotation %v: trip %d departs before trip %d arrives", r.ID, i, i-1)
		}
		if prev.Route != nil && cur.Route != nil &&
			prev.Route.ArrivalStationID != cur.Route.DepartureStationID {
			tx.Logger.Warn(tx.Statement.Context,
				"rotation %v: trip %d does not start where trip %d ends", r.ID, i, i-1)
		}
	}
	return nil
}
