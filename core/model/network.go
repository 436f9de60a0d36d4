package model

import (
	"fmt"

	"gorm.io/gorm"
)

// ChargeType says how a vehicle charges at a station.
type ChargeType string

const (
	// ChargeTypeDepot means charging during longer depot stays.
	ChargeTypeDepot ChargeType = "depb"
	// ChargeTypeOpportunity means charging during short terminus stops.
	ChargeTypeOpportunity ChargeType = "oppb"
)

// VoltageLevel is the grid connection level of a charging site.
type VoltageLevel string

const (
	VoltageLevelLV   VoltageLevel = "LV"
	VoltageLevelMVLV VoltageLevel = "MV_LV"
	VoltageLevelMV   VoltageLevel = "MV"
	VoltageLevelHVMV VoltageLevel = "HV_MV"
	VoltageLevelHV   VoltageLevel = "HV"
)

// Line is a named transit line grouping routes, such as the two directions of
// a bus line.
type Line struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name      string `gorm:"not null"`
	NameShort *string

	Routes []Route `gorm:"foreignKey:LineID"`
}

// Station is a stop where routes begin, end or pass through. Electrified
// stations offer opportunity charging.
type Station struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name      string `gorm:"not null"`
	NameShort *string

	Geom Point

	IsElectrified bool `gorm:"not null"`
	// The charging fields must all be set when the station is electrified
	// and all be NULL when it is not.
	AmountChargingPlaces *int
	PowerPerCharger      *float64
	PowerTotal           *float64
	ChargeType           *ChargeType   `gorm:"type:varchar(16)"`
	VoltageLevel         *VoltageLevel `gorm:"type:varchar(16)"`

	RouteStations []RouteStation `gorm:"foreignKey:StationID"`
	StopTimes     []StopTime     `gorm:"foreignKey:StationID"`
}

// BeforeSave enforces that an electrified station carries its full charging
// description and an unelectrified one carries none of it.
func (s *Station) BeforeSave(_ *gorm.DB) error {
	set := s.AmountChargingPlaces != nil && s.PowerPerCharger != nil &&
		s.PowerTotal != nil && s.ChargeType != nil && s.VoltageLevel != nil
	unset := s.AmountChargingPlaces == nil && s.PowerPerCharger == nil &&
		s.PowerTotal == nil && s.ChargeType == nil && s.VoltageLevel == nil
	if s.IsElectrified && !set {
		return fmt.Errorf("station %q: electrified station needs all charging fields", s.Name)
	}
	if !s.IsElectrified && !unset {
		return fmt.Errorf("station %q: unelectrified station must not have charging fields", s.Name)
	}
	return nil
}

// Route is a directed path from a departure to an arrival station. Trips run
// along routes.
type Route struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	LineID *int64
	Line   *Line `gorm:"foreignKey:LineID"`

	Name      string `gorm:"not null"`
	NameShort *string

	DepartureStationID int64    `gorm:"not null"`
	DepartureStation   *Station `gorm:"foreignKey:DepartureStationID"`
	ArrivalStationID   int64    `gorm:"not null"`
	ArrivalStation     *Station `gorm:"foreignKey:ArrivalStationID"`

	// Distance is the length of the route in meters.
	Distance float64 `gorm:"not null"`
	// Headsign is the destination text shown on the vehicle.
	Headsign *string

	Shape LineString

	AssocRouteStations []RouteStation `gorm:"foreignKey:RouteID"`
	Trips              []Trip         `gorm:"foreignKey:RouteID"`
}

// BeforeSave checks the distance and, when intermediate stations are attached,
// that they start at the departure station with zero elapsed distance and end
// at the arrival station with the route's full distance.
func (r *Route) BeforeSave(_ *gorm.DB) error {
	if r.Distance <= 0 {
		return fmt.Errorf("route %q: distance must be positive", r.Name)
	}
	if len(r.AssocRouteStations) == 0 {
		return nil
	}
	stops := r.AssocRouteStations
	first, last := stops[0], stops[len(stops)-1]
	if first.ElapsedDistance != 0 {
		return fmt.Errorf("route %q: first station must be at distance 0", r.Name)
	}
	if last.ElapsedDistance != r.Distance {
		return fmt.Errorf("route %q: last station must be at the route distance", r.Name)
	}
	if first.StationID != 0 && first.StationID != r.DepartureStationID {
		return fmt.Errorf("route %q: first station must be the departure station", r.Name)
	}
	if last.StationID != 0 && last.StationID != r.ArrivalStationID {
		return fmt.Errorf("route %q: last station must be the arrival station", r.Name)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].ElapsedDistance < stops[i-1].ElapsedDistance {
			return fmt.Errorf("route %q: elapsed distance must not decrease at stop %d", r.Name, i)
		}
	}
	return nil
}

// RouteStation places a station on a route at a given distance from the start.
type RouteStation struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	RouteID int64  `gorm:"not null;index"`
	Route   *Route `gorm:"foreignKey:RouteID"`

	StationID int64    `gorm:"not null"`
	Station   *Station `gorm:"foreignKey:StationID"`

	// ElapsedDistance is the distance from the route start in meters.
	ElapsedDistance float64 `gorm:"not null"`
}
