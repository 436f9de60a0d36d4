package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventType classifies what a vehicle was doing during an event.
type EventType string

const (
	EventTypeDriving             EventType = "DRIVING"
	EventTypeChargingOpportunity EventType = "CHARGING_OPPORTUNITY"
	EventTypeChargingDepot       EventType = "CHARGING_DEPOT"
	EventTypeService             EventType = "SERVICE"
	EventTypeStandby             EventType = "STANDBY"
	EventTypeStandbyDeparture    EventType = "STANDBY_DEPARTURE"
	EventTypePreconditioning     EventType = "PRECONDITIONING"
)

// Event is a simulation result: one thing a vehicle did over a time span.
// Events for the same vehicle must not overlap in time. On PostgreSQL this is
// an exclusion constraint; on the file backend the save hook enforces it.
type Event struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	VehicleTypeID int64        `gorm:"not null"`
	VehicleType   *VehicleType `gorm:"foreignKey:VehicleTypeID"`

	VehicleID *int64
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleID"`

	// Exactly one of trip, station and area is set, depending on the event
	// type.
	TripID    *int64
	Trip      *Trip `gorm:"foreignKey:TripID"`
	StationID *int64
	Station   *Station `gorm:"foreignKey:StationID"`
	AreaID    *int64
	Area      *Area `gorm:"foreignKey:AreaID"`

	// SublocNo is the charger or parking slot within the station or area.
	SublocNo *int

	TimeStart time.Time `gorm:"not null"`
	TimeEnd   time.Time `gorm:"not null"`

	// SocStart and SocEnd are the state of charge as a fraction in [0, 1].
	SocStart float64 `gorm:"column:soc_start;not null"`
	SocEnd   float64 `gorm:"column:soc_end;not null"`

	EventType   EventType `gorm:"type:varchar(32);not null"`
	Description *string

	// Timeseries holds optional sampled values over the event, such as the
	// state of charge at intermediate times.
	Timeseries JSONMap
}

// BeforeSave checks time order, state-of-charge bounds and the location rule
// for the event type. On the file backend it also rejects temporal overlap
// with other events of the same vehicle, standing in for the exclusion
// constraint PostgreSQL enforces natively.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	if !e.TimeStart.Before(e.TimeEnd) {
		return fmt.Errorf("event: time start must be before time end")
	}
	if e.SocStart < 0 || e.SocStart > 1 || e.SocEnd < 0 || e.SocEnd > 1 {
		return fmt.Errorf("event: state of charge must be in [0, 1]")
	}
	if err := e.validateLocation(); err != nil {
		return err
	}
	if e.VehicleID != nil && tx.Dialector.Name() == "sqlite" {
		var n int64
		err := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
			Model(&Event{}).
			Where("scenario_id = ? AND vehicle_id = ? AND id <> ? AND time_start < ? AND time_end > ?",
				e.ScenarioID, *e.VehicleID, e.ID, e.TimeEnd, e.TimeStart).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("event: vehicle %d already has an event overlapping [%s, %s)",
				*e.VehicleID, e.TimeStart.Format(time.RFC3339), e.TimeEnd.Format(time.RFC3339))
		}
	}
	return nil
}

func (e *Event) validateLocation() error {
	trip, station, area := e.TripID != nil, e.StationID != nil, e.AreaID != nil
	switch e.EventType {
	case EventTypeDriving:
		if !trip || station || area {
			return fmt.Errorf("event: driving events are located on a trip only")
		}
	case EventTypeChargingOpportunity:
		if trip || !station || area {
			return fmt.Errorf("event: opportunity charging events are located at a station only")
		}
	case EventTypeChargingDepot, EventTypeService, EventTypeStandby,
		EventTypeStandbyDeparture, EventTypePreconditioning:
		if trip || station || !area {
			return fmt.Errorf("event: %s events are located in an area only", e.EventType)
		}
	default:
		return fmt.Errorf("event: unknown event type %q", e.EventType)
	}
	return nil
}
