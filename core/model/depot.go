package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Depot is a site where vehicles are parked, serviced and charged between
// rotations. Each depot sits at a station and follows a default plan.
type Depot struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	// StationID places the depot at a station. One depot per station.
	StationID int64    `gorm:"not null"`
	Station   *Station `gorm:"foreignKey:StationID"`

	Name      string `gorm:"not null"`
	NameShort *string

	DefaultPlanID int64 `gorm:"not null"`
	DefaultPlan   *Plan `gorm:"foreignKey:DefaultPlanID"`

	// BoundingBox is the depot's footprint, used by layout tools.
	BoundingBox Polygon

	Areas []Area `gorm:"foreignKey:DepotID"`
}

func (d *Depot) BeforeSave(_ *gorm.DB) error {
	return validBoundingBox("depot "+d.Name, d.BoundingBox)
}

// validBoundingBox accepts an absent box or a single closed rectangular ring.
func validBoundingBox(what string, p Polygon) error {
	if !p.Valid {
		return nil
	}
	if len(p.Rings) != 1 {
		return fmt.Errorf("%s: bounding box must be a single ring", what)
	}
	ring := p.Rings[0]
	if len(ring) != 5 || ring[0] != ring[4] {
		return fmt.Errorf("%s: bounding box must be a closed rectangle", what)
	}
	return nil
}

// Plan is an ordered list of processes a vehicle runs through after arriving
// at a depot, such as clean, then charge, then standby.
type Plan struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name string `gorm:"not null"`

	Processes []Process `gorm:"many2many:plan_processes"`
}

// AreaType says how vehicles are arranged within a depot area.
type AreaType string

const (
	// AreaTypeDirectOneside parks vehicles individually, accessible from
	// one side.
	AreaTypeDirectOneside AreaType = "DIRECT_ONESIDE"
	// AreaTypeDirectTwoside parks vehicles in accessible pairs.
	AreaTypeDirectTwoside AreaType = "DIRECT_TWOSIDE"
	// AreaTypeLine parks vehicles in rows, first in first out.
	AreaTypeLine AreaType = "LINE"
)

// Area is a part of a depot where one kind of parking or processing happens.
type Area struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	DepotID int64  `gorm:"not null;index"`
	Depot   *Depot `gorm:"foreignKey:DepotID"`

	// VehicleTypeID restricts the area to one vehicle type. NULL admits all.
	VehicleTypeID *int64
	VehicleType   *VehicleType `gorm:"foreignKey:VehicleTypeID"`

	Name *string

	AreaType AreaType `gorm:"type:varchar(16);not null"`
	Capacity int      `gorm:"not null"`
	// RowCount is the number of parking rows. Only line areas have rows.
	RowCount *int

	BoundingBox Polygon

	Processes []Process `gorm:"many2many:area_processes"`
	Events    []Event   `gorm:"foreignKey:AreaID"`
}

// BeforeSave checks the capacity rules of each area type.
func (a *Area) BeforeSave(_ *gorm.DB) error {
	name := "area"
	if a.Name != nil {
		name = "area " + *a.Name
	}
	if a.Capacity <= 0 {
		return fmt.Errorf("%s: capacity must be positive", name)
	}
	switch a.AreaType {
	case AreaTypeDirectOneside, AreaTypeDirectTwoside:
		if a.RowCount != nil {
			return fmt.Errorf("%s: direct areas must not have a row count", name)
		}
		if a.AreaType == AreaTypeDirectTwoside && a.Capacity%2 != 0 {
			return fmt.Errorf("%s: two-sided areas need an even capacity", name)
		}
	case AreaTypeLine:
		if a.RowCount == nil || *a.RowCount <= 0 {
			return fmt.Errorf("%s: line areas need a positive row count", name)
		}
		if a.Capacity%*a.RowCount != 0 {
			return fmt.Errorf("%s: capacity must be a multiple of the row count", name)
		}
	default:
		return fmt.Errorf("%s: unknown area type %q", name, a.AreaType)
	}
	return validBoundingBox(name, a.BoundingBox)
}

// Process is something that happens to a vehicle in a depot area, such as
// charging, cleaning or waiting.
type Process struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name string `gorm:"not null"`

	// Dispatchable processes may release the vehicle early when it is
	// needed for a rotation.
	Dispatchable bool `gorm:"not null"`

	// Duration is how long the process takes. NULL means the duration is
	// determined by the process itself, as with charging.
	Duration *time.Duration
	// ElectricPower is the power drawn in kW while the process runs.
	ElectricPower *float64

	// Availability restricts when the process may run. NULL means always.
	Availability TimeWindows

	Plans []Plan `gorm:"many2many:plan_processes"`
	Areas []Area `gorm:"many2many:area_processes"`
}

// BeforeSave checks the value ranges. Earlier releases enforced these in the
// database; the check moved here so both backends behave identically.
func (p *Process) BeforeSave(_ *gorm.DB) error {
	if p.Duration != nil && *p.Duration < 0 {
		return fmt.Errorf("process %q: duration must not be negative", p.Name)
	}
	if p.ElectricPower != nil && *p.ElectricPower < 0 {
		return fmt.Errorf("process %q: electric power must not be negative", p.Name)
	}
	return nil
}

// PlanProcess orders a process within a plan.
type PlanProcess struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	PlanID    int64 `gorm:"not null"`
	ProcessID int64 `gorm:"not null"`

	// Ordinal is the position of the process in the plan, starting at 0.
	Ordinal int `gorm:"not null"`
}

// AreaProcess links a process to the areas it may run in.
type AreaProcess struct {
	AreaID    int64 `gorm:"primaryKey"`
	ProcessID int64 `gorm:"primaryKey"`
}
