package model

import (
	"time"

	"github.com/google/uuid"
)

// Scenario is the root aggregate of the data model. Every other entity belongs
// to exactly one scenario, directly or through its parent, and is removed with
// it. Scenarios isolate one simulation run from others sharing the same
// physical database.
type Scenario struct {
	ID int64 `gorm:"primaryKey"`

	// ParentID links a scenario to the one it was cloned from.
	ParentID *int64
	Parent   *Scenario  `gorm:"foreignKey:ParentID"`
	Children []Scenario `gorm:"foreignKey:ParentID"`

	Name      string
	NameShort string
	// Created is set by the database at insert time.
	Created  time.Time `gorm:"autoCreateTime:false;default:CURRENT_TIMESTAMP"`
	Finished *time.Time

	// SimulationOptions holds free-form options passed to the consuming
	// simulation tools.
	SimulationOptions JSONMap
	DepotOptions      JSONMap

	// TaskID is assigned when the scenario is submitted for simulation.
	TaskID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	BatteryTypes   []BatteryType  `gorm:"constraint:OnDelete:CASCADE"`
	VehicleTypes   []VehicleType  `gorm:"constraint:OnDelete:CASCADE"`
	Vehicles       []Vehicle      `gorm:"constraint:OnDelete:CASCADE"`
	VehicleClasses []VehicleClass `gorm:"constraint:OnDelete:CASCADE"`
	Lines          []Line         `gorm:"constraint:OnDelete:CASCADE"`
	Routes         []Route        `gorm:"constraint:OnDelete:CASCADE"`
	Stations       []Station      `gorm:"constraint:OnDelete:CASCADE"`
	RouteStations  []RouteStation `gorm:"constraint:OnDelete:CASCADE"`
	StopTimes      []StopTime     `gorm:"constraint:OnDelete:CASCADE"`
	Trips          []Trip         `gorm:"constraint:OnDelete:CASCADE"`
	Rotations      []Rotation     `gorm:"constraint:OnDelete:CASCADE"`
	Depots         []Depot        `gorm:"constraint:OnDelete:CASCADE"`
	Plans          []Plan         `gorm:"constraint:OnDelete:CASCADE"`
	Areas          []Area         `gorm:"constraint:OnDelete:CASCADE"`
	Processes      []Process      `gorm:"constraint:OnDelete:CASCADE"`
	PlanProcesses  []PlanProcess  `gorm:"constraint:OnDelete:CASCADE"`
	Events         []Event        `gorm:"constraint:OnDelete:CASCADE"`
}
