package model

import (
	"fmt"

	"gorm.io/gorm"
)

// BatteryType describes a battery chemistry that vehicle types may reference.
type BatteryType struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	// SpecificMass is the battery mass per kWh of capacity, in kg/kWh.
	SpecificMass float64 `gorm:"not null"`
	// Chemistry holds free-form chemistry parameters for consuming tools.
	Chemistry JSONMap `gorm:"not null"`

	VehicleTypes []VehicleType `gorm:"foreignKey:BatteryTypeID"`
}

// VehicleType is a model of vehicle, such as a specific bus series. Concrete
// vehicles and planned rotations reference it.
type VehicleType struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name      string `gorm:"not null"`
	NameShort *string

	BatteryTypeID *int64
	BatteryType   *BatteryType `gorm:"foreignKey:BatteryTypeID"`

	// BatteryCapacity is the usable capacity in kWh. It must be positive.
	BatteryCapacity float64 `gorm:"not null"`
	// BatteryCapacityReserve is capacity below the nominal zero that may be
	// used in emergencies, in kWh.
	BatteryCapacityReserve float64 `gorm:"not null;default:0"`

	ChargingCurve ChargingCurve `gorm:"column:charging_curve;not null"`
	// V2GCurve is the discharging curve for vehicle-to-grid operation. NULL
	// means the type cannot feed back into the grid.
	V2GCurve *ChargingCurve `gorm:"column:v2g_curve"`

	ChargingEfficiency         float64 `gorm:"not null;default:0.95"`
	OpportunityChargingCapable bool    `gorm:"not null"`
	// MinimumChargingPower is the power in kW below which charging stops.
	MinimumChargingPower float64 `gorm:"not null;default:0"`

	// Length, Width and Height are in meters.
	Length *float64
	Width  *float64
	Height *float64

	// EmptyMass is the curb weight in kg. AllowedMass is the maximum
	// payload in kg.
	EmptyMass   *float64
	AllowedMass *float64

	// Consumption is a flat energy use in kWh/km. NULL means the consuming
	// tool models consumption itself.
	Consumption *float64

	Vehicles       []Vehicle      `gorm:"foreignKey:VehicleTypeID"`
	VehicleClasses []VehicleClass `gorm:"many2many:vehicle_type_classes"`
}

// BeforeSave checks the numeric invariants that the database also enforces,
// plus the curve shapes which it cannot.
func (t *VehicleType) BeforeSave(_ *gorm.DB) error {
	if t.BatteryCapacity <= 0 {
		return fmt.Errorf("vehicle type %q: battery capacity must be positive", t.Name)
	}
	if t.BatteryCapacityReserve < 0 {
		return fmt.Errorf("vehicle type %q: battery capacity reserve must not be negative", t.Name)
	}
	if t.ChargingEfficiency <= 0 || t.ChargingEfficiency > 1 {
		return fmt.Errorf("vehicle type %q: charging efficiency must be in (0, 1]", t.Name)
	}
	if err := t.ChargingCurve.Validate(); err != nil {
		return fmt.Errorf("vehicle type %q: %w", t.Name, err)
	}
	if t.V2GCurve != nil {
		if err := t.V2GCurve.Validate(); err != nil {
			return fmt.Errorf("vehicle type %q: v2g: %w", t.Name, err)
		}
	}
	return nil
}

// VehicleClass groups vehicle types that are interchangeable for scheduling
// purposes, such as all articulated buses.
type VehicleClass struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	Name      string `gorm:"not null"`
	NameShort *string

	VehicleTypes []VehicleType `gorm:"many2many:vehicle_type_classes"`
}

// VehicleTypeClass is the join table between vehicle types and classes. It is
// declared explicitly so that migrations and scenario copies can address it.
type VehicleTypeClass struct {
	VehicleTypeID  int64 `gorm:"primaryKey"`
	VehicleClassID int64 `gorm:"primaryKey"`
}

// Vehicle is a concrete vehicle of some type. Vehicles are usually created by
// the depot simulation rather than entered by hand.
type Vehicle struct {
	ID         int64 `gorm:"primaryKey"`
	ScenarioID int64 `gorm:"not null;index"`

	VehicleTypeID int64        `gorm:"not null"`
	VehicleType   *VehicleType `gorm:"foreignKey:VehicleTypeID"`

	Name      string `gorm:"not null"`
	NameShort *string

	Rotations []Rotation `gorm:"foreignKey:VehicleID"`
	Events    []Event    `gorm:"foreignKey:VehicleID"`
}
