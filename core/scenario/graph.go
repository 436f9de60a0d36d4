// Package scenario copies whole scenario graphs: cloning inside one database
// and moving them between databases through an export envelope.
package scenario

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/model"
)

// graph holds every row belonging to one scenario, loaded without
// associations so each slice maps one-to-one onto its table.
type graph struct {
	Scenario       model.Scenario
	BatteryTypes   []model.BatteryType
	VehicleTypes   []model.VehicleType
	VehicleClasses []model.VehicleClass
	TypeClasses    []model.VehicleTypeClass
	Vehicles       []model.Vehicle
	Lines          []model.Line
	Stations       []model.Station
	Routes         []model.Route
	RouteStations  []model.RouteStation
	Plans          []model.Plan
	Processes      []model.Process
	PlanProcesses  []model.PlanProcess
	Depots         []model.Depot
	Areas          []model.Area
	AreaProcesses  []model.AreaProcess
	Rotations      []model.Rotation
	Trips          []model.Trip
	StopTimes      []model.StopTime
	Events         []model.Event
}

func load(tx *gorm.DB, scenarioID int64) (*graph, error) {
	var g graph
	if err := tx.First(&g.Scenario, scenarioID).Error; err != nil {
		return nil, fmt.Errorf("loading scenario %d: %w", scenarioID, err)
	}
	owned := []any{
		&g.BatteryTypes, &g.VehicleTypes, &g.VehicleClasses, &g.Vehicles,
		&g.Lines, &g.Stations, &g.Routes, &g.RouteStations,
		&g.Plans, &g.Processes, &g.PlanProcesses,
		&g.Depots, &g.Areas,
		&g.Rotations, &g.Trips, &g.StopTimes, &g.Events,
	}
	for _, dest := range owned {
		if err := tx.Where("scenario_id = ?", scenarioID).Order("id").Find(dest).Error; err != nil {
			return nil, err
		}
	}
	// The two pure join tables carry no scenario column of their own.
	err := tx.Where("vehicle_type_id IN (SELECT id FROM vehicle_types WHERE scenario_id = ?)", scenarioID).
		Order("vehicle_type_id").Find(&g.TypeClasses).Error
	if err != nil {
		return nil, err
	}
	err = tx.Where("area_id IN (SELECT id FROM areas WHERE scenario_id = ?)", scenarioID).
		Order("area_id").Find(&g.AreaProcesses).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// idMap tracks old-to-new primary keys for one table during insertion.
type idMap map[int64]int64

func (m idMap) remap(old int64) (int64, error) {
	n, ok := m[old]
	if !ok {
		return 0, fmt.Errorf("dangling reference to id %d", old)
	}
	return n, nil
}

func (m idMap) remapPtr(old *int64) (*int64, error) {
	if old == nil {
		return nil, nil
	}
	n, err := m.remap(*old)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// insert writes the graph as a fresh scenario, remapping every foreign key.
// Rows are created in dependency order so referenced ids exist before their
// referrers. The new scenario id is returned.
func insert(tx *gorm.DB, g *graph, parentID *int64) (int64, error) {
	sc := g.Scenario
	sc.ID = 0
	sc.ParentID = parentID
	sc.TaskID = nil
	sc.Created = sc.Created.UTC()
	if err := tx.Create(&sc).Error; err != nil {
		return 0, fmt.Errorf("creating scenario: %w", err)
	}
	sid := sc.ID

	batteryTypes := make(idMap, len(g.BatteryTypes))
	for _, row := range g.BatteryTypes {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("battery type: %w", err)
		}
		batteryTypes[old] = row.ID
	}

	vehicleTypes := make(idMap, len(g.VehicleTypes))
	for _, row := range g.VehicleTypes {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.BatteryTypeID, err = batteryTypes.remapPtr(row.BatteryTypeID); err != nil {
			return 0, fmt.Errorf("vehicle type %q: %w", row.Name, err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("vehicle type: %w", err)
		}
		vehicleTypes[old] = row.ID
	}

	vehicleClasses := make(idMap, len(g.VehicleClasses))
	for _, row := range g.VehicleClasses {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("vehicle class: %w", err)
		}
		vehicleClasses[old] = row.ID
	}

	for _, row := range g.TypeClasses {
		var err error
		if row.VehicleTypeID, err = vehicleTypes.remap(row.VehicleTypeID); err != nil {
			return 0, fmt.Errorf("vehicle type class: %w", err)
		}
		if row.VehicleClassID, err = vehicleClasses.remap(row.VehicleClassID); err != nil {
			return 0, fmt.Errorf("vehicle type class: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("vehicle type class: %w", err)
		}
	}

	vehicles := make(idMap, len(g.Vehicles))
	for _, row := range g.Vehicles {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.VehicleTypeID, err = vehicleTypes.remap(row.VehicleTypeID); err != nil {
			return 0, fmt.Errorf("vehicle %q: %w", row.Name, err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("vehicle: %w", err)
		}
		vehicles[old] = row.ID
	}

	lines := make(idMap, len(g.Lines))
	for _, row := range g.Lines {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("line: %w", err)
		}
		lines[old] = row.ID
	}

	stations := make(idMap, len(g.Stations))
	for _, row := range g.Stations {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("station: %w", err)
		}
		stations[old] = row.ID
	}

	routes := make(idMap, len(g.Routes))
	for _, row := range g.Routes {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.LineID, err = lines.remapPtr(row.LineID); err != nil {
			return 0, fmt.Errorf("route %q: %w", row.Name, err)
		}
		if row.DepartureStationID, err = stations.remap(row.DepartureStationID); err != nil {
			return 0, fmt.Errorf("route %q: %w", row.Name, err)
		}
		if row.ArrivalStationID, err = stations.remap(row.ArrivalStationID); err != nil {
			return 0, fmt.Errorf("route %q: %w", row.Name, err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("route: %w", err)
		}
		routes[old] = row.ID
	}

	for _, row := range g.RouteStations {
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.RouteID, err = routes.remap(row.RouteID); err != nil {
			return 0, fmt.Errorf("route station: %w", err)
		}
		if row.StationID, err = stations.remap(row.StationID); err != nil {
			return 0, fmt.Errorf("route station: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("route station: %w", err)
		}
	}

	plans := make(idMap, len(g.Plans))
	for _, row := range g.Plans {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("plan: %w", err)
		}
		plans[old] = row.ID
	}

	processes := make(idMap, len(g.Processes))
	for _, row := range g.Processes {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("process: %w", err)
		}
		processes[old] = row.ID
	}

	for _, row := range g.PlanProcesses {
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.PlanID, err = plans.remap(row.PlanID); err != nil {
			return 0, fmt.Errorf("plan process: %w", err)
		}
		if row.ProcessID, err = processes.remap(row.ProcessID); err != nil {
			return 0, fmt.Errorf("plan process: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("plan process: %w", err)
		}
	}

	depots := make(idMap, len(g.Depots))
	for _, row := range g.Depots {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.StationID, err = stations.remap(row.StationID); err != nil {
			return 0, fmt.Errorf("depot %q: %w", row.Name, err)
		}
		if row.DefaultPlanID, err = plans.remap(row.DefaultPlanID); err != nil {
			return 0, fmt.Errorf("depot %q: %w", row.Name, err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("depot: %w", err)
		}
		depots[old] = row.ID
	}

	areas := make(idMap, len(g.Areas))
	for _, row := range g.Areas {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.DepotID, err = depots.remap(row.DepotID); err != nil {
			return 0, fmt.Errorf("area: %w", err)
		}
		if row.VehicleTypeID, err = vehicleTypes.remapPtr(row.VehicleTypeID); err != nil {
			return 0, fmt.Errorf("area: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("area: %w", err)
		}
		areas[old] = row.ID
	}

	for _, row := range g.AreaProcesses {
		var err error
		if row.AreaID, err = areas.remap(row.AreaID); err != nil {
			return 0, fmt.Errorf("area process: %w", err)
		}
		if row.ProcessID, err = processes.remap(row.ProcessID); err != nil {
			return 0, fmt.Errorf("area process: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("area process: %w", err)
		}
	}

	rotations := make(idMap, len(g.Rotations))
	for _, row := range g.Rotations {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.VehicleTypeID, err = vehicleTypes.remap(row.VehicleTypeID); err != nil {
			return 0, fmt.Errorf("rotation: %w", err)
		}
		if row.VehicleID, err = vehicles.remapPtr(row.VehicleID); err != nil {
			return 0, fmt.Errorf("rotation: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("rotation: %w", err)
		}
		rotations[old] = row.ID
	}

	trips := make(idMap, len(g.Trips))
	for _, row := range g.Trips {
		old := row.ID
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.RouteID, err = routes.remap(row.RouteID); err != nil {
			return 0, fmt.Errorf("trip: %w", err)
		}
		if row.RotationID, err = rotations.remap(row.RotationID); err != nil {
			return 0, fmt.Errorf("trip: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("trip: %w", err)
		}
		trips[old] = row.ID
	}

	for _, row := range g.StopTimes {
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.TripID, err = trips.remap(row.TripID); err != nil {
			return 0, fmt.Errorf("stop time: %w", err)
		}
		if row.StationID, err = stations.remap(row.StationID); err != nil {
			return 0, fmt.Errorf("stop time: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("stop time: %w", err)
		}
	}

	for _, row := range g.Events {
		row.ID = 0
		row.ScenarioID = sid
		var err error
		if row.VehicleTypeID, err = vehicleTypes.remap(row.VehicleTypeID); err != nil {
			return 0, fmt.Errorf("event: %w", err)
		}
		if row.VehicleID, err = vehicles.remapPtr(row.VehicleID); err != nil {
			return 0, fmt.Errorf("event: %w", err)
		}
		if row.TripID, err = trips.remapPtr(row.TripID); err != nil {
			return 0, fmt.Errorf("event: %w", err)
		}
		if row.StationID, err = stations.remapPtr(row.StationID); err != nil {
			return 0, fmt.Errorf("event: %w", err)
		}
		if row.AreaID, err = areas.remapPtr(row.AreaID); err != nil {
			return 0, fmt.Errorf("event: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("event: %w", err)
		}
	}

	return sid, nil
}
