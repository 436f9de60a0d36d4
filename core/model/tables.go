package model

// AllModels lists every model in foreign-key dependency order: parents before
// the rows that reference them. Scenario copies and tests iterate it.
func AllModels() []any {
	return []any{
		&Scenario{},
		&BatteryType{},
		&VehicleType{},
		&VehicleClass{},
		&VehicleTypeClass{},
		&Vehicle{},
		&Line{},
		&Station{},
		&Route{},
		&RouteStation{},
		&Plan{},
		&Process{},
		&PlanProcess{},
		&Depot{},
		&Area{},
		&AreaProcess{},
		&Rotation{},
		&Trip{},
		&StopTime{},
		&Event{},
	}
}

// TableNames lists the table of every model, in the same order as AllModels.
func TableNames() []string {
	return []string{
		"scenarios",
		"battery_types",
		"vehicle_types",
		"vehicle_classes",
		"vehicle_type_classes",
		"vehicles",
		"lines",
		"stations",
		"routes",
		"route_stations",
		"plans",
		"processes",
		"plan_processes",
		"depots",
		"areas",
		"area_processes",
		"rotations",
		"trips",
		"stop_times",
		"events",
	}
}
