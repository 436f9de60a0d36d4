package migrations

import (
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Release v1.0.0: the initial schema. Geometry columns expect PostGIS or
// SpatiaLite to be loaded already; the connection layer takes care of that.
var r0001InitialSchema = migrate.Revision{
	ID:     "e86ab5bf47cc",
	Parent: migrate.Base,
	Label:  "1.0.0",
	Apply: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, initialSchemaPostgres)
		}
		return execAll(tx, initialSchemaSQLite)
	},
	Revert: func(tx *gorm.DB) error {
		return execAll(tx, dropInitialSchema)
	},
}

var initialSchemaPostgres = []string{
	`CREATE TABLE scenarios (
		id BIGSERIAL PRIMARY KEY,
		parent_id BIGINT REFERENCES scenarios (id) ON DELETE SET NULL,
		name VARCHAR NOT NULL,
		name_short VARCHAR,
		created TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished TIMESTAMPTZ,
		simulation_options JSONB,
		depot_options JSONB
	)`,
	`CREATE TABLE battery_types (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		specific_mass DOUBLE PRECISION NOT NULL,
		chemistry JSONB NOT NULL
	)`,
	`CREATE INDEX ix_battery_types_scenario_id ON battery_types (scenario_id)`,
	`CREATE TABLE vehicle_types (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR NOT NULL,
		name_short VARCHAR,
		battery_type_id BIGINT REFERENCES battery_types (id),
		battery_capacity DOUBLE PRECISION NOT NULL,
		charging_curve JSONB NOT NULL,
		v2g_curve JSONB,
		charging_efficiency DOUBLE PRECISION NOT NULL DEFAULT 0.95,
		opportunity_charging_capable BOOLEAN NOT NULL,
		minimum_charging_power DOUBLE PRECISION NOT NULL DEFAULT 0,
		length DOUBLE PRECISION,
		width DOUBLE PRECISION,
		height DOUBLE PRECISION,
		empty_mass DOUBLE PRECISION,
		consumption DOUBLE PRECISION,
		CONSTRAINT vehicle_types_battery_capacity_check CHECK (battery_capacity > 0),
		CONSTRAINT vehicle_types_charging_efficiency_check
			CHECK (charging_efficiency > 0 AND charging_efficiency <= 1),
		CONSTRAINT vehicle_types_shape_check
			CHECK ((length IS NULL) = (width IS NULL) AND (width IS NULL) = (height IS NULL)),
		CONSTRAINT vehicle_types_empty_mass_check CHECK (empty_mass IS NULL OR empty_mass > 0)
	)`,
	`CREATE INDEX ix_vehicle_types_scenario_id ON vehicle_types (scenario_id)`,
	`CREATE TABLE vehicle_classes (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR NOT NULL,
		name_short VARCHAR
	)`,
	`CREATE INDEX ix_vehicle_classes_scenario_id ON vehicle_classes (scenario_id)`,
	`CREATE TABLE vehicle_type_classes (
		vehicle_type_id BIGINT NOT NULL REFERENCES vehicle_types (id) ON DELETE CASCADE,
		vehicle_class_id BIGINT NOT NULL REFERENCES vehicle_classes (id) ON DELETE CASCADE,
		PRIMARY KEY (vehicle_type_id, vehicle_class_id)
	)`,
	`CREATE TABLE vehicles (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		vehicle_type_id BIGINT NOT NULL REFERENCES vehicle_types (id),
		name VARCHAR NOT NULL,
		name_short VARCHAR
	)`,
	`CREATE INDEX ix_vehicles_scenario_id ON vehicles (scenario_id)`,
	`CREATE TABLE lines (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR NOT NULL,
		name_short VARCHAR
	)`,
	`CREATE INDEX ix_lines_scenario_id ON lines (scenario_id)`,
	`CREATE TABLE stations (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR NOT NULL,
		name_short VARCHAR,
		geom geometry(PointZ,4326),
		is_electrified BOOLEAN NOT NULL,
		amount_charging_places INTEGER,
		power_per_charger DOUBLE PRECISION,
		power_total DOUBLE PRECISION,
		charge_type VARCHAR(16),
		voltage_level VARCHAR(16),
		CONSTRAINT stations_electrification_check CHECK (
			(is_electrified AND amount_charging_places IS NOT NULL
				AND power_per_charger IS NOT NULL AND power_total IS NOT NULL
				AND charge_type IS NOT NULL AND voltage_level IS NOT NULL)
			OR
			(NOT is_electrified AND amount_charging_places IS NULL
				AND power_per_charger IS NULL AND power_total IS NULL
				AND charge_type IS NULL AND voltage_level IS NULL)
		)
	)`,
	`CREATE INDEX ix_stations_scenario_id ON stations (scenario_id)`,
	`CREATE TABLE routes (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		line_id BIGINT REFERENCES lines (id),
		name VARCHAR NOT NULL,
		name_short VARCHAR,
		departure_station_id BIGINT NOT NULL REFERENCES stations (id),
		arrival_station_id BIGINT NOT NULL REFERENCES stations (id),
		distance DOUBLE PRECISION NOT NULL,
		headsign VARCHAR,
		shape geometry(LineStringZ,4326),
		CONSTRAINT routes_distance_check CHECK (distance > 0)
	)`,
	`CREATE INDEX ix_routes_scenario_id ON routes (scenario_id)`,
	`CREATE INDEX ix_routes_line_id ON routes (line_id)`,
	`CREATE TABLE route_stations (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		route_id BIGINT NOT NULL REFERENCES routes (id) ON DELETE CASCADE,
		station_id BIGINT NOT NULL REFERENCES stations (id),
		elapsed_distance DOUBLE PRECISION NOT NULL,
		CONSTRAINT route_stations_elapsed_distance_check CHECK (elapsed_distance >= 0)
	)`,
	`CREATE INDEX ix_route_stations_scenario_id ON route_stations (scenario_id)`,
	`CREATE INDEX ix_route_stations_route_id ON route_stations (route_id)`,
	`CREATE TABLE plans (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR NOT NULL
	)`,
	`CREATE INDEX ix_plans_scenario_id ON plans (scenario_id)`,
	`CREATE TABLE processes (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR NOT NULL,
		dispatchable BOOLEAN NOT NULL,
		duration BIGINT,
		electric_power DOUBLE PRECISION,
		availability JSONB,
		CONSTRAINT processes_value_check CHECK (
			(duration IS NULL OR duration >= 0)
			AND (electric_power IS NULL OR electric_power >= 0)
		)
	)`,
	`CREATE INDEX ix_processes_scenario_id ON processes (scenario_id)`,
	`CREATE TABLE plan_processes (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		plan_id BIGINT NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
		process_id BIGINT NOT NULL REFERENCES processes (id) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		CONSTRAINT plan_processes_ordinal_key UNIQUE (plan_id, ordinal)
	)`,
	`CREATE INDEX ix_plan_processes_scenario_id ON plan_processes (scenario_id)`,
	`CREATE TABLE depots (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		station_id BIGINT NOT NULL REFERENCES stations (id),
		name VARCHAR NOT NULL,
		name_short VARCHAR,
		default_plan_id BIGINT NOT NULL REFERENCES plans (id),
		CONSTRAINT depots_station_key UNIQUE (scenario_id, station_id)
	)`,
	`CREATE TABLE areas (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		depot_id BIGINT NOT NULL REFERENCES depots (id) ON DELETE CASCADE,
		vehicle_type_id BIGINT REFERENCES vehicle_types (id),
		name VARCHAR,
		area_type VARCHAR(16) NOT NULL,
		capacity INTEGER NOT NULL,
		row_count INTEGER,
		CONSTRAINT areas_capacity_check CHECK (capacity > 0),
		CONSTRAINT areas_row_count_check CHECK (
			(area_type = 'LINE' AND row_count IS NOT NULL AND row_count > 0)
			OR (area_type <> 'LINE' AND row_count IS NULL)
		)
	)`,
	`CREATE INDEX ix_areas_scenario_id ON areas (scenario_id)`,
	`CREATE INDEX ix_areas_depot_id ON areas (depot_id)`,
	`CREATE TABLE area_processes (
		area_id BIGINT NOT NULL REFERENCES areas (id) ON DELETE CASCADE,
		process_id BIGINT NOT NULL REFERENCES processes (id) ON DELETE CASCADE,
		PRIMARY KEY (area_id, process_id)
	)`,
	`CREATE TABLE rotations (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name VARCHAR,
		vehicle_type_id BIGINT NOT NULL REFERENCES vehicle_types (id),
		vehicle_id BIGINT REFERENCES vehicles (id),
		allow_opportunity_charging BOOLEAN NOT NULL
	)`,
	`CREATE INDEX ix_rotations_scenario_id ON rotations (scenario_id)`,
	`CREATE TABLE trips (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		route_id BIGINT NOT NULL REFERENCES routes (id),
		rotation_id BIGINT NOT NULL REFERENCES rotations (id) ON DELETE CASCADE,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		trip_type VARCHAR(16) NOT NULL,
		level_of_loading DOUBLE PRECISION,
		CONSTRAINT trips_time_check CHECK (departure_time < arrival_time),
		CONSTRAINT trips_level_of_loading_check CHECK (
			level_of_loading IS NULL OR (level_of_loading >= 0 AND level_of_loading <= 1)
		)
	)`,
	`CREATE INDEX ix_trips_scenario_id ON trips (scenario_id)`,
	`CREATE INDEX ix_trips_rotation_id ON trips (rotation_id)`,
	`CREATE TABLE stop_times (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		trip_id BIGINT NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
		station_id BIGINT NOT NULL REFERENCES stations (id),
		arrival_time TIMESTAMPTZ NOT NULL,
		dwell_duration BIGINT NOT NULL DEFAULT 0,
		CONSTRAINT stop_times_dwell_duration_check CHECK (dwell_duration >= 0),
		CONSTRAINT stop_times_arrival_key UNIQUE (scenario_id, trip_id, arrival_time)
	)`,
	`CREATE INDEX ix_stop_times_trip_id ON stop_times (trip_id)`,
	`CREATE TABLE events (
		id BIGSERIAL PRIMARY KEY,
		scenario_id BIGINT NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		vehicle_type_id BIGINT NOT NULL REFERENCES vehicle_types (id),
		vehicle_id BIGINT REFERENCES vehicles (id),
		trip_id BIGINT REFERENCES trips (id),
		station_id BIGINT REFERENCES stations (id),
		area_id BIGINT REFERENCES areas (id),
		subloc_no INTEGER,
		time_start TIMESTAMPTZ NOT NULL,
		time_end TIMESTAMPTZ NOT NULL,
		soc_start DOUBLE PRECISION NOT NULL,
		soc_end DOUBLE PRECISION NOT NULL,
		event_type VARCHAR(32) NOT NULL,
		description VARCHAR,
		timeseries JSONB,
		CONSTRAINT events_time_check CHECK (time_start < time_end),
		CONSTRAINT events_soc_check CHECK (
			soc_start >= 0 AND soc_start <= 1 AND soc_end >= 0 AND soc_end <= 1
		),
		CONSTRAINT events_location_check CHECK (
			(event_type = 'DRIVING' AND trip_id IS NOT NULL
				AND station_id IS NULL AND area_id IS NULL)
			OR (event_type = 'CHARGING_OPPORTUNITY' AND station_id IS NOT NULL
				AND trip_id IS NULL AND area_id IS NULL)
			OR (event_type IN ('CHARGING_DEPOT', 'SERVICE', 'STANDBY',
					'STANDBY_DEPARTURE', 'PRECONDITIONING')
				AND area_id IS NOT NULL AND trip_id IS NULL AND station_id IS NULL)
		),
		CONSTRAINT events_vehicle_no_overlap EXCLUDE USING gist (
			scenario_id WITH =,
			vehicle_id WITH =,
			tstzrange(time_start, time_end) WITH &&
		)
	)`,
	`CREATE INDEX ix_events_scenario_id ON events (scenario_id)`,
	`CREATE INDEX ix_events_vehicle_id ON events (vehicle_id)`,
}

var initialSchemaSQLite = []string{
	`CREATE TABLE scenarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER REFERENCES scenarios (id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		name_short TEXT,
		created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished DATETIME,
		simulation_options TEXT,
		depot_options TEXT
	)`,
	`CREATE TABLE battery_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		specific_mass REAL NOT NULL,
		chemistry TEXT NOT NULL
	)`,
	`CREATE INDEX ix_battery_types_scenario_id ON battery_types (scenario_id)`,
	`CREATE TABLE vehicle_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		name_short TEXT,
		battery_type_id INTEGER REFERENCES battery_types (id),
		battery_capacity REAL NOT NULL CHECK (battery_capacity > 0),
		charging_curve TEXT NOT NULL,
		v2g_curve TEXT,
		charging_efficiency REAL NOT NULL DEFAULT 0.95
			CHECK (charging_efficiency > 0 AND charging_efficiency <= 1),
		opportunity_charging_capable BOOLEAN NOT NULL,
		minimum_charging_power REAL NOT NULL DEFAULT 0,
		length REAL,
		width REAL,
		height REAL,
		empty_mass REAL CHECK (empty_mass IS NULL OR empty_mass > 0),
		consumption REAL,
		CHECK ((length IS NULL) = (width IS NULL) AND (width IS NULL) = (height IS NULL))
	)`,
	`CREATE INDEX ix_vehicle_types_scenario_id ON vehicle_types (scenario_id)`,
	`CREATE TABLE vehicle_classes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		name_short TEXT
	)`,
	`CREATE INDEX ix_vehicle_classes_scenario_id ON vehicle_classes (scenario_id)`,
	`CREATE TABLE vehicle_type_classes (
		vehicle_type_id INTEGER NOT NULL REFERENCES vehicle_types (id) ON DELETE CASCADE,
		vehicle_class_id INTEGER NOT NULL REFERENCES vehicle_classes (id) ON DELETE CASCADE,
		PRIMARY KEY (vehicle_type_id, vehicle_class_id)
	)`,
	`CREATE TABLE vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		vehicle_type_id INTEGER NOT NULL REFERENCES vehicle_types (id),
		name TEXT NOT NULL,
		name_short TEXT
	)`,
	`CREATE INDEX ix_vehicles_scenario_id ON vehicles (scenario_id)`,
	`CREATE TABLE lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		name_short TEXT
	)`,
	`CREATE INDEX ix_lines_scenario_id ON lines (scenario_id)`,
	`CREATE TABLE stations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		name_short TEXT,
		geom BLOB,
		is_electrified BOOLEAN NOT NULL,
		amount_charging_places INTEGER,
		power_per_charger REAL,
		power_total REAL,
		charge_type TEXT,
		voltage_level TEXT,
		CHECK (
			(is_electrified AND amount_charging_places IS NOT NULL
				AND power_per_charger IS NOT NULL AND power_total IS NOT NULL
				AND charge_type IS NOT NULL AND voltage_level IS NOT NULL)
			OR
			(NOT is_electrified AND amount_charging_places IS NULL
				AND power_per_charger IS NULL AND power_total IS NULL
				AND charge_type IS NULL AND voltage_level IS NULL)
		)
	)`,
	`CREATE INDEX ix_stations_scenario_id ON stations (scenario_id)`,
	`CREATE TABLE routes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		line_id INTEGER REFERENCES lines (id),
		name TEXT NOT NULL,
		name_short TEXT,
		departure_station_id INTEGER NOT NULL REFERENCES stations (id),
		arrival_station_id INTEGER NOT NULL REFERENCES stations (id),
		distance REAL NOT NULL CHECK (distance > 0),
		headsign TEXT,
		shape BLOB
	)`,
	`CREATE INDEX ix_routes_scenario_id ON routes (scenario_id)`,
	`CREATE INDEX ix_routes_line_id ON routes (line_id)`,
	`CREATE TABLE route_stations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		route_id INTEGER NOT NULL REFERENCES routes (id) ON DELETE CASCADE,
		station_id INTEGER NOT NULL REFERENCES stations (id),
		elapsed_distance REAL NOT NULL CHECK (elapsed_distance >= 0)
	)`,
	`CREATE INDEX ix_route_stations_scenario_id ON route_stations (scenario_id)`,
	`CREATE INDEX ix_route_stations_route_id ON route_stations (route_id)`,
	`CREATE TABLE plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT NOT NULL
	)`,
	`CREATE INDEX ix_plans_scenario_id ON plans (scenario_id)`,
	`CREATE TABLE processes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		dispatchable BOOLEAN NOT NULL,
		duration INTEGER,
		electric_power REAL,
		availability TEXT,
		CHECK (
			(duration IS NULL OR duration >= 0)
			AND (electric_power IS NULL OR electric_power >= 0)
		)
	)`,
	`CREATE INDEX ix_processes_scenario_id ON processes (scenario_id)`,
	`CREATE TABLE plan_processes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		plan_id INTEGER NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
		process_id INTEGER NOT NULL REFERENCES processes (id) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		UNIQUE (plan_id, ordinal)
	)`,
	`CREATE INDEX ix_plan_processes_scenario_id ON plan_processes (scenario_id)`,
	`CREATE TABLE depots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		station_id INTEGER NOT NULL REFERENCES stations (id),
		name TEXT NOT NULL,
		name_short TEXT,
		default_plan_id INTEGER NOT NULL REFERENCES plans (id),
		UNIQUE (scenario_id, station_id)
	)`,
	`CREATE TABLE areas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		depot_id INTEGER NOT NULL REFERENCES depots (id) ON DELETE CASCADE,
		vehicle_type_id INTEGER REFERENCES vehicle_types (id),
		name TEXT,
		area_type TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		row_count INTEGER,
		CHECK (
			(area_type = 'LINE' AND row_count IS NOT NULL AND row_count > 0)
			OR (area_type <> 'LINE' AND row_count IS NULL)
		)
	)`,
	`CREATE INDEX ix_areas_scenario_id ON areas (scenario_id)`,
	`CREATE INDEX ix_areas_depot_id ON areas (depot_id)`,
	`CREATE TABLE area_processes (
		area_id INTEGER NOT NULL REFERENCES areas (id) ON DELETE CASCADE,
		process_id INTEGER NOT NULL REFERENCES processes (id) ON DELETE CASCADE,
		PRIMARY KEY (area_id, process_id)
	)`,
	`CREATE TABLE rotations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		name TEXT,
		vehicle_type_id INTEGER NOT NULL REFERENCES vehicle_types (id),
		vehicle_id INTEGER REFERENCES vehicles (id),
		allow_opportunity_charging BOOLEAN NOT NULL
	)`,
	`CREATE INDEX ix_rotations_scenario_id ON rotations (scenario_id)`,
	`CREATE TABLE trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		route_id INTEGER NOT NULL REFERENCES routes (id),
		rotation_id INTEGER NOT NULL REFERENCES rotations (id) ON DELETE CASCADE,
		departure_time DATETIME NOT NULL,
		arrival_time DATETIME NOT NULL,
		trip_type TEXT NOT NULL,
		level_of_loading REAL CHECK (
			level_of_loading IS NULL OR (level_of_loading >= 0 AND level_of_loading <= 1)
		),
		CHECK (departure_time < arrival_time)
	)`,
	`CREATE INDEX ix_trips_scenario_id ON trips (scenario_id)`,
	`CREATE INDEX ix_trips_rotation_id ON trips (rotation_id)`,
	`CREATE TABLE stop_times (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		trip_id INTEGER NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
		station_id INTEGER NOT NULL REFERENCES stations (id),
		arrival_time DATETIME NOT NULL,
		dwell_duration INTEGER NOT NULL DEFAULT 0 CHECK (dwell_duration >= 0),
		UNIQUE (scenario_id, trip_id, arrival_time)
	)`,
	`CREATE INDEX ix_stop_times_trip_id ON stop_times (trip_id)`,
	`CREATE TABLE events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
		vehicle_type_id INTEGER NOT NULL REFERENCES vehicle_types (id),
		vehicle_id INTEGER REFERENCES vehicles (id),
		trip_id INTEGER REFERENCES trips (id),
		station_id INTEGER REFERENCES stations (id),
		area_id INTEGER REFERENCES areas (id),
		subloc_no INTEGER,
		time_start DATETIME NOT NULL,
		time_end DATETIME NOT NULL,
		soc_start REAL NOT NULL,
		soc_end REAL NOT NULL,
		event_type TEXT NOT NULL,
		description TEXT,
		timeseries TEXT,
		CHECK (time_start < time_end),
		CHECK (soc_start >= 0 AND soc_start <= 1 AND soc_end >= 0 AND soc_end <= 1),
		CHECK (
			(event_type = 'DRIVING' AND trip_id IS NOT NULL
				AND station_id IS NULL AND area_id IS NULL)
			OR (event_type = 'CHARGING_OPPORTUNITY' AND station_id IS NOT NULL
				AND trip_id IS NULL AND area_id IS NULL)
			OR (event_type IN ('CHARGING_DEPOT', 'SERVICE', 'STANDBY',
					'STANDBY_DEPARTURE', 'PRECONDITIONING')
				AND area_id IS NOT NULL AND trip_id IS NULL AND station_id IS NULL)
		)
	)`,
	`CREATE INDEX ix_events_scenario_id ON events (scenario_id)`,
	`CREATE INDEX ix_events_vehicle_id ON events (vehicle_id)`,
}

// Children first, then their parents.
var dropInitialSchema = []string{
	`DROP TABLE events`,
	`DROP TABLE stop_times`,
	`DROP TABLE trips`,
	`DROP TABLE rotations`,
	`DROP TABLE area_processes`,
	`DROP TABLE areas`,
	`DROP TABLE depots`,
	`DROP TABLE plan_processes`,
	`DROP TABLE processes`,
	`DROP TABLE plans`,
	`DROP TABLE route_stations`,
	`DROP TABLE routes`,
	`DROP TABLE stations`,
	`DROP TABLE lines`,
	`DROP TABLE vehicles`,
	`DROP TABLE vehicle_type_classes`,
	`DROP TABLE vehicle_classes`,
	`DROP TABLE vehicle_types`,
	`DROP TABLE battery_types`,
	`DROP TABLE scenarios`,
}
