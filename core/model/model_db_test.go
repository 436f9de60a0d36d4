package model_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kilianp07/fleetdb/core/migrate"
	"github.com/kilianp07/fleetdb/core/model"
	"github.com/kilianp07/fleetdb/migrations"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "fleet.db") + "?_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	r, err := migrate.NewRunner(db, migrations.All())
	require.NoError(t, err)
	require.NoError(t, r.UpgradeToHead(context.Background()))
	return db
}

func ptr[T any](v T) *T { return &v }

func chargingCurve() model.ChargingCurve {
	return model.ChargingCurve{{0, 0.8, 1}, {150, 150, 30}}
}

// fixture is a small but fully connected scenario graph.
type fixture struct {
	Scenario    model.Scenario
	BatteryType model.BatteryType
	VehicleType model.VehicleType
	Vehicle     model.Vehicle
	Depart      model.Station
	Arrive      model.Station
	Line        model.Line
	Route       model.Route
	Plan        model.Plan
	Process     model.Process
	Depot       model.Depot
	Area        model.Area
	Rotation    model.Rotation
	Trip        model.Trip
}

func buildFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	var f fixture

	f.Scenario = model.Scenario{Name: "Test network", NameShort: "TN"}
	require.NoError(t, db.Create(&f.Scenario).Error)
	sid := f.Scenario.ID

	f.BatteryType = model.BatteryType{
		ScenarioID:   sid,
		SpecificMass: 6.5,
		Chemistry:    model.JSONMap{"type": "LFP"},
	}
	require.NoError(t, db.Create(&f.BatteryType).Error)

	f.VehicleType = model.VehicleType{
		ScenarioID:      sid,
		Name:            "GN18",
		BatteryTypeID:   &f.BatteryType.ID,
		BatteryCapacity: 350,
		ChargingCurve:   chargingCurve(),
	}
	require.NoError(t, db.Create(&f.VehicleType).Error)

	f.Vehicle = model.Vehicle{
		ScenarioID:    sid,
		VehicleTypeID: f.VehicleType.ID,
		Name:          "Bus 1001",
	}
	require.NoError(t, db.Create(&f.Vehicle).Error)

	f.Depart = model.Station{
		ScenarioID: sid,
		Name:       "Depot Indira-Gandhi-Str.",
		Geom:       model.Point{Lon: 13.46, Lat: 52.55, Elev: 40, Valid: true},
	}
	require.NoError(t, db.Create(&f.Depart).Error)

	f.Arrive = model.Station{ScenarioID: sid, Name: "S+U Pankow"}
	require.NoError(t, db.Create(&f.Arrive).Error)

	f.Line = model.Line{ScenarioID: sid, Name: "255"}
	require.NoError(t, db.Create(&f.Line).Error)

	f.Route = model.Route{
		ScenarioID:         sid,
		LineID:             &f.Line.ID,
		Name:               "255 outbound",
		DepartureStationID: f.Depart.ID,
		ArrivalStationID:   f.Arrive.ID,
		Distance:           8000,
	}
	require.NoError(t, db.Create(&f.Route).Error)

	require.NoError(t, db.Create(&model.RouteStation{
		ScenarioID: sid, RouteID: f.Route.ID, StationID: f.Depart.ID, ElapsedDistance: 0,
	}).Error)
	require.NoError(t, db.Create(&model.RouteStation{
		ScenarioID: sid, RouteID: f.Route.ID, StationID: f.Arrive.ID, ElapsedDistance: 8000,
	}).Error)

	f.Plan = model.Plan{ScenarioID: sid, Name: "default"}
	require.NoError(t, db.Create(&f.Plan).Error)

	f.Process = model.Process{
		ScenarioID:    sid,
		Name:          "depot charging",
		Dispatchable:  true,
		ElectricPower: ptr(120.0),
	}
	require.NoError(t, db.Create(&f.Process).Error)

	require.NoError(t, db.Create(&model.PlanProcess{
		ScenarioID: sid, PlanID: f.Plan.ID, ProcessID: f.Process.ID, Ordinal: 0,
	}).Error)

	f.Depot = model.Depot{
		ScenarioID:    sid,
		StationID:     f.Depart.ID,
		Name:          "Indira-Gandhi-Str.",
		DefaultPlanID: f.Plan.ID,
	}
	require.NoError(t, db.Create(&f.Depot).Error)

	f.Area = model.Area{
		ScenarioID: sid,
		DepotID:    f.Depot.ID,
		AreaType:   model.AreaTypeLine,
		Capacity:   12,
		RowCount:   ptr(3),
	}
	require.NoError(t, db.Create(&f.Area).Error)

	require.NoError(t, db.Create(&model.AreaProcess{
		AreaID: f.Area.ID, ProcessID: f.Process.ID,
	}).Error)

	f.Rotation = model.Rotation{
		ScenarioID:    sid,
		VehicleTypeID: f.VehicleType.ID,
		VehicleID:     &f.Vehicle.ID,
	}
	require.NoError(t, db.Create(&f.Rotation).Error)

	dep := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f.Trip = model.Trip{
		ScenarioID:    sid,
		RouteID:       f.Route.ID,
		RotationID:    f.Rotation.ID,
		DepartureTime: dep,
		ArrivalTime:   dep.Add(30 * time.Minute),
		TripType:      model.TripTypePassenger,
	}
	require.NoError(t, db.Create(&f.Trip).Error)

	require.NoError(t, db.Create(&model.StopTime{
		ScenarioID: sid, TripID: f.Trip.ID, StationID: f.Depart.ID, ArrivalTime: dep,
	}).Error)
	require.NoError(t, db.Create(&model.StopTime{
		ScenarioID: sid, TripID: f.Trip.ID, StationID: f.Arrive.ID,
		ArrivalTime: dep.Add(30 * time.Minute),
	}).Error)

	require.NoError(t, db.Create(&model.Event{
		ScenarioID:    sid,
		VehicleTypeID: f.VehicleType.ID,
		VehicleID:     &f.Vehicle.ID,
		TripID:        &f.Trip.ID,
		TimeStart:     dep,
		TimeEnd:       dep.Add(30 * time.Minute),
		SocStart:      0.95,
		SocEnd:        0.82,
		EventType:     model.EventTypeDriving,
	}).Error)

	return &f
}

func TestCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	f := buildFixture(t, db)

	require.NoError(t, db.Delete(&model.Scenario{}, f.Scenario.ID).Error)

	for _, table := range model.TableNames() {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		require.Zero(t, n, "rows left in %s", table)
	}
}

func TestEventOverlapRejected(t *testing.T) {
	db := newTestDB(t)
	f := buildFixture(t, db)

	start := time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC)
	overlap := model.Event{
		ScenarioID:    f.Scenario.ID,
		VehicleTypeID: f.VehicleType.ID,
		VehicleID:     &f.Vehicle.ID,
		AreaID:        &f.Area.ID,
		TimeStart:     start,
		TimeEnd:       start.Add(time.Hour),
		SocStart:      0.8,
		SocEnd:        0.9,
		EventType:     model.EventTypeChargingDepot,
	}
	err := db.Create(&overlap).Error
	require.Error(t, err, "overlapping event must be rejected")

	// Touching intervals do not overlap.
	adjacent := overlap
	adjacent.ID = 0
	adjacent.TimeStart = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	adjacent.TimeEnd = adjacent.TimeStart.Add(time.Hour)
	require.NoError(t, db.Create(&adjacent).Error)

	// A different vehicle may overlap freely.
	other := model.Vehicle{
		ScenarioID:    f.Scenario.ID,
		VehicleTypeID: f.VehicleType.ID,
		Name:          "Bus 1002",
	}
	require.NoError(t, db.Create(&other).Error)
	foreign := overlap
	foreign.ID = 0
	foreign.VehicleID = &other.ID
	require.NoError(t, db.Create(&foreign).Error)
}

func TestStopTimeUniquePerTripAndTime(t *testing.T) {
	db := newTestDB(t)
	f := buildFixture(t, db)

	dup := model.StopTime{
		ScenarioID:  f.Scenario.ID,
		TripID:      f.Trip.ID,
		StationID:   f.Arrive.ID,
		ArrivalTime: f.Trip.DepartureTime,
	}
	require.Error(t, db.Create(&dup).Error)
}

func TestColumnRoundTrips(t *testing.T) {
	db := newTestDB(t)
	f := buildFixture(t, db)

	var vt model.VehicleType
	require.NoError(t, db.First(&vt, f.VehicleType.ID).Error)
	require.Equal(t, chargingCurve(), vt.ChargingCurve)
	power, err := vt.ChargingCurve.PowerAt(0.9)
	require.NoError(t, err)
	require.InDelta(t, 90, power, 1e-9)

	var bt model.BatteryType
	require.NoError(t, db.First(&bt, f.BatteryType.ID).Error)
	require.Equal(t, "LFP", bt.Chemistry["type"])

	var st model.Station
	require.NoError(t, db.First(&st, f.Depart.ID).Error)
	require.True(t, st.Geom.Valid)
	require.InDelta(t, 13.46, st.Geom.Lon, 1e-9)
	require.InDelta(t, 52.55, st.Geom.Lat, 1e-9)
	require.InDelta(t, 40, st.Geom.Elev, 1e-9)
}

func TestScenarioTaskIDUnique(t *testing.T) {
	db := newTestDB(t)

	a := model.Scenario{Name: "a"}
	require.NoError(t, db.Create(&a).Error)
	b := model.Scenario{Name: "b"}
	require.NoError(t, db.Create(&b).Error)

	id := "3b91f2b4-6a0f-4a3e-9f59-3f5f61a2dd01"
	require.NoError(t, db.Model(&a).Update("task_id", id).Error)
	require.Error(t, db.Model(&b).Update("task_id", id).Error)
}
