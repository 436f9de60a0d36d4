package scenario_test

import (
	"bytes"
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
	"github.com/kilianp07/fleetdb/core/scenario"
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

// seed creates a connected scenario touching every table and returns its id.
func seed(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	sc := model.Scenario{Name: "Seed", SimulationOptions: model.JSONMap{"speedup": 10.0}}
	require.NoError(t, db.Create(&sc).Error)

	bt := model.BatteryType{ScenarioID: sc.ID, SpecificMass: 6.5, Chemistry: model.JSONMap{"type": "NMC"}}
	require.NoError(t, db.Create(&bt).Error)

	vt := model.VehicleType{
		ScenarioID: sc.ID, Name: "GN18", BatteryTypeID: &bt.ID,
		BatteryCapacity: 350,
		ChargingCurve:   model.ChargingCurve{{0, 1}, {150, 30}},
	}
	require.NoError(t, db.Create(&vt).Error)

	vc := model.VehicleClass{ScenarioID: sc.ID, Name: "articulated"}
	require.NoError(t, db.Create(&vc).Error)
	require.NoError(t, db.Create(&model.VehicleTypeClass{
		VehicleTypeID: vt.ID, VehicleClassID: vc.ID,
	}).Error)

	v := model.Vehicle{ScenarioID: sc.ID, VehicleTypeID: vt.ID, Name: "Bus 1001"}
	require.NoError(t, db.Create(&v).Error)

	depart := model.Station{
		ScenarioID: sc.ID, Name: "Depot",
		Geom: model.Point{Lon: 13.46, Lat: 52.55, Valid: true},
	}
	require.NoError(t, db.Create(&depart).Error)
	arrive := model.Station{ScenarioID: sc.ID, Name: "Terminus"}
	require.NoError(t, db.Create(&arrive).Error)

	line := model.Line{ScenarioID: sc.ID, Name: "255"}
	require.NoError(t, db.Create(&line).Error)

	route := model.Route{
		ScenarioID: sc.ID, LineID: &line.ID, Name: "255 outbound",
		DepartureStationID: depart.ID, ArrivalStationID: arrive.ID, Distance: 8000,
	}
	require.NoError(t, db.Create(&route).Error)
	require.NoError(t, db.Create(&model.RouteStation{
		ScenarioID: sc.ID, RouteID: route.ID, StationID: depart.ID, ElapsedDistance: 0,
	}).Error)
	require.NoError(t, db.Create(&model.RouteStation{
		ScenarioID: sc.ID, RouteID: route.ID, StationID: arrive.ID, ElapsedDistance: 8000,
	}).Error)

	plan := model.Plan{ScenarioID: sc.ID, Name: "default"}
	require.NoError(t, db.Create(&plan).Error)
	power := 120.0
	proc := model.Process{ScenarioID: sc.ID, Name: "charging", Dispatchable: true, ElectricPower: &power}
	require.NoError(t, db.Create(&proc).Error)
	require.NoError(t, db.Create(&model.PlanProcess{
		ScenarioID: sc.ID, PlanID: plan.ID, ProcessID: proc.ID, Ordinal: 0,
	}).Error)

	depot := model.Depot{ScenarioID: sc.ID, StationID: depart.ID, Name: "Depot", DefaultPlanID: plan.ID}
	require.NoError(t, db.Create(&depot).Error)
	rows := 3
	area := model.Area{
		ScenarioID: sc.ID, DepotID: depot.ID, VehicleTypeID: &vt.ID,
		AreaType: model.AreaTypeLine, Capacity: 12, RowCount: &rows,
	}
	require.NoError(t, db.Create(&area).Error)
	require.NoError(t, db.Create(&model.AreaProcess{AreaID: area.ID, ProcessID: proc.ID}).Error)

	rot := model.Rotation{ScenarioID: sc.ID, VehicleTypeID: vt.ID, VehicleID: &v.ID}
	require.NoError(t, db.Create(&rot).Error)

	dep := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	trip := model.Trip{
		ScenarioID: sc.ID, RouteID: route.ID, RotationID: rot.ID,
		DepartureTime: dep, ArrivalTime: dep.Add(30 * time.Minute),
		TripType: model.TripTypePassenger,
	}
	require.NoError(t, db.Create(&trip).Error)
	require.NoError(t, db.Create(&model.StopTime{
		ScenarioID: sc.ID, TripID: trip.ID, StationID: depart.ID, ArrivalTime: dep,
	}).Error)

	require.NoError(t, db.Create(&model.Event{
		ScenarioID: sc.ID, VehicleTypeID: vt.ID, VehicleID: &v.ID, TripID: &trip.ID,
		TimeStart: dep, TimeEnd: dep.Add(30 * time.Minute),
		SocStart: 0.95, SocEnd: 0.82, EventType: model.EventTypeDriving,
	}).Error)

	return sc.ID
}

func countByScenario(t *testing.T, db *gorm.DB, table string, sid int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where("scenario_id = ?", sid).Count(&n).Error)
	return n
}

func TestCloneCopiesEveryRow(t *testing.T) {
	db := newTestDB(t)
	sid := seed(t, db)
	ctx := context.Background()

	newID, err := scenario.Clone(ctx, db, sid)
	require.NoError(t, err)
	require.NotEqual(t, sid, newID)

	var clone model.Scenario
	require.NoError(t, db.First(&clone, newID).Error)
	require.NotNil(t, clone.ParentID)
	require.Equal(t, sid, *clone.ParentID)
	require.Nil(t, clone.TaskID)
	require.Equal(t, "Seed", clone.Name)

	for _, table := range model.TableNames() {
		if table == "scenarios" || table == "vehicle_type_classes" || table == "area_processes" {
			continue
		}
		require.Equal(t,
			countByScenario(t, db, table, sid),
			countByScenario(t, db, table, newID),
			"row count for %s", table)
	}
}

func TestCloneRemapsForeignKeys(t *testing.T) {
	db := newTestDB(t)
	sid := seed(t, db)

	newID, err := scenario.Clone(context.Background(), db, sid)
	require.NoError(t, err)

	// Every reference inside the clone must point at rows of the clone.
	var trips []model.Trip
	require.NoError(t, db.Where("scenario_id = ?", newID).Find(&trips).Error)
	require.Len(t, trips, 1)
	var route model.Route
	require.NoError(t, db.First(&route, trips[0].RouteID).Error)
	require.Equal(t, newID, route.ScenarioID)

	var events []model.Event
	require.NoError(t, db.Where("scenario_id = ?", newID).Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, trips[0].ID, *events[0].TripID)
	var vehicle model.Vehicle
	require.NoError(t, db.First(&vehicle, *events[0].VehicleID).Error)
	require.Equal(t, newID, vehicle.ScenarioID)

	var depot model.Depot
	require.NoError(t, db.Where("scenario_id = ?", newID).First(&depot).Error)
	var plan model.Plan
	require.NoError(t, db.First(&plan, depot.DefaultPlanID).Error)
	require.Equal(t, newID, plan.ScenarioID)
}

func TestCloneIsIsolatedFromOriginal(t *testing.T) {
	db := newTestDB(t)
	sid := seed(t, db)

	newID, err := scenario.Clone(context.Background(), db, sid)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&model.Scenario{}, sid).Error)
	for _, table := range model.TableNames() {
		if table == "scenarios" || table == "vehicle_type_classes" || table == "area_processes" {
			continue
		}
		require.NotZero(t, countByScenario(t, db, table, newID), "clone lost rows in %s", table)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestDB(t)
	sid := seed(t, src)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, scenario.Export(ctx, src, sid, &buf))

	dst := newTestDB(t)
	newID, err := scenario.Import(ctx, dst, &buf)
	require.NoError(t, err)

	for _, table := range model.TableNames() {
		if table == "scenarios" || table == "vehicle_type_classes" || table == "area_processes" {
			continue
		}
		require.Equal(t,
			countByScenario(t, src, table, sid),
			countByScenario(t, dst, table, newID),
			"row count for %s", table)
	}

	var sc model.Scenario
	require.NoError(t, dst.First(&sc, newID).Error)
	require.Nil(t, sc.ParentID)
	require.Equal(t, "Seed", sc.Name)
	require.Equal(t, 10.0, sc.SimulationOptions["speedup"])
}

func TestImportRefusesRevisionMismatch(t *testing.T) {
	src := newTestDB(t)
	sid := seed(t, src)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, scenario.Export(ctx, src, sid, &buf))

	dst := newTestDB(t)
	r, err := migrate.NewRunner(dst, migrations.All())
	require.NoError(t, err)
	all := migrations.All()
	require.NoError(t, r.DowngradeTo(ctx, all[len(all)-2].ID))

	_, err = scenario.Import(ctx, dst, &buf)
	require.ErrorIs(t, err, scenario.ErrRevisionMismatch)
}
