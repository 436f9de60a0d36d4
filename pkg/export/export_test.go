package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/fleetdb/core/model"
)

func sampleEvents() []model.Event {
	vid := int64(7)
	trip := int64(3)
	return []model.Event{
		{
			ID:            1,
			VehicleTypeID: 1,
			VehicleID:     &vid,
			TripID:        &trip,
			TimeStart:     time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
			TimeEnd:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			SocStart:      0.9,
			SocEnd:        0.75,
			EventType:     model.EventTypeDriving,
		},
		{
			ID:            2,
			VehicleTypeID: 1,
			TimeStart:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			TimeEnd:       time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			SocStart:      0.75,
			SocEnd:        0.95,
			EventType:     model.EventTypeChargingDepot,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleEvents()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "event_id,vehicle_id,event_type") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "DRIVING") || !strings.Contains(lines[1], "7") {
		t.Errorf("unexpected row %q", lines[1])
	}
	// The second event has no vehicle assigned.
	if !strings.Contains(lines[2], "2,,CHARGING_DEPOT") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleEvents()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "DRIVING") || !strings.Contains(out, "CHARGING_DEPOT") {
		t.Errorf("unexpected output %s", out)
	}
}
