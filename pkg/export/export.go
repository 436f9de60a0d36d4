package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/fleetdb/core/model"
)

// WriteJSON writes the events to w in JSON format.
func WriteJSON(w io.Writer, events []model.Event) error {
	enc := json.NewEncoder(w)
	return enc.Encode(events)
}

// WriteCSV writes the events to w in CSV format, one row per event.
func WriteCSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	header := []string{
		"event_id", "vehicle_id", "event_type",
		"time_start", "time_end", "soc_start", "soc_end",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range events {
		vehicle := ""
		if e.VehicleID != nil {
			vehicle = strconv.FormatInt(*e.VehicleID, 10)
		}
		rec := []string{
			strconv.FormatInt(e.ID, 10),
			vehicle,
			string(e.EventType),
			e.TimeStart.Format(time.RFC3339),
			e.TimeEnd.Format(time.RFC3339),
			strconv.FormatFloat(e.SocStart, 'f', -1, 64),
			strconv.FormatFloat(e.SocEnd, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
