package model

import (
	"encoding/hex"
	"testing"

	"github.com/twpayne/go-geom"
)

func TestPointScanRoundTrip(t *testing.T) {
	g := geom.NewPointFlat(geom.XYZ, []float64{13.405, 52.52, 34.5})
	g.SetSRID(SRID)
	raw, err := encodeEWKB(g)
	if err != nil {
		t.Fatal(err)
	}

	var p Point
	if err := p.Scan(raw); err != nil {
		t.Fatalf("scan raw: %v", err)
	}
	if !p.Valid || p.Lon != 13.405 || p.Lat != 52.52 || p.Elev != 34.5 {
		t.Errorf("unexpected point %+v", p)
	}

	// PostGIS returns the hex form.
	var q Point
	if err := q.Scan(hex.EncodeToString(raw)); err != nil {
		t.Fatalf("scan hex: %v", err)
	}
	if q != p {
		t.Errorf("hex scan mismatch: %+v vs %+v", q, p)
	}

	var n Point
	if err := n.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if n.Valid {
		t.Error("nil scan should be invalid")
	}
}

func TestLineStringScanRoundTrip(t *testing.T) {
	coords := [][3]float64{{13.1, 52.5, 30}, {13.2, 52.6, 35}, {13.3, 52.7, 32}}
	flat := make([]float64, 0, len(coords)*3)
	for _, c := range coords {
		flat = append(flat, c[0], c[1], c[2])
	}
	g := geom.NewLineStringFlat(geom.XYZ, flat)
	g.SetSRID(SRID)
	raw, err := encodeEWKB(g)
	if err != nil {
		t.Fatal(err)
	}

	var l LineString
	if err := l.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !l.Valid || len(l.Coords) != 3 {
		t.Fatalf("unexpected linestring %+v", l)
	}
	for i, c := range coords {
		if l.Coords[i] != c {
			t.Errorf("coord %d: got %v, want %v", i, l.Coords[i], c)
		}
	}
}

func TestPolygonScanRoundTrip(t *testing.T) {
	ring := [][2]float64{{13.1, 52.5}, {13.2, 52.5}, {13.2, 52.6}, {13.1, 52.6}, {13.1, 52.5}}
	flat := make([]float64, 0, len(ring)*2)
	for _, c := range ring {
		flat = append(flat, c[0], c[1])
	}
	g := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
	g.SetSRID(SRID)
	raw, err := encodeEWKB(g)
	if err != nil {
		t.Fatal(err)
	}

	var p Polygon
	if err := p.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !p.Valid || len(p.Rings) != 1 || len(p.Rings[0]) != 5 {
		t.Fatalf("unexpected polygon %+v", p)
	}
	for i, c := range ring {
		if p.Rings[0][i] != c {
			t.Errorf("coord %d: got %v, want %v", i, p.Rings[0][i], c)
		}
	}
}

func TestScanRejectsWrongGeometryKind(t *testing.T) {
	g := geom.NewPointFlat(geom.XYZ, []float64{1, 2, 3})
	g.SetSRID(SRID)
	raw, err := encodeEWKB(g)
	if err != nil {
		t.Fatal(err)
	}
	var l LineString
	if err := l.Scan(raw); err == nil {
		t.Error("point scanned into a linestring")
	}
}
