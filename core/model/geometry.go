package model

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Geometry columns use WGS84 coordinates throughout.
const SRID = 4326

// Point is a nullable PointZ geometry column.
type Point struct {
	Lon, Lat, Elev float64
	Valid          bool
}

// LineString is a nullable LineStringZ geometry column, used for route shapes.
type LineString struct {
	// Coords holds lon, lat, elevation triples.
	Coords [][3]float64
	Valid  bool
}

// Polygon is a nullable 2D polygon geometry column, used for bounding boxes.
// The first ring is the exterior, any further rings are holes.
type Polygon struct {
	Rings [][][2]float64
	Valid bool
}

// decodeEWKB accepts either raw (E)WKB bytes, as stored by the file backend,
// or the hex form PostGIS returns.
func decodeEWKB(v any) (geom.T, error) {
	var data []byte
	switch t := v.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return nil, fmt.Errorf("geometry: cannot scan %T", v)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("geometry: empty value")
	}
	// Raw WKB starts with a byte-order marker, hex text cannot.
	if data[0] != 0x00 && data[0] != 0x01 {
		raw, err := hex.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("geometry: %w", err)
		}
		data = raw
	}
	return ewkb.Unmarshal(data)
}

func encodeEWKB(g geom.T) ([]byte, error) {
	return ewkb.Marshal(g, ewkb.NDR)
}

// geometryExpr renders the column value for the active dialect: hex EWKB for
// PostGIS, raw EWKB bytes for the file backend.
func geometryExpr(db *gorm.DB, g geom.T) clause.Expr {
	raw, err := encodeEWKB(g)
	if err != nil {
		db.AddError(err)
		return clause.Expr{SQL: "NULL"}
	}
	if db.Dialector.Name() == "postgres" {
		return clause.Expr{SQL: "?", Vars: []any{hex.EncodeToString(raw)}}
	}
	return clause.Expr{SQL: "?", Vars: []any{raw}}
}

func geometryColumnType(db *gorm.DB, kind string) string {
	if db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("geometry(%s,%d)", kind, SRID)
	}
	return "blob"
}

func (Point) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return geometryColumnType(db, "PointZ")
}

func (p Point) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	if !p.Valid {
		return clause.Expr{SQL: "NULL"}
	}
	g := geom.NewPointFlat(geom.XYZ, []float64{p.Lon, p.Lat, p.Elev})
	g.SetSRID(SRID)
	return geometryExpr(db, g)
}

func (p *Point) Scan(v any) error {
	if v == nil {
		*p = Point{}
		return nil
	}
	g, err := decodeEWKB(v)
	if err != nil {
		return err
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return fmt.Errorf("geometry: expected point, got %T", g)
	}
	c := pt.Coords()
	p.Lon, p.Lat = c[0], c[1]
	if len(c) > 2 {
		p.Elev = c[2]
	} else {
		p.Elev = 0
	}
	p.Valid = true
	return nil
}

func (LineString) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return geometryColumnType(db, "LineStringZ")
}

func (l LineString) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	if !l.Valid {
		return clause.Expr{SQL: "NULL"}
	}
	flat := make([]float64, 0, len(l.Coords)*3)
	for _, c := range l.Coords {
		flat = append(flat, c[0], c[1], c[2])
	}
	g := geom.NewLineStringFlat(geom.XYZ, flat)
	g.SetSRID(SRID)
	return geometryExpr(db, g)
}

func (l *LineString) Scan(v any) error {
	if v == nil {
		*l = LineString{}
		return nil
	}
	g, err := decodeEWKB(v)
	if err != nil {
		return err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return fmt.Errorf("geometry: expected linestring, got %T", g)
	}
	coords := ls.Coords()
	l.Coords = make([][3]float64, len(coords))
	for i, c := range coords {
		l.Coords[i][0], l.Coords[i][1] = c[0], c[1]
		if len(c) > 2 {
			l.Coords[i][2] = c[2]
		}
	}
	l.Valid = true
	return nil
}

func (Polygon) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return geometryColumnType(db, "Polygon")
}

func (p Polygon) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	if !p.Valid {
		return clause.Expr{SQL: "NULL"}
	}
	var flat []float64
	ends := make([]int, 0, len(p.Rings))
	for _, ring := range p.Rings {
		for _, c := range ring {
			flat = append(flat, c[0], c[1])
		}
		ends = append(ends, len(flat))
	}
	g := geom.NewPolygonFlat(geom.XY, flat, ends)
	g.SetSRID(SRID)
	return geometryExpr(db, g)
}

func (p *Polygon) Scan(v any) error {
	if v == nil {
		*p = Polygon{}
		return nil
	}
	g, err := decodeEWKB(v)
	if err != nil {
		return err
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return fmt.Errorf("geometry: expected polygon, got %T", g)
	}
	p.Rings = make([][][2]float64, poly.NumLinearRings())
	for i := 0; i < poly.NumLinearRings(); i++ {
		coords := poly.LinearRing(i).Coords()
		ring := make([][2]float64, len(coords))
		for j, c := range coords {
			ring[j][0], ring[j][1] = c[0], c[1]
		}
		p.Rings[i] = ring
	}
	p.Valid = true
	return nil
}
