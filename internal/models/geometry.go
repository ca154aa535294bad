package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// GeoJSONPoint represents a GeoJSON Point type for API input/output.
// Coordinates are [lng, lat] per the GeoJSON convention.
type GeoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeoJSONPoint builds a point from a lat/lng pair.
func NewGeoJSONPoint(lat, lng float64) *GeoJSONPoint {
	return &GeoJSONPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lat returns the latitude component, or 0 if the point is malformed.
func (g *GeoJSONPoint) Lat() float64 {
	if g == nil || len(g.Coordinates) != 2 {
		return 0
	}
	return g.Coordinates[1]
}

// Lng returns the longitude component, or 0 if the point is malformed.
func (g *GeoJSONPoint) Lng() float64 {
	if g == nil || len(g.Coordinates) != 2 {
		return 0
	}
	return g.Coordinates[0]
}

// Value implements the driver.Valuer interface for GeoJSONPoint.
// Converts GeoJSON to WKT for PostGIS GEOGRAPHY(Point, 4326).
//
// Flow: GeoJSON → geom.Point → "SRID=4326;POINT(76.9321 12.5329)"
func (g *GeoJSONPoint) Value() (driver.Value, error) {
	if g == nil || g.Type == "" {
		return nil, nil
	}

	geoJSONBytes, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}

	var geometry geom.T
	if err := geojson.Unmarshal(geoJSONBytes, &geometry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal GeoJSON: %w", err)
	}

	point, ok := geometry.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("geometry is not a Point")
	}

	point.SetSRID(4326)

	wktString, err := wkt.Marshal(point)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to WKT: %w", err)
	}

	return fmt.Sprintf("SRID=%d;%s", point.SRID(), wktString), nil
}

// Scan implements the sql.Scanner interface for GeoJSONPoint.
// Converts PostGIS EWKB back to GeoJSON.
func (g *GeoJSONPoint) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan GeoJSONPoint: expected []byte, got %T", value)
	}

	geometry, err := ewkb.Unmarshal(bytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal EWKB: %w", err)
	}

	point, ok := geometry.(*geom.Point)
	if !ok {
		return fmt.Errorf("scanned geometry is not a Point")
	}

	geoJSONBytes, err := geojson.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal to GeoJSON: %w", err)
	}

	return json.Unmarshal(geoJSONBytes, g)
}
