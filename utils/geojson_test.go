package utils

import (
	"encoding/json"
	"testing"

	"herbtrace-service/models"
)

func TestZonesToGeoJSON(t *testing.T) {
	zones := []models.GeoZone{
		{Id: 1, Name: "himalayan belt", MinLat: 10_000_000, MaxLat: 20_000_000,
			MinLon: 70_000_000, MaxLon: 80_000_000, IsActive: true},
		{Id: 2, Name: "archived", MinLat: 0, MaxLat: 1_000_000,
			MinLon: 0, MaxLon: 1_000_000, IsActive: false},
	}

	fc := ZonesToGeoJSON(zones)
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	first := fc.Features[0]
	if !first.Geometry.IsPolygon() {
		t.Fatalf("expected polygon geometry, got %s", first.Geometry.Type)
	}
	ring := first.Geometry.Polygon[0]
	if len(ring) != 5 {
		t.Fatalf("expected closed 5-point ring, got %d points", len(ring))
	}
	// GeoJSON positions are [lon, lat] in degrees.
	if ring[0][0] != 70.0 || ring[0][1] != 10.0 {
		t.Errorf("unexpected first ring position: %v", ring[0])
	}
	if ring[0][0] != ring[4][0] || ring[0][1] != ring[4][1] {
		t.Error("ring not closed")
	}

	name, err := first.PropertyString("name")
	if err != nil || name != "himalayan belt" {
		t.Errorf("name property = %q, err %v", name, err)
	}

	// The collection must serialize cleanly for map clients.
	if _, err := json.Marshal(fc); err != nil {
		t.Errorf("FeatureCollection does not marshal: %v", err)
	}
}

func TestZonesToGeoJSONEmpty(t *testing.T) {
	fc := ZonesToGeoJSON(nil)
	if len(fc.Features) != 0 {
		t.Errorf("expected empty collection, got %d features", len(fc.Features))
	}
}
