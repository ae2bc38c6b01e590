package utils

import (
	geojson "github.com/paulmach/go.geojson"

	"herbtrace-service/models"
)

// ZonesToGeoJSON renders zones as a FeatureCollection of bounding-box
// polygons for map clients. GeoJSON rings are [lon, lat] in degrees.
func ZonesToGeoJSON(zones []models.GeoZone) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range zones {
		fc.AddFeature(zoneToFeature(&zones[i]))
	}
	return fc
}

func zoneToFeature(zone *models.GeoZone) *geojson.Feature {
	minLat := float64(zone.MinLat) / models.MicrodegreesPerDegree
	maxLat := float64(zone.MaxLat) / models.MicrodegreesPerDegree
	minLon := float64(zone.MinLon) / models.MicrodegreesPerDegree
	maxLon := float64(zone.MaxLon) / models.MicrodegreesPerDegree

	ring := [][]float64{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}

	feature := geojson.NewPolygonFeature([][][]float64{ring})
	feature.SetProperty("zone_id", zone.Id)
	feature.SetProperty("name", zone.Name)
	feature.SetProperty("is_active", zone.IsActive)
	return feature
}
