package utils

import (
	"fmt"
	"strings"

	"herbtrace-service/models"
)

// WKT builders for the MySQL spatial index. SRID 4326 axis order is
// latitude first, matching the rest of the backend.

func PointToWKT(lat, lon float64) string {
	return fmt.Sprintf("POINT(%g %g)", lat, lon)
}

// ZoneToWKT renders a zone's bounding box as a closed WKT polygon ring,
// converting microdegrees to degrees.
func ZoneToWKT(zone *models.GeoZone) string {
	minLat := float64(zone.MinLat) / models.MicrodegreesPerDegree
	maxLat := float64(zone.MaxLat) / models.MicrodegreesPerDegree
	minLon := float64(zone.MinLon) / models.MicrodegreesPerDegree
	maxLon := float64(zone.MaxLon) / models.MicrodegreesPerDegree

	ring := [][2]float64{
		{minLat, minLon},
		{minLat, maxLon},
		{maxLat, maxLon},
		{maxLat, minLon},
		{minLat, minLon},
	}

	pairs := make([]string, len(ring))
	for i, p := range ring {
		pairs[i] = fmt.Sprintf("%g %g", p[0], p[1])
	}
	return fmt.Sprintf("POLYGON((%s))", strings.Join(pairs, ","))
}
