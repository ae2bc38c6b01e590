package ledger

import (
	"herbtrace-service/models"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// MapResult is one aggregated cluster of record locations for a map client.
type MapResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}

type aggrUnit struct {
	cnt      int64
	origCell s2.CellID
}

// MapAggregator buckets record locations into s2 cells sized to the
// viewport, so a map client gets roughly expectedCells clusters.
type MapAggregator struct {
	level int
	aggrs map[s2.CellID]*aggrUnit
}

const (
	expectedCells = 160
	minLevel      = 6
	maxLevel      = 16
)

func cellBaseLevel(vp *models.ViewPort, center *models.Point) int {
	minLL := s2.LatLngFromDegrees(vp.LatMin, vp.LonMin)
	maxLL := s2.LatLngFromDegrees(vp.LatMax, vp.LonMax)

	rect := s2.Rect{
		Lat: r1.Interval{
			Lo: minLL.Lat.Radians(),
			Hi: maxLL.Lat.Radians()},
		Lng: s1.Interval{
			Lo: minLL.Lng.Radians(),
			Hi: maxLL.Lng.Radians()},
	}

	vpArea := rect.Area()

	centerLL := s2.CellIDFromLatLng(s2.LatLngFromDegrees(center.Lat, center.Lon))

	for lv := maxLevel; lv >= minLevel; lv-- {
		cc := s2.CellFromCellID(centerLL.Parent(lv))
		if vpArea/cc.ApproxArea() < expectedCells {
			return lv
		}
	}
	return minLevel // Large enough level
}

// NewMapAggregator sizes the aggregation cells for the given viewport and
// map center.
func NewMapAggregator(vp *models.ViewPort, center *models.Point) MapAggregator {
	lv := cellBaseLevel(vp, center)
	return MapAggregator{
		level: lv,
		aggrs: make(map[s2.CellID]*aggrUnit),
	}
}

// AddRecord adds one herb record's microdegree location to the aggregation.
func (a *MapAggregator) AddRecord(record *models.HerbRecord) {
	lat := float64(record.Latitude) / models.MicrodegreesPerDegree
	lon := float64(record.Longitude) / models.MicrodegreesPerDegree
	a.addPoint(lat, lon)
}

func (a *MapAggregator) addPoint(lat, lon float64) {
	pc := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon))
	parent := pc.Parent(a.level)
	if _, ok := a.aggrs[parent]; !ok {
		a.aggrs[parent] = &aggrUnit{}
	}
	a.aggrs[parent].cnt += 1
	a.aggrs[parent].origCell = pc
}

// ToArray flattens the aggregation. Single-record cells report the record's
// own location, multi-record cells report the cell center.
func (a *MapAggregator) ToArray() []MapResult {
	r := make([]MapResult, 0, len(a.aggrs))
	for c, unit := range a.aggrs {
		ll := c.LatLng()
		if unit.cnt == 1 {
			ll = unit.origCell.LatLng()
		}
		r = append(r, MapResult{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Count:     unit.cnt,
		})
	}
	return r
}

// AggregateRecords buckets the records that fall inside the viewport.
func AggregateRecords(records []models.HerbRecord, vp *models.ViewPort, center *models.Point) []MapResult {
	a := NewMapAggregator(vp, center)
	for i := range records {
		lat := float64(records[i].Latitude) / models.MicrodegreesPerDegree
		lon := float64(records[i].Longitude) / models.MicrodegreesPerDegree
		if lat < vp.LatMin || lat > vp.LatMax || lon < vp.LonMin || lon > vp.LonMax {
			continue
		}
		a.AddRecord(&records[i])
	}
	return a.ToArray()
}
