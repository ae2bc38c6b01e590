package geofence

// Validate tests a microdegree point against all registered zones, scanning
// by ascending id so that overlaps always resolve to the lowest-id active
// zone. Inactive zones are skipped; bounds are inclusive on all four edges.
// Returns (false, 0) when no active zone contains the point.
//
// The scan is O(zoneCount), which is fine at the low hundreds of zones this
// service is built for.
func (r *Registry) Validate(lat, lon int64) (bool, uint64) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for id := uint64(1); id <= r.zoneCount; id++ {
		zone, ok := r.zones[id]
		if !ok || !zone.IsActive {
			continue
		}
		if zone.Contains(lat, lon) {
			return true, id
		}
	}
	return false, 0
}
