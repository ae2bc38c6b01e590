package geofence

import (
	"strings"
	"sync"

	"herbtrace-service/events"
	"herbtrace-service/models"

	"github.com/apex/log"
)

// Journal persists zone mutations. A journal write failure fails the whole
// operation before any in-memory state changes, so the registry and its
// durable copy never diverge.
type Journal interface {
	SaveZone(zone models.GeoZone) error
	UpdateZoneActive(zoneId uint64, isActive bool) error
	UpdateZoneCoordinates(zone models.GeoZone) error
	SaveAuthority(identity string) error
}

// Registry is the authoritative source of truth for geo zones. A single
// authority identity may mutate it; everything else is read-only. All
// mutations are all-or-nothing under one write lock.
type Registry struct {
	mutex     sync.RWMutex
	zones     map[uint64]models.GeoZone
	zoneCount uint64
	authority string

	journal Journal          // optional
	pub     events.Publisher // optional
}

// NewRegistry creates a registry with the given initial authority.
// Journal and publisher may be nil.
func NewRegistry(authority string, journal Journal, pub events.Publisher) *Registry {
	return &Registry{
		zones:     make(map[uint64]models.GeoZone),
		authority: authority,
		journal:   journal,
		pub:       pub,
	}
}

// Restore replaces the registry contents with previously persisted state.
// Used once at startup, before the registry is shared.
func (r *Registry) Restore(zones []models.GeoZone, authority string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.zones = make(map[uint64]models.GeoZone, len(zones))
	r.zoneCount = 0
	for _, z := range zones {
		r.zones[z.Id] = z
		if z.Id > r.zoneCount {
			r.zoneCount = z.Id
		}
	}
	if authority != "" {
		r.authority = authority
	}
	log.Infof("Restored %d zones, authority %s", len(zones), r.authority)
}

// RegisterZone creates a new active zone and returns its id. Ids are
// assigned sequentially starting at 1 and never reused.
func (r *Registry) RegisterZone(caller, name string, minLat, maxLat, minLon, maxLon int64) (uint64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if caller != r.authority {
		return 0, ErrUnauthorized
	}
	if minLat >= maxLat || minLon >= maxLon {
		return 0, ErrInvalidCoordinates
	}

	zone := models.GeoZone{
		Id:       r.zoneCount + 1,
		Name:     name,
		MinLat:   minLat,
		MaxLat:   maxLat,
		MinLon:   minLon,
		MaxLon:   maxLon,
		IsActive: true,
	}

	if r.journal != nil {
		if err := r.journal.SaveZone(zone); err != nil {
			log.Errorf("Failed to journal zone %d: %v", zone.Id, err)
			return 0, err
		}
	}

	r.zones[zone.Id] = zone
	r.zoneCount = zone.Id

	if r.pub != nil {
		r.pub.Publish(events.TypeZoneRegistered, events.ZoneRegistered{
			ZoneId: zone.Id,
			MinLat: minLat,
			MaxLat: maxLat,
			MinLon: minLon,
			MaxLon: maxLon,
		})
	}
	log.Infof("Registered zone %d (%s)", zone.Id, name)
	return zone.Id, nil
}

// SetZoneActive toggles a zone in or out of validation. The zone itself is
// retained either way.
func (r *Registry) SetZoneActive(caller string, zoneId uint64, isActive bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if caller != r.authority {
		return ErrUnauthorized
	}
	if zoneId == 0 || zoneId > r.zoneCount {
		return ErrInvalidZoneId
	}

	if r.journal != nil {
		if err := r.journal.UpdateZoneActive(zoneId, isActive); err != nil {
			log.Errorf("Failed to journal zone %d status: %v", zoneId, err)
			return err
		}
	}

	zone := r.zones[zoneId]
	zone.IsActive = isActive
	r.zones[zoneId] = zone

	if r.pub != nil {
		r.pub.Publish(events.TypeZoneUpdated, events.ZoneUpdated{
			ZoneId:   zoneId,
			IsActive: isActive,
		})
	}
	log.Infof("Zone %d active=%v", zoneId, isActive)
	return nil
}

// UpdateZoneCoordinates replaces a zone's bounding box in place, leaving its
// active flag untouched.
func (r *Registry) UpdateZoneCoordinates(caller string, zoneId uint64, minLat, maxLat, minLon, maxLon int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if caller != r.authority {
		return ErrUnauthorized
	}
	if zoneId == 0 || zoneId > r.zoneCount {
		return ErrInvalidZoneId
	}
	if minLat >= maxLat || minLon >= maxLon {
		return ErrInvalidCoordinates
	}

	zone := r.zones[zoneId]
	zone.MinLat = minLat
	zone.MaxLat = maxLat
	zone.MinLon = minLon
	zone.MaxLon = maxLon

	if r.journal != nil {
		if err := r.journal.UpdateZoneCoordinates(zone); err != nil {
			log.Errorf("Failed to journal zone %d coordinates: %v", zoneId, err)
			return err
		}
	}

	r.zones[zoneId] = zone

	if r.pub != nil {
		r.pub.Publish(events.TypeZoneUpdated, events.ZoneUpdated{
			ZoneId:   zoneId,
			IsActive: zone.IsActive,
		})
	}
	log.Infof("Updated coordinates of zone %d", zoneId)
	return nil
}

// TransferAuthority hands the mutation privilege to a new identity.
func (r *Registry) TransferAuthority(caller, newAuthority string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if caller != r.authority {
		return ErrUnauthorized
	}
	if strings.TrimSpace(newAuthority) == "" {
		return ErrInvalidAuthority
	}

	if r.journal != nil {
		if err := r.journal.SaveAuthority(newAuthority); err != nil {
			log.Errorf("Failed to journal authority transfer: %v", err)
			return err
		}
	}

	old := r.authority
	r.authority = newAuthority

	if r.pub != nil {
		r.pub.Publish(events.TypeAuthorityTransferred, events.AuthorityTransferred{
			OldAuthority: old,
			NewAuthority: newAuthority,
		})
	}
	log.Infof("Authority transferred from %s to %s", old, newAuthority)
	return nil
}

// GetZone returns the zone for the id, or the zero value when absent. This
// permissive behavior is kept from the original system; use LookupZone when
// absence must be distinguished.
func (r *Registry) GetZone(zoneId uint64) models.GeoZone {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.zones[zoneId]
}

// LookupZone is the strict accessor: unknown ids return ErrZoneNotFound.
func (r *Registry) LookupZone(zoneId uint64) (models.GeoZone, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	zone, ok := r.zones[zoneId]
	if !ok {
		return models.GeoZone{}, ErrZoneNotFound
	}
	return zone, nil
}

// ZoneCount returns the number of zones ever registered.
func (r *Registry) ZoneCount() uint64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.zoneCount
}

// Zones returns a snapshot of all zones in ascending id order.
func (r *Registry) Zones() []models.GeoZone {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	zones := make([]models.GeoZone, 0, len(r.zones))
	for id := uint64(1); id <= r.zoneCount; id++ {
		if zone, ok := r.zones[id]; ok {
			zones = append(zones, zone)
		}
	}
	return zones
}

// Authority returns the current authority identity.
func (r *Registry) Authority() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.authority
}
