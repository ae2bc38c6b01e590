package registry

import (
	"strings"
	"sync"
	"time"

	"herbtrace-service/events"
	"herbtrace-service/models"
	"herbtrace-service/store"

	"github.com/apex/log"
)

// Farmers is the registry of producer identities. One farmer per caller
// identity, ids sequential from 1, records immutable once created.
type Farmers struct {
	mutex      sync.RWMutex
	records    *store.Store[models.Farmer]
	byIdentity map[string]uint64
	count      uint64

	pub events.Publisher // optional
}

// NewFarmers creates an empty farmer registry.
func NewFarmers(pub events.Publisher) *Farmers {
	return &Farmers{
		records:    store.New[models.Farmer](),
		byIdentity: make(map[string]uint64),
		pub:        pub,
	}
}

// Register creates a farmer for the caller identity and returns its id.
func (f *Farmers) Register(identity, name, location string) (uint64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyField
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.byIdentity[identity]; ok {
		return 0, ErrAlreadyRegistered
	}

	farmer := models.Farmer{
		Id:           f.count + 1,
		Identity:     identity,
		Name:         name,
		Location:     location,
		RegisteredAt: time.Now().UTC(),
	}
	f.records.InsertIfAbsent(farmer.Id, farmer)
	f.byIdentity[identity] = farmer.Id
	f.count = farmer.Id

	if f.pub != nil {
		f.pub.Publish(events.TypeFarmerRegistered, events.FarmerRegistered{
			FarmerId: farmer.Id,
			Identity: identity,
		})
	}
	log.Infof("Registered farmer %d (%s)", farmer.Id, name)
	return farmer.Id, nil
}

// Get returns the farmer for the id.
func (f *Farmers) Get(farmerId uint64) (models.Farmer, error) {
	farmer, ok := f.records.Get(farmerId)
	if !ok {
		return models.Farmer{}, ErrFarmerNotFound
	}
	return farmer, nil
}

// ByIdentity returns the farmer registered under the caller identity.
func (f *Farmers) ByIdentity(identity string) (models.Farmer, error) {
	f.mutex.RLock()
	farmerId, ok := f.byIdentity[identity]
	f.mutex.RUnlock()
	if !ok {
		return models.Farmer{}, ErrFarmerNotFound
	}
	return f.Get(farmerId)
}

// Count returns the number of registered farmers.
func (f *Farmers) Count() uint64 {
	return f.records.Count()
}

// List returns all farmers in registration order.
func (f *Farmers) List() []models.Farmer {
	count := f.records.Count()
	farmers := make([]models.Farmer, 0, count)
	for i := uint64(0); i < count; i++ {
		key, err := f.records.KeyAt(i)
		if err != nil {
			break
		}
		if farmer, ok := f.records.Get(key); ok {
			farmers = append(farmers, farmer)
		}
	}
	return farmers
}
