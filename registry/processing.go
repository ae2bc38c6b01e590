package registry

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"herbtrace-service/events"
	"herbtrace-service/models"
	"herbtrace-service/store"

	"github.com/apex/log"
)

// HerbRecords is the slice of the herb ledger the processing ledger needs:
// an existence check for referenced records.
type HerbRecords interface {
	Exists(recordId uint64) bool
}

// Processing is the ledger of processing steps. Events are recorded by
// registered farmers against existing herb records and indexed per farmer
// in insertion order.
type Processing struct {
	mutex   sync.Mutex
	records *store.Store[models.ProcessingEvent]
	count   uint64

	farmers *Farmers
	herbs   HerbRecords
	pub     events.Publisher // optional
}

// NewProcessing creates an empty processing ledger.
func NewProcessing(farmers *Farmers, herbs HerbRecords, pub events.Publisher) *Processing {
	return &Processing{
		records: store.New[models.ProcessingEvent](),
		farmers: farmers,
		herbs:   herbs,
		pub:     pub,
	}
}

func farmerGroup(farmerId uint64) string {
	return strconv.FormatUint(farmerId, 10)
}

// Add records a processing step. The caller must be a registered farmer and
// the herb record must exist.
func (p *Processing) Add(identity string, herbRecordId uint64, stepName, details string) (uint64, error) {
	if strings.TrimSpace(stepName) == "" {
		return 0, ErrEmptyField
	}

	farmer, err := p.farmers.ByIdentity(identity)
	if err != nil {
		return 0, err
	}
	if !p.herbs.Exists(herbRecordId) {
		return 0, ErrHerbRecordNotFound
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	event := models.ProcessingEvent{
		Id:           p.count + 1,
		HerbRecordId: herbRecordId,
		FarmerId:     farmer.Id,
		StepName:     stepName,
		Details:      details,
		RecordedAt:   time.Now().UTC(),
	}
	p.records.InsertIfAbsent(event.Id, event)
	p.records.AppendToGroup(farmerGroup(farmer.Id), event.Id)
	p.count = event.Id

	if p.pub != nil {
		p.pub.Publish(events.TypeProcessingEventAdded, events.ProcessingEventAdded{
			EventId:      event.Id,
			HerbRecordId: herbRecordId,
			FarmerId:     farmer.Id,
		})
	}
	log.Infof("Recorded processing event %d (%s) by farmer %d on record %d",
		event.Id, stepName, farmer.Id, herbRecordId)
	return event.Id, nil
}

// Get returns the processing event for the id.
func (p *Processing) Get(eventId uint64) (models.ProcessingEvent, error) {
	event, ok := p.records.Get(eventId)
	if !ok {
		return models.ProcessingEvent{}, ErrEventNotFound
	}
	return event, nil
}

// Exists reports whether a processing event id has been assigned.
func (p *Processing) Exists(eventId uint64) bool {
	return p.records.Exists(eventId)
}

// Count returns the number of recorded events.
func (p *Processing) Count() uint64 {
	return p.records.Count()
}

// ListByFarmer returns a farmer's events in the order they were recorded.
func (p *Processing) ListByFarmer(farmerId uint64) ([]models.ProcessingEvent, error) {
	if !p.farmers.records.Exists(farmerId) {
		return nil, ErrFarmerNotFound
	}

	keys := p.records.ListByGroup(farmerGroup(farmerId))
	result := make([]models.ProcessingEvent, 0, len(keys))
	for _, key := range keys {
		if event, ok := p.records.Get(key); ok {
			result = append(result, event)
		}
	}
	return result, nil
}
