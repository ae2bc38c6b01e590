package ledger

import (
	"errors"
	"strings"
	"sync"
	"time"

	"herbtrace-service/events"
	"herbtrace-service/models"

	"github.com/apex/log"
)

var (
	// ErrEmptyHerbName is returned when a submission carries no herb name.
	ErrEmptyHerbName = errors.New("herb name must not be empty")

	// ErrLocationOutOfBounds is returned when a submission point matched no
	// active zone.
	ErrLocationOutOfBounds = errors.New("location is outside all active zones")

	// ErrRecordNotFound is returned by the strict lookup for unknown records.
	ErrRecordNotFound = errors.New("herb record not found")
)

// Validator gates submissions by location. Implemented by geofence.Registry.
type Validator interface {
	Validate(lat, lon int64) (bool, uint64)
}

// Journal persists accepted records. A journal failure rejects the
// submission before any in-memory state changes.
type Journal interface {
	SaveHerbRecord(record models.HerbRecord) error
}

// Ledger is the append-only store of herb submissions. Records are
// immutable once accepted and ids are assigned sequentially from 1.
type Ledger struct {
	mutex       sync.RWMutex
	records     map[uint64]models.HerbRecord
	recordCount uint64

	validator Validator
	journal   Journal          // optional
	pub       events.Publisher // optional
}

// NewLedger creates a ledger gated by the given validator. Journal and
// publisher may be nil.
func NewLedger(validator Validator, journal Journal, pub events.Publisher) *Ledger {
	return &Ledger{
		records:   make(map[uint64]models.HerbRecord),
		validator: validator,
		journal:   journal,
		pub:       pub,
	}
}

// Restore replaces the ledger contents with previously persisted records.
// Used once at startup, before the ledger is shared.
func (l *Ledger) Restore(records []models.HerbRecord) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.records = make(map[uint64]models.HerbRecord, len(records))
	l.recordCount = 0
	for _, rec := range records {
		l.records[rec.Id] = rec
		if rec.Id > l.recordCount {
			l.recordCount = rec.Id
		}
	}
	log.Infof("Restored %d herb records", len(records))
}

// Submit validates the submission point against the zone registry and, on a
// match, stores a new record. It returns the record id and the id of the
// zone that matched; the zone id is reported but never stored with the
// record.
func (l *Ledger) Submit(caller string, req *models.SubmitRecordRequest) (uint64, uint64, error) {
	if strings.TrimSpace(req.HerbName) == "" {
		return 0, 0, ErrEmptyHerbName
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	// Read-only call into the registry; the registry lock is independent of
	// the ledger lock, so ordering cannot deadlock.
	matched, zoneId := l.validator.Validate(req.Latitude, req.Longitude)
	if !matched {
		return 0, 0, ErrLocationOutOfBounds
	}

	record := models.HerbRecord{
		Id:             l.recordCount + 1,
		HerbName:       req.HerbName,
		ScientificName: req.ScientificName,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Quantity:       req.Quantity,
		SubmittedBy:    caller,
		SubmittedAt:    time.Now().UTC(),
		ImageHash:      req.ImageHash,
	}

	if l.journal != nil {
		if err := l.journal.SaveHerbRecord(record); err != nil {
			log.Errorf("Failed to journal herb record %d: %v", record.Id, err)
			return 0, 0, err
		}
	}

	l.records[record.Id] = record
	l.recordCount = record.Id

	if l.pub != nil {
		l.pub.Publish(events.TypeHerbRecordAdded, events.HerbRecordAdded{
			RecordId:      record.Id,
			HerbName:      record.HerbName,
			Latitude:      record.Latitude,
			Longitude:     record.Longitude,
			SubmittedBy:   record.SubmittedBy,
			MatchedZoneId: zoneId,
		})
	}
	log.Infof("Stored herb record %d (%s) from %s in zone %d",
		record.Id, record.HerbName, record.SubmittedBy, zoneId)
	return record.Id, zoneId, nil
}

// GetRecord returns the record for the id, or the zero value when absent.
// Permissive behavior kept from the original system; use LookupRecord when
// absence must be distinguished.
func (l *Ledger) GetRecord(recordId uint64) models.HerbRecord {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.records[recordId]
}

// LookupRecord is the strict accessor: unknown ids return ErrRecordNotFound.
func (l *Ledger) LookupRecord(recordId uint64) (models.HerbRecord, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	record, ok := l.records[recordId]
	if !ok {
		return models.HerbRecord{}, ErrRecordNotFound
	}
	return record, nil
}

// RecordCount returns the number of records ever stored.
func (l *Ledger) RecordCount() uint64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.recordCount
}

// Records returns a snapshot of all records in ascending id order.
func (l *Ledger) Records() []models.HerbRecord {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	records := make([]models.HerbRecord, 0, len(l.records))
	for id := uint64(1); id <= l.recordCount; id++ {
		if record, ok := l.records[id]; ok {
			records = append(records, record)
		}
	}
	return records
}

// Exists reports whether a record id has been assigned.
func (l *Ledger) Exists(recordId uint64) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	_, ok := l.records[recordId]
	return ok
}
