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

// Lab is the ledger of lab test results, each attached to an existing
// processing event and indexed per event in insertion order.
type Lab struct {
	mutex   sync.Mutex
	records *store.Store[models.LabResult]
	count   uint64

	processing *Processing
	pub        events.Publisher // optional
}

// NewLab creates an empty lab ledger.
func NewLab(processing *Processing, pub events.Publisher) *Lab {
	return &Lab{
		records:    store.New[models.LabResult](),
		processing: processing,
		pub:        pub,
	}
}

func eventGroup(eventId uint64) string {
	return strconv.FormatUint(eventId, 10)
}

// Add records a lab result against an existing processing event.
func (l *Lab) Add(identity string, processingEventId uint64, testName string, passed bool, reportHash string) (uint64, error) {
	if strings.TrimSpace(testName) == "" {
		return 0, ErrEmptyField
	}
	if !l.processing.Exists(processingEventId) {
		return 0, ErrEventNotFound
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	result := models.LabResult{
		Id:                l.count + 1,
		ProcessingEventId: processingEventId,
		TestName:          testName,
		Passed:            passed,
		ReportHash:        reportHash,
		TestedBy:          identity,
		TestedAt:          time.Now().UTC(),
	}
	l.records.InsertIfAbsent(result.Id, result)
	l.records.AppendToGroup(eventGroup(processingEventId), result.Id)
	l.count = result.Id

	if l.pub != nil {
		l.pub.Publish(events.TypeLabResultAdded, events.LabResultAdded{
			LabResultId:       result.Id,
			ProcessingEventId: processingEventId,
			Passed:            passed,
		})
	}
	log.Infof("Recorded lab result %d (%s, passed=%v) for event %d",
		result.Id, testName, passed, processingEventId)
	return result.Id, nil
}

// Get returns the lab result for the id.
func (l *Lab) Get(resultId uint64) (models.LabResult, error) {
	result, ok := l.records.Get(resultId)
	if !ok {
		return models.LabResult{}, ErrLabResultNotFound
	}
	return result, nil
}

// Count returns the number of recorded results.
func (l *Lab) Count() uint64 {
	return l.records.Count()
}

// ListByEvent returns a processing event's lab results in the order they
// were recorded.
func (l *Lab) ListByEvent(eventId uint64) []models.LabResult {
	keys := l.records.ListByGroup(eventGroup(eventId))
	results := make([]models.LabResult, 0, len(keys))
	for _, key := range keys {
		if result, ok := l.records.Get(key); ok {
			results = append(results, result)
		}
	}
	return results
}
