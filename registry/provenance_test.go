package registry

import (
	"errors"
	"testing"

	"herbtrace-service/models"
)

// herbLookupStub stands in for the herb ledger's strict accessor.
type herbLookupStub struct {
	records map[uint64]models.HerbRecord
}

func (h herbLookupStub) Exists(recordId uint64) bool {
	_, ok := h.records[recordId]
	return ok
}

func (h herbLookupStub) LookupRecord(recordId uint64) (models.HerbRecord, error) {
	record, ok := h.records[recordId]
	if !ok {
		return models.HerbRecord{}, errors.New("herb record not found")
	}
	return record, nil
}

func TestProvenanceTrace(t *testing.T) {
	herbs := herbLookupStub{records: map[uint64]models.HerbRecord{
		1: {Id: 1, HerbName: "ashwagandha", SubmittedBy: "0xfarmer1"},
	}}

	farmers := NewFarmers(nil)
	processing := NewProcessing(farmers, herbs, nil)
	lab := NewLab(processing, nil)
	provenance := NewProvenance(processing, farmers, herbs, lab)

	if _, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand"); err != nil {
		t.Fatal(err)
	}
	eventId, err := processing.Add("0xfarmer1", 1, "drying", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lab.Add("0xlab1", eventId, "moisture", true, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := lab.Add("0xlab1", eventId, "pesticides", false, ""); err != nil {
		t.Fatal(err)
	}

	trace, err := provenance.Trace(eventId)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if trace.ProcessingEvent.Id != eventId {
		t.Errorf("wrong event: %+v", trace.ProcessingEvent)
	}
	if trace.Farmer.Name != "Asha" {
		t.Errorf("wrong farmer: %+v", trace.Farmer)
	}
	if trace.HerbRecord.HerbName != "ashwagandha" {
		t.Errorf("wrong herb record: %+v", trace.HerbRecord)
	}
	if len(trace.LabResults) != 2 {
		t.Fatalf("expected 2 lab results, got %d", len(trace.LabResults))
	}
	if trace.LabResults[0].TestName != "moisture" || trace.LabResults[1].TestName != "pesticides" {
		t.Errorf("lab results out of order: %+v", trace.LabResults)
	}
}

func TestProvenanceUnknownEvent(t *testing.T) {
	herbs := herbLookupStub{records: map[uint64]models.HerbRecord{}}
	farmers := NewFarmers(nil)
	processing := NewProcessing(farmers, herbs, nil)
	lab := NewLab(processing, nil)
	provenance := NewProvenance(processing, farmers, herbs, lab)

	if _, err := provenance.Trace(42); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}
