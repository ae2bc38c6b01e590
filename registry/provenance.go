package registry

import (
	"herbtrace-service/models"
)

// HerbLookup is the strict record accessor of the herb ledger.
type HerbLookup interface {
	LookupRecord(recordId uint64) (models.HerbRecord, error)
}

// Provenance is the read-only aggregator over the traceability ledgers: it
// joins a processing event with the farmer who recorded it, the herb record
// it processed and every lab result attached to it. It holds no state of
// its own.
type Provenance struct {
	processing *Processing
	farmers    *Farmers
	herbs      HerbLookup
	lab        *Lab
}

// NewProvenance wires the aggregator over the live ledgers.
func NewProvenance(processing *Processing, farmers *Farmers, herbs HerbLookup, lab *Lab) *Provenance {
	return &Provenance{
		processing: processing,
		farmers:    farmers,
		herbs:      herbs,
		lab:        lab,
	}
}

// Trace assembles the provenance view for a processing event.
func (p *Provenance) Trace(eventId uint64) (models.Provenance, error) {
	event, err := p.processing.Get(eventId)
	if err != nil {
		return models.Provenance{}, err
	}

	farmer, err := p.farmers.Get(event.FarmerId)
	if err != nil {
		return models.Provenance{}, err
	}

	record, err := p.herbs.LookupRecord(event.HerbRecordId)
	if err != nil {
		return models.Provenance{}, err
	}

	return models.Provenance{
		ProcessingEvent: event,
		Farmer:          farmer,
		HerbRecord:      record,
		LabResults:      p.lab.ListByEvent(eventId),
	}, nil
}
