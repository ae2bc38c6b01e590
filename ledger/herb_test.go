package ledger

import (
	"errors"
	"testing"
	"time"

	"herbtrace-service/events"
	"herbtrace-service/geofence"
	"herbtrace-service/models"
)

const (
	authority = "0xauthority"
	submitter = "0xfarmer1"
)

func newGatedLedger(t *testing.T) (*Ledger, *geofence.Registry) {
	t.Helper()
	zones := geofence.NewRegistry(authority, nil, nil)
	// Scenario zone: lat 10..20, lon 70..80 degrees, in microdegrees.
	if _, err := zones.RegisterZone(authority, "himalayan belt",
		10_000_000, 20_000_000, 70_000_000, 80_000_000); err != nil {
		t.Fatalf("RegisterZone failed: %v", err)
	}
	return NewLedger(zones, nil, nil), zones
}

func submitReq(lat, lon int64) *models.SubmitRecordRequest {
	return &models.SubmitRecordRequest{
		Version:        "2.0",
		HerbName:       "ashwagandha",
		ScientificName: "Withania somnifera",
		Latitude:       lat,
		Longitude:      lon,
		Quantity:       500,
		ImageHash:      "QmTestHash",
	}
}

func TestSubmitInsideZone(t *testing.T) {
	l, _ := newGatedLedger(t)

	before := time.Now().UTC()
	recordId, zoneId, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if recordId != 1 {
		t.Errorf("expected record id 1, got %d", recordId)
	}
	if zoneId != 1 {
		t.Errorf("expected matched zone 1, got %d", zoneId)
	}
	if l.RecordCount() != 1 {
		t.Errorf("expected record count 1, got %d", l.RecordCount())
	}

	record, err := l.LookupRecord(1)
	if err != nil {
		t.Fatalf("LookupRecord failed: %v", err)
	}
	if record.SubmittedBy != submitter {
		t.Errorf("submitter not recorded: %s", record.SubmittedBy)
	}
	if record.SubmittedAt.Before(before) {
		t.Errorf("submission time not set: %v", record.SubmittedAt)
	}
	if record.HerbName != "ashwagandha" || record.Quantity != 500 {
		t.Errorf("record fields lost: %+v", record)
	}
}

func TestSubmitOutsideZone(t *testing.T) {
	l, _ := newGatedLedger(t)

	_, _, err := l.Submit(submitter, submitReq(5_000_000, 75_000_000))
	if !errors.Is(err, ErrLocationOutOfBounds) {
		t.Fatalf("expected ErrLocationOutOfBounds, got %v", err)
	}
	if l.RecordCount() != 0 {
		t.Errorf("record counter changed on rejected submission: %d", l.RecordCount())
	}
}

func TestSubmitEmptyHerbName(t *testing.T) {
	l, _ := newGatedLedger(t)

	for _, name := range []string{"", "   "} {
		req := submitReq(15_000_000, 75_000_000)
		req.HerbName = name
		if _, _, err := l.Submit(submitter, req); !errors.Is(err, ErrEmptyHerbName) {
			t.Errorf("herb name %q: expected ErrEmptyHerbName, got %v", name, err)
		}
	}
	if l.RecordCount() != 0 {
		t.Errorf("record counter changed on rejected submission: %d", l.RecordCount())
	}
}

func TestSubmitAfterZoneDeactivation(t *testing.T) {
	l, zones := newGatedLedger(t)

	if _, _, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := zones.SetZoneActive(authority, 1, false); err != nil {
		t.Fatalf("SetZoneActive failed: %v", err)
	}
	if _, _, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000)); !errors.Is(err, ErrLocationOutOfBounds) {
		t.Fatalf("expected ErrLocationOutOfBounds after deactivation, got %v", err)
	}

	// The record accepted earlier stays.
	if l.RecordCount() != 1 {
		t.Errorf("expected record count 1, got %d", l.RecordCount())
	}
}

func TestRecordIdsMonotonic(t *testing.T) {
	l, _ := newGatedLedger(t)

	for i := 1; i <= 4; i++ {
		recordId, _, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000))
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if recordId != uint64(i) {
			t.Errorf("expected record id %d, got %d", i, recordId)
		}
	}
}

func TestGetRecordPermissiveAndLookupStrict(t *testing.T) {
	l, _ := newGatedLedger(t)

	record := l.GetRecord(42)
	if record.Id != 0 || record.HerbName != "" {
		t.Errorf("expected zero value for unknown record, got %+v", record)
	}
	if _, err := l.LookupRecord(42); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMatchedZoneIdNotStored(t *testing.T) {
	l, _ := newGatedLedger(t)

	_, zoneId, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if zoneId != 1 {
		t.Fatalf("expected matched zone 1, got %d", zoneId)
	}

	// The stored record carries coordinates and metadata only.
	records := l.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

// failingJournal rejects every write.
type failingJournal struct{}

var errJournal = errors.New("journal down")

func (failingJournal) SaveHerbRecord(models.HerbRecord) error { return errJournal }

func TestSubmitJournalFailure(t *testing.T) {
	zones := geofence.NewRegistry(authority, nil, nil)
	if _, err := zones.RegisterZone(authority, "zone",
		10_000_000, 20_000_000, 70_000_000, 80_000_000); err != nil {
		t.Fatal(err)
	}
	l := NewLedger(zones, failingJournal{}, nil)

	if _, _, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000)); !errors.Is(err, errJournal) {
		t.Fatalf("expected journal error, got %v", err)
	}
	if l.RecordCount() != 0 {
		t.Errorf("record committed despite journal failure: %d", l.RecordCount())
	}
}

// capturingPublisher records every published event for inspection.
type capturingPublisher struct {
	types    []string
	payloads []any
}

func (p *capturingPublisher) Publish(eventType string, data any) {
	p.types = append(p.types, eventType)
	p.payloads = append(p.payloads, data)
}

func TestSubmitPublishesRecordAddedEvent(t *testing.T) {
	pub := &capturingPublisher{}
	zones := geofence.NewRegistry(authority, nil, nil)
	if _, err := zones.RegisterZone(authority, "zone",
		10_000_000, 20_000_000, 70_000_000, 80_000_000); err != nil {
		t.Fatal(err)
	}
	l := NewLedger(zones, nil, pub)

	recordId, zoneId, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(pub.types) != 1 || pub.types[0] != events.TypeHerbRecordAdded {
		t.Fatalf("expected one %s event, got %v", events.TypeHerbRecordAdded, pub.types)
	}
	added, ok := pub.payloads[0].(events.HerbRecordAdded)
	if !ok {
		t.Fatalf("unexpected payload type: %T", pub.payloads[0])
	}
	if added.RecordId != recordId || added.HerbName != "ashwagandha" ||
		added.Latitude != 15_000_000 || added.Longitude != 75_000_000 ||
		added.SubmittedBy != submitter {
		t.Errorf("event payload wrong: %+v", added)
	}
	// The matched zone travels on the event even though the stored record
	// does not carry it.
	if added.MatchedZoneId != zoneId {
		t.Errorf("expected matched zone %d on event, got %d", zoneId, added.MatchedZoneId)
	}
}

func TestNoEventOnRejectedSubmission(t *testing.T) {
	pub := &capturingPublisher{}
	zones := geofence.NewRegistry(authority, nil, nil)
	if _, err := zones.RegisterZone(authority, "zone",
		10_000_000, 20_000_000, 70_000_000, 80_000_000); err != nil {
		t.Fatal(err)
	}

	l := NewLedger(zones, nil, pub)
	l.Submit(submitter, submitReq(5_000_000, 75_000_000))
	req := submitReq(15_000_000, 75_000_000)
	req.HerbName = ""
	l.Submit(submitter, req)

	failing := NewLedger(zones, failingJournal{}, pub)
	failing.Submit(submitter, submitReq(15_000_000, 75_000_000))

	if len(pub.types) != 0 {
		t.Errorf("events published for rejected submissions: %v", pub.types)
	}
}

func TestRestoreResumesIdSequence(t *testing.T) {
	l, _ := newGatedLedger(t)
	l.Restore([]models.HerbRecord{
		{Id: 1, HerbName: "tulsi"},
		{Id: 2, HerbName: "brahmi"},
	})

	if l.RecordCount() != 2 {
		t.Fatalf("expected count 2 after restore, got %d", l.RecordCount())
	}
	recordId, _, err := l.Submit(submitter, submitReq(15_000_000, 75_000_000))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if recordId != 3 {
		t.Errorf("expected id 3 after restore, got %d", recordId)
	}
}
