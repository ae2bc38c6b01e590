package registry

import (
	"errors"
	"testing"
)

// herbStub stands in for the herb ledger.
type herbStub struct {
	known map[uint64]bool
}

func (h herbStub) Exists(recordId uint64) bool { return h.known[recordId] }

func newStack(t *testing.T) (*Farmers, *Processing, *Lab) {
	t.Helper()
	farmers := NewFarmers(nil)
	processing := NewProcessing(farmers, herbStub{known: map[uint64]bool{1: true, 2: true}}, nil)
	lab := NewLab(processing, nil)
	return farmers, processing, lab
}

func TestRegisterFarmer(t *testing.T) {
	farmers, _, _ := newStack(t)

	id, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if id != 1 {
		t.Errorf("expected farmer id 1, got %d", id)
	}

	if _, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := farmers.Register("0xfarmer2", "", "Kerala"); !errors.Is(err, ErrEmptyField) {
		t.Errorf("expected ErrEmptyField, got %v", err)
	}

	id2, err := farmers.Register("0xfarmer2", "Ravi", "Kerala")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if id2 != 2 {
		t.Errorf("expected farmer id 2, got %d", id2)
	}
	if farmers.Count() != 2 {
		t.Errorf("expected count 2, got %d", farmers.Count())
	}
}

func TestFarmerLookups(t *testing.T) {
	farmers, _, _ := newStack(t)
	if _, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand"); err != nil {
		t.Fatal(err)
	}

	farmer, err := farmers.ByIdentity("0xfarmer1")
	if err != nil {
		t.Fatalf("ByIdentity failed: %v", err)
	}
	if farmer.Id != 1 || farmer.Name != "Asha" {
		t.Errorf("unexpected farmer: %+v", farmer)
	}

	if _, err := farmers.ByIdentity("0xunknown"); !errors.Is(err, ErrFarmerNotFound) {
		t.Errorf("expected ErrFarmerNotFound, got %v", err)
	}
	if _, err := farmers.Get(99); !errors.Is(err, ErrFarmerNotFound) {
		t.Errorf("expected ErrFarmerNotFound, got %v", err)
	}

	list := farmers.List()
	if len(list) != 1 || list[0].Id != 1 {
		t.Errorf("unexpected farmer list: %+v", list)
	}
}

func TestAddProcessingEvent(t *testing.T) {
	farmers, processing, _ := newStack(t)
	if _, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand"); err != nil {
		t.Fatal(err)
	}

	if _, err := processing.Add("0xstranger", 1, "drying", ""); !errors.Is(err, ErrFarmerNotFound) {
		t.Errorf("unregistered caller: expected ErrFarmerNotFound, got %v", err)
	}
	if _, err := processing.Add("0xfarmer1", 99, "drying", ""); !errors.Is(err, ErrHerbRecordNotFound) {
		t.Errorf("unknown record: expected ErrHerbRecordNotFound, got %v", err)
	}
	if _, err := processing.Add("0xfarmer1", 1, "", ""); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty step: expected ErrEmptyField, got %v", err)
	}

	eventId, err := processing.Add("0xfarmer1", 1, "drying", "sun dried 48h")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if eventId != 1 {
		t.Errorf("expected event id 1, got %d", eventId)
	}

	event, err := processing.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if event.FarmerId != 1 || event.HerbRecordId != 1 || event.StepName != "drying" {
		t.Errorf("unexpected event: %+v", event)
	}

	if _, err := processing.Get(99); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestListByFarmerInsertionOrder(t *testing.T) {
	farmers, processing, _ := newStack(t)
	if _, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand"); err != nil {
		t.Fatal(err)
	}
	if _, err := farmers.Register("0xfarmer2", "Ravi", "Kerala"); err != nil {
		t.Fatal(err)
	}

	steps := []string{"harvesting", "drying", "grinding"}
	for _, step := range steps {
		if _, err := processing.Add("0xfarmer1", 1, step, ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := processing.Add("0xfarmer2", 2, "washing", ""); err != nil {
		t.Fatal(err)
	}

	eventList, err := processing.ListByFarmer(1)
	if err != nil {
		t.Fatalf("ListByFarmer failed: %v", err)
	}
	if len(eventList) != 3 {
		t.Fatalf("expected 3 events, got %d", len(eventList))
	}
	for i, step := range steps {
		if eventList[i].StepName != step {
			t.Errorf("events out of order: %+v", eventList)
			break
		}
	}

	if _, err := processing.ListByFarmer(99); !errors.Is(err, ErrFarmerNotFound) {
		t.Errorf("expected ErrFarmerNotFound, got %v", err)
	}
}

func TestAddLabResult(t *testing.T) {
	farmers, processing, lab := newStack(t)
	if _, err := farmers.Register("0xfarmer1", "Asha", "Uttarakhand"); err != nil {
		t.Fatal(err)
	}
	if _, err := processing.Add("0xfarmer1", 1, "drying", ""); err != nil {
		t.Fatal(err)
	}

	if _, err := lab.Add("0xlab1", 99, "moisture", true, ""); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("unknown event: expected ErrEventNotFound, got %v", err)
	}
	if _, err := lab.Add("0xlab1", 1, "", true, ""); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty test name: expected ErrEmptyField, got %v", err)
	}

	resultId, err := lab.Add("0xlab1", 1, "moisture", true, "QmReport")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if resultId != 1 {
		t.Errorf("expected result id 1, got %d", resultId)
	}

	result, err := lab.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if result.TestedBy != "0xlab1" || !result.Passed {
		t.Errorf("unexpected result: %+v", result)
	}

	if _, err := lab.Get(99); !errors.Is(err, ErrLabResultNotFound) {
		t.Errorf("expected ErrLabResultNotFound, got %v", err)
	}

	results := lab.ListByEvent(1)
	if len(results) != 1 || results[0].TestName != "moisture" {
		t.Errorf("unexpected results: %+v", results)
	}
}
