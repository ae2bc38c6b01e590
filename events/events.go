package events

import "time"

// Event types broadcast by the service.
const (
	TypeZoneRegistered       = "zone_registered"
	TypeZoneUpdated          = "zone_updated"
	TypeHerbRecordAdded      = "herb_record_added"
	TypeAuthorityTransferred = "authority_transferred"
	TypeFarmerRegistered     = "farmer_registered"
	TypeProcessingEventAdded = "processing_event_added"
	TypeLabResultAdded       = "lab_result_added"
)

// Publisher publishes an immutable fact at the moment of a state change.
// Implementations must not block the caller's critical section.
type Publisher interface {
	Publish(eventType string, data any)
}

// BroadcastMessage is the wire envelope for every event.
type BroadcastMessage struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type ZoneRegistered struct {
	ZoneId uint64 `json:"zone_id"`
	MinLat int64  `json:"min_lat"`
	MaxLat int64  `json:"max_lat"`
	MinLon int64  `json:"min_lon"`
	MaxLon int64  `json:"max_lon"`
}

type ZoneUpdated struct {
	ZoneId   uint64 `json:"zone_id"`
	IsActive bool   `json:"is_active"`
}

type HerbRecordAdded struct {
	RecordId      uint64 `json:"record_id"`
	HerbName      string `json:"herb_name"`
	Latitude      int64  `json:"latitude"`
	Longitude     int64  `json:"longitude"`
	SubmittedBy   string `json:"submitted_by"`
	MatchedZoneId uint64 `json:"matched_zone_id"`
}

type AuthorityTransferred struct {
	OldAuthority string `json:"old_authority"`
	NewAuthority string `json:"new_authority"`
}

type FarmerRegistered struct {
	FarmerId uint64 `json:"farmer_id"`
	Identity string `json:"identity"`
}

type ProcessingEventAdded struct {
	EventId      uint64 `json:"event_id"`
	HerbRecordId uint64 `json:"herb_record_id"`
	FarmerId     uint64 `json:"farmer_id"`
}

type LabResultAdded struct {
	LabResultId       uint64 `json:"lab_result_id"`
	ProcessingEventId uint64 `json:"processing_event_id"`
	Passed            bool   `json:"passed"`
}
