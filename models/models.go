package models

import "time"

// Coordinates are stored as microdegrees: degrees scaled by 1e6 and kept as
// signed integers so the ledger never holds a floating point value.
const MicrodegreesPerDegree = 1_000_000

// GeoZone is an axis-aligned bounding box in microdegree space. Inactive
// zones are kept for history but excluded from validation.
type GeoZone struct {
	Id       uint64 `json:"id"`
	Name     string `json:"name"`
	MinLat   int64  `json:"min_lat"`
	MaxLat   int64  `json:"max_lat"`
	MinLon   int64  `json:"min_lon"`
	MaxLon   int64  `json:"max_lon"`
	IsActive bool   `json:"is_active"`
}

// Contains reports whether the point lies inside the box, bounds inclusive.
func (z *GeoZone) Contains(lat, lon int64) bool {
	return lat >= z.MinLat && lat <= z.MaxLat && lon >= z.MinLon && lon <= z.MaxLon
}

// HerbRecord is an immutable herb submission. Its coordinates matched at
// least one active zone at submission time; the matched zone id is not kept.
type HerbRecord struct {
	Id             uint64    `json:"id"`
	HerbName       string    `json:"herb_name"`
	ScientificName string    `json:"scientific_name,omitempty"`
	Latitude       int64     `json:"latitude"`
	Longitude      int64     `json:"longitude"`
	Quantity       uint64    `json:"quantity"`
	SubmittedBy    string    `json:"submitted_by"`
	SubmittedAt    time.Time `json:"submitted_at"`
	ImageHash      string    `json:"image_hash,omitempty"`
}

// Farmer is a registered producer identity.
type Farmer struct {
	Id           uint64    `json:"id"`
	Identity     string    `json:"identity"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ProcessingEvent is a processing step applied to a herb record, recorded by
// a registered farmer.
type ProcessingEvent struct {
	Id           uint64    `json:"id"`
	HerbRecordId uint64    `json:"herb_record_id"`
	FarmerId     uint64    `json:"farmer_id"`
	StepName     string    `json:"step_name"`
	Details      string    `json:"details,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// LabResult is a lab test outcome attached to a processing event.
type LabResult struct {
	Id                uint64    `json:"id"`
	ProcessingEventId uint64    `json:"processing_event_id"`
	TestName          string    `json:"test_name"`
	Passed            bool      `json:"passed"`
	ReportHash        string    `json:"report_hash,omitempty"`
	TestedBy          string    `json:"tested_by"`
	TestedAt          time.Time `json:"tested_at"`
}

type RegisterZoneRequest struct {
	Version string `json:"version"` // Must be "2.0"
	Name    string `json:"name"`
	MinLat  int64  `json:"min_lat"`
	MaxLat  int64  `json:"max_lat"`
	MinLon  int64  `json:"min_lon"`
	MaxLon  int64  `json:"max_lon"`
}

type SetZoneActiveRequest struct {
	Version  string `json:"version"` // Must be "2.0"
	ZoneId   uint64 `json:"zone_id"`
	IsActive bool   `json:"is_active"`
}

type UpdateZoneCoordinatesRequest struct {
	Version string `json:"version"` // Must be "2.0"
	ZoneId  uint64 `json:"zone_id"`
	MinLat  int64  `json:"min_lat"`
	MaxLat  int64  `json:"max_lat"`
	MinLon  int64  `json:"min_lon"`
	MaxLon  int64  `json:"max_lon"`
}

type TransferAuthorityRequest struct {
	Version      string `json:"version"` // Must be "2.0"
	NewAuthority string `json:"new_authority"`
}

type SubmitRecordRequest struct {
	Version        string `json:"version"` // Must be "2.0"
	HerbName       string `json:"herb_name"`
	ScientificName string `json:"scientific_name,omitempty"`
	Latitude       int64  `json:"latitude"`
	Longitude      int64  `json:"longitude"`
	Quantity       uint64 `json:"quantity"`
	ImageHash      string `json:"image_hash,omitempty"`
}

type RegisterFarmerRequest struct {
	Version  string `json:"version"` // Must be "2.0"
	Name     string `json:"name"`
	Location string `json:"location"`
}

type AddProcessingEventRequest struct {
	Version      string `json:"version"` // Must be "2.0"
	HerbRecordId uint64 `json:"herb_record_id"`
	StepName     string `json:"step_name"`
	Details      string `json:"details,omitempty"`
}

type AddLabResultRequest struct {
	Version           string `json:"version"` // Must be "2.0"
	ProcessingEventId uint64 `json:"processing_event_id"`
	TestName          string `json:"test_name"`
	Passed            bool   `json:"passed"`
	ReportHash        string `json:"report_hash,omitempty"`
}

type RegisterZoneResponse struct {
	ZoneId uint64 `json:"zone_id"`
}

type ZonesResponse struct {
	Zones []GeoZone `json:"zones"`
}

type ZonesCountResponse struct {
	Count uint64 `json:"count"`
}

type SubmitRecordResponse struct {
	RecordId      uint64 `json:"record_id"`
	MatchedZoneId uint64 `json:"matched_zone_id"`
}

type RecordsCountResponse struct {
	Count uint64 `json:"count"`
}

type ValidateResponse struct {
	Matched bool   `json:"matched"`
	ZoneId  uint64 `json:"zone_id"`
}

// Provenance joins a processing event with its herb record and lab results.
type Provenance struct {
	ProcessingEvent ProcessingEvent `json:"processing_event"`
	Farmer          Farmer          `json:"farmer"`
	HerbRecord      HerbRecord      `json:"herb_record"`
	LabResults      []LabResult     `json:"lab_results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ViewPort is a lat/lon bounding box in degrees, as supplied by map clients.
type ViewPort struct {
	LatMin float64 `json:"latmin"`
	LonMin float64 `json:"lonmin"`
	LatMax float64 `json:"latmax"`
	LonMax float64 `json:"lonmax"`
}

// Point is a map center in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
