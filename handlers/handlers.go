package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"herbtrace-service/geofence"
	"herbtrace-service/ledger"
	"herbtrace-service/middleware"
	"herbtrace-service/models"
	"herbtrace-service/registry"
	"herbtrace-service/utils"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const apiVersion = "2.0"

// Handlers is the HTTP surface over the traceability ledgers.
type Handlers struct {
	zones      *geofence.Registry
	herbs      *ledger.Ledger
	farmers    *registry.Farmers
	processing *registry.Processing
	lab        *registry.Lab
	provenance *registry.Provenance
}

func NewHandlers(
	zones *geofence.Registry,
	herbs *ledger.Ledger,
	farmers *registry.Farmers,
	processing *registry.Processing,
	lab *registry.Lab,
	provenance *registry.Provenance,
) *Handlers {
	return &Handlers{
		zones:      zones,
		herbs:      herbs,
		farmers:    farmers,
		processing: processing,
		lab:        lab,
		provenance: provenance,
	}
}

// HealthCheck returns a simple health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "herbtrace-service",
	})
}

// domainStatus maps domain sentinel errors to HTTP status codes.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, geofence.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, geofence.ErrInvalidCoordinates),
		errors.Is(err, geofence.ErrInvalidZoneId),
		errors.Is(err, geofence.ErrInvalidAuthority),
		errors.Is(err, ledger.ErrEmptyHerbName),
		errors.Is(err, registry.ErrEmptyField):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrLocationOutOfBounds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geofence.ErrZoneNotFound),
		errors.Is(err, ledger.ErrRecordNotFound),
		errors.Is(err, registry.ErrFarmerNotFound),
		errors.Is(err, registry.ErrHerbRecordNotFound),
		errors.Is(err, registry.ErrEventNotFound),
		errors.Is(err, registry.ErrLabResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrAlreadyRegistered):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func checkVersion(c *gin.Context, version string) bool {
	if version != apiVersion {
		log.Warnf("Bad version in %s, expected: %s, got: %v", c.FullPath(), apiVersion, version)
		c.String(http.StatusNotAcceptable, "Bad API version, expecting 2.0.")
		return false
	}
	return true
}

func uintQuery(c *gin.Context, name string) (uint64, bool) {
	raw, has := c.GetQuery(name)
	if !has {
		c.String(http.StatusBadRequest, fmt.Sprintf("Missing %s param", name))
		return 0, false
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("Parsing %s: %v", name, err))
		return 0, false
	}
	return value, true
}

func (h *Handlers) RegisterZone(c *gin.Context) {
	args := &models.RegisterZoneRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /register_zone call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	zoneId, err := h.zones.RegisterZone(middleware.CallerIdentity(c),
		args.Name, args.MinLat, args.MaxLat, args.MinLon, args.MaxLon)
	if err != nil {
		log.Errorf("Error registering zone: %v", err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, &models.RegisterZoneResponse{ZoneId: zoneId})
}

func (h *Handlers) SetZoneActive(c *gin.Context) {
	args := &models.SetZoneActiveRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /set_zone_active call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	if err := h.zones.SetZoneActive(middleware.CallerIdentity(c), args.ZoneId, args.IsActive); err != nil {
		log.Errorf("Error updating zone %d status: %v", args.ZoneId, err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handlers) UpdateZoneCoordinates(c *gin.Context) {
	args := &models.UpdateZoneCoordinatesRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /update_zone_coordinates call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	err := h.zones.UpdateZoneCoordinates(middleware.CallerIdentity(c),
		args.ZoneId, args.MinLat, args.MaxLat, args.MinLon, args.MaxLon)
	if err != nil {
		log.Errorf("Error updating zone %d coordinates: %v", args.ZoneId, err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handlers) TransferAuthority(c *gin.Context) {
	args := &models.TransferAuthorityRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /transfer_authority call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	if err := h.zones.TransferAuthority(middleware.CallerIdentity(c), args.NewAuthority); err != nil {
		log.Errorf("Error transferring authority: %v", err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handlers) GetZone(c *gin.Context) {
	zoneId, ok := uintQuery(c, "id")
	if !ok {
		return
	}

	zone, err := h.zones.LookupZone(zoneId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, zone)
}

func (h *Handlers) GetZones(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, &models.ZonesResponse{Zones: h.zones.Zones()})
}

func (h *Handlers) GetZonesCount(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, &models.ZonesCountResponse{Count: h.zones.ZoneCount()})
}

func (h *Handlers) GetZonesGeoJSON(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, utils.ZonesToGeoJSON(h.zones.Zones()))
}

func (h *Handlers) Validate(c *gin.Context) {
	latStr, hasLat := c.GetQuery("lat")
	lonStr, hasLon := c.GetQuery("lon")
	if !hasLat || !hasLon {
		c.String(http.StatusBadRequest, "Missing lat or lon param")
		return
	}
	lat, err := strconv.ParseInt(latStr, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("Parsing lat: %v", err))
		return
	}
	lon, err := strconv.ParseInt(lonStr, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("Parsing lon: %v", err))
		return
	}

	matched, zoneId := h.zones.Validate(lat, lon)
	c.IndentedJSON(http.StatusOK, &models.ValidateResponse{Matched: matched, ZoneId: zoneId})
}

func (h *Handlers) SubmitRecord(c *gin.Context) {
	args := &models.SubmitRecordRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /submit_record call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	recordId, zoneId, err := h.herbs.Submit(middleware.CallerIdentity(c), args)
	if err != nil {
		log.Errorf("Error submitting herb record: %v", err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, &models.SubmitRecordResponse{
		RecordId:      recordId,
		MatchedZoneId: zoneId,
	})
}

func (h *Handlers) GetRecord(c *gin.Context) {
	recordId, ok := uintQuery(c, "id")
	if !ok {
		return
	}

	record, err := h.herbs.LookupRecord(recordId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, record)
}

func (h *Handlers) GetRecordsCount(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, &models.RecordsCountResponse{Count: h.herbs.RecordCount()})
}

func (h *Handlers) GetRecordsMap(c *gin.Context) {
	vp := &models.ViewPort{}
	center := &models.Point{}

	var err error
	if vp.LatMin, err = parseFloatQuery(c, "sw_lat"); err != nil {
		return
	}
	if vp.LonMin, err = parseFloatQuery(c, "sw_lon"); err != nil {
		return
	}
	if vp.LatMax, err = parseFloatQuery(c, "ne_lat"); err != nil {
		return
	}
	if vp.LonMax, err = parseFloatQuery(c, "ne_lon"); err != nil {
		return
	}
	if center.Lat, err = parseFloatQuery(c, "center_lat"); err != nil {
		return
	}
	if center.Lon, err = parseFloatQuery(c, "center_lon"); err != nil {
		return
	}

	c.IndentedJSON(http.StatusOK, ledger.AggregateRecords(h.herbs.Records(), vp, center))
}

func parseFloatQuery(c *gin.Context, name string) (float64, error) {
	raw, has := c.GetQuery(name)
	if !has {
		c.String(http.StatusBadRequest, fmt.Sprintf("Missing %s param", name))
		return 0, fmt.Errorf("missing %s", name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Errorf("Error in parsing %s param: %v", name, err)
		c.String(http.StatusBadRequest, fmt.Sprintf("Parsing %s: %v", name, err))
		return 0, err
	}
	return value, nil
}

func (h *Handlers) RegisterFarmer(c *gin.Context) {
	args := &models.RegisterFarmerRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /register_farmer call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	farmerId, err := h.farmers.Register(middleware.CallerIdentity(c), args.Name, args.Location)
	if err != nil {
		log.Errorf("Error registering farmer: %v", err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"farmer_id": farmerId})
}

func (h *Handlers) GetFarmer(c *gin.Context) {
	farmerId, ok := uintQuery(c, "id")
	if !ok {
		return
	}

	farmer, err := h.farmers.Get(farmerId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, farmer)
}

func (h *Handlers) AddProcessingEvent(c *gin.Context) {
	args := &models.AddProcessingEventRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /add_processing_event call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	eventId, err := h.processing.Add(middleware.CallerIdentity(c),
		args.HerbRecordId, args.StepName, args.Details)
	if err != nil {
		log.Errorf("Error adding processing event: %v", err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"event_id": eventId})
}

func (h *Handlers) GetProcessingEvent(c *gin.Context) {
	eventId, ok := uintQuery(c, "id")
	if !ok {
		return
	}

	event, err := h.processing.Get(eventId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, event)
}

func (h *Handlers) ListProcessingEvents(c *gin.Context) {
	farmerId, ok := uintQuery(c, "farmer_id")
	if !ok {
		return
	}

	eventList, err := h.processing.ListByFarmer(farmerId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"events": eventList})
}

func (h *Handlers) AddLabResult(c *gin.Context) {
	args := &models.AddLabResultRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Errorf("Failed to get the argument in /add_lab_result call: %v", err)
		return
	}
	if !checkVersion(c, args.Version) {
		return
	}

	resultId, err := h.lab.Add(middleware.CallerIdentity(c),
		args.ProcessingEventId, args.TestName, args.Passed, args.ReportHash)
	if err != nil {
		log.Errorf("Error adding lab result: %v", err)
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"lab_result_id": resultId})
}

func (h *Handlers) GetLabResult(c *gin.Context) {
	resultId, ok := uintQuery(c, "id")
	if !ok {
		return
	}

	result, err := h.lab.Get(resultId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, result)
}

func (h *Handlers) GetProvenance(c *gin.Context) {
	eventId, ok := uintQuery(c, "event_id")
	if !ok {
		return
	}

	trace, err := h.provenance.Trace(eventId)
	if err != nil {
		c.JSON(domainStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, trace)
}
