package main

import (
	"fmt"
	"strconv"

	"herbtrace-service/config"
	"herbtrace-service/database"
	"herbtrace-service/events"
	"herbtrace-service/geofence"
	"herbtrace-service/handlers"
	"herbtrace-service/ledger"
	"herbtrace-service/middleware"
	"herbtrace-service/registry"
	"herbtrace-service/utils"
	"herbtrace-service/version"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const (
	EndPointHealth                = "/health"
	EndPointRegisterZone          = "/register_zone"
	EndPointSetZoneActive         = "/set_zone_active"
	EndPointUpdateZoneCoordinates = "/update_zone_coordinates"
	EndPointTransferAuthority     = "/transfer_authority"
	EndPointGetZone               = "/get_zone"
	EndPointGetZones              = "/get_zones"
	EndPointGetZonesCount         = "/get_zones_count"
	EndPointZonesGeoJSON          = "/zones.geojson"
	EndPointValidate              = "/validate"
	EndPointSubmitRecord          = "/submit_record"
	EndPointGetRecord             = "/get_record"
	EndPointGetRecordsCount       = "/get_records_count"
	EndPointRecordsMap            = "/records_map"
	EndPointRegisterFarmer        = "/register_farmer"
	EndPointGetFarmer             = "/get_farmer"
	EndPointAddProcessingEvent    = "/add_processing_event"
	EndPointGetProcessingEvent    = "/get_processing_event"
	EndPointListProcessingEvents  = "/list_processing_events"
	EndPointAddLabResult          = "/add_lab_result"
	EndPointGetLabResult          = "/get_lab_result"
	EndPointProvenance            = "/provenance"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Info("Starting the herb traceability service...")

	// Start the event hub
	hub := events.NewHub()
	go hub.Run()

	// Connect to database and restore persisted state, unless disabled
	var journal *database.TraceService
	if !cfg.DBDisable {
		db, err := utils.DBConnect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.InitSchema(db); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}
		journal = database.NewTraceService(db)
	}

	// Initialize the geofencing core
	var zones *geofence.Registry
	var herbs *ledger.Ledger
	if journal != nil {
		zones = geofence.NewRegistry(cfg.AuthorityID, journal, hub)
		herbs = ledger.NewLedger(zones, journal, hub)

		persistedZones, err := journal.LoadZones()
		if err != nil {
			log.Fatalf("Failed to load zones: %v", err)
		}
		authority, err := journal.LoadAuthority()
		if err != nil {
			log.Fatalf("Failed to load authority: %v", err)
		}
		zones.Restore(persistedZones, authority)

		records, err := journal.LoadHerbRecords()
		if err != nil {
			log.Fatalf("Failed to load herb records: %v", err)
		}
		herbs.Restore(records)
	} else {
		log.Warn("Running without database persistence")
		zones = geofence.NewRegistry(cfg.AuthorityID, nil, hub)
		herbs = ledger.NewLedger(zones, nil, hub)
	}

	// Initialize the collaborator ledgers
	farmers := registry.NewFarmers(hub)
	processing := registry.NewProcessing(farmers, herbs, hub)
	lab := registry.NewLab(processing, hub)
	provenance := registry.NewProvenance(processing, farmers, herbs, lab)

	// Initialize handlers
	h := handlers.NewHandlers(zones, herbs, farmers, processing, lab, provenance)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Setup router
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, version.Get("herbtrace-service"))
	})

	// Register health endpoints (outside API group)
	router.GET(EndPointHealth, h.HealthCheck)
	router.GET("/ws/health", wsHandler.Stats)

	// Event subscription
	router.GET("/ws/events", wsHandler.ListenEvents)

	auth := middleware.AuthMiddleware(cfg)

	// Create API v3 router group
	apiV3 := router.Group("/api/v3")
	{
		apiV3.POST(EndPointRegisterZone, auth, h.RegisterZone)
		apiV3.POST(EndPointSetZoneActive, auth, h.SetZoneActive)
		apiV3.POST(EndPointUpdateZoneCoordinates, auth, h.UpdateZoneCoordinates)
		apiV3.POST(EndPointTransferAuthority, auth, h.TransferAuthority)
		apiV3.GET(EndPointGetZone, h.GetZone)
		apiV3.GET(EndPointGetZones, h.GetZones)
		apiV3.GET(EndPointGetZonesCount, h.GetZonesCount)
		apiV3.GET(EndPointZonesGeoJSON, h.GetZonesGeoJSON)
		apiV3.GET(EndPointValidate, h.Validate)
		apiV3.POST(EndPointSubmitRecord, auth, h.SubmitRecord)
		apiV3.GET(EndPointGetRecord, h.GetRecord)
		apiV3.GET(EndPointGetRecordsCount, h.GetRecordsCount)
		apiV3.GET(EndPointRecordsMap, h.GetRecordsMap)
		apiV3.POST(EndPointRegisterFarmer, auth, h.RegisterFarmer)
		apiV3.GET(EndPointGetFarmer, h.GetFarmer)
		apiV3.POST(EndPointAddProcessingEvent, auth, h.AddProcessingEvent)
		apiV3.GET(EndPointGetProcessingEvent, h.GetProcessingEvent)
		apiV3.GET(EndPointListProcessingEvents, h.ListProcessingEvents)
		apiV3.POST(EndPointAddLabResult, auth, h.AddLabResult)
		apiV3.GET(EndPointGetLabResult, h.GetLabResult)
		apiV3.GET(EndPointProvenance, h.GetProvenance)
	}

	// Get server port from config
	serverPort, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("Invalid PORT configuration: %v", err)
	}

	// Start server
	log.Infof("Herb traceability service starting on port %d", serverPort)
	if err := router.Run(fmt.Sprintf(":%d", serverPort)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
