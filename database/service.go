package database

import (
	"database/sql"
	"fmt"

	"herbtrace-service/models"
	"herbtrace-service/utils"

	"github.com/apex/log"
)

// TraceService is the write-through journal for the in-memory registry and
// ledger. It implements geofence.Journal and ledger.Journal, and rebuilds
// their state at startup.
type TraceService struct {
	db *sql.DB
}

func NewTraceService(db *sql.DB) *TraceService {
	return &TraceService{db: db}
}

func validateResult(r sql.Result, e error, checkRowsAffected bool) error {
	if e != nil {
		log.Errorf("Query failed: %v", e)
		return e
	}
	rows, err := r.RowsAffected()
	if err != nil {
		log.Errorf("Failed to get status of db op: %v", err)
		return err
	}
	if checkRowsAffected && rows != 1 {
		m := fmt.Sprintf("expected to affect 1 row, affected %d", rows)
		log.Error(m)
		return fmt.Errorf("%s", m)
	}
	return nil
}

// SaveZone persists a newly registered zone and its spatial index row.
func (s *TraceService) SaveZone(zone models.GeoZone) error {
	tx, err := s.db.Begin()
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT
	  INTO zones (id, name, min_lat, max_lat, min_lon, max_lon, is_active)
	  VALUES (?, ?, ?, ?, ?, ?, ?)`,
		zone.Id, zone.Name, zone.MinLat, zone.MaxLat, zone.MinLon, zone.MaxLon, zone.IsActive)
	if err := validateResult(result, err, true); err != nil {
		return err
	}

	wkt := utils.ZoneToWKT(&zone)
	result, err = tx.Exec(`INSERT INTO zone_index (zone_id, geom) VALUES (?, ST_GeomFromText(?, 4326))`,
		zone.Id, wkt)
	if err := validateResult(result, err, true); err != nil {
		log.Errorf("%s", wkt)
		return err
	}

	return tx.Commit()
}

// UpdateZoneActive persists a zone's active flag.
func (s *TraceService) UpdateZoneActive(zoneId uint64, isActive bool) error {
	result, err := s.db.Exec(`UPDATE zones SET is_active = ? WHERE id = ?`, isActive, zoneId)
	return validateResult(result, err, false)
}

// UpdateZoneCoordinates persists a zone's replaced bounding box and
// refreshes its spatial index row.
func (s *TraceService) UpdateZoneCoordinates(zone models.GeoZone) error {
	tx, err := s.db.Begin()
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE zones
		SET min_lat = ?, max_lat = ?, min_lon = ?, max_lon = ?
		WHERE id = ?`,
		zone.MinLat, zone.MaxLat, zone.MinLon, zone.MaxLon, zone.Id)
	if err := validateResult(result, err, false); err != nil {
		return err
	}

	result, err = tx.Exec(`DELETE FROM zone_index WHERE zone_id = ?`, zone.Id)
	if err := validateResult(result, err, false); err != nil {
		return err
	}
	result, err = tx.Exec(`INSERT INTO zone_index (zone_id, geom) VALUES (?, ST_GeomFromText(?, 4326))`,
		zone.Id, utils.ZoneToWKT(&zone))
	if err := validateResult(result, err, true); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveAuthority persists the current authority identity.
func (s *TraceService) SaveAuthority(identity string) error {
	result, err := s.db.Exec(`INSERT INTO authority (singleton, identity) VALUES (1, ?)
	  ON DUPLICATE KEY UPDATE identity = ?`, identity, identity)
	return validateResult(result, err, false)
}

// SaveHerbRecord persists an accepted herb submission and its spatial
// index row.
func (s *TraceService) SaveHerbRecord(record models.HerbRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT
	  INTO herb_records (id, herb_name, scientific_name, latitude, longitude, quantity, submitted_by, submitted_at, image_hash)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Id, record.HerbName, record.ScientificName, record.Latitude, record.Longitude,
		record.Quantity, record.SubmittedBy, record.SubmittedAt, record.ImageHash)
	if err := validateResult(result, err, true); err != nil {
		return err
	}

	wkt := utils.PointToWKT(
		float64(record.Latitude)/models.MicrodegreesPerDegree,
		float64(record.Longitude)/models.MicrodegreesPerDegree)
	result, err = tx.Exec(`INSERT INTO herb_record_index (record_id, geom) VALUES (?, ST_GeomFromText(?, 4326))`,
		record.Id, wkt)
	if err := validateResult(result, err, true); err != nil {
		log.Errorf("%s", wkt)
		return err
	}

	return tx.Commit()
}

// LoadZones returns all persisted zones in ascending id order.
func (s *TraceService) LoadZones() ([]models.GeoZone, error) {
	rows, err := s.db.Query(`SELECT id, name, min_lat, max_lat, min_lon, max_lon, is_active
		FROM zones ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := []models.GeoZone{}
	for rows.Next() {
		var z models.GeoZone
		if err := rows.Scan(&z.Id, &z.Name, &z.MinLat, &z.MaxLat, &z.MinLon, &z.MaxLon, &z.IsActive); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// LoadHerbRecords returns all persisted herb records in ascending id order.
func (s *TraceService) LoadHerbRecords() ([]models.HerbRecord, error) {
	rows, err := s.db.Query(`SELECT id, herb_name, scientific_name, latitude, longitude, quantity, submitted_by, submitted_at, image_hash
		FROM herb_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.HerbRecord{}
	for rows.Next() {
		var r models.HerbRecord
		var scientificName, imageHash sql.NullString
		if err := rows.Scan(&r.Id, &r.HerbName, &scientificName, &r.Latitude, &r.Longitude,
			&r.Quantity, &r.SubmittedBy, &r.SubmittedAt, &imageHash); err != nil {
			return nil, err
		}
		r.ScientificName = scientificName.String
		r.ImageHash = imageHash.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// LoadAuthority returns the persisted authority identity, or "" when none
// has been stored yet.
func (s *TraceService) LoadAuthority() (string, error) {
	var identity string
	err := s.db.QueryRow(`SELECT identity FROM authority WHERE singleton = 1`).Scan(&identity)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return identity, nil
}
