package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the necessary database tables if they don't exist
func InitSchema(db *sql.DB) error {
	log.Info("Initializing herbtrace-service database schema...")

	zonesTableSQL := `
	CREATE TABLE IF NOT EXISTS zones(
		id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		min_lat BIGINT NOT NULL,
		max_lat BIGINT NOT NULL,
		min_lon BIGINT NOT NULL,
		max_lon BIGINT NOT NULL,
		is_active BOOL NOT NULL DEFAULT true,
		PRIMARY KEY (id),
		INDEX is_active_index (is_active)
	)`

	if _, err := db.Exec(zonesTableSQL); err != nil {
		return fmt.Errorf("failed to create zones table: %w", err)
	}
	log.Info("Zones table created/verified")

	zoneIndexTableSQL := `
	CREATE TABLE IF NOT EXISTS zone_index(
		zone_id BIGINT UNSIGNED NOT NULL,
		geom GEOMETRY NOT NULL SRID 4326,
		SPATIAL INDEX(geom)
	)`

	if _, err := db.Exec(zoneIndexTableSQL); err != nil {
		return fmt.Errorf("failed to create zone_index table: %w", err)
	}
	log.Info("Zone_index table created/verified")

	herbRecordsTableSQL := `
	CREATE TABLE IF NOT EXISTS herb_records(
		id BIGINT UNSIGNED NOT NULL,
		herb_name VARCHAR(255) NOT NULL,
		scientific_name VARCHAR(255),
		latitude BIGINT NOT NULL,
		longitude BIGINT NOT NULL,
		quantity BIGINT UNSIGNED NOT NULL DEFAULT 0,
		submitted_by VARCHAR(255) NOT NULL,
		submitted_at TIMESTAMP NOT NULL,
		image_hash VARCHAR(255),
		PRIMARY KEY (id),
		INDEX submitted_by_index (submitted_by)
	)`

	if _, err := db.Exec(herbRecordsTableSQL); err != nil {
		return fmt.Errorf("failed to create herb_records table: %w", err)
	}
	log.Info("Herb_records table created/verified")

	herbRecordIndexTableSQL := `
	CREATE TABLE IF NOT EXISTS herb_record_index(
		record_id BIGINT UNSIGNED NOT NULL,
		geom GEOMETRY NOT NULL SRID 4326,
		SPATIAL INDEX(geom)
	)`

	if _, err := db.Exec(herbRecordIndexTableSQL); err != nil {
		return fmt.Errorf("failed to create herb_record_index table: %w", err)
	}
	log.Info("Herb_record_index table created/verified")

	// Single-row table holding the current zone authority.
	authorityTableSQL := `
	CREATE TABLE IF NOT EXISTS authority(
		singleton TINYINT NOT NULL DEFAULT 1,
		identity VARCHAR(255) NOT NULL,
		PRIMARY KEY (singleton)
	)`

	if _, err := db.Exec(authorityTableSQL); err != nil {
		return fmt.Errorf("failed to create authority table: %w", err)
	}
	log.Info("Authority table created/verified")

	log.Info("Herbtrace-service database schema initialization completed")
	return nil
}
