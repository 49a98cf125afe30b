// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections for the outfit catalog.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let features verify at startup that the
// tables they rely on carry the expected columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "outfits", []string{"name", "config"})
package database
