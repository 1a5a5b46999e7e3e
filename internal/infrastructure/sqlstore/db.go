// Package sqlstore reads contracts, owners and alert settings from the marketplace
// relational database through gorm.
package sqlstore

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the marketplace database. driver is "postgres" or "sqlite".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// Migrate creates the tables this service reads and writes. The marketplace owns the
// production schema; this is for local databases and tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRow{},
		&propertyRow{},
		&tenantRow{},
		&contractRow{},
		&paymentRow{},
		&alertSettingsRow{},
	)
}
