// Package postgres is the relational store driver, built on gorm. Cascades
// and the owner restrict rule are enforced by foreign keys.
package postgres

import (
	"time"

	"github.com/rs/zerolog"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultTimeout = 10 * time.Second

// NewPostgres opens a gorm handle. SQL warnings and slow queries go through
// log.
func NewPostgres(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		&log,
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(gormpg.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
}

// Migrate creates or updates every table. Parents are listed before the
// tables that reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&roleModel{},
		&userModel{},
		&userRoleModel{},
		&blogModel{},
		&postModel{},
		&commentModel{},
		&auditModel{},
	)
}
