package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentals/internal/model"
)

// PoolOptions tunes the underlying *sql.DB connection pool.
type PoolOptions struct {
	MaxOpenConns int
	MaxIdleConns int
}

// GormConfig is shared by the server and tests so driver errors translate the same way
// (duplicate keys surface as gorm.ErrDuplicatedKey). Slow queries and SQL errors are
// written through w, normally the process logrus logger.
func GormConfig(w logger.Writer) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(w, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string, pool PoolOptions, log logger.Writer) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Models lists every table the service owns, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Place{},
		&model.PlaceImage{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
