package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/payroll-management/internal"
	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	pgUniqueViolation = "23505"
)

// Handles bundles the ORM used by repositories and the sqlx view over the same pool used for aggregates.
type Handles struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

// Open connects to the configured store and verifies the connection.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*Handles, error) {
	var dialector gorm.Dialector
	var sqlxDriver string

	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.Source)
		sqlxDriver = "pgx"
	case DriverSQLite:
		dialector = sqlite.Open(cfg.Source)
		sqlxDriver = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := gormLogger.Silent
	if cfg.LogQueries {
		logLevel = gormLogger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		if err := AutoMigrate(gdb); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	lg.Info("database connected", "driver", cfg.Driver)

	return &Handles{Gorm: gdb, SQLX: sqlx.NewDb(sqlDB, sqlxDriver)}, nil
}

// NewHandles wraps an already opened gorm connection, mainly for tests.
func NewHandles(gdb *gorm.DB, sqlxDriver string) (*Handles, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return &Handles{Gorm: gdb, SQLX: sqlx.NewDb(sqlDB, sqlxDriver)}, nil
}

// Close releases the shared pool.
func (h *Handles) Close() error {
	return h.SQLX.Close()
}

// AutoMigrate creates the schema from the gorm models. Postgres deployments use goose migrations instead.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&departmentDatamodel.Department{},
		&employeeDatamodel.Employee{},
		&payrollDatamodel.Period{},
		&payrollDatamodel.Record{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique constraint violation from any supported driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsNotFound reports whether err is gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
