package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/payroll-management/db"
	"github.com/frahmantamala/payroll-management/internal/core/database"
)

const migrationsTable = "schema_migrations"

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory (defaults to the embedded migrations)")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Database.Driver == database.DriverSQLite {
		return fmt.Errorf("migrate: sqlite schemas are created automatically on startup")
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer sqlDB.Close()

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := applyMigrations(ctx, sqlDB, command, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}
	return nil
}

// applyMigrations runs a goose command against dir, or the embedded set when dir is empty.
func applyMigrations(ctx context.Context, sqlDB *sql.DB, command, dir string) error {
	goose.SetTableName(migrationsTable)
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		defer goose.SetBaseFS(nil)
		dir = db.MigrationsDir
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, sqlDB, dir)
}
