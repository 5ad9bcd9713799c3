package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Notifuse/emailbuilder/config"
)

// GetConnectionPoolSettings returns connection pool settings for the environment
func GetConnectionPoolSettings(environment string) (maxOpen, maxIdle int, maxLifetime time.Duration) {
	if environment == "test" || environment == "development" {
		return 10, 5, 2 * time.Minute
	}
	return 25, 25, 20 * time.Minute
}

// GetSystemDSN returns the DSN of the template database
func GetSystemDSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// GetPostgresDSN returns the DSN for connecting to the server without selecting a database
func GetPostgresDSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/postgres?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.SSLMode,
	)
}

// Connect ensures the database exists, opens it and creates the schema.
// With tracing enabled the driver is wrapped by ocsql.
func Connect(cfg *config.Config) (*sql.DB, error) {
	if err := EnsureSystemDatabaseExists(GetPostgresDSN(&cfg.Database), cfg.Database.DBName); err != nil {
		return nil, err
	}

	driverName := "postgres"
	if cfg.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
	}

	db, err := sql.Open(driverName, GetSystemDSN(&cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ConfigurePool(db, cfg.Environment)

	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ConfigurePool applies the pool settings of the environment to db
func ConfigurePool(db *sql.DB, environment string) {
	maxOpen, maxIdle, maxLifetime := GetConnectionPoolSettings(environment)
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	db.SetConnMaxIdleTime(maxLifetime / 2)
}

// EnsureSystemDatabaseExists creates the database if it doesn't exist
func EnsureSystemDatabaseExists(dsn string, dbName string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}
	return ensureDatabase(db, dbName)
}

func ensureDatabase(db *sql.DB, dbName string) error {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := db.QueryRow(query, dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return nil
	}

	createDBQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, strings.ReplaceAll(dbName, `"`, `""`))
	if _, err := db.Exec(createDBQuery); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	return nil
}
