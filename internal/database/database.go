package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the shared *sql.DB and exposes a health snapshot.
type Service interface {
	DB() *sql.DB
	Health() map[string]string
	Close() error
}

type service struct {
	db *sql.DB
}

// New opens a connection pool against the configured postgres instance
// using the pgx stdlib driver.
func New(cfg config.DatabaseConfig) (Service, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &service{db: db}, nil
}

func (s *service) DB() *sql.DB {
	return s.db
}

// Health pings the database and reports pool statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	status := map[string]string{}

	if err := s.db.PingContext(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
		return status
	}

	stats := s.db.Stats()
	status["status"] = "up"
	status["open_connections"] = strconv.Itoa(stats.OpenConnections)
	status["in_use"] = strconv.Itoa(stats.InUse)
	status["idle"] = strconv.Itoa(stats.Idle)
	status["wait_count"] = strconv.FormatInt(stats.WaitCount, 10)

	return status
}

func (s *service) Close() error {
	return s.db.Close()
}
