// Package store persists Runs, their Groups, and Diagnostics to
// PostgreSQL, supplementing spec §7's "diagnostics alongside successful
// output" with durable run history (SPEC_FULL.md §4), grounded on the
// teacher's internal/db connection wrapper.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// Config holds PostgreSQL connection configuration, mirroring the
// teacher's db.Config (internal/db/connection.go).
type Config struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DefaultConfig returns a Config suitable for a local development database.
func DefaultConfig() Config {
	return Config{Host: "localhost", Port: 5432, User: "smartcommit", DBName: "smartcommit", SSLMode: "disable"}
}

func (c Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DB wraps sqlx.DB with connection-pool defaults and a panic-safe
// transaction helper, mirroring the teacher's db.DB (internal/db/
// connection.go).
type DB struct {
	*sqlx.DB
}

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(cfg Config) (*DB, error) {
	conn, err := sqlx.Connect("postgres", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("store: failed to connect: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("store: failed to ping: %w", err)
	}

	log.Printf("store: connected to %s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.DBName)
	return &DB{conn}, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction runs fn within a transaction, rolling back on error or panic
// and committing otherwise, mirroring the teacher's db.DB.Transaction.
func (db *DB) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("store: failed to rollback transaction during panic: %v", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: failed to commit transaction: %w", err)
	}
	return nil
}
