// Package db opens the credential database from environment configuration.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Config struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// ConnectFromEnv opens a pooled connection using DB_* environment variables
// and verifies it with a short ping.
func ConnectFromEnv(ctx context.Context) (*sql.DB, error) {
	cfg := loadConfigFromEnv()
	database, err := sql.Open("pgx", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	database.SetMaxOpenConns(10)
	database.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		return database, fmt.Errorf("database ping failed: %w", err)
	}
	return database, nil
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		c.Host,
		c.Port,
		c.Name,
		c.User,
		c.Password,
	)
}

func loadConfigFromEnv() Config {
	return Config{
		Host:     Getenv("DB_HOST", "localhost"),
		Port:     Getenv("DB_PORT", "5432"),
		Name:     Getenv("DB_NAME", "incubator"),
		User:     Getenv("DB_USER", "postgres"),
		Password: Getenv("DB_PASS", "postgres"),
	}
}

// Getenv reads an environment variable with a fallback default.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
