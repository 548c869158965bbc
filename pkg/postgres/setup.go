package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/traceably/spanwrap/pkg/observability"
	"github.com/traceably/spanwrap/pkg/tracing"
)

const (
	component = "postgres"
	dbSystem  = "postgresql"
)

// Logger defines the interface for logging operations within the postgres
// package.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=postgres
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Postgres is a thread-safe wrapper around gorm.DB whose operations each run
// inside a data-store span (and report to the optional operation observer).
type Postgres struct {
	client   *gorm.DB
	cfg      Config
	logger   Logger
	runner   *tracing.Runner
	observer observability.Observer
	mu       *sync.RWMutex
}

// NewPostgres creates a new Postgres instance with the provided
// configuration, logger, and span runner. It establishes the initial
// database connection; if that fails, it logs a fatal error and terminates.
// A nil runner disables span creation.
func NewPostgres(cfg Config, logger Logger, runner *tracing.Runner) *Postgres {
	conn, err := connectToPostgres(logger, cfg)
	if err != nil {
		logger.Fatal("error in connecting to postgres", err, nil)
	}

	return &Postgres{
		client: conn,
		cfg:    cfg,
		logger: logger,
		runner: runner,
		mu:     &sync.RWMutex{},
	}
}

// connectToPostgres opens the GORM connection and configures the connection
// pool from the configuration, falling back to sane defaults.
func connectToPostgres(logger Logger, postgresConfig Config) (*gorm.DB, error) {
	pgConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		postgresConfig.Connection.Host,
		postgresConfig.Connection.Port,
		postgresConfig.Connection.User,
		postgresConfig.Connection.Password,
		postgresConfig.Connection.DbName,
		postgresConfig.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(pgConnStr),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	maxOpen := postgresConfig.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := postgresConfig.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := postgresConfig.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 1 * time.Minute
	}

	databaseInstance.SetMaxOpenConns(maxOpen)
	databaseInstance.SetMaxIdleConns(maxIdle)
	databaseInstance.SetConnMaxLifetime(maxLifetime)

	logger.Info("Successfully connected to PostgreSQL database", nil, nil)

	return database, nil
}

// DB exposes the underlying gorm handle for migrations and raw queries that
// the wrapper does not cover. Operations issued through it are not traced.
func (p *Postgres) DB() *gorm.DB {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// HealthCheck pings the database with a 5 second timeout.
func (p *Postgres) HealthCheck() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := p.client.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	db, err := p.client.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
