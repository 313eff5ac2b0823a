package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"turnovers/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	General  CacheClient
	Turnover CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

// Connection pool limits. Turnover traffic is a handful of staff devices.
const (
	maxIdleConns    = 2
	maxOpenConns    = 10
	connMaxLifetime = 30 * time.Minute
	connectTimeout  = 10 * time.Second
)

// New connects PostgreSQL and then valkey. A failure on the cache side closes
// the already opened PostgreSQL pool.
func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")
	db := &DB{log: log}

	if err := db.initializePostgresDB(config); err != nil {
		return DB{}, err
	}

	if err := db.initializeCacheDB(config); err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func gormConfig(environment string) *gorm.Config {
	level := gormLogger.Warn
	if environment == "development" {
		level = gormLogger.Info
	}

	return &gorm.Config{
		Logger: gormLogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			gormLogger.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      true,
			},
		),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}
}

func (s *DB) initializePostgresDB(config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	for setting, value := range map[string]string{
		"DB_HOST": config.DatabaseHost,
		"DB_NAME": config.DatabaseName,
		"DB_USER": config.DatabaseUser,
	} {
		if value == "" {
			return log.Error("missing database setting", "setting", setting)
		}
	}

	log.Info("connecting to postgres", "host", config.DatabaseHost, "database", config.DatabaseName)

	db, err := gorm.Open(postgres.Open(DSN(config)), gormConfig(config.Environment))
	if err != nil {
		return log.Err("failed to open postgres", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get sql.DB from gorm", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return log.Err("failed to ping postgres", err)
	}

	s.SQL = db
	return nil
}

// DSN builds the lib/pq style connection string shared by GORM and sql-migrate.
func DSN(config config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	s.Cache.close()

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

// FlushAllCaches empties every configured cache database.
func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cache := range s.Cache.clients() {
		if err := flushCache(ctx, cache.client); err != nil {
			return log.Err("failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Cache database flushed", "cache", cache.name)
	}

	return nil
}

// Ping checks PostgreSQL and the general cache connection. Unconfigured
// connections are skipped.
func (s *DB) Ping(ctx context.Context) error {
	if s.SQL != nil {
		sqlDB, err := s.SQL.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	if s.Cache.General != nil {
		client := s.Cache.General
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			return fmt.Errorf("valkey: %w", err)
		}
	}

	return nil
}
