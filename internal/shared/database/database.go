package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"boxoffice/internal/shared/config"
	"boxoffice/pkg/logger"
)

const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
	connectTimeout  = 5 * time.Second
)

// DB bundles the two stores the service runs on: Postgres holds the booking
// ledger, Redis backs rate limiting and read caches.
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client
}

// InitDB opens both stores, runs migrations, and applies the booking
// constraints. A failure in either store is fatal.
func InitDB(cfg *config.Config) (*DB, error) {
	pg, err := openPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres init: %w", err)
	}
	if err := Migrate(pg); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	if err := MigrateConstraints(pg); err != nil {
		return nil, fmt.Errorf("booking constraints: %w", err)
	}

	rdb, err := openRedis(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis init: %w", err)
	}

	return &DB{PostgreSQL: pg, Redis: rdb}, nil
}

func openPostgres(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Silent
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.GetDefault().Info("postgres connected", "database", cfg.Database.Name)
	return db, nil
}

func openRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		PoolSize:     10,
		MinIdleConns: 5,

		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.GetDefault().Info("redis connected", "addr", cfg.Redis.Addr)
	return rdb, nil
}

// Close releases both store connections.
func (db *DB) Close() error {
	var errs []error

	if db.PostgreSQL != nil {
		if sqlDB, err := db.PostgreSQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close postgres: %w", err))
			}
		}
	}
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("closing stores: %v", errs)
	}
	return nil
}

// HealthCheck pings both stores. Used by the /health endpoint.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err != nil {
			return fmt.Errorf("postgres health check: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres ping: %w", err)
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	return nil
}

// GetRedisClient returns the Redis client for the cache and rate limiter.
func (db *DB) GetRedisClient() *redis.Client {
	return db.Redis
}

// GetPostgreSQL returns the GORM handle for repository construction.
func (db *DB) GetPostgreSQL() *gorm.DB {
	return db.PostgreSQL
}
