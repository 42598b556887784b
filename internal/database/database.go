// Package database provides database connection and management.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"warbler/internal/config"
	"warbler/internal/middleware"
	"warbler/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the primary database handle used for reads and writes.
var DB *gorm.DB

// readDB points at the read replica when one is configured, otherwise nil.
var readDB *gorm.DB

// CustomGormLogger adapts GORM's logger interface to slog so database
// logs share the same structured output as the rest of the application.
type CustomGormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

// LogMode sets the log level for the logger.
func (l *CustomGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info logs informational messages.
func (l *CustomGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		middleware.Logger.InfoContext(ctx, fmt.Sprintf(msg, data...), slog.String("component", "gorm"))
	}
}

// Warn logs warning messages.
func (l *CustomGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		middleware.Logger.WarnContext(ctx, fmt.Sprintf(msg, data...), slog.String("component", "gorm"))
	}
}

// Error logs error messages.
func (l *CustomGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		middleware.Logger.ErrorContext(ctx, fmt.Sprintf(msg, data...), slog.String("component", "gorm"))
	}
}

// Trace logs SQL queries with execution time, flagging slow queries.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.LogLevel >= gormlogger.Error && err != gorm.ErrRecordNotFound:
		middleware.Logger.ErrorContext(ctx, "database query failed",
			slog.String("component", "gorm"),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		middleware.Logger.WarnContext(ctx, "slow database query",
			slog.String("component", "gorm"),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	case l.LogLevel >= gormlogger.Info:
		middleware.Logger.DebugContext(ctx, "database query",
			slog.String("component", "gorm"),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func newGormConfig(env string) *gorm.Config {
	level := gormlogger.Warn
	if env == "development" {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger: &CustomGormLogger{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      level,
		},
	}
}

func postgresDSN(host, port, user, password, name, sslmode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslmode)
}

func openDialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == "sqlite" {
		name := cfg.DBName
		if name == ":memory:" {
			// Shared cache so every pooled connection sees the same database.
			name = "file::memory:?cache=shared"
		}
		return sqlite.Open(name)
	}
	return postgres.Open(postgresDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode))
}

// Connect establishes the primary database connection, configures the
// connection pool, and runs auto-migration outside of production.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(openDialector(cfg), newGormConfig(cfg.Env))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// SQLite serializes writes; a single connection avoids lock contention.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	DB = db

	if cfg.Env != "production" && cfg.Env != "prod" {
		if err := AutoMigrate(); err != nil {
			return nil, fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	if cfg.DBReadHost != "" && cfg.DBDriver == "postgres" {
		if err := connectReadReplica(cfg); err != nil {
			middleware.Logger.Warn("read replica unavailable, falling back to primary",
				slog.String("error", err.Error()))
		}
	}

	return db, nil
}

func connectReadReplica(cfg *config.Config) error {
	dsn := postgresDSN(cfg.DBReadHost, cfg.DBReadPort, cfg.DBReadUser, cfg.DBReadPassword, cfg.DBName, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), newGormConfig(cfg.Env))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	readDB = db
	middleware.Logger.Info("read replica connected", slog.String("host", cfg.DBReadHost))
	return nil
}

// AutoMigrate creates or updates the schema for all application models.
func AutoMigrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Message{},
		&models.Like{},
	)
}

// GetReadDB returns the read replica handle, or nil when none is
// configured. Callers fall back to their own handle on nil.
func GetReadDB() *gorm.DB {
	return readDB
}

// Close closes all database connections.
func Close() error {
	if readDB != nil {
		if sqlDB, err := readDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
