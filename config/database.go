package config

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	gormprometheus "gorm.io/plugin/prometheus"
)

// Dialect picks the gorm dialector for the configured database type.
// DB_URL wins over the individual DB_* settings when present.
func Dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "postgres":
		dsn := cfg.DBURL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := cfg.DBURL
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DBURL
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}

// NowUTC stamps rows in UTC so range queries compare alike on every dialect.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ConnectDB opens the database named by cfg and tunes its pool.
func ConnectDB(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if !cfg.IsProduction() && cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, level),
		TranslateError: true,
		NowFunc:        NowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if cfg.MetricsEnabled {
		if err := db.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          cfg.DBName,
			RefreshInterval: 15,
		})); err != nil {
			log.Warn("gorm metrics disabled", zap.Error(err))
		}
	}

	log.Info("Database connected", zap.String("type", cfg.DBType), zap.String("name", cfg.DBName))
	return db, nil
}
