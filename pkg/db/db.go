package db

import (
	"github.com/smallbiznis/backinstock/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the service database. Postgres is used whenever a DSN is
// configured; an on-disk sqlite file keeps local development dependency-free.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		conn *gorm.DB
		err  error
	)
	if cfg.DatabaseDSN != "" {
		conn, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	} else {
		conn, err = gorm.Open(sqlite.Open("file:backinstock.db?_fk=1"), gormCfg)
	}
	if err != nil {
		return nil, err
	}

	log.Named("db").Info("database ready",
		zap.Bool("postgres", cfg.DatabaseDSN != ""),
	)
	return conn, nil
}
