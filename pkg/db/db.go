package db

import (
	"github.com/smallbiznis/jielong/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Module provides the gorm database handle.
var Module = fx.Module("db", fx.Provide(Open))

// Open opens the configured database. SQL chatter goes through zap, not
// gorm's default stderr logger.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, err
	}

	log.Info("database opened", zap.String("type", cfg.DBType))
	return conn, nil
}
