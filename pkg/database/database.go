package database

import (
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alumnet/alumnet-backend/internal/config"
)

// Open connects to the configured database. Driver errors are translated so
// gorm.ErrDuplicatedKey and gorm.ErrRecordNotFound work on both MySQL and SQLite.
func Open(cfg config.DatabaseConfig, level gormlogger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn, err := mysqldriver.ParseDSN(cfg.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		if dsn.Params == nil {
			dsn.Params = map[string]string{}
		}
		dsn.Params["time_zone"] = "'+00:00'"
		dialector = mysql.Open(dsn.FormatDSN())
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "alumnet.db"
		}
		dialector = sqlite.Open(path + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "mysql" {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	} else {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
