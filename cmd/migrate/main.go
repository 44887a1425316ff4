package main

import (
	"flag"
	"fmt"
	"os"

	gormlogger "gorm.io/gorm/logger"

	"github.com/alumnet/alumnet-backend/internal/config"
	"github.com/alumnet/alumnet-backend/internal/migration"
	"github.com/alumnet/alumnet-backend/pkg/database"
	pkglogger "github.com/alumnet/alumnet-backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "config file path (default configs/config.<APP_ENV>.yaml)")
	verify := flag.Bool("verify", false, "only check that every table exists")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()
	pkglogger.InitStructured(os.Getenv("APP_ENV"))

	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}

	level := gormlogger.Warn
	if *verbose {
		level = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, level)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to database")
	}

	if *verify {
		missing := 0
		for _, m := range migration.Models() {
			if !db.Migrator().HasTable(m) {
				fmt.Printf("missing table for %T\n", m)
				missing++
			}
		}
		if missing > 0 {
			os.Exit(1)
		}
		fmt.Println("schema OK")
		return
	}

	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
}
