package main

import (
	"flag"
	"fmt"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/log"

	"github.com/joho/godotenv"
)

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-steps n] up|down|version\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.New(log.Config{Level: cfg.LogLevel, Component: log.ComponentStorage, Output: os.Stdout})

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect database", log.FieldError, err)
		os.Exit(1)
	}
	defer database.Close()

	switch command {
	case "up":
		err = db.MigrateUp(database)
	case "down":
		if *steps < 1 {
			logger.Error("steps must be at least 1", "steps", *steps)
			os.Exit(2)
		}
		err = db.MigrateDown(database, *steps)
	case "version":
		version, dirty, verr := db.MigrationVersion(database)
		if verr == nil {
			logger.Info("schema version", "version", version, "dirty", dirty)
		}
		err = verr
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("migration failed", log.FieldOperation, log.OpMigrate, "command", command, log.FieldError, err)
		os.Exit(1)
	}
	if command != "version" {
		logger.Info("migrations applied", log.FieldOperation, log.OpMigrate, "command", command)
	}
}
