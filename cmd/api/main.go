package main

import (
	"flag"
	"os"

	"booktracker/config"
	"booktracker/handler"
	"booktracker/internal/jsonlog"
	"booktracker/repository"
	"booktracker/repository/postgres"
	"booktracker/service"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	var configPath string
	flag.StringVar(&configPath, "config", "booktracker.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	err = postgres.EnsureSchema(db)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, logger, repo)
	handler := handler.New(cfg, logger, service)

	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
