// Package service is the server's business layer: validation and error
// mapping between the handlers and the repository.
package service

import (
	"booktracker/config"
	"booktracker/internal/jsonlog"
	"booktracker/repository"
)

type Service interface {
	books
}

// service defines the service layer.
type service struct {
	config config.Config
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service.
func New(cfg config.Config, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		logger: logger,
		repo:   repo,
	}
}
