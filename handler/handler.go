// Package handler is the HTTP layer of the books API.
package handler

import (
	"booktracker/config"
	"booktracker/internal/jsonlog"
	"booktracker/service"
)

// Handler defines the handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	service service.Service
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		service: service,
	}
}
