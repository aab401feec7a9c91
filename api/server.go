package api

import (
	"fmt"

	"Warbler/api/config"
	"Warbler/api/controllers"
	"Warbler/api/logger"
)

var server = controllers.Server{}

// Run loads configuration from the environment and serves until
// interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, cfg.IsProduction())

	if err := server.Initialize(cfg, log); err != nil {
		return fmt.Errorf("cannot initialize server: %w", err)
	}

	return server.Run(":" + cfg.Server.Port)
}
