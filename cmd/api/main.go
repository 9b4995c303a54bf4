package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kerem/campusact/internal/pkg/logger"
	"github.com/kerem/campusact/internal/server"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
