package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/arnavshah/room-scheduler-api/pkg/auth"
	"github.com/arnavshah/room-scheduler-api/pkg/config"
	"github.com/arnavshah/room-scheduler-api/pkg/database"
	"github.com/arnavshah/room-scheduler-api/pkg/handlers"
	"github.com/arnavshah/room-scheduler-api/pkg/logging"
	"github.com/arnavshah/room-scheduler-api/pkg/metrics"
)

func main() {
	// Load .env if it exists
	envFile := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	logger := logging.Setup(cfg.Environment, cfg.LogLevel)
	if envFile != "" {
		logger.Debug().Str("path", envFile).Msg("loaded env file")
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Error().Err(err).Msg("could not create admin user")
	}

	h := handlers.NewHandler(db, cfg, logger, metrics.NewRecorder())
	r := h.NewRouter()

	logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Str("equipment_policy", string(cfg.EquipmentPolicy)).
		Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error().Err(err).Msg("could not run server")
		os.Exit(1)
	}
}
