package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/arnavshah/room-scheduler-api/pkg/auth"
	"github.com/arnavshah/room-scheduler-api/pkg/config"
	"github.com/arnavshah/room-scheduler-api/pkg/database"
	"github.com/arnavshah/room-scheduler-api/pkg/handlers"
	"github.com/arnavshah/room-scheduler-api/pkg/logging"
	"github.com/arnavshah/room-scheduler-api/pkg/metrics"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	logger := logging.Setup(cfg.Environment, cfg.LogLevel)

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Error().Err(err).Msg("could not create admin user")
	}

	gin.SetMode(gin.ReleaseMode)
	r = handlers.NewHandler(db, cfg, logger, metrics.NewRecorder()).NewRouter()
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
