package main

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"compass-go/internal/config"
	"compass-go/internal/database"
	"compass-go/internal/handlers"
	logger "compass-go/internal/logging"
	"compass-go/internal/models"
	"compass-go/internal/progress"
	"compass-go/internal/repository"
	"compass-go/internal/router"
)

func main() {
	projectRoot := "."

	// Bootstrap a logger with default rotation; the config can't be read yet.
	bootLog, err := logger.Init(filepath.Join(projectRoot, "logs"), logger.Rotation{})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	// Initialize Configuration
	if err := config.Init(projectRoot, bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Rebuild the logger with the configured directory and rotation limits.
	logCfg := config.Conf.Logging
	log, err := logger.Init(filepath.Join(projectRoot, logCfg.Directory), logger.RotationFrom(logCfg))
	if err != nil {
		bootLog.Fatal("Failed to initialize configured logger", zap.Error(err))
	}
	bootLog.Sync()
	defer log.Sync()

	// Load the classifier lexicon; fall back to the built-in lists when no
	// file is deployed.
	lexPath := filepath.Join(projectRoot, "config", "lexicon.yaml")
	lex, err := models.LoadLexicon(lexPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal("Failed to load lexicon", zap.Error(err))
		}
		log.Warn("No lexicon file found, using built-in word lists", zap.String("path", lexPath))
		lex = models.DefaultLexicon()
	}

	// Initialize Database
	database.Init(log)

	// Wire the handlers
	tracker := progress.NewTracker(repository.ProgressStore{}, log)
	sessionHandler := handlers.NewSessionHandler(log, lex, tracker)
	liveHandler := handlers.NewLiveHandler(log, config.Conf.Server.AllowedOrigins)

	r := router.Setup(log, sessionHandler, liveHandler)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
