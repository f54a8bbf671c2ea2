// main.go
package main

import (
	"log"

	"smart-parking/cmd"
	"smart-parking/internal/data/repository"
	"smart-parking/internal/events"
	"smart-parking/internal/wire"
	"smart-parking/pkg/database"
	"smart-parking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)
	defer app.Bus.Close()

	// Log every domain event
	go events.LogEvents(app.Bus.Subscribe(256), logger)

	// Start the pending-booking expiry sweep
	if err := app.Expiry.Start(); err != nil {
		logger.Fatal("Failed to start expiry sweep", zap.Error(err))
	}
	defer app.Expiry.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
