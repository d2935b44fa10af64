package main

import (
	"log"

	appfx "github.com/amityadav/brandlens/internal/fx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create and run the FX application
	// FX automatically:
	// 1. Resolves all dependencies (like Spring @Autowired)
	// 2. Manages lifecycle (OnStart/OnStop hooks)
	// 3. Handles graceful shutdown on SIGINT/SIGTERM
	app := fx.New(
		appfx.ConfigModule, // Provides: config.Config
		appfx.StoreModule,  // Provides: store.Store
		appfx.TokenModule,  // Provides: *token.Manager
		appfx.AIModule,     // Provides: *ai.Registry
		appfx.ScanModule,   // Provides: *scan.Orchestrator, *sources.TitleFetcher
		appfx.CoreModule,   // Provides: *core.ScanCore
		appfx.WorkerModule, // Provides: *worker.Worker
		appfx.ServerModule, // Starts HTTP server and scan worker

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
