package fx

import (
	"context"
	"log"
	"net/http"

	"github.com/amityadav/brandlens/internal/config"
	"github.com/amityadav/brandlens/internal/core"
	"github.com/amityadav/brandlens/internal/server"
	"github.com/amityadav/brandlens/internal/store"
	"github.com/amityadav/brandlens/internal/token"
	"github.com/amityadav/brandlens/internal/worker"
	"go.uber.org/fx"
)

// ServerModule starts the HTTP server and the scan worker
var ServerModule = fx.Module("server",
	fx.Invoke(
		StartServer,
		StartScanWorker,
	),
)

// ServerParams groups dependencies for starting the HTTP server
type ServerParams struct {
	fx.In
	Lifecycle    fx.Lifecycle
	Store        store.Store
	ScanCore     *core.ScanCore
	TokenManager *token.Manager
	Config       config.Config
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(p ServerParams) {
	services := server.Services{
		Store:        p.Store,
		ScanCore:     p.ScanCore,
		TokenManager: p.TokenManager,
	}
	restHandler := server.CreateRESTHandler(services, p.Config)
	recoveryHandler := server.CreateRecoveryHandler(restHandler)

	srv := &http.Server{Addr: p.Config.HTTPAddr, Handler: recoveryHandler}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on %s", p.Config.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}

// WorkerStartParams for worker injection
type WorkerStartParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Worker    *worker.Worker
}

// StartScanWorker starts the daily scan scheduler
func StartScanWorker(p WorkerStartParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Worker.Start()
			log.Printf("[FX] ScanWorker started (keyword scans: 6 AM IST)")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()
			return nil
		},
	})
}
