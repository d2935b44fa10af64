package fx

import (
	"context"
	"log"
	"time"

	"github.com/amityadav/brandlens/internal/ai"
	"github.com/amityadav/brandlens/internal/ai/models"
	"github.com/amityadav/brandlens/internal/config"
	"github.com/amityadav/brandlens/internal/core"
	"github.com/amityadav/brandlens/internal/scan"
	"github.com/amityadav/brandlens/internal/sources"
	"github.com/amityadav/brandlens/internal/store"
	"github.com/amityadav/brandlens/internal/token"
	"github.com/amityadav/brandlens/internal/worker"

	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together (like Spring @Configuration)
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// StoreModule provides database connectivity
var StoreModule = fx.Module("store",
	fx.Provide(NewPostgresStore),
)

// TokenModule provides JWT token management
var TokenModule = fx.Module("token",
	fx.Provide(NewTokenManager),
)

// AIModule provides the answer-provider registry
var AIModule = fx.Module("ai",
	fx.Provide(NewProviderRegistry),
)

// ScanModule provides the scan orchestrator
var ScanModule = fx.Module("scan",
	fx.Provide(
		NewTitleFetcher,
		NewOrchestrator,
	),
)

// CoreModule provides business logic cores
var CoreModule = fx.Module("core",
	fx.Provide(NewScanCore),
)

// WorkerModule provides the daily scan scheduler
var WorkerModule = fx.Module("worker",
	fx.Provide(NewScanWorker),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewPostgresStore creates database connection
func NewPostgresStore(cfg config.Config) (store.Store, error) {
	ctx := context.Background()
	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[FX] PostgresStore initialized")
	return st, nil
}

// NewTokenManager creates JWT token manager
func NewTokenManager(cfg config.Config) *token.Manager {
	tm := token.NewManager(cfg.JWTSecret)
	log.Printf("[FX] TokenManager initialized")
	return tm
}

// NewProviderRegistry builds the registry from whichever provider keys are
// configured. Missing keys skip the provider; at least one must be present.
func NewProviderRegistry(cfg config.Config) (*ai.Registry, error) {
	registry := ai.NewRegistry()
	timeout := time.Duration(cfg.ProviderTimeoutSec) * time.Second

	if cfg.OpenAIAPIKey != "" {
		registry.Register(ai.NewLLMProvider("openai", cfg.OpenAIAPIKey, models.TaskScanOpenAIModel, timeout))
		log.Printf("[FX] ProviderRegistry: OpenAI registered")
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, models.TaskScanGeminiModel)
		if err != nil {
			log.Printf("[FX] ProviderRegistry: Gemini failed: %v", err)
		} else {
			registry.Register(gemini)
			log.Printf("[FX] ProviderRegistry: Gemini registered")
		}
	}

	if cfg.PerplexityAPIKey != "" {
		registry.Register(ai.NewLLMProvider("perplexity", cfg.PerplexityAPIKey, models.TaskScanPerplexityModel, timeout))
		log.Printf("[FX] ProviderRegistry: Perplexity registered")
	}

	if cfg.SerpAPIKey != "" {
		registry.Register(ai.NewAIOverviewProvider(cfg.SerpAPIKey))
		log.Printf("[FX] ProviderRegistry: Google AI Overview registered")
	}

	if cfg.TavilyAPIKey != "" {
		registry.Register(ai.NewTavilyProvider(cfg.TavilyAPIKey))
		log.Printf("[FX] ProviderRegistry: Tavily registered")
	}

	if registry.Count() == 0 {
		log.Fatal("[FX] No answer provider configured. Set OPENAI_API_KEY, GEMINI_API_KEY, PERPLEXITY_API_KEY, SERPAPI_API_KEY or TAVILY_API_KEY")
	}

	log.Printf("[FX] ProviderRegistry initialized with %d providers", registry.Count())
	return registry, nil
}

// NewTitleFetcher creates the source title fetcher (optional, config-gated)
func NewTitleFetcher(cfg config.Config) *sources.TitleFetcher {
	if !cfg.EnrichSourceTitles {
		log.Printf("[FX] TitleFetcher disabled (ENRICH_SOURCE_TITLES not set)")
		return nil
	}
	log.Printf("[FX] TitleFetcher initialized")
	return sources.NewTitleFetcher()
}

// NewOrchestrator creates the scan orchestrator
func NewOrchestrator(registry *ai.Registry, titles *sources.TitleFetcher, cfg config.Config) *scan.Orchestrator {
	timeout := time.Duration(cfg.ProviderTimeoutSec) * time.Second
	o := scan.NewOrchestrator(registry, timeout, titles)
	log.Printf("[FX] Orchestrator initialized (timeout %s)", timeout)
	return o
}

// NewScanCore creates scan business logic
func NewScanCore(o *scan.Orchestrator, st store.Store, cfg config.Config) *core.ScanCore {
	delay := time.Duration(cfg.ScanDelaySec) * time.Second
	c := core.NewScanCore(o, st, delay)
	log.Printf("[FX] ScanCore initialized")
	return c
}

// NewScanWorker creates the daily scan worker
func NewScanWorker(c *core.ScanCore) *worker.Worker {
	w := worker.NewWorker(c)
	log.Printf("[FX] ScanWorker initialized")
	return w
}
