package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/connectors/github"
	"github.com/ternarybob/candle/internal/eodhd"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/services/generator"
	"github.com/ternarybob/candle/internal/services/hints"
	"github.com/ternarybob/candle/internal/services/llm"
	"github.com/ternarybob/candle/internal/services/marketcache"
	"github.com/ternarybob/candle/internal/services/publish"
	"github.com/ternarybob/candle/internal/services/puzzle"
	"github.com/ternarybob/candle/internal/services/schedule"
	"github.com/ternarybob/candle/internal/services/selector"
	"github.com/ternarybob/candle/internal/storage"
)

// App holds the wired services for one process
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager *storage.Manager

	// Market data (cached when [cache] is enabled)
	MarketData  interfaces.MarketDataProvider
	MarketCache *marketcache.Service

	// Text generation
	LLMProvider   *llm.ProviderFactory
	HintGenerator *hints.Generator

	// Pipeline
	Assembler        *puzzle.Assembler
	ScheduleManager  *schedule.Manager
	GeneratorService *generator.Service

	// Publishing, nil when [github] is not configured
	PublishService *publish.Service
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Debug().
		Bool("cache_enabled", app.MarketCache != nil).
		Bool("llm_configured", app.HintGenerator.Configured()).
		Str("llm_provider", string(app.LLMProvider.ProviderType())).
		Bool("publish_enabled", app.PublishService != nil).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices() error {
	cfg := a.Config

	if cfg.EODHD.APIKey == "" {
		a.Logger.Warn().Msg("No EODHD API key configured, market data requests will fail")
	}
	client := eodhd.NewClient(cfg.EODHD.APIKey,
		eodhd.WithBaseURL(cfg.EODHD.BaseURL),
		eodhd.WithTimeout(common.ParseDurationOr(cfg.EODHD.Timeout, 0)),
		eodhd.WithRateLimit(cfg.EODHD.RateLimit),
		eodhd.WithLogger(a.Logger),
	)
	a.MarketData = eodhd.NewProvider(client, cfg.EODHD.Exchange, a.Logger)

	if a.StorageManager.MarketCache != nil {
		a.MarketCache = marketcache.NewService(
			a.MarketData,
			a.StorageManager.MarketCache,
			common.ParseDurationOr(cfg.Cache.TTL, 0),
			a.Logger,
		)
		a.MarketData = a.MarketCache
	}

	a.LLMProvider = llm.NewProviderFactory(cfg, a.Logger)
	a.HintGenerator = hints.NewGenerator(a.LLMProvider, cfg, a.Logger)
	if !a.HintGenerator.Configured() {
		a.Logger.Warn().
			Str("provider", string(a.LLMProvider.ProviderType())).
			Msg("No text generation key configured, using fallback descriptions")
	}

	a.Assembler = puzzle.NewAssembler(a.MarketData, a.HintGenerator, a.Logger)
	a.ScheduleManager = schedule.NewManager(a.StorageManager.Schedule, cfg.Schedule, a.Logger)
	a.GeneratorService = generator.NewService(
		a.ScheduleManager,
		selector.NewSelector(nil, a.Logger),
		a.Assembler,
		a.StorageManager.Puzzles,
		a.StorageManager.Pool,
		cfg.Schedule,
		a.Logger,
	)

	if cfg.GitHub.Configured() {
		connector, err := github.NewConnector(cfg.GitHub, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create github connector: %w", err)
		}
		a.PublishService = publish.NewService(connector, cfg.Paths, cfg.GitHub, a.Logger)
	}

	return nil
}

// Close releases clients and storage
func (a *App) Close() error {
	if a.LLMProvider != nil {
		if err := a.LLMProvider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Debug().Msg("Storage closed")
	}

	return nil
}
