package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/style-sage/internal/config"
	"github.com/kirillkom/style-sage/internal/core/usecase"
	"github.com/kirillkom/style-sage/internal/infrastructure/imaging"
	"github.com/kirillkom/style-sage/internal/infrastructure/queue/nats"
	"github.com/kirillkom/style-sage/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/style-sage/internal/infrastructure/resilience"
	"github.com/kirillkom/style-sage/internal/infrastructure/rules"
	"github.com/kirillkom/style-sage/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/style-sage/internal/observability/metrics"
)

const ServerServiceName = "stylesage-api"

type Server struct {
	Config config.Config

	AnalyzeUC *usecase.AnalyzeStyleUseCase
	Metrics   *metrics.HTTPServerMetrics

	closers []func()
}

// NewServer wires the analysis service. Postgres, NATS and the photo archive
// are enabled only when their settings are present.
func NewServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &Server{Config: cfg}

	catalog, err := rules.LoadCatalog(cfg.StyleRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load style rules: %w", err)
	}

	httpMetrics := metrics.NewHTTPServerMetrics(ServerServiceName)
	effects := usecase.AnalyzeSideEffects{
		Observer: metrics.NewAnalysisMetrics(ServerServiceName, httpMetrics.Registerer()),
	}

	if cfg.StoragePath != "" {
		archive, err := localfs.New(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("init photo archive: %w", err)
		}
		effects.Archive = archive
	}

	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		app.closers = append(app.closers, func() { _ = db.Close() })

		repo := postgres.NewAnalysisRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		effects.Repository = repo
	}

	if cfg.NATSURL != "" {
		publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(natsPolicy(cfg), logger),
			Logger:             logger,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		app.closers = append(app.closers, publisher.Close)
		effects.Publisher = publisher
	}

	app.Metrics = httpMetrics
	app.AnalyzeUC = usecase.NewAnalyzeStyleUseCase(
		imaging.NewAnalyzer(cfg.ImageMaxSize, cfg.PaletteColors),
		rules.NewEngine(catalog),
		effects,
		logger,
	)

	logger.Info("server_bootstrapped",
		"archive", effects.Archive != nil,
		"repository", effects.Repository != nil,
		"publisher", effects.Publisher != nil,
	)
	return app, nil
}

func (a *Server) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func natsPolicy(cfg config.Config) resilience.Policy {
	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = cfg.NATSRetryMaxAttempts
	policy.InitialBackoff = time.Duration(cfg.NATSRetryInitialBackoffMS) * time.Millisecond
	policy.MaxBackoff = time.Duration(cfg.NATSRetryMaxBackoffMS) * time.Millisecond
	return policy
}
