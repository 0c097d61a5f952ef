package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/style-sage/internal/config"
	"github.com/kirillkom/style-sage/internal/core/session"
	"github.com/kirillkom/style-sage/internal/core/usecase"
	"github.com/kirillkom/style-sage/internal/infrastructure/analysisapi"
	"github.com/kirillkom/style-sage/internal/infrastructure/resilience"
)

const ClientServiceName = "stylesage"

type Client struct {
	Config config.Config

	Store      *session.Store
	Controller *usecase.SubmissionController
}

func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := analysisapi.Options{
		Executor: resilience.NewExecutor(analysisPolicy(cfg), logger),
	}
	if cfg.StrictResponse {
		validator, err := analysisapi.NewShapeValidator()
		if err != nil {
			return nil, fmt.Errorf("init response validator: %w", err)
		}
		options.Validator = validator
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = config.DefaultAPIURL
	}
	store := session.NewStore()
	transport := analysisapi.NewWithOptions(apiURL, options)
	timeout := time.Duration(cfg.SubmitTimeoutSeconds) * time.Second

	return &Client{
		Config:     cfg,
		Store:      store,
		Controller: usecase.NewSubmissionController(transport, store, timeout, logger),
	}, nil
}

// analysisPolicy never retries: a submission sends exactly one request.
func analysisPolicy(cfg config.Config) resilience.Policy {
	policy := resilience.SingleAttempt()
	policy.BreakerEnabled = cfg.AnalysisBreakerEnabled
	if cfg.AnalysisBreakerMinRequests > 0 {
		policy.BreakerMinRequests = uint32(cfg.AnalysisBreakerMinRequests)
	}
	policy.BreakerFailureRatio = cfg.AnalysisBreakerFailureRatio
	policy.BreakerOpenTimeout = time.Duration(cfg.AnalysisBreakerOpenTimeoutSecs) * time.Second
	return policy
}
