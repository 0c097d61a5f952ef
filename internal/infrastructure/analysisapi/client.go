package analysisapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/ports"
	"github.com/kirillkom/style-sage/internal/infrastructure/resilience"
)

const (
	analyzePath = "/analyze"

	// Multipart part names expected by the analysis service.
	ImageField  = "image"
	SurveyField = "survey_json"

	maxResponseBytes = 8 << 20
)

type Options struct {
	HTTPClient *http.Client
	Executor   *resilience.Executor
	// Validator, when set, rejects 2xx bodies that do not match the
	// AnalysisResult schema.
	Validator *ShapeValidator
}

// Client talks to the analysis service. It carries no request timeout of its
// own; deadlines come from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
	validator  *ShapeValidator
}

func New(baseURL string) *Client {
	return NewWithOptions(baseURL, Options{})
}

func NewWithOptions(baseURL string, options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		executor:   options.Executor,
		validator:  options.Validator,
	}
}

func (c *Client) Analyze(ctx context.Context, payload ports.AnalysisPayload) (*domain.AnalysisResult, error) {
	body, contentType, err := encodeMultipart(payload)
	if err != nil {
		return nil, err
	}

	var result *domain.AnalysisResult
	call := func(callCtx context.Context) error {
		decoded, err := c.postMultipart(callCtx, analyzePath, contentType, body)
		if err != nil {
			return err
		}
		result = decoded
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "analysis.analyze", call, classifyAnalysisError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
