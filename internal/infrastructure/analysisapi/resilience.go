package analysisapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/infrastructure/resilience"
)

// HTTPStatusError is a non-2xx answer from the analysis service.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func newHTTPStatusError(operation string, resp *http.Response) *HTTPStatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "analysis status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("analysis %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("analysis %s status: %s: %s", e.Operation, e.Status, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool {
	return target == domain.ErrUpstreamStatus
}

// classifyAnalysisError feeds the circuit breaker. Nothing is retryable: a
// submission is a single best-effort request.
func classifyAnalysisError(err error) resilience.Classification {
	if err == nil {
		return resilience.Classification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return resilience.Classification{RecordFailure: statusErr.StatusCode >= 500}
	}
	return resilience.Classification{RecordFailure: true}
}
