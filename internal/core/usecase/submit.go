package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/ports"
)

// Submission is the handle for one Submit call.
type Submission struct {
	ID string

	done       chan struct{}
	cancel     context.CancelFunc
	outcome    domain.Outcome
	superseded bool
}

// Done is closed once the submission has settled.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the settled outcome; it is only meaningful after Done.
func (s *Submission) Outcome() domain.Outcome {
	<-s.done
	return s.outcome
}

// Superseded reports whether a newer submission replaced this one before it
// settled. Superseded submissions never write the outcome slot.
func (s *Submission) Superseded() bool {
	<-s.done
	return s.superseded
}

func (s *Submission) Wait(ctx context.Context) (domain.Outcome, error) {
	select {
	case <-s.done:
		return s.outcome, nil
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}
}

// Cancel aborts the in-flight request. The submission settles as a failure.
func (s *Submission) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type SubmissionController struct {
	transport ports.AnalysisTransport
	sink      ports.OutcomeSink
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	current *Submission
}

func NewSubmissionController(
	transport ports.AnalysisTransport,
	sink ports.OutcomeSink,
	timeout time.Duration,
	logger *slog.Logger,
) *SubmissionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionController{
		transport: transport,
		sink:      sink,
		timeout:   timeout,
		logger:    logger,
	}
}

// Submit starts one analysis request for a snapshot of survey and file. The
// outcome slot is Loading (or the validation failure) by the time Submit
// returns. A newer Submit cancels this one.
func (c *SubmissionController) Submit(ctx context.Context, survey domain.Survey, file *domain.SelectedFile) *Submission {
	sub := &Submission{
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}

	if file == nil {
		c.mu.Lock()
		c.replaceCurrentLocked(nil)
		sub.outcome = domain.Failure(domain.MsgNoPhoto)
		c.sink.SetOutcome(sub.outcome)
		close(sub.done)
		c.mu.Unlock()

		c.logger.Info("submission_rejected", "submission_id", sub.ID, "reason", domain.ErrNoPhoto.Error())
		return sub
	}

	runCtx, cancel := context.WithCancel(ctx)
	if c.timeout > 0 {
		runCtx, cancel = withTimeout(runCtx, cancel, c.timeout)
	}
	sub.cancel = cancel

	c.mu.Lock()
	c.replaceCurrentLocked(sub)
	c.sink.SetOutcome(domain.Loading())
	c.mu.Unlock()

	surveyJSON, err := json.Marshal(survey.Clone())
	if err != nil {
		c.settle(sub, domain.Failure(failureMessage(err)), time.Now())
		cancel()
		return sub
	}
	payload := ports.AnalysisPayload{
		Image:      *file,
		SurveyJSON: string(surveyJSON),
	}

	go c.run(runCtx, c.transport, sub, payload)
	return sub
}

func (c *SubmissionController) run(ctx context.Context, transport ports.AnalysisTransport, sub *Submission, payload ports.AnalysisPayload) {
	defer sub.cancel()
	start := time.Now()

	result, err := transport.Analyze(ctx, payload)
	switch {
	case err != nil:
		c.settle(sub, domain.Failure(failureMessage(err)), start)
	case result == nil:
		c.settle(sub, domain.Failure(domain.MsgGenericFailed), start)
	default:
		c.settle(sub, domain.Success(result), start)
	}
}

func (c *SubmissionController) settle(sub *Submission, outcome domain.Outcome, start time.Time) {
	c.mu.Lock()
	sub.outcome = outcome
	if c.current == sub {
		c.current = nil
		c.sink.SetOutcome(outcome)
	} else {
		sub.superseded = true
	}
	close(sub.done)
	c.mu.Unlock()

	attrs := []any{
		"submission_id", sub.ID,
		"outcome", string(outcome.Kind),
		"superseded", sub.superseded,
		"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if outcome.Kind == domain.OutcomeFailure {
		c.logger.Warn("submission_settled", append(attrs, "message", outcome.Message)...)
		return
	}
	c.logger.Info("submission_settled", attrs...)
}

func (c *SubmissionController) replaceCurrentLocked(next *Submission) {
	if prev := c.current; prev != nil && prev.cancel != nil {
		prev.cancel()
	}
	c.current = next
}

func withTimeout(ctx context.Context, cancel context.CancelFunc, timeout time.Duration) (context.Context, context.CancelFunc) {
	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, timeout)
	return timeoutCtx, func() {
		timeoutCancel()
		cancel()
	}
}

func failureMessage(err error) string {
	if err == nil {
		return domain.MsgGenericFailed
	}
	var urlErr *url.Error
	switch {
	case domain.IsKind(err, domain.ErrUpstreamStatus):
		return domain.MsgAPIError
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.As(err, &urlErr) && urlErr.Err != nil:
		return messageOrFallback(urlErr.Err.Error())
	}
	return messageOrFallback(err.Error())
}

func messageOrFallback(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return domain.MsgGenericFailed
	}
	return msg
}
