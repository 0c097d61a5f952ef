package ports

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

// AnalysisPayload is the request snapshot sent to the analysis service.
type AnalysisPayload struct {
	Image      domain.SelectedFile
	SurveyJSON string
}

// AnalysisTransport sends one analysis request and decodes the response.
type AnalysisTransport interface {
	Analyze(ctx context.Context, payload AnalysisPayload) (*domain.AnalysisResult, error)
}

// OutcomeSink receives outcome transitions from the submission controller.
type OutcomeSink interface {
	SetOutcome(outcome domain.Outcome)
}

// ImageAnalyzer decodes a photo and derives its color statistics.
type ImageAnalyzer interface {
	Decode(r io.Reader) (image.Image, error)
	Analyze(img image.Image) domain.ImageStats
}

// StyleRecommender turns photo statistics and survey answers into a profile.
type StyleRecommender interface {
	Recommend(stats domain.ImageStats, survey domain.Survey) domain.StyleProfile
}

// AnalysisRepository persists analysis summaries.
type AnalysisRepository interface {
	Create(ctx context.Context, record domain.AnalysisRecord) error
	GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error)
}

// EventPublisher announces completed analyses.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, record domain.AnalysisRecord) error
}

// ObjectStorage stores and opens uploaded photos.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// AnalysisObserver records pipeline metrics.
type AnalysisObserver interface {
	StartAnalysis()
	FinishAnalysis(palette string, duration time.Duration, err error)
	RecordSideEffectFailure(effect string)
}
