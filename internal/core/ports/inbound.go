package ports

import (
	"context"
	"io"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

// StyleAnalyzer is the inbound contract for the analysis service endpoint.
type StyleAnalyzer interface {
	Analyze(ctx context.Context, filename string, image io.Reader, surveyJSON string) (*domain.AnalysisResult, string, error)
}

// AnalysisReader is the inbound read model for stored analysis summaries.
type AnalysisReader interface {
	GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error)
}
