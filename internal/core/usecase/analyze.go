package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/ports"
)

// AnalyzeSideEffects are optional; a nil member is skipped.
type AnalyzeSideEffects struct {
	Archive    ports.ObjectStorage
	Repository ports.AnalysisRepository
	Publisher  ports.EventPublisher
	Observer   ports.AnalysisObserver
}

type AnalyzeStyleUseCase struct {
	analyzer    ports.ImageAnalyzer
	recommender ports.StyleRecommender
	effects     AnalyzeSideEffects
	logger      *slog.Logger
	now         func() time.Time
}

func NewAnalyzeStyleUseCase(
	analyzer ports.ImageAnalyzer,
	recommender ports.StyleRecommender,
	effects AnalyzeSideEffects,
	logger *slog.Logger,
) *AnalyzeStyleUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStyleUseCase{
		analyzer:    analyzer,
		recommender: recommender,
		effects:     effects,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Analyze runs the photo and survey through the image analyzer and the rules
// engine. Side-effect failures are logged and never fail the analysis.
func (uc *AnalyzeStyleUseCase) Analyze(
	ctx context.Context,
	filename string,
	body io.Reader,
	surveyJSON string,
) (result *domain.AnalysisResult, id string, err error) {
	start := time.Now()
	if uc.effects.Observer != nil {
		uc.effects.Observer.StartAnalysis()
		defer func() {
			palette := ""
			if result != nil {
				palette = result.PaletteName
			}
			uc.effects.Observer.FinishAnalysis(palette, time.Since(start), err)
		}()
	}

	survey, err := parseSurvey(surveyJSON)
	if err != nil {
		return nil, "", err
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "read image", errors.New("image is empty"))
	}
	img, err := uc.analyzer.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "decode image", err)
	}

	stats := uc.analyzer.Analyze(img)
	result = &domain.AnalysisResult{
		DominantColors: stats.DominantColors,
		Brightness:     stats.Brightness,
		Saturation:     stats.Saturation,
		PaletteName:    stats.PaletteName,
		StyleProfile:   uc.recommender.Recommend(stats, survey),
	}
	id = uuid.NewString()

	uc.runSideEffects(ctx, id, filename, raw, result)
	return result, id, nil
}

func (uc *AnalyzeStyleUseCase) GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	if uc.effects.Repository == nil {
		return nil, domain.WrapError(domain.ErrAnalysisNotFound, "get analysis", errors.New("analysis history is disabled"))
	}
	return uc.effects.Repository.GetByID(ctx, id)
}

func (uc *AnalyzeStyleUseCase) runSideEffects(ctx context.Context, id, filename string, raw []byte, result *domain.AnalysisResult) {
	if uc.effects.Archive != nil {
		key := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
		if err := uc.effects.Archive.Save(ctx, key, bytes.NewReader(raw)); err != nil {
			uc.sideEffectFailed("archive", id, err)
		}
	}

	record := domain.NewAnalysisRecord(id, result, uc.now())
	if uc.effects.Repository != nil {
		if err := uc.effects.Repository.Create(ctx, record); err != nil {
			uc.sideEffectFailed("persist", id, err)
		}
	}
	if uc.effects.Publisher != nil {
		if err := uc.effects.Publisher.PublishAnalysisCompleted(ctx, record); err != nil {
			uc.sideEffectFailed("publish", id, err)
		}
	}
}

func (uc *AnalyzeStyleUseCase) sideEffectFailed(effect, id string, err error) {
	uc.logger.Warn("analysis_side_effect_failed", "effect", effect, "analysis_id", id, "error", err)
	if uc.effects.Observer != nil {
		uc.effects.Observer.RecordSideEffectFailure(effect)
	}
}

func parseSurvey(raw string) (domain.Survey, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.Survey{}, domain.WrapError(domain.ErrInvalidInput, "parse survey_json", errors.New("survey_json is required"))
	}
	var survey domain.Survey
	if err := json.Unmarshal([]byte(raw), &survey); err != nil {
		return domain.Survey{}, domain.WrapError(domain.ErrInvalidInput, "parse survey_json", err)
	}
	return survey, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		return "photo.bin"
	}
	return base
}
