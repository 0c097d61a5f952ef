package domain

import "time"

type DominantColor struct {
	RGB        [3]int  `json:"rgb"`
	Hex        string  `json:"hex"`
	Proportion float64 `json:"proportion"`
}

type Rationale struct {
	PaletteMatch string   `json:"palette_match"`
	Occasions    []string `json:"occasions"`
	Goals        []string `json:"goals"`
}

type StyleProfile struct {
	RecommendedStyles []string  `json:"recommended_styles"`
	Why               Rationale `json:"why"`
	FitTips           []string  `json:"fit_tips"`
	StarterCapsule    []string  `json:"starter_capsule"`
}

// AnalysisResult is the analysis service response body.
type AnalysisResult struct {
	DominantColors []DominantColor `json:"dominant_colors"`
	Brightness     float64         `json:"brightness"`
	Saturation     float64         `json:"saturation"`
	PaletteName    string          `json:"palette_name"`
	StyleProfile   StyleProfile    `json:"style_profile"`
}

// ImageStats are the photo-derived half of an AnalysisResult.
type ImageStats struct {
	DominantColors []DominantColor
	Brightness     float64
	Saturation     float64
	PaletteName    string
}

// AnalysisRecord is the persisted summary of a completed analysis. Survey
// answers are intentionally absent.
type AnalysisRecord struct {
	ID                string    `json:"id"`
	PaletteName       string    `json:"palette_name"`
	Brightness        float64   `json:"brightness"`
	Saturation        float64   `json:"saturation"`
	RecommendedStyles []string  `json:"recommended_styles"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewAnalysisRecord(id string, result *AnalysisResult, createdAt time.Time) AnalysisRecord {
	styles := make([]string, len(result.StyleProfile.RecommendedStyles))
	copy(styles, result.StyleProfile.RecommendedStyles)
	return AnalysisRecord{
		ID:                id,
		PaletteName:       result.PaletteName,
		Brightness:        result.Brightness,
		Saturation:        result.Saturation,
		RecommendedStyles: styles,
		CreatedAt:         createdAt,
	}
}
