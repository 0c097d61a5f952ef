package rules

import (
	"sort"
	"strings"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

type Engine struct {
	catalog *Catalog
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

func (e *Engine) Recommend(stats domain.ImageStats, survey domain.Survey) domain.StyleProfile {
	occasions := normalize(survey.PrimaryOccasions, e.catalog.OccasionKeys)
	goals := normalize(survey.StyleGoals, e.catalog.GoalKeys)

	var candidates []string
	if rule, ok := e.catalog.Palettes[stats.PaletteName]; ok {
		candidates = append(candidates, rule.Styles...)
	}
	candidates = append(candidates, mergeUnique(occasions, e.catalog.Occasions)...)
	candidates = append(candidates, mergeUnique(goals, e.catalog.Goals)...)

	palette := e.paletteRule(stats.PaletteName)
	capsule := make([]string, len(palette.Capsule))
	copy(capsule, palette.Capsule)

	return domain.StyleProfile{
		RecommendedStyles: rank(candidates, e.catalog.MaxStyles),
		Why: domain.Rationale{
			PaletteMatch: stats.PaletteName,
			Occasions:    occasions,
			Goals:        goals,
		},
		FitTips:        e.tips(stats, palette, survey.ColorPrefs),
		StarterCapsule: capsule,
	}
}

func (e *Engine) paletteRule(name string) PaletteRule {
	if rule, ok := e.catalog.Palettes[name]; ok {
		return rule
	}
	return e.catalog.Palettes[e.catalog.DefaultPalette]
}

func (e *Engine) tips(stats domain.ImageStats, palette PaletteRule, colorPrefs []string) []string {
	fit := e.catalog.FitTips
	tips := make([]string, 0, 4)
	if stats.Brightness < fit.BrightnessThreshold {
		tips = append(tips, fit.Dark)
	} else {
		tips = append(tips, fit.Light)
	}
	if stats.Saturation < fit.SaturationThreshold {
		tips = append(tips, fit.Muted)
	} else {
		tips = append(tips, fit.Vivid)
	}
	if palette.ColorTip != "" {
		tips = append(tips, palette.ColorTip)
	}
	if len(colorPrefs) > 0 {
		tips = append(tips, "Incorporate your preferred colors: "+strings.Join(colorPrefs, ", ")+".")
	}
	return tips
}

// normalize maps survey labels to catalog keys; unknown labels are lower-cased.
func normalize(labels []string, keys map[string]string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if key, ok := keys[label]; ok {
			label = key
		}
		out = append(out, strings.ToLower(label))
	}
	return out
}

func mergeUnique(keys []string, table map[string][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, key := range keys {
		for _, style := range table[key] {
			if _, ok := seen[style]; ok {
				continue
			}
			seen[style] = struct{}{}
			out = append(out, style)
		}
	}
	return out
}

// rank orders styles by occurrence count, keeping first-seen order on ties.
func rank(candidates []string, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0, len(candidates))
	for _, style := range candidates {
		if counts[style] == 0 {
			order = append(order, style)
		}
		counts[style]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	ranked := order
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
