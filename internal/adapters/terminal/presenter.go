package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

const swatchWidth = 6

// Presenter renders outcomes to a terminal. It never changes state.
type Presenter struct {
	Color           bool
	ExpandRationale bool
	JSON            bool
}

func (p Presenter) Render(w io.Writer, outcome domain.Outcome) error {
	switch outcome.Kind {
	case domain.OutcomeLoading:
		_, err := fmt.Fprintln(w, "Analyzing...")
		return err
	case domain.OutcomeFailure:
		return p.renderFailure(w, outcome.Message)
	case domain.OutcomeSuccess:
		if p.JSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(outcome.Result)
		}
		return p.renderResult(w, outcome.Result)
	default:
		return nil
	}
}

func (p Presenter) renderFailure(w io.Writer, message string) error {
	if p.Color {
		_, err := fmt.Fprintf(w, "\x1b[31mError:\x1b[0m %s\n", message)
		return err
	}
	_, err := fmt.Fprintf(w, "Error: %s\n", message)
	return err
}

func (p Presenter) renderResult(w io.Writer, result *domain.AnalysisResult) error {
	if result == nil {
		return nil
	}
	var b strings.Builder

	b.WriteString("Your Style Profile\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Palette: %s | Brightness: %s | Saturation: %s\n",
		result.PaletteName, formatNumber(result.Brightness), formatNumber(result.Saturation))

	if len(result.DominantColors) > 0 {
		b.WriteString("\n")
		for _, c := range result.DominantColors {
			fmt.Fprintf(&b, "  %s %s (%d%%)\n", p.swatch(c.Hex), c.Hex, int(math.Round(c.Proportion*100)))
		}
	}

	profile := result.StyleProfile
	writeList(&b, "Recommended Styles", profile.RecommendedStyles)
	writeList(&b, "Fit Tips", profile.FitTips)
	writeList(&b, "Starter Capsule", profile.StarterCapsule)

	b.WriteString("\n")
	if p.ExpandRationale {
		b.WriteString("▾ Why these picks?\n")
		raw, err := json.MarshalIndent(profile.Why, "", "  ")
		if err != nil {
			return fmt.Errorf("encode rationale: %w", err)
		}
		b.Write(raw)
		b.WriteString("\n")
	} else {
		b.WriteString("▸ Why these picks? (run with -why to expand)\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

// swatch draws a block in the color given by hex, or a placeholder when color
// output is disabled or hex is not #rrggbb.
func (p Presenter) swatch(hex string) string {
	block := strings.Repeat(" ", swatchWidth)
	r, g, b, ok := parseHex(hex)
	if !p.Color || !ok {
		return "[" + strings.Repeat("■", swatchWidth-2) + "]"
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, block)
}

func parseHex(hex string) (uint8, uint8, uint8, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
