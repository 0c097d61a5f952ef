package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/session"
)

func TestParseFlagsAppliesAnswersInOrder(t *testing.T) {
	opts, err := ParseFlags([]string{
		"-photo", "look.jpg",
		"-gender", "Female",
		"-age", "30s",
		"-occasion", "work",
		"-occasion", "Dates",
		"-occasion", "Work",
		"-goal", "Low maintenance",
		"-color", "navy",
		"-budget", "high",
		"-why",
		"-api-url", "http://styles.local:9000/",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if opts.PhotoPath != "look.jpg" || !opts.Why || opts.JSON {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.APIURL != "http://styles.local:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", opts.APIURL)
	}

	state := opts.Apply(session.NewStore())
	survey := state.Survey
	if survey.Gender != "female" || survey.AgeRange != "30s" || survey.Budget != "high" {
		t.Fatalf("unexpected single answers: %+v", survey)
	}
	if survey.ComfortVsAesthetic != domain.ComfortBalanced {
		t.Fatalf("untouched field must keep its default, got %q", survey.ComfortVsAesthetic)
	}
	if !reflect.DeepEqual(survey.PrimaryOccasions, []string{"Dates"}) {
		t.Fatalf("repeated occasion must toggle off, got %v", survey.PrimaryOccasions)
	}
	if !reflect.DeepEqual(survey.StyleGoals, []string{"Low maintenance"}) || !reflect.DeepEqual(survey.ColorPrefs, []string{"Navy"}) {
		t.Fatalf("unexpected multi answers: %+v", survey)
	}
	if state.Version != uint64(len(opts.Answers)) {
		t.Fatalf("expected one state version per answer, got %d for %d answers", state.Version, len(opts.Answers))
	}
}

func TestParseFlagsRejectsUnknownValues(t *testing.T) {
	cases := map[string][]string{
		"budget":     {"-budget", "luxury"},
		"occasion":   {"-occasion", "Brunch"},
		"comfort":    {"-comfort", ""},
		"positional": {"extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFlags(args, io.Discard); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestParseFlagsAllowsClearingGender(t *testing.T) {
	opts, err := ParseFlags([]string{"-gender", "male", "-gender", ""}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if got := opts.Apply(session.NewStore()).Survey.Gender; got != "" {
		t.Fatalf("expected gender cleared, got %q", got)
	}
}

func TestLoadPhoto(t *testing.T) {
	dir := t.TempDir()
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	named := filepath.Join(dir, "outfit.png")
	if err := os.WriteFile(named, pngHeader, 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	file, err := LoadPhoto(context.Background(), named)
	if err != nil {
		t.Fatalf("LoadPhoto() error = %v", err)
	}
	if file.Name != "outfit.png" || file.ContentType != "image/png" || string(file.Data) != string(pngHeader) {
		t.Fatalf("unexpected file: %+v", file)
	}

	bare := filepath.Join(dir, "outfit")
	if err := os.WriteFile(bare, pngHeader, 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	file, err = LoadPhoto(context.Background(), bare)
	if err != nil {
		t.Fatalf("LoadPhoto() error = %v", err)
	}
	if file.ContentType != "image/png" {
		t.Fatalf("expected sniffed content type, got %q", file.ContentType)
	}
}

func TestLoadPhotoEdgeCases(t *testing.T) {
	file, err := LoadPhoto(context.Background(), "  ")
	if err != nil || file != nil {
		t.Fatalf("empty path must select nothing, got %+v, %v", file, err)
	}

	dir := t.TempDir()
	if _, err := LoadPhoto(context.Background(), filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatalf("expected error for missing photo")
	}

	empty := filepath.Join(dir, "empty.jpg")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	if _, err := LoadPhoto(context.Background(), empty); err == nil {
		t.Fatalf("expected error for empty photo")
	}
}
