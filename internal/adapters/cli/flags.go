package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/session"
	"github.com/kirillkom/style-sage/internal/infrastructure/storage/localfs"
)

const commandName = "stylesage"

type Options struct {
	PhotoPath string
	APIURL    string
	Why       bool
	JSON      bool
	NoColor   bool
	Strict    bool

	// Answers are survey updates in command-line order.
	Answers []session.Action
}

// ParseFlags reads survey answers and output options. Multi-select flags may
// repeat; each occurrence toggles one option, so naming a value twice
// deselects it.
func ParseFlags(args []string, output io.Writer) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet(commandName, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	fs.StringVar(&opts.PhotoPath, "photo", "", "Path to the outfit photo (jpeg, png, gif, webp)")
	fs.StringVar(&opts.APIURL, "api-url", "", "Analysis service base URL (overrides STYLE_SAGE_API_URL)")
	fs.BoolVar(&opts.Why, "why", false, "Expand the rationale behind the recommendations")
	fs.BoolVar(&opts.JSON, "json", false, "Print the analysis result as JSON")
	fs.BoolVar(&opts.NoColor, "no-color", false, "Disable ANSI colors")
	fs.BoolVar(&opts.Strict, "strict", false, "Reject responses that do not match the API contract")

	single := func(name string, field domain.Field, usage string) {
		fs.Func(name, usage+" ("+optionList(field.Options())+")", func(v string) error {
			value, err := canonical(v, field.Options())
			if err != nil {
				return err
			}
			opts.Answers = append(opts.Answers, session.SetField{Field: field, Value: value})
			return nil
		})
	}
	multi := func(name string, field domain.MultiField, usage string) {
		fs.Func(name, usage+", repeatable ("+optionList(field.Options())+")", func(v string) error {
			value, err := canonical(v, field.Options())
			if err != nil {
				return err
			}
			opts.Answers = append(opts.Answers, session.ToggleField{Field: field, Value: value})
			return nil
		})
	}

	single("gender", domain.FieldGender, "Gender")
	single("age", domain.FieldAgeRange, "Age range")
	single("comfort", domain.FieldComfortVsAesthetic, "Comfort vs aesthetic")
	single("budget", domain.FieldBudget, "Budget")
	multi("occasion", domain.FieldPrimaryOccasions, "Primary occasion")
	multi("goal", domain.FieldStyleGoals, "Style goal")
	multi("color", domain.FieldColorPrefs, "Preferred color")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	opts.APIURL = strings.TrimRight(strings.TrimSpace(opts.APIURL), "/")
	return opts, nil
}

// Apply dispatches the parsed answers to the store in order.
func (o Options) Apply(store *session.Store) session.State {
	state := store.State()
	for _, answer := range o.Answers {
		state = store.Dispatch(answer)
	}
	return state
}

// LoadPhoto reads the photo at path. An empty path selects nothing.
func LoadPhoto(ctx context.Context, path string) (*domain.SelectedFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	store, err := localfs.NewReadOnly(dir)
	if err != nil {
		return nil, fmt.Errorf("open photo directory: %w", err)
	}
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("photo is empty")
	}
	return &domain.SelectedFile{
		Name:        name,
		ContentType: contentType(name, data),
		Data:        data,
	}, nil
}

func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

func canonical(value string, options []string) (string, error) {
	value = strings.TrimSpace(value)
	for _, option := range options {
		if strings.EqualFold(option, value) {
			return option, nil
		}
	}
	return "", fmt.Errorf("unknown value %q, expected one of: %s", value, optionList(options))
}

func optionList(options []string) string {
	names := make([]string, 0, len(options))
	for _, option := range options {
		if option == "" {
			names = append(names, `""`)
			continue
		}
		names = append(names, option)
	}
	return strings.Join(names, ", ")
}
