package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type PaletteRule struct {
	Styles   []string `yaml:"styles"`
	ColorTip string   `yaml:"color_tip"`
	Capsule  []string `yaml:"capsule"`
}

type FitTipRules struct {
	BrightnessThreshold float64 `yaml:"brightness_threshold"`
	Dark                string  `yaml:"dark"`
	Light               string  `yaml:"light"`
	SaturationThreshold float64 `yaml:"saturation_threshold"`
	Muted               string  `yaml:"muted"`
	Vivid               string  `yaml:"vivid"`
}

// Catalog maps survey answers and palettes to styles, tips and capsules.
type Catalog struct {
	OccasionKeys   map[string]string      `yaml:"occasion_keys"`
	GoalKeys       map[string]string      `yaml:"goal_keys"`
	Occasions      map[string][]string    `yaml:"occasions"`
	Goals          map[string][]string    `yaml:"goals"`
	DefaultPalette string                 `yaml:"default_palette"`
	Palettes       map[string]PaletteRule `yaml:"palettes"`
	FitTips        FitTipRules            `yaml:"fit_tips"`
	MaxStyles      int                    `yaml:"max_styles"`
}

// LoadCatalog reads the catalog at path, or the built-in catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules catalog %s: %w", path, err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse rules catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Palettes) == 0 {
		return errors.New("rules catalog: palettes are required")
	}
	if _, ok := c.Palettes[c.DefaultPalette]; !ok {
		return fmt.Errorf("rules catalog: default palette %q is not defined", c.DefaultPalette)
	}
	if c.MaxStyles <= 0 {
		return errors.New("rules catalog: max_styles must be positive")
	}
	return nil
}
