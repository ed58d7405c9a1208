package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
)

const (
	DefaultAlgorithm = "bubble"
	DefaultDataDir   = "runs"
	DefaultTheme     = "default"
	DefaultFPS       = 30
)

type Config struct {
	Algorithm string       `yaml:"algorithm" env:"SORTVIZ_ALGORITHM"`
	Speed     int          `yaml:"speed"     env:"SORTVIZ_SPEED"`
	DataDir   string       `yaml:"data_dir"  env:"SORTVIZ_DATA_DIR"`
	Theme     string       `yaml:"theme"     env:"SORTVIZ_THEME"`
	LogFile   string       `yaml:"log_file"  env:"SORTVIZ_LOG_FILE"`
	FPS       int          `yaml:"fps"`
	Values    []float64    `yaml:"values,omitempty"`
	Preset    string       `yaml:"preset,omitempty"`
	Random    RandomConfig `yaml:"random"`
}

// RandomConfig bounds generated datasets. A zero Max uses the algorithm's
// stock range.
type RandomConfig struct {
	MinCount int `yaml:"min_count"`
	MaxCount int `yaml:"max_count"`
	Max      int `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Speed:     driver.DefaultSpeed,
		DataDir:   DefaultDataDir,
		Theme:     DefaultTheme,
		FPS:       DefaultFPS,
		Random: RandomConfig{
			MinCount: input.MinRandomCount,
			MaxCount: input.MaxRandomCount,
		},
	}
}

// Load reads defaults, then the yaml file at path (if any), then SORTVIZ_*
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overwrites fields whose environment variable is set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := algorithms.Lookup(c.Algorithm); err != nil {
		return err
	}
	if c.Speed < driver.MinSpeed || c.Speed > driver.MaxSpeed {
		return fmt.Errorf("speed must be between %d and %d, got %d", driver.MinSpeed, driver.MaxSpeed, c.Speed)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Random.MinCount < 1 || c.Random.MaxCount < c.Random.MinCount {
		return fmt.Errorf("random count range invalid: %d..%d", c.Random.MinCount, c.Random.MaxCount)
	}
	if c.Random.Max < 0 {
		return fmt.Errorf("random max must not be negative, got %d", c.Random.Max)
	}
	if c.Preset != "" && GetPreset(c.Algorithm, c.Preset) == nil {
		return fmt.Errorf("unknown preset %q for %s", c.Preset, c.Algorithm)
	}
	return nil
}

// RandomLimit is the exclusive upper bound for generated values.
func (c *Config) RandomLimit() int {
	if c.Random.Max > 0 {
		return c.Random.Max
	}
	return input.RandomLimit(c.Algorithm)
}
