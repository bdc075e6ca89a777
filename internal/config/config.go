// Package config loads evaluator settings for the tenh driver from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/tenh/internal/logging"
	"github.com/born-ml/tenh/internal/parallel"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config contains all driver settings.
type Config struct {
	// Parallel controls the fan-out of assignment loops.
	Parallel ParallelConfig `yaml:"parallel"`

	// Logging controls the driver's log output.
	Logging LoggingConfig `yaml:"logging"`

	// OutputDir is where workspace results are written. Empty means next to the
	// problem file.
	OutputDir string `yaml:"output_dir"`
}

// ParallelConfig contains parallel assignment settings.
type ParallelConfig struct {
	Enabled  bool `yaml:"enabled"`
	Workers  int  `yaml:"workers" validate:"gte=0,lte=4096"`
	MinChunk int  `yaml:"min_chunk" validate:"gte=1"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

var validate = validator.New()

// Default returns the default configuration: sequential assignment, info logging.
func Default() Config {
	return Config{
		Parallel: ParallelConfig{
			Enabled:  false,
			Workers:  0,
			MinChunk: 64,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep their
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParallelOptions converts the parallel settings for the evaluator.
// Zero workers means one per CPU.
func (c Config) ParallelOptions() parallel.Config {
	workers := c.Parallel.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return parallel.Config{
		Enabled:      c.Parallel.Enabled,
		NumWorkers:   workers,
		MinChunkSize: c.Parallel.MinChunk,
	}
}

// Logger builds a logger writing to out.
func (c Config) Logger(out io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return logging.New(logging.Config{
		Level:   level,
		JSON:    c.Logging.JSON,
		Output:  out,
		Service: "tenh",
	}), nil
}
