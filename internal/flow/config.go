package flow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/realnvp/internal/nn"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Config describes a RealNVP flow.
//
// Example YAML:
//
//	dim: 2
//	layers: 4
//	hidden: [25, 25]
//	activation: tanh
//	dtype: float32
//	seed: 42
type Config struct {
	Dim        int    `yaml:"dim"`        // Number of features per row
	Layers     int    `yaml:"layers"`     // Number of coupling layers, parities alternate starting with odd
	Hidden     []int  `yaml:"hidden"`     // Hidden layer sizes of every scale/translation MLP
	Activation string `yaml:"activation"` // Hidden activation: tanh or relu
	DType      string `yaml:"dtype"`      // float32 or float64
	Seed       uint64 `yaml:"seed"`       // Seed for parameter initialization
}

// DefaultConfig returns a small two-dimensional flow.
func DefaultConfig() Config {
	return Config{
		Dim:        2,
		Layers:     4,
		Hidden:     []int{25},
		Activation: "tanh",
		DType:      "float32",
		Seed:       42,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Dim < 2 {
		return fmt.Errorf("%w: dim must be at least 2, got %d", ErrInvalidConfig, c.Dim)
	}
	if c.Layers < 1 {
		return fmt.Errorf("%w: layers must be positive, got %d", ErrInvalidConfig, c.Layers)
	}
	for i, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("%w: hidden[%d] must be positive, got %d", ErrInvalidConfig, i, h)
		}
	}
	switch c.Activation {
	case nn.ActivationTanh, nn.ActivationReLU:
	default:
		return fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, c.Activation)
	}
	if _, ok := tensor.ParseDataType(c.DType); !ok {
		return fmt.Errorf("%w: unsupported dtype %q", ErrInvalidConfig, c.DType)
	}
	return nil
}

// DataType returns the parsed element type. Call Validate first.
func (c Config) DataType() tensor.DataType {
	dt, _ := tensor.ParseDataType(c.DType)
	return dt
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
