/*
PURPOSE:
  Defines the configuration structure and loading logic for tfplayer.
  One Config is built at startup and is read-only afterwards.

REQUIREMENTS:
  User-specified:
  - Model path, input placeholder name and fetch node name are required.
  - GPU and verbose flags default to off.

  Implementation-discovered:
  - Repeated runs against the same model are easier with a YAML file
    holding the model/node names; flags override file values.
  - Backend choice (tensorflow / onnx) and the ONNX Runtime library path
    live here too.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns explicit error if an explicitly named config file is missing or invalid.
  - Missing default files are not an error (defaults are returned).
  - Validate() reports the first missing required field.

IMPLEMENTATION RULES:
  - Config struct tags must support yaml.
  - Validation happens after flag overrides, never inside Load().

USAGE:
  cfg, err := config.Load("tfplayer.yaml")
  err = cfg.Validate()

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new options.
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by the backend option.
const (
	BackendAuto       = "auto"
	BackendTensorFlow = "tensorflow"
	BackendONNX       = "onnx"
)

// ErrMissingField is returned by Validate when a required option is empty.
var ErrMissingField = errors.New("missing required option")

// Config represents the full configuration of a single tfplayer run.
type Config struct {
	Model            string `yaml:"model"`
	Input            string `yaml:"-"`
	Output           string `yaml:"-"` // accepted, not used yet
	InputPlaceholder string `yaml:"input_placeholder"`
	FetchFrom        string `yaml:"fetch_from"`
	ForceGPU         bool   `yaml:"force_gpu"`
	Verbose          bool   `yaml:"verbose"`

	Backend            string `yaml:"backend"`
	ONNXRuntimeLibrary string `yaml:"onnxruntime_library"`
	// Resize is "WxH"; empty keeps the decoded size.
	Resize string `yaml:"resize"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendAuto,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		found := false
		for _, name := range []string{"tfplayer.yaml", "tfplayer.yml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendAuto
	}

	return cfg, nil
}

// Validate checks that every required option is present and that the
// enumerated options hold known values.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.Wrap(ErrMissingField, "-m/--model")
	}
	if c.InputPlaceholder == "" {
		return errors.Wrap(ErrMissingField, "-p/--inputPlaceholderName")
	}
	if c.FetchFrom == "" {
		return errors.Wrap(ErrMissingField, "-r/--fetchFrom")
	}
	if c.Input == "" {
		return errors.Wrap(ErrMissingField, "input path")
	}

	switch c.Backend {
	case BackendAuto, BackendTensorFlow, BackendONNX:
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendAuto, BackendTensorFlow, BackendONNX)
	}

	if _, _, err := c.ResizeDims(); err != nil {
		return err
	}
	return nil
}

// ResizeDims parses the Resize option. Zero dimensions mean no resize.
func (c *Config) ResizeDims() (width, height uint, err error) {
	if c.Resize == "" {
		return 0, 0, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(c.Resize), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resize %q: expected WIDTHxHEIGHT", c.Resize)
	}
	wv, err := strconv.ParseUint(w, 10, 32)
	if err != nil || wv == 0 {
		return 0, 0, fmt.Errorf("invalid resize width in %q", c.Resize)
	}
	hv, err := strconv.ParseUint(h, 10, 32)
	if err != nil || hv == 0 {
		return 0, 0, fmt.Errorf("invalid resize height in %q", c.Resize)
	}
	return uint(wv), uint(hv), nil
}
