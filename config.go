package islandfill

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the file form of Options.
type Config struct {
	Measure string      `yaml:"measure"`
	Normal  *[3]float64 `yaml:"normal,omitempty"`
	// Memoization is on unless explicitly turned off
	Memoize     *bool         `yaml:"memoize,omitempty"`
	Parallel    bool          `yaml:"parallel"`
	MaxDepth    int           `yaml:"maxDepth"`
	Timeout     time.Duration `yaml:"timeout"`
	Trace       bool          `yaml:"trace"`
	TraceColors bool          `yaml:"traceColors"`
}

// LoadConfig loads options from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parsing config YAML")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Measure {
	case "", MeasureAngle, MeasureDihedral:
	default:
		return errors.Errorf("measure must be %q or %q, got %q", MeasureAngle, MeasureDihedral, c.Measure)
	}
	if c.Normal != nil && *c.Normal == [3]float64{} {
		return errors.New("normal must not be zero")
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("maxDepth must not be negative, got %d", c.MaxDepth)
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// Options built from the config, starting from DefaultOptions. Trace output
// goes to traceOut when tracing is on.
func (c *Config) Options(traceOut io.Writer) Options {
	options := DefaultOptions()
	if c.Measure != "" {
		options.Measure = c.Measure
	}
	if c.Normal != nil {
		options.Normal = Point{X: c.Normal[0], Y: c.Normal[1], Z: c.Normal[2]}
	}
	if c.Memoize != nil {
		options.Memoize = *c.Memoize
	}
	options.Parallel = c.Parallel
	options.MaxDepth = c.MaxDepth
	options.Timeout = c.Timeout
	if c.Trace && traceOut != nil {
		options.Trace = traceOut
		options.TraceColors = c.TraceColors
	}
	return options
}
