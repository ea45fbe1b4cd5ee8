package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sampling bounds
const (
	MinInterval = time.Second
	MaxInterval = time.Hour

	MinCapacity = 1
	MaxCapacity = 3600
)

// Duration wraps time.Duration to support YAML unmarshalling from strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}

	d.Duration = parsed

	return nil
}

// Config is the top-level application configuration.
// Listen addresses may be overridden with -grpc-addr and -gateway-addr flags.
type Config struct {
	GRPC     GRPCConfig     `yaml:"grpc"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Sampler  SamplerConfig  `yaml:"sampler"`
	Reporter ReporterConfig `yaml:"reporter"`
}

// GRPCConfig holds the gRPC server host and port.
type GRPCConfig struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Verbose bool   `yaml:"verbose"` // log grpc info lines
}

// GatewayConfig holds the HTTP gateway server settings.
type GatewayConfig struct {
	Host            string   `yaml:"host"`
	Port            string   `yaml:"port"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
}

// SamplerConfig holds the sampling window settings.
type SamplerConfig struct {
	// Interval is the time between two samples.
	Interval Duration `yaml:"interval"`
	// Capacity is the number of samples in the rolling window. Statistics are
	// published once every Capacity samples.
	Capacity int `yaml:"capacity"`
	// Reset makes min/max epoch scoped instead of all-time.
	Reset bool `yaml:"reset"`
	// Poll is the wake-up period of the sampling loop.
	Poll Duration `yaml:"poll"`
	// ReadTimeout bounds one read from the metrics provider.
	ReadTimeout Duration `yaml:"read_timeout"`
}

// ReporterConfig holds console reporter settings. Zero Interval disables it.
type ReporterConfig struct {
	Interval Duration `yaml:"interval"`
}

// Default returns configuration used for values missing from the file.
func Default() Config {
	return Config{
		GRPC: GRPCConfig{
			Host: "0.0.0.0",
			Port: "8000",
		},
		Gateway: GatewayConfig{
			Host:            "0.0.0.0",
			Port:            "8001",
			ShutdownTimeout: Duration{5 * time.Second},
			ReadTimeout:     Duration{5 * time.Second},
			WriteTimeout:    Duration{5 * time.Second},
		},
		Sampler: SamplerConfig{
			Interval:    Duration{5 * time.Second},
			Capacity:    10,
			Poll:        Duration{time.Second},
			ReadTimeout: Duration{3 * time.Second},
		},
	}
}

// Load reads and parses the YAML config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks sampling bounds.
func (c *Config) Validate() error {
	var errs []error

	if iv := c.Sampler.Interval.Duration; iv < MinInterval || iv > MaxInterval {
		errs = append(errs, fmt.Errorf("sampler.interval %s out of range [%s, %s]", iv, MinInterval, MaxInterval))
	}

	if cp := c.Sampler.Capacity; cp < MinCapacity || cp > MaxCapacity {
		errs = append(errs, fmt.Errorf("sampler.capacity %d out of range [%d, %d]", cp, MinCapacity, MaxCapacity))
	}

	if c.Sampler.Poll.Duration <= 0 {
		errs = append(errs, errors.New("sampler.poll must be positive"))
	}

	if c.Sampler.ReadTimeout.Duration <= 0 {
		errs = append(errs, errors.New("sampler.read_timeout must be positive"))
	}

	if c.Reporter.Interval.Duration < 0 {
		errs = append(errs, errors.New("reporter.interval must not be negative"))
	}

	return errors.Join(errs...)
}

// GRPCEndpoint returns host:port of the gRPC server.
func (c *Config) GRPCEndpoint() string {
	return fmt.Sprintf("%s:%s", c.GRPC.Host, c.GRPC.Port)
}

// GatewayEndpoint returns host:port of the HTTP gateway.
func (c *Config) GatewayEndpoint() string {
	return fmt.Sprintf("%s:%s", c.Gateway.Host, c.Gateway.Port)
}
