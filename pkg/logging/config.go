package logging

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ConfigKey is the root configuration key (in Viper) for this module.
var ConfigKey = "logging"

// Config holds the configuration for logging.
type Config struct {
	// Debug forces the debug level and the console encoder, regardless
	// of Level. Use "debug=false, level=debug" for debug logs in JSON.
	Debug bool `mapstructure:"debug"`

	// Level controls the logging level. Defaults to INFO if not set.
	Level Level `mapstructure:"level"`

	// If set, timestamps are serialized in RFC3339Nano format instead
	// of the encoder default.
	EncodeTimeAsRFC3339Nano bool `mapstructure:"encodeTimeAsRFC3339Nano"`
}

// Option is a configuration option for logging.
type Option func(*Config) error

// Validate ensures the logging Config is valid.
func (c *Config) Validate() error {
	if err := c.Level.Validate(); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	return nil
}

// WithViper applies the configuration from Viper under the "logging" key.
func WithViper(v *viper.Viper) Option {
	return WithViperKey(v, ConfigKey)
}

// WithViperKey applies the configuration from Viper under the given key.
func WithViperKey(v *viper.Viper, configKey string) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("nil Viper")
		}
		return v.UnmarshalKey(configKey, c)
	}
}

// WithLevel sets the logging level.
func WithLevel(level Level) Option {
	return func(c *Config) error {
		if err := level.Validate(); err != nil {
			return err
		}
		c.Level = level
		return nil
	}
}

// Apply takes the supplied options and applies them to the configuration.
func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig creates a new logging config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}
