// Package config loads csscontexts settings from a YAML file, the
// environment and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/css"
	"csscontexts/pkg/diagram"
	"csscontexts/pkg/live"
)

// EnvPrefix prefixes environment overrides: CSSCONTEXTS_LOG_LEVEL=debug.
const EnvPrefix = "CSSCONTEXTS"

// Config is the complete configuration.
type Config struct {
	Classify ClassifyConfig `mapstructure:"classify" yaml:"classify"`
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Live     LiveConfig     `mapstructure:"live" yaml:"live"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Diagram  DiagramConfig  `mapstructure:"diagram" yaml:"diagram"`
}

type ClassifyConfig struct {
	FilterContainingBlock bool `mapstructure:"filter_containing_block" yaml:"filter_containing_block"`
}

type ViewportConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

type LiveConfig struct {
	RemoteURL string        `mapstructure:"remote_url" yaml:"remote_url"`
	Headless  bool          `mapstructure:"headless" yaml:"headless"`
	Stealth   bool          `mapstructure:"stealth" yaml:"stealth"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// DiagramConfig selects the label font. An empty Font searches the
// usual system locations.
type DiagramConfig struct {
	Font     string  `mapstructure:"font" yaml:"font"`
	FontSize float64 `mapstructure:"font_size" yaml:"font_size"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("classify.filter_containing_block", false)
	v.SetDefault("viewport.width", css.DefaultViewport.Width)
	v.SetDefault("viewport.height", css.DefaultViewport.Height)
	v.SetDefault("live.remote_url", "")
	v.SetDefault("live.headless", true)
	v.SetDefault("live.stealth", false)
	v.SetDefault("live.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("output.format", "text")
	v.SetDefault("diagram.font", "")
	v.SetDefault("diagram.font_size", diagram.DefaultFontSize)
}

// Flag names bound by BindFlags to their configuration keys.
var flagKeys = map[string]string{
	"filter-containing-block": "classify.filter_containing_block",
	"viewport-width":          "viewport.width",
	"viewport-height":         "viewport.height",
	"log-level":               "log.level",
	"format":                  "output.format",
	"remote-url":              "live.remote_url",
	"headless":                "live.headless",
	"stealth":                 "live.stealth",
	"timeout":                 "live.timeout",
	"font":                    "diagram.font",
}

// BindFlags binds whichever of the known flags fs defines.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "config: binding --%s", name)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment overrides set
// up, not yet reading any file.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, or when path is empty the first csscontexts.yaml found
// in the working directory or $HOME/.config/csscontexts. A missing default
// file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("csscontexts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "csscontexts"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, "config: reading")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: decoding")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every key at its default,
// ignoring files and the environment.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ConfigError{Field: "viewport", Message: "width and height must be positive"}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: err.Error()}
	}
	switch strings.ToLower(c.Output.Format) {
	case "text", "json", "yaml", "yml":
	default:
		return &ConfigError{Field: "output.format", Message: "must be text, json or yaml"}
	}
	if c.Diagram.FontSize <= 0 {
		return &ConfigError{Field: "diagram.font_size", Message: "must be positive"}
	}
	if c.Live.Timeout <= 0 {
		return &ConfigError{Field: "live.timeout", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// ClassifyOptions returns the classifier options.
func (c *Config) ClassifyOptions() classify.Options {
	return classify.Options{FilterContainingBlock: c.Classify.FilterContainingBlock}
}

// CSSViewport returns the viewport media queries are evaluated against.
func (c *Config) CSSViewport() css.Viewport {
	return css.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// DiagramOptions returns the diagram drawing options.
func (c *Config) DiagramOptions() diagram.Options {
	font := c.Diagram.Font
	if font == "" {
		font = diagram.FindFont()
	}
	return diagram.Options{Font: font, FontSize: c.Diagram.FontSize}
}

// InspectorConfig returns the live inspector configuration.
func (c *Config) InspectorConfig(log logrus.FieldLogger) live.Config {
	return live.Config{
		RemoteURL: c.Live.RemoteURL,
		Headless:  c.Live.Headless,
		Stealth:   c.Live.Stealth,
		Timeout:   c.Live.Timeout,
		Logger:    log,
	}
}

// NewLogger builds the logger described by the configuration.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
