package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rviscarra/desktop-capture/internal/capture"
	"github.com/rviscarra/desktop-capture/internal/encoders"
	"github.com/rviscarra/desktop-capture/internal/pixfmt"
	"github.com/rviscarra/desktop-capture/internal/rdisplay"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DESKCAP_CODEC=bmp.
const EnvPrefix = "DESKCAP"

// Config is the agent configuration
type Config struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
	Codec          string        `mapstructure:"codec"`
	TargetFormat   string        `mapstructure:"target_format"`
	OutputDir      string        `mapstructure:"output_dir"`
	HTTPPort       string        `mapstructure:"http_port"`
	DatabaseDSN    string        `mapstructure:"database_dsn"`
	Hotkey         bool          `mapstructure:"hotkey"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	PreviewWidth   uint          `mapstructure:"preview_width"`
	PreviewHeight  uint          `mapstructure:"preview_height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("poll_interval", rdisplay.DefaultPollInterval)
	v.SetDefault("acquire_timeout", time.Duration(0))
	v.SetDefault("codec", "png")
	v.SetDefault("target_format", pixfmt.RGB.Name)
	v.SetDefault("output_dir", "captures")
	v.SetDefault("http_port", "9000")
	v.SetDefault("database_dsn", "")
	v.SetDefault("hotkey", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("preview_width", 960)
	v.SetDefault("preview_height", 540)
}

// Load reads configuration from path (optional, any format viper knows) and
// DESKCAP_* environment variables. Without a path, a config.yaml in the
// working directory is used when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that cannot be caught by decoding.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.AcquireTimeout < 0 {
		return fmt.Errorf("acquire_timeout must not be negative, got %v", c.AcquireTimeout)
	}
	if _, err := encoders.ParseCodec(c.Codec); err != nil {
		return err
	}
	if format, err := pixfmt.Lookup(c.TargetFormat); err != nil {
		return err
	} else if format != pixfmt.RGB && format != pixfmt.RGBA {
		return fmt.Errorf("target_format must be rgb or rgba, got %q", c.TargetFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Capture converts the configuration into the pipeline configuration.
func (c Config) Capture(logger *slog.Logger) (capture.Config, error) {
	codec, err := encoders.ParseCodec(c.Codec)
	if err != nil {
		return capture.Config{}, err
	}
	format, err := pixfmt.Lookup(c.TargetFormat)
	if err != nil {
		return capture.Config{}, err
	}
	return capture.Config{
		PollInterval:   c.PollInterval,
		AcquireTimeout: c.AcquireTimeout,
		Codec:          codec,
		TargetFormat:   format,
		Logger:         logger,
	}, nil
}
