package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Tool    ToolConfig    `mapstructure:"tool"`
	Preview PreviewConfig `mapstructure:"preview"`
	Server  ServerConfig  `mapstructure:"server"`
	Layer   LayerConfig   `mapstructure:"layer"`
	Log     LogConfig     `mapstructure:"log"`
}

type ToolConfig struct {
	TolerancePixels         float64 `mapstructure:"tolerance_pixels" validate:"gt=0,lte=100"`
	RejectSelfIntersections bool    `mapstructure:"reject_self_intersections"`
}

// PreviewConfig styles the rubber-band overlay. It has no effect on editing.
type PreviewConfig struct {
	Color string  `mapstructure:"color" validate:"required,hexcolor"`
	Width float64 `mapstructure:"width" validate:"gt=0,lte=50"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"min=1,dive,required"`
}

type LayerConfig struct {
	Path     string `mapstructure:"path"`
	ReadOnly bool   `mapstructure:"read_only"`
	Autosave bool   `mapstructure:"autosave"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from file and environment variables. An explicit
// path must exist; otherwise vertexdrag.yaml is looked up in . and ./configs.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("tool.tolerance_pixels", 5.0)
	v.SetDefault("tool.reject_self_intersections", false)
	v.SetDefault("preview.color", "#ff00007f")
	v.SetDefault("preview.width", 2.0)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("layer.path", "")
	v.SetDefault("layer.read_only", false)
	v.SetDefault("layer.autosave", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("vertexdrag")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: VERTEXDRAG_TOOL_TOLERANCE_PIXELS → tool.tolerance_pixels
	v.SetEnvPrefix("VERTEXDRAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are present and sane.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	errs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
}
