package config

import (
	"context"
	"fmt"
	"time"

	"github.com/SeaCloudHub/rembg/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendRembg   = "rembg"
	BackendComfyUI = "comfyui"
)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local" mod:"trim,lcase"`
	Port         int    `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	Debug        bool   `envconfig:"DEBUG" default:"false"`
	SentryDSN    string `envconfig:"SENTRY_DSN" mod:"trim"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" mod:"trim"`

	// BodyLimit uses echo's size notation (e.g. "25M"). Empty disables the limit.
	BodyLimit string `envconfig:"BODY_LIMIT" mod:"trim,ucase"`

	Remover RemoverConfig `envconfig:"REMOVER"`
	Rembg   RembgConfig   `envconfig:"REMBG"`
	ComfyUI ComfyUIConfig `envconfig:"COMFYUI"`
}

type RemoverConfig struct {
	Backend        string `envconfig:"BACKEND" default:"rembg" mod:"trim,lcase" validate:"oneof=rembg comfyui"`
	MaxInputSize   int    `envconfig:"MAX_INPUT_SIZE" default:"0" validate:"min=0"`
	WarmupSchedule string `envconfig:"WARMUP_SCHEDULE" mod:"trim"`
}

type RembgConfig struct {
	URL          string        `envconfig:"URL" default:"http://localhost:7000" mod:"trim" validate:"required,url"`
	Model        string        `envconfig:"MODEL" default:"u2net" mod:"trim"`
	AlphaMatting bool          `envconfig:"ALPHA_MATTING" default:"false"`
	OnlyMask     bool          `envconfig:"ONLY_MASK" default:"false"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"2m"`
}

type ComfyUIConfig struct {
	URL          string        `envconfig:"URL" default:"http://localhost:8188" mod:"trim" validate:"required,url"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"500ms"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"5m"`
}

func LoadConfig() (*Config, error) {
	// .env is optional, the environment always wins
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.normalize(context.Background()); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize(ctx context.Context) error {
	if err := validation.Conform().Struct(ctx, c); err != nil {
		return fmt.Errorf("conform config: %w", err)
	}

	if err := validation.Validate().StructCtx(ctx, c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}
