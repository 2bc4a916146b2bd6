package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the runtime configuration for the API service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTPAddr    string `env:"HTTP_ADDR"   envDefault:":8080"`

	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"storyweaver"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	Token TokenConfig `envPrefix:"TOKEN_"`
	OTP   OTPConfig   `envPrefix:"OTP_"`
}

// TokenConfig holds JWT signing configuration. Access and refresh tokens use
// distinct secrets.
type TokenConfig struct {
	Issuer           string        `env:"ISSUER"             envDefault:"story-weaver-api"`
	Audience         string        `env:"AUDIENCE"           envDefault:"story-weaver-api"`
	AccessSecret     string        `env:"ACCESS_SECRET"`
	RefreshSecret    string        `env:"REFRESH_SECRET"`
	AccessExpiresIn  time.Duration `env:"ACCESS_EXPIRES_IN"  envDefault:"24h"`
	RefreshExpiresIn time.Duration `env:"REFRESH_EXPIRES_IN" envDefault:"720h"`
}

// OTPConfig holds one-time code issuance and verification parameters.
type OTPConfig struct {
	TTL          time.Duration `env:"TTL"           envDefault:"10m"`
	AttemptLimit int           `env:"ATTEMPT_LIMIT" envDefault:"5"`
	ResetWindow  time.Duration `env:"RESET_WINDOW"  envDefault:"10m"`
}

// New parses and validates the configuration from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) validate() error {
	if c.Token.AccessSecret == "" {
		return fmt.Errorf("missing TOKEN_ACCESS_SECRET environment variable")
	}
	if c.Token.RefreshSecret == "" {
		return fmt.Errorf("missing TOKEN_REFRESH_SECRET environment variable")
	}
	if c.OTP.AttemptLimit <= 0 {
		return fmt.Errorf("OTP_ATTEMPT_LIMIT must be positive")
	}

	return nil
}
