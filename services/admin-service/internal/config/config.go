package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// AdminServiceConfig holds the admin service configuration parsed from
// environment variables.
type AdminServiceConfig struct {
	ServiceName   string `env:"SERVICE_NAME"   envDefault:"admin-service"`
	HTTPAddress   string `env:"HTTP_ADDRESS"   envDefault:":8080"`
	HealthAddress string `env:"HEALTH_ADDRESS" envDefault:":9090"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"admin_management"`

	// VerificationCodeTTL bounds how long an email confirmation code stays
	// redeemable.
	VerificationCodeTTL time.Duration `env:"VERIFICATION_CODE_TTL" envDefault:"24h"`

	// PageSizeMax is the largest page size the paginated admin listing
	// accepts.
	PageSizeMax int64 `env:"PAGE_SIZE_MAX" envDefault:"100"`

	Token TokenConfig

	// ConsulAddress enables service registration when set.
	ConsulAddress string `env:"CONSUL_ADDRESS"`
}

// TokenConfig holds the JWT settings for the admin API surface.
type TokenConfig struct {
	Secret string `env:"TOKEN_SECRET"`
	Issuer string `env:"TOKEN_ISSUER" envDefault:"admin-management-api"`
}

// New creates an AdminServiceConfig instance from environment variables.
func New(logger *zerolog.Logger) *AdminServiceConfig {
	cfg, err := env.ParseAs[AdminServiceConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate admin service configuration")
	}

	return &cfg
}

func (c *AdminServiceConfig) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.VerificationCodeTTL <= 0 {
		return fmt.Errorf("VERIFICATION_CODE_TTL must be positive")
	}
	if c.PageSizeMax <= 0 {
		return fmt.Errorf("PAGE_SIZE_MAX must be positive")
	}

	return nil
}
